package gen

import "callgen/internal/check"

// Config bounds generation. Every field is required.
type Config struct {
	ProgMaxLen   int // soft cap on plan and program length
	StrMinLen    int // inclusive lower bound on string lengths
	StrMaxLen    int // exclusive upper bound on string lengths
	PathMaxDepth int // maximum number of segments of path-like strings
}

func (c Config) limits() check.Limits {
	return check.Limits{
		ProgMaxLen:   c.ProgMaxLen,
		StrMinLen:    c.StrMinLen,
		StrMaxLen:    c.StrMaxLen,
		PathMaxDepth: c.PathMaxDepth,
	}
}
