package gen

import (
	"os"
	"strings"
	"unicode/utf8"

	"callgen/internal/rng"
	"callgen/internal/types"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	pReusePath   = 0.5
	pPathDescend = 0.6

	surrogateLo = 0xD800
	surrogateN  = 0x800
	runeSpan    = utf8.MaxRune + 1 - surrogateN
)

func (s *state) str(kind types.StrKind, vals []string) string {
	if len(vals) > 0 {
		return rng.Pick(s.r, vals)
	}
	switch kind {
	case types.StrCText:
		return s.alnum(s.strLen())
	case types.StrPath:
		return s.path()
	default:
		return s.text(s.strLen())
	}
}

func (s *state) strLen() int {
	return rng.Between(s.r, s.conf.StrMinLen, s.conf.StrMaxLen)
}

// text returns n Unicode scalar values, surrogates excluded.
func (s *state) text(n int) string {
	var sb strings.Builder
	sb.Grow(n * 2)
	for range n {
		v := rune(s.r.Uint64N(runeSpan)) //nolint:gosec // below utf8.MaxRune
		if v >= surrogateLo {
			v += surrogateN
		}
		sb.WriteRune(v)
	}
	return sb.String()
}

func (s *state) alnum(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanumeric[s.r.Intn(len(alphanumeric))]
	}
	return string(buf)
}

// path reuses a pooled path half of the time; otherwise it grows a new one
// from "." segment by segment and pools it.
func (s *state) path() string {
	if pool := s.strs[types.StrPath]; len(pool) > 0 && rng.Chance(s.r, pReusePath) {
		return rng.Pick(s.r, pool)
	}
	for _, root := range []string{".", string(os.PathSeparator)} {
		segs := []string{s.alnum(s.strLen())}
		for len(segs) < s.conf.PathMaxDepth && rng.Chance(s.r, pPathDescend) {
			segs = append(segs, s.alnum(s.strLen()))
		}
		if p, ok := materialize(root, segs); ok {
			s.recordStr(types.StrPath, p)
			return p
		}
	}
	panic("gen: path not representable from any root")
}

// materialize joins segments under root with the platform separator,
// keeping a leading "./".
func materialize(root string, segs []string) (string, bool) {
	sep := string(os.PathSeparator)
	var sb strings.Builder
	sb.WriteString(root)
	for _, seg := range segs {
		if !strings.HasSuffix(sb.String(), sep) {
			sb.WriteString(sep)
		}
		sb.WriteString(seg)
	}
	p := sb.String()
	return p, utf8.ValidString(p)
}
