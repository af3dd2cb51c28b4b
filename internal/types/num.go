package types

import (
	"fmt"
	"math"
)

// Width captures the precision of integers.
type Width uint8

const (
	WidthSize Width = 0 // pointer-sized (usize/isize), 64 bits here
	Width8    Width = 8
	Width16   Width = 16
	Width32   Width = 32
	Width64   Width = 64
)

// Bits returns the number of value bits of w.
func (w Width) Bits() uint {
	if w == WidthSize {
		return 64
	}
	return uint(w)
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	switch w {
	case WidthSize, Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// LimitKind selects how a number is constrained.
type LimitKind uint8

const (
	LimitNone  LimitKind = iota // full range of the width
	LimitVals                   // enumerated set
	LimitRange                  // half-open [Start, End)
)

func (k LimitKind) String() string {
	switch k {
	case LimitNone:
		return "none"
	case LimitVals:
		return "vals"
	case LimitRange:
		return "range"
	default:
		return fmt.Sprintf("LimitKind(%d)", k)
	}
}

// NumLimit is the constraint of a number type. Values are stored as 64-bit
// two's-complement bit patterns, so signed and unsigned widths share one
// representation.
type NumLimit struct {
	Kind  LimitKind
	Vals  []uint64
	Start uint64
	End   uint64
}

// NoLimit leaves the number unconstrained.
func NoLimit() NumLimit { return NumLimit{} }

// Vals constrains a number to a set of signed values.
func Vals(vals ...int64) NumLimit {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = uint64(v)
	}
	return NumLimit{Kind: LimitVals, Vals: out}
}

// UVals constrains a number to a set of unsigned values.
func UVals(vals ...uint64) NumLimit {
	out := make([]uint64, len(vals))
	copy(out, vals)
	return NumLimit{Kind: LimitVals, Vals: out}
}

// Range constrains a number to the signed interval [start, end).
func Range(start, end int64) NumLimit {
	return NumLimit{Kind: LimitRange, Start: uint64(start), End: uint64(end)}
}

// URange constrains a number to the unsigned interval [start, end).
func URange(start, end uint64) NumLimit {
	return NumLimit{Kind: LimitRange, Start: start, End: end}
}

// NumInfo describes a number type.
type NumInfo struct {
	Width  Width
	Signed bool
	Limit  NumLimit
}

// Fits reports whether the bit pattern v is representable in the number's
// width and signedness.
func (n NumInfo) Fits(v uint64) bool {
	bits := n.Width.Bits()
	if bits == 64 {
		return true
	}
	if n.Signed {
		s := int64(v)
		lo := -(int64(1) << (bits - 1))
		hi := int64(1)<<(bits-1) - 1
		return s >= lo && s <= hi
	}
	return v <= uint64(1)<<bits-1
}

// RangeEmpty reports whether a LimitRange constraint admits no value.
func (n NumInfo) RangeEmpty() bool {
	if n.Signed {
		return int64(n.Limit.End) <= int64(n.Limit.Start)
	}
	return n.Limit.End <= n.Limit.Start
}

// Mask returns the value mask of the number's width.
func (n NumInfo) Mask() uint64 {
	bits := n.Width.Bits()
	if bits == 64 {
		return math.MaxUint64
	}
	return uint64(1)<<bits - 1
}

// SignExtend interprets the low bits of v as a signed value of the width.
func (n NumInfo) SignExtend(v uint64) int64 {
	switch n.Width.Bits() {
	case 8:
		return int64(int8(v))
	case 16:
		return int64(int16(v))
	case 32:
		return int64(int32(v))
	default:
		return int64(v)
	}
}
