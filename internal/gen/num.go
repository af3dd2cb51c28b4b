package gen

import (
	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/types"
)

// genNum draws a number under its constraint and normalizes it to 64 bits.
// Ranges use wrapping arithmetic on the stored bit patterns, which gives
// the right span for both signednesses.
func genNum(n types.NumInfo, r rng.Source) prog.Value {
	var bits uint64
	switch n.Limit.Kind {
	case types.LimitVals:
		bits = rng.Pick(r, n.Limit.Vals)
	case types.LimitRange:
		bits = n.Limit.Start + r.Uint64N(n.Limit.End-n.Limit.Start)
	default:
		bits = r.Uint64() & n.Mask()
	}
	if n.Signed {
		return prog.Num(prog.Signed64(n.SignExtend(bits)))
	}
	return prog.Num(prog.Unsigned64(bits))
}
