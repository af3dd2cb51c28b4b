package gen

import (
	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/types"
)

const pRawFlag = 0.2

// genFlag combines declared flag values. One draw in five ignores them and
// emits a raw 32-bit value. Otherwise picked values are intersected while a
// fair coin keeps succeeding.
//
// TODO: confirm whether combining with AND rather than OR is intended
// before changing it; tests pin the current probability structure.
func genFlag(flags []types.Flag, r rng.Source) prog.Value {
	if len(flags) == 0 {
		panic("gen: flag type without values")
	}
	if r.Float64() >= 1-pRawFlag {
		return prog.Num(prog.Signed64(int64(int32(uint32(r.Uint64())))))
	}
	val := rng.Pick(r, flags).Value
	for rng.Coin(r) {
		val &= rng.Pick(r, flags).Value
	}
	return prog.Num(prog.Signed64(val))
}
