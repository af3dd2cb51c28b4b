package gen

import (
	"fmt"

	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/types"
)

// value synthesizes a value of tid.
func (s *state) value(tid types.TypeID) prog.Value {
	tt := s.cat.TypeOf(tid)
	switch tt.Kind {
	case types.KindNum:
		return genNum(tt.Num, s.r)
	case types.KindPtr:
		if tt.Depth != 1 {
			panic(fmt.Sprintf("gen: pointer depth %d of type %d", tt.Depth, tid))
		}
		return s.ptr(tt.Dir, tt.Elem)
	case types.KindSlice:
		return s.slice(tt.Elem, tt.Low, tt.High)
	case types.KindStr:
		return prog.Str(s.str(tt.Str, tt.Vals))
	case types.KindStruct:
		elems := make([]prog.Value, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			elems = append(elems, s.value(f.Type))
		}
		return prog.Group(elems)
	case types.KindUnion:
		if len(tt.Fields) == 0 {
			panic(fmt.Sprintf("gen: union %d without fields", tid))
		}
		i := s.r.Intn(len(tt.Fields))
		return prog.Choice(i, s.value(tt.Fields[i].Type))
	case types.KindFlag:
		return genFlag(tt.Flags, s.r)
	case types.KindAlias:
		if s.cat.IsResource(tid) {
			if idx, ok := s.res.pick(tid, s.r); ok {
				return prog.Ref(idx)
			}
		}
		return s.value(tt.Elem)
	case types.KindRes:
		if idx, ok := s.res.pick(tid, s.r); ok {
			return prog.Ref(idx)
		}
		return s.value(tt.Elem)
	case types.KindLen:
		return prog.Num(prog.Unsigned64(0))
	default:
		panic(fmt.Sprintf("gen: unhandled kind %v of type %d", tt.Kind, tid))
	}
}

// ptr fills out-pointers with a default value; the callee writes them, and
// a resource pointee makes this slot a producer.
func (s *state) ptr(dir types.PtrDir, elem types.TypeID) prog.Value {
	if dir != types.DirIn {
		if s.cat.IsResource(elem) {
			s.recordRes(elem)
		}
		return prog.Default(elem, s.cat)
	}
	return s.value(elem)
}

func (s *state) slice(elem types.TypeID, low, high int) prog.Value {
	n := sliceLen(low, high, s.r)
	elems := make([]prog.Value, 0, n)
	for range n {
		elems = append(elems, s.value(elem))
	}
	return prog.Group(elems)
}

func sliceLen(low, high int, r rng.Source) int {
	const unb = types.SliceUnbounded
	switch {
	case low == unb && high == unb:
		return r.Intn(8)
	case high == unb:
		return r.Intn(low)
	case low == unb:
		return r.Intn(high)
	default:
		return rng.Between(r, low, high)
	}
}
