package gen

import (
	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/types"
)

// resIndex maps a resource type to the argument slots known to hold a
// value of it. Lists are created on first insert, so every stored list is
// non-empty.
type resIndex struct {
	m map[types.TypeID][]prog.ArgIndex
}

func (ri *resIndex) add(tid types.TypeID, idx prog.ArgIndex) {
	if ri.m == nil {
		ri.m = make(map[types.TypeID][]prog.ArgIndex)
	}
	ri.m[tid] = append(ri.m[tid], idx)
}

// pick returns a uniformly chosen producer of tid.
func (ri *resIndex) pick(tid types.TypeID, r rng.Source) (prog.ArgIndex, bool) {
	list, ok := ri.m[tid]
	if !ok {
		return prog.ArgIndex{}, false
	}
	return rng.Pick(r, list), true
}

func (ri *resIndex) producers(tid types.TypeID) []prog.ArgIndex {
	return append([]prog.ArgIndex(nil), ri.m[tid]...)
}

type pendingRes struct {
	tid types.TypeID
	idx prog.ArgIndex
}

// state is the invocation-scoped generation state.
type state struct {
	cat  Catalog
	conf *Config
	r    rng.Source

	res  resIndex
	strs map[types.StrKind][]string
	prog *prog.Prog

	call int // position of the call being built
	argi int // argument slot being built

	// Producers found while building the current call. They join res once
	// the call is complete, so no call can reference itself.
	pending []pendingRes
}

func newState(cat Catalog, conf *Config, p *prog.Prog, r rng.Source) *state {
	return &state{
		cat:  cat,
		conf: conf,
		r:    r,
		strs: map[types.StrKind][]string{types.StrPath: nil},
		prog: p,
	}
}

// recordRes notes that the current argument slot produces a tid value.
func (s *state) recordRes(tid types.TypeID) {
	s.pending = append(s.pending, pendingRes{tid: tid, idx: prog.ArgIndex{Call: s.call, Arg: s.argi}})
}

func (s *state) commitRes() {
	for _, p := range s.pending {
		s.res.add(p.tid, p.idx)
	}
	s.pending = s.pending[:0]
}

func (s *state) recordStr(kind types.StrKind, val string) {
	s.strs[kind] = append(s.strs[kind], val)
}
