package testkit

import "callgen/internal/types"

// Bounded reports whether generating any value of cat stays small: no type
// reaches itself through any edge and no slice may exceed maxSlice elements.
func Bounded(cat *types.Catalog, maxSlice int) bool {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, cat.Len())
	var visit func(id types.TypeID) bool
	visit = func(id types.TypeID) bool {
		tt, ok := cat.Lookup(id)
		if !ok {
			return true
		}
		switch color[id] {
		case grey:
			return false
		case black:
			return true
		}
		color[id] = grey
		if tt.Kind == types.KindSlice && (tt.High > maxSlice || tt.Low > maxSlice) {
			return false
		}
		for _, next := range edges(tt) {
			if !visit(next) {
				return false
			}
		}
		color[id] = black
		return true
	}
	for i := 1; i < cat.Len(); i++ {
		if !visit(types.TypeID(i)) { //nolint:gosec // bounded by catalog length
			return false
		}
	}
	return true
}

func edges(tt types.Type) []types.TypeID {
	switch tt.Kind {
	case types.KindPtr, types.KindSlice, types.KindAlias, types.KindRes:
		return []types.TypeID{tt.Elem}
	case types.KindStruct, types.KindUnion:
		out := make([]types.TypeID, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			out = append(out, f.Type)
		}
		return out
	default:
		return nil
	}
}
