package check

import (
	"fmt"

	"callgen/internal/diag"
	"callgen/internal/types"
)

// mandatoryEdges lists the types a value of tt always contains. Slices and
// multi-field unions can stop recursion, so they contribute no edge.
func mandatoryEdges(tt types.Type) []types.TypeID {
	switch tt.Kind {
	case types.KindStruct:
		out := make([]types.TypeID, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			out = append(out, f.Type)
		}
		return out
	case types.KindUnion:
		if len(tt.Fields) == 1 {
			return []types.TypeID{tt.Fields[0].Type}
		}
	case types.KindAlias, types.KindRes:
		return []types.TypeID{tt.Elem}
	case types.KindPtr:
		if tt.Dir == types.DirIn {
			return []types.TypeID{tt.Elem}
		}
	}
	return nil
}

// checkCycles reports types whose synthesis would never terminate.
func checkCycles(r diag.Reporter, cat *types.Catalog) {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, cat.Len())
	var visit func(id types.TypeID) bool
	visit = func(id types.TypeID) bool {
		if int(id) >= len(color) {
			return false
		}
		switch color[id] {
		case grey:
			return true
		case black:
			return false
		}
		color[id] = grey
		tt, _ := cat.Lookup(id)
		for _, next := range mandatoryEdges(tt) {
			if visit(next) {
				color[id] = black
				diag.ReportError(r, diag.CatRecursiveType, typeSubject(cat, id),
					fmt.Sprintf("type always contains itself through %q", cat.TypeName(next)))
				return false
			}
		}
		color[id] = black
		return false
	}
	for i := 1; i < cat.Len(); i++ {
		visit(types.TypeID(i)) //nolint:gosec // bounded by catalog length
	}
}
