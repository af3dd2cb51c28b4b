// Package check validates a type catalog, its relation tables and the
// generator configuration once, before any generation begins.
package check

import (
	"fmt"

	"callgen/internal/diag"
	"callgen/internal/relation"
	"callgen/internal/types"
)

// Limits mirrors the generator configuration fields that need validation.
type Limits struct {
	ProgMaxLen   int
	StrMinLen    int
	StrMaxLen    int
	PathMaxDepth int
}

// All runs every validator and returns the collected diagnostics.
func All(cat *types.Catalog, tables map[types.GroupID]*relation.Table, lim Limits) *diag.Bag {
	bag := diag.NewBag(256)
	r := diag.BagReporter{Bag: bag}
	Config(r, lim)
	Catalog(r, cat)
	Relations(r, cat, tables)
	bag.Dedup()
	bag.Sort()
	return bag
}

// Config reports invalid generator bounds.
func Config(r diag.Reporter, lim Limits) {
	if lim.ProgMaxLen < 1 {
		diag.ReportError(r, diag.CfgProgMaxLen, "config", fmt.Sprintf("prog_max_len must be at least 1, got %d", lim.ProgMaxLen))
	}
	if lim.StrMinLen < 0 || lim.StrMaxLen <= lim.StrMinLen {
		diag.ReportError(r, diag.CfgStrLen, "config",
			fmt.Sprintf("string lengths [%d, %d) must be a non-empty interval starting at 0 or above", lim.StrMinLen, lim.StrMaxLen))
	}
	if lim.PathMaxDepth < 1 {
		diag.ReportError(r, diag.CfgPathMaxDepth, "config", fmt.Sprintf("path_max_depth must be at least 1, got %d", lim.PathMaxDepth))
	}
}

func typeSubject(cat *types.Catalog, id types.TypeID) string {
	return fmt.Sprintf("type %q", cat.TypeName(id))
}

// Catalog reports malformed type descriptors.
func Catalog(r diag.Reporter, cat *types.Catalog) {
	if cat == nil {
		diag.ReportError(r, diag.CatInfo, "catalog", "catalog is missing")
		return
	}
	for i := 1; i < cat.Len(); i++ {
		id := types.TypeID(i) //nolint:gosec // bounded by catalog length
		tt, _ := cat.Lookup(id)
		checkType(r, cat, id, tt)
	}
	checkCycles(r, cat)
	for _, g := range cat.Groups() {
		for _, fn := range g.Fns {
			subject := fmt.Sprintf("fn %s.%s", g.Name, fn.Name)
			for _, p := range fn.Params {
				checkRef(r, cat, subject, "parameter "+p.Name, p.Type)
			}
			if fn.Ret != types.NoTypeID {
				checkRef(r, cat, subject, "return type", fn.Ret)
			}
		}
	}
}

func checkRef(r diag.Reporter, cat *types.Catalog, subject, what string, id types.TypeID) {
	tt, ok := cat.Lookup(id)
	if !ok {
		diag.ReportError(r, diag.CatUnknownType, subject, fmt.Sprintf("%s refers to unknown type #%d", what, id))
		return
	}
	if tt.Kind == types.KindInvalid {
		diag.ReportError(r, diag.CatReservedUnresolved, subject, fmt.Sprintf("%s refers to undefined type %q", what, tt.Name))
	}
}

func checkType(r diag.Reporter, cat *types.Catalog, id types.TypeID, tt types.Type) {
	subject := typeSubject(cat, id)
	switch tt.Kind {
	case types.KindInvalid:
		if tt.Name != "" {
			diag.ReportError(r, diag.CatReservedUnresolved, subject, "type is referenced but never defined")
		} else {
			diag.ReportError(r, diag.CatInvalidKind, subject, "type has no kind")
		}
	case types.KindNum:
		checkNum(r, subject, tt.Num)
	case types.KindPtr:
		if tt.Depth != 1 {
			diag.ReportError(r, diag.CatPointerDepth, subject, fmt.Sprintf("pointer depth %d is not supported, only 1", tt.Depth))
		}
		checkRef(r, cat, subject, "pointee", tt.Elem)
	case types.KindSlice:
		checkSlice(r, subject, tt.Low, tt.High)
		checkRef(r, cat, subject, "element", tt.Elem)
	case types.KindStr:
		if tt.Vals != nil && len(tt.Vals) == 0 {
			diag.ReportError(r, diag.CatEmptyValueSet, subject, "fixed string value set is empty")
		}
	case types.KindStruct:
		for _, f := range tt.Fields {
			checkRef(r, cat, subject, "field "+f.Name, f.Type)
		}
	case types.KindUnion:
		if len(tt.Fields) == 0 {
			diag.ReportError(r, diag.CatEmptyUnion, subject, "union needs at least one field")
		}
		for _, f := range tt.Fields {
			checkRef(r, cat, subject, "field "+f.Name, f.Type)
		}
	case types.KindFlag:
		if len(tt.Flags) == 0 {
			diag.ReportError(r, diag.CatEmptyFlags, subject, "flag type needs at least one value")
		}
	case types.KindAlias, types.KindRes:
		checkRef(r, cat, subject, "underlying type", tt.Elem)
	case types.KindLen:
		// sized downstream; the target may be NoTypeID when it is a path only
	default:
		diag.ReportError(r, diag.CatInvalidKind, subject, fmt.Sprintf("unknown kind %v", tt.Kind))
	}
}

func checkNum(r diag.Reporter, subject string, n types.NumInfo) {
	if !n.Width.Valid() {
		diag.ReportError(r, diag.CatInvalidWidth, subject, fmt.Sprintf("width %d is not one of 8, 16, 32, 64 or size", n.Width))
		return
	}
	switch n.Limit.Kind {
	case types.LimitNone:
	case types.LimitVals:
		if len(n.Limit.Vals) == 0 {
			diag.ReportError(r, diag.CatEmptyValueSet, subject, "enumerated value set is empty")
		}
		for _, v := range n.Limit.Vals {
			if !n.Fits(v) {
				diag.ReportError(r, diag.CatValueOutOfWidth, subject, fmt.Sprintf("value %s does not fit", formatBits(n, v)))
			}
		}
	case types.LimitRange:
		if n.RangeEmpty() {
			diag.ReportError(r, diag.CatEmptyRange, subject,
				fmt.Sprintf("range [%s, %s) is empty", formatBits(n, n.Limit.Start), formatBits(n, n.Limit.End)))
		}
		if !n.Fits(n.Limit.Start) {
			diag.ReportError(r, diag.CatValueOutOfWidth, subject, fmt.Sprintf("range start %s does not fit", formatBits(n, n.Limit.Start)))
		}
		// End is exclusive and may sit one past the maximum.
		if !n.Fits(n.Limit.End-1) {
			diag.ReportError(r, diag.CatValueOutOfWidth, subject, fmt.Sprintf("range end %s does not fit", formatBits(n, n.Limit.End)))
		}
	default:
		diag.ReportError(r, diag.CatInvalidKind, subject, fmt.Sprintf("unknown limit %v", n.Limit.Kind))
	}
}

func formatBits(n types.NumInfo, v uint64) string {
	if n.Signed {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%d", v)
}

func checkSlice(r diag.Reporter, subject string, low, high int) {
	const unb = types.SliceUnbounded
	switch {
	case low == unb && high == unb:
	case high == unb:
		if low <= 0 {
			diag.ReportError(r, diag.CatSliceBounds, subject, fmt.Sprintf("upper length bound %d must be positive", low))
		}
	case low == unb:
		if high <= 0 {
			diag.ReportError(r, diag.CatSliceBounds, subject, fmt.Sprintf("length bound %d must be positive", high))
		}
	default:
		if low < 0 || high <= low {
			diag.ReportError(r, diag.CatSliceBounds, subject, fmt.Sprintf("length interval [%d, %d) is empty", low, high))
		}
	}
}
