package check

import (
	"testing"

	"callgen/internal/diag"
	"callgen/internal/relation"
	"callgen/internal/types"
)

var goodLimits = Limits{ProgMaxLen: 5, StrMinLen: 2, StrMaxLen: 4, PathMaxDepth: 2}

func codes(bag *diag.Bag) map[diag.Code]int {
	out := make(map[diag.Code]int)
	for _, d := range bag.Items() {
		out[d.Code]++
	}
	return out
}

func fsCatalog() (*types.Catalog, map[types.GroupID]*relation.Table) {
	c := types.NewCatalog()
	i32 := c.Add(types.MakeNum(types.Width32, true, types.NoLimit()).Named("i32"))
	fd := c.Add(types.MakeRes(i32).Named("fd"))
	path := c.Add(types.MakeStr(types.StrPath).Named("path"))
	gid := c.AddGroup("fs", []types.FnInfo{
		{Name: "open", Params: []types.Param{{Name: "path", Type: path}}, Ret: fd},
		{Name: "read", Params: []types.Param{{Name: "fd", Type: fd}}},
	})
	tbl := relation.New(2)
	tbl.Set(1, 0, relation.Possible)
	return c, map[types.GroupID]*relation.Table{gid: tbl}
}

func TestWellFormedInputHasNoDiagnostics(t *testing.T) {
	cat, tables := fsCatalog()
	bag := All(cat, tables, goodLimits)
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", bag.Items())
	}
}

func TestEmptyTablesReported(t *testing.T) {
	cat, _ := fsCatalog()
	bag := All(cat, nil, goodLimits)
	if codes(bag)[diag.RelNoGroups] != 1 {
		t.Fatalf("expected RelNoGroups, got %v", bag.Items())
	}
}

func TestCatalogViolationsReportedTogether(t *testing.T) {
	c := types.NewCatalog()
	u8 := c.Add(types.MakeNum(types.Width8, false, types.UVals(1, 300)))
	deep := types.MakePtr(types.DirIn, u8)
	deep.Depth = 2
	c.Add(deep)
	c.Add(types.MakeFlag())
	c.Add(types.MakeUnion())
	c.Add(types.MakeNum(types.Width16, true, types.Range(5, 5)))
	c.Add(types.MakeSlice(u8, 4, 2))
	c.Add(types.MakeAlias(types.TypeID(99)))
	c.Reserve("ghost")

	got := codes(All(c, nil, goodLimits))
	for _, code := range []diag.Code{
		diag.CatValueOutOfWidth,
		diag.CatPointerDepth,
		diag.CatEmptyFlags,
		diag.CatEmptyUnion,
		diag.CatEmptyRange,
		diag.CatSliceBounds,
		diag.CatUnknownType,
		diag.CatReservedUnresolved,
		diag.RelNoGroups,
	} {
		if got[code] == 0 {
			t.Fatalf("expected %s to be reported, got %v", code.ID(), got)
		}
	}
}

func TestRecursiveStructReported(t *testing.T) {
	c := types.NewCatalog()
	node := c.Reserve("node")
	c.Define(node, types.MakeStruct(types.Field{Name: "next", Type: node}))
	list := c.Reserve("list")
	u8 := c.Add(types.MakeNum(types.Width8, false, types.NoLimit()))
	c.Define(list, types.MakeStruct(
		types.Field{Name: "v", Type: u8},
		types.Field{Name: "tail", Type: c.Add(types.MakeSlice(list, types.SliceUnbounded, types.SliceUnbounded))},
	))

	bag := diag.NewBag(16)
	Catalog(diag.BagReporter{Bag: bag}, c)
	got := codes(bag)
	if got[diag.CatRecursiveType] != 1 {
		t.Fatalf("expected exactly one recursion diagnostic, got %v", bag.Items())
	}
}

func TestRelationShapeMismatch(t *testing.T) {
	cat, tables := fsCatalog()
	for id := range tables {
		tables[id] = relation.New(3)
	}
	tables[types.GroupID(7)] = relation.New(1)
	got := codes(All(cat, tables, goodLimits))
	if got[diag.RelShape] != 1 || got[diag.RelUnknownGroup] != 1 {
		t.Fatalf("expected shape and unknown-group diagnostics, got %v", got)
	}
}

func TestConfigBounds(t *testing.T) {
	tests := []struct {
		name string
		lim  Limits
		code diag.Code
	}{
		{"zero budget", Limits{ProgMaxLen: 0, StrMinLen: 0, StrMaxLen: 1, PathMaxDepth: 1}, diag.CfgProgMaxLen},
		{"empty strings", Limits{ProgMaxLen: 1, StrMinLen: 3, StrMaxLen: 3, PathMaxDepth: 1}, diag.CfgStrLen},
		{"no depth", Limits{ProgMaxLen: 1, StrMinLen: 0, StrMaxLen: 1, PathMaxDepth: 0}, diag.CfgPathMaxDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(8)
			Config(diag.BagReporter{Bag: bag}, tt.lim)
			if codes(bag)[tt.code] != 1 {
				t.Fatalf("expected %s, got %v", tt.code.ID(), bag.Items())
			}
		})
	}
}
