package prog

import (
	"testing"

	"callgen/internal/types"
)

func TestDefaultValues(t *testing.T) {
	c := types.NewCatalog()
	u8 := c.Add(types.MakeNum(types.Width8, false, types.NoLimit()))
	i32 := c.Add(types.MakeNum(types.Width32, true, types.NoLimit()))
	str := c.Add(types.MakeStr(types.StrText, "x", "y"))
	st := c.Add(types.MakeStruct(types.Field{Name: "a", Type: u8}, types.Field{Name: "b", Type: str}))
	un := c.Add(types.MakeUnion(types.Field{Name: "i", Type: i32}, types.Field{Name: "s", Type: str}))
	fd := c.Add(types.MakeRes(i32))
	ptr := c.Add(types.MakePtr(types.DirOut, fd))
	sl := c.Add(types.MakeSlice(u8, types.SliceUnbounded, types.SliceUnbounded))

	tests := []struct {
		name string
		id   types.TypeID
		kind ValueKind
	}{
		{"unsigned", u8, ValNum},
		{"struct", st, ValGroup},
		{"union", un, ValChoice},
		{"res through ptr", ptr, ValNum},
		{"slice", sl, ValGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Default(tt.id, c)
			if v.Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, v.Kind)
			}
		})
	}

	if v := Default(i32, c); !v.Num.Signed || v.Num.Int64() != 0 {
		t.Fatalf("expected signed zero, got %+v", v.Num)
	}
	if v := Default(st, c); len(v.Elems) != 2 || v.Elems[1].Str != "x" {
		t.Fatalf("expected struct default [0, \"x\"], got %+v", v.Elems)
	}
	if v := Default(sl, c); v.Elems == nil || len(v.Elems) != 0 {
		t.Fatalf("expected empty non-nil group, got %+v", v.Elems)
	}
}

func TestDefaultStopsAtSelfReference(t *testing.T) {
	c := types.NewCatalog()
	u8 := c.Add(types.MakeNum(types.Width8, false, types.NoLimit()))
	node := c.Reserve("node")
	next := c.Add(types.MakePtr(types.DirOut, node))
	c.Define(node, types.MakeStruct(types.Field{Name: "v", Type: u8}, types.Field{Name: "next", Type: next}))

	for _, id := range []types.TypeID{node, next} {
		v := Default(id, c)
		if v.Kind != ValGroup || len(v.Elems) != 2 {
			t.Fatalf("expected a two-field node, got %+v", v)
		}
		if v.Elems[0].Kind != ValNum || v.Elems[1].Kind != ValNone {
			t.Fatalf("expected [0, _], got %+v", v.Elems)
		}
	}

	// union field 0 leads back to the union through an out-pointer
	un := c.Reserve("un")
	holder := c.Add(types.MakeStruct(types.Field{Name: "p", Type: c.Add(types.MakePtr(types.DirInOut, un))}))
	c.Define(un, types.MakeUnion(types.Field{Name: "a", Type: holder}, types.Field{Name: "b", Type: u8}))
	v := Default(un, c)
	if v.Kind != ValChoice || v.Choice != 0 || v.Inner == nil {
		t.Fatalf("expected choice 0, got %+v", v)
	}
	if in := *v.Inner; in.Kind != ValGroup || len(in.Elems) != 1 || in.Elems[0].Kind != ValNone {
		t.Fatalf("expected holder {p: _}, got %+v", in)
	}

	// siblings of the same type are not cycles
	pair := c.Add(types.MakeStruct(types.Field{Name: "a", Type: u8}, types.Field{Name: "b", Type: u8}))
	if v := Default(pair, c); v.Elems[0].Kind != ValNum || v.Elems[1].Kind != ValNum {
		t.Fatalf("expected two numbers, got %+v", v.Elems)
	}
}

func TestRefsFindsNestedReferences(t *testing.T) {
	p := New(0)
	p.Append(NewCall(0))
	call := NewCall(1)
	call.Args = append(call.Args,
		Arg{Val: Group([]Value{Num(Unsigned64(1)), Choice(1, Ref(ArgIndex{Call: 0, Arg: 1}))})},
		Arg{Val: Ref(ArgIndex{Call: 0, Arg: 0})},
	)
	idx := p.Append(call)
	if idx != 1 {
		t.Fatalf("expected append position 1, got %d", idx)
	}
	refs := p.Refs(1)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0] != (ArgIndex{Call: 0, Arg: 1}) {
		t.Fatalf("expected nested ref first, got %v", refs[0])
	}
}

func TestNumValueRoundTrip(t *testing.T) {
	if got := Signed64(-7).Int64(); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
	if got := Unsigned64(1 << 63).Uint64(); got != 1<<63 {
		t.Fatalf("expected 1<<63, got %d", got)
	}
}
