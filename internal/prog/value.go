package prog

import (
	"fmt"
	"slices"

	"callgen/internal/types"
)

// ValueKind tags the active member of a Value.
type ValueKind uint8

const (
	ValNone   ValueKind = iota // absent placeholder, e.g. length fields
	ValNum                     // canonical 64-bit number
	ValStr                     // string
	ValGroup                   // struct fields or slice elements
	ValChoice                  // active union field
	ValRef                     // reference to an earlier argument
)

func (k ValueKind) String() string {
	switch k {
	case ValNone:
		return "none"
	case ValNum:
		return "num"
	case ValStr:
		return "str"
	case ValGroup:
		return "group"
	case ValChoice:
		return "choice"
	case ValRef:
		return "ref"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// NumValue is a number normalized to signed or unsigned 64 bits.
type NumValue struct {
	Signed bool   `msgpack:"s" json:"signed"`
	Bits   uint64 `msgpack:"b" json:"bits"`
}

// Signed64 wraps a signed value.
func Signed64(v int64) NumValue { return NumValue{Signed: true, Bits: uint64(v)} }

// Unsigned64 wraps an unsigned value.
func Unsigned64(v uint64) NumValue { return NumValue{Bits: v} }

// Int64 returns the value as signed.
func (n NumValue) Int64() int64 { return int64(n.Bits) }

// Uint64 returns the value as unsigned.
func (n NumValue) Uint64() uint64 { return n.Bits }

func (n NumValue) String() string {
	if n.Signed {
		return fmt.Sprintf("%d", n.Int64())
	}
	return fmt.Sprintf("%#x", n.Bits)
}

// Value is the synthesized value of an argument.
type Value struct {
	Kind   ValueKind `msgpack:"k" json:"kind"`
	Num    NumValue  `msgpack:"n,omitempty" json:"num,omitempty"`
	Str    string    `msgpack:"s,omitempty" json:"str,omitempty"`
	Elems  []Value   `msgpack:"e,omitempty" json:"elems,omitempty"`
	Choice int       `msgpack:"c,omitempty" json:"choice,omitempty"`
	Inner  *Value    `msgpack:"i,omitempty" json:"inner,omitempty"`
	Ref    ArgIndex  `msgpack:"r,omitempty" json:"ref,omitempty"`
}

// Constructors -----------------------------------------------------------------

// None returns the absent placeholder.
func None() Value { return Value{Kind: ValNone} }

// Num wraps a canonical number.
func Num(n NumValue) Value { return Value{Kind: ValNum, Num: n} }

// Str wraps a string.
func Str(s string) Value { return Value{Kind: ValStr, Str: s} }

// Group wraps an ordered list of values.
func Group(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValGroup, Elems: elems}
}

// Choice wraps the active field of a union.
func Choice(index int, inner Value) Value {
	return Value{Kind: ValChoice, Choice: index, Inner: &inner}
}

// Ref points at an earlier argument.
func Ref(idx ArgIndex) Value { return Value{Kind: ValRef, Ref: idx} }

// Walk calls fn for v and every nested value in pre-order.
func (v Value) Walk(fn func(Value)) {
	fn(v)
	switch v.Kind {
	case ValGroup:
		for _, e := range v.Elems {
			e.Walk(fn)
		}
	case ValChoice:
		if v.Inner != nil {
			v.Inner.Walk(fn)
		}
	}
}

// TypeLookup resolves type descriptors.
type TypeLookup interface {
	TypeOf(id types.TypeID) types.Type
}

// Default returns the zero value of a type. Out-pointers are filled with
// it since the callee populates them. A type reached again through its own
// value, such as the next field of a linked list node, defaults to None.
func Default(id types.TypeID, lookup TypeLookup) Value {
	d := defaulter{lookup: lookup}
	return d.of(id)
}

type defaulter struct {
	lookup TypeLookup
	path   []types.TypeID
}

func (d *defaulter) of(id types.TypeID) Value {
	if slices.Contains(d.path, id) {
		return None()
	}
	d.path = append(d.path, id)
	defer func() { d.path = d.path[:len(d.path)-1] }()

	tt := d.lookup.TypeOf(id)
	switch tt.Kind {
	case types.KindNum:
		if tt.Num.Signed {
			return Num(Signed64(0))
		}
		return Num(Unsigned64(0))
	case types.KindPtr:
		return d.of(tt.Elem)
	case types.KindSlice:
		return Group(nil)
	case types.KindStr:
		if len(tt.Vals) > 0 {
			return Str(tt.Vals[0])
		}
		return Str("")
	case types.KindStruct:
		elems := make([]Value, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			elems = append(elems, d.of(f.Type))
		}
		return Group(elems)
	case types.KindUnion:
		if len(tt.Fields) == 0 {
			return None()
		}
		return Choice(0, d.of(tt.Fields[0].Type))
	case types.KindFlag:
		return Num(Signed64(0))
	case types.KindAlias, types.KindRes:
		return d.of(tt.Elem)
	case types.KindLen:
		return Num(Unsigned64(0))
	default:
		panic(fmt.Sprintf("prog: default value of %v type %d", tt.Kind, id))
	}
}
