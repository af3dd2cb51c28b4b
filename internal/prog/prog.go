// Package prog defines generated programs: ordered calls whose arguments
// carry synthesized values, possibly referring back to earlier calls.
package prog

import (
	"fmt"

	"callgen/internal/types"
)

// ArgIndex addresses one argument slot: the call position within the
// program and the argument position within that call. An Arg equal to the
// call's parameter count designates its return slot.
type ArgIndex struct {
	Call int `msgpack:"c" json:"call"`
	Arg  int `msgpack:"a" json:"arg"`
}

func (a ArgIndex) String() string {
	return fmt.Sprintf("c%d.a%d", a.Call, a.Arg)
}

// Arg is a typed value.
type Arg struct {
	Type types.TypeID `msgpack:"t" json:"type"`
	Val  Value        `msgpack:"v" json:"val"`
}

// Call is one invocation of an operation.
type Call struct {
	Fn   types.FnID `msgpack:"fn" json:"fn"`
	Args []Arg      `msgpack:"args" json:"args"`
	Ret  *Arg       `msgpack:"ret,omitempty" json:"ret,omitempty"`
}

// NewCall creates a call with no arguments yet.
func NewCall(fn types.FnID) Call {
	return Call{Fn: fn, Args: []Arg{}}
}

// Prog is an ordered list of calls of one group.
type Prog struct {
	Group types.GroupID `msgpack:"group" json:"group"`
	Calls []Call        `msgpack:"calls" json:"calls"`
}

// New creates an empty program for the group.
func New(group types.GroupID) *Prog {
	return &Prog{Group: group, Calls: []Call{}}
}

// Len returns the number of calls.
func (p *Prog) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Calls)
}

// Append adds a call and returns its position.
func (p *Prog) Append(c Call) int {
	p.Calls = append(p.Calls, c)
	return len(p.Calls) - 1
}

// Refs returns every reference held by the arguments of call i.
func (p *Prog) Refs(i int) []ArgIndex {
	var out []ArgIndex
	for _, a := range p.Calls[i].Args {
		a.Val.Walk(func(v Value) {
			if v.Kind == ValRef {
				out = append(out, v.Ref)
			}
		})
	}
	return out
}
