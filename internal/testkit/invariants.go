// Package testkit holds structural checks shared by generator tests and
// fuzz harnesses.
package testkit

import (
	"fmt"
	"reflect"
	"slices"
	"unicode/utf8"

	"callgen/internal/prog"
	"callgen/internal/types"
)

// CheckProgram verifies that p is a well-formed program over cat:
// 1) every call names an operation of the program's group with matching arity
// 2) every value conforms to its declared type and constraint
// 3) out-pointers hold the default value of their pointee
// 4) every reference points strictly backward at a producer of the same type
// 5) a return slot exists exactly when the return type is a resource
// It returns the first violation found.
func CheckProgram(cat *types.Catalog, p *prog.Prog) error {
	if cat == nil || p == nil {
		return fmt.Errorf("nil catalog or program")
	}
	grp, ok := cat.Group(p.Group)
	if !ok {
		return fmt.Errorf("program group #%d not in catalog", p.Group)
	}
	fns := make(map[types.FnID]*types.FnInfo, len(grp.Fns))
	for i := range grp.Fns {
		fns[grp.Fns[i].ID] = &grp.Fns[i]
	}

	produced := make(map[prog.ArgIndex][]types.TypeID)
	for ci, c := range p.Calls {
		fn, ok := fns[c.Fn]
		if !ok {
			return fmt.Errorf("call %d: operation #%d is not in group %q", ci, c.Fn, grp.Name)
		}
		if len(c.Args) != len(fn.Params) {
			return fmt.Errorf("call %d (%s): %d args for %d params", ci, fn.Name, len(c.Args), len(fn.Params))
		}
		w := walker{cat: cat, call: ci, produced: produced, fresh: make(map[prog.ArgIndex][]types.TypeID)}
		for ai, a := range c.Args {
			if a.Type != fn.Params[ai].Type {
				return fmt.Errorf("call %d (%s) arg %d: type #%d, want #%d", ci, fn.Name, ai, a.Type, fn.Params[ai].Type)
			}
			w.arg = ai
			if err := w.value(a.Type, a.Val); err != nil {
				return fmt.Errorf("call %d (%s) arg %d: %w", ci, fn.Name, ai, err)
			}
		}

		wantRet := fn.HasRet() && cat.IsResource(fn.Ret)
		switch {
		case wantRet && c.Ret == nil:
			return fmt.Errorf("call %d (%s): missing resource return slot", ci, fn.Name)
		case !wantRet && c.Ret != nil:
			return fmt.Errorf("call %d (%s): unexpected return slot", ci, fn.Name)
		case wantRet:
			if c.Ret.Type != fn.Ret {
				return fmt.Errorf("call %d (%s): return type #%d, want #%d", ci, fn.Name, c.Ret.Type, fn.Ret)
			}
			if c.Ret.Val.Kind != prog.ValNone {
				return fmt.Errorf("call %d (%s): return slot holds a %s value", ci, fn.Name, c.Ret.Val.Kind)
			}
			idx := prog.ArgIndex{Call: ci, Arg: len(c.Args)}
			w.fresh[idx] = append(w.fresh[idx], fn.Ret)
		}

		for idx, tids := range w.fresh {
			produced[idx] = append(produced[idx], tids...)
		}
	}
	return nil
}

type walker struct {
	cat      *types.Catalog
	call     int
	arg      int
	produced map[prog.ArgIndex][]types.TypeID // slots of earlier calls
	fresh    map[prog.ArgIndex][]types.TypeID // slots of the current call
}

func (w *walker) value(tid types.TypeID, v prog.Value) error {
	tt, ok := w.cat.Lookup(tid)
	if !ok {
		return fmt.Errorf("unknown type #%d", tid)
	}
	switch tt.Kind {
	case types.KindNum:
		return checkNum(tt.Num, v)
	case types.KindPtr:
		if tt.Dir == types.DirIn {
			return w.value(tt.Elem, v)
		}
		if def := prog.Default(tt.Elem, w.cat); !reflect.DeepEqual(def, v) {
			return fmt.Errorf("out-pointer holds %+v, want default %+v", v, def)
		}
		if w.cat.IsResource(tt.Elem) {
			idx := prog.ArgIndex{Call: w.call, Arg: w.arg}
			w.fresh[idx] = append(w.fresh[idx], tt.Elem)
		}
		return nil
	case types.KindSlice:
		if v.Kind != prog.ValGroup {
			return fmt.Errorf("slice holds a %s value", v.Kind)
		}
		if !sliceLenOK(tt.Low, tt.High, len(v.Elems)) {
			return fmt.Errorf("slice length %d outside bounds (%d, %d)", len(v.Elems), tt.Low, tt.High)
		}
		for i, e := range v.Elems {
			if err := w.value(tt.Elem, e); err != nil {
				return fmt.Errorf("elem %d: %w", i, err)
			}
		}
		return nil
	case types.KindStr:
		if v.Kind != prog.ValStr {
			return fmt.Errorf("string holds a %s value", v.Kind)
		}
		if len(tt.Vals) > 0 && !slices.Contains(tt.Vals, v.Str) {
			return fmt.Errorf("string %q not in fixed set %q", v.Str, tt.Vals)
		}
		if !utf8.ValidString(v.Str) {
			return fmt.Errorf("string %q is not valid UTF-8", v.Str)
		}
		return nil
	case types.KindStruct:
		if v.Kind != prog.ValGroup || len(v.Elems) != len(tt.Fields) {
			return fmt.Errorf("struct with %d fields holds %s of %d", len(tt.Fields), v.Kind, len(v.Elems))
		}
		for i, f := range tt.Fields {
			if err := w.value(f.Type, v.Elems[i]); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		return nil
	case types.KindUnion:
		if v.Kind != prog.ValChoice || v.Inner == nil {
			return fmt.Errorf("union holds a %s value", v.Kind)
		}
		if v.Choice < 0 || v.Choice >= len(tt.Fields) {
			return fmt.Errorf("union choice %d out of %d fields", v.Choice, len(tt.Fields))
		}
		return w.value(tt.Fields[v.Choice].Type, *v.Inner)
	case types.KindFlag:
		if v.Kind != prog.ValNum || !v.Num.Signed {
			return fmt.Errorf("flag holds %s signed=%v", v.Kind, v.Num.Signed)
		}
		return nil
	case types.KindAlias, types.KindRes:
		if v.Kind == prog.ValRef {
			return w.ref(tid, v.Ref)
		}
		return w.value(tt.Elem, v)
	case types.KindLen:
		if v.Kind != prog.ValNum || v.Num.Signed || v.Num.Bits != 0 {
			return fmt.Errorf("length placeholder holds %+v", v)
		}
		return nil
	default:
		return fmt.Errorf("unsupported kind %v", tt.Kind)
	}
}

func (w *walker) ref(tid types.TypeID, idx prog.ArgIndex) error {
	if !w.cat.IsResource(tid) {
		return fmt.Errorf("reference %s from non-resource type #%d", idx, tid)
	}
	if idx.Call >= w.call {
		return fmt.Errorf("reference %s does not point backward from call %d", idx, w.call)
	}
	if !slices.Contains(w.produced[idx], tid) {
		return fmt.Errorf("reference %s is not a producer of type #%d", idx, tid)
	}
	return nil
}

func checkNum(n types.NumInfo, v prog.Value) error {
	if v.Kind != prog.ValNum {
		return fmt.Errorf("number holds a %s value", v.Kind)
	}
	if v.Num.Signed != n.Signed {
		return fmt.Errorf("number signedness %v, want %v", v.Num.Signed, n.Signed)
	}
	if !n.Fits(v.Num.Bits) {
		return fmt.Errorf("number %s does not fit width %d", v.Num, n.Width.Bits())
	}
	switch n.Limit.Kind {
	case types.LimitVals:
		if !slices.Contains(n.Limit.Vals, v.Num.Bits) {
			return fmt.Errorf("number %s not in value set", v.Num)
		}
	case types.LimitRange:
		if v.Num.Bits-n.Limit.Start >= n.Limit.End-n.Limit.Start {
			return fmt.Errorf("number %s outside range", v.Num)
		}
	}
	return nil
}

func sliceLenOK(low, high, n int) bool {
	const unb = types.SliceUnbounded
	switch {
	case low == unb && high == unb:
		return n >= 0 && n < 8
	case high == unb:
		return n >= 0 && n < low
	case low == unb:
		return n >= 0 && n < high
	default:
		return n >= low && n < high
	}
}
