package target

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"callgen/internal/types"
)

func (b *builder) typ(td typeDecl) (types.Type, bool) {
	kind, ok := types.ParseKind(strings.TrimSpace(td.Kind))
	if !ok {
		b.fail("unknown kind %q", td.Kind)
		return types.Type{}, false
	}
	switch kind {
	case types.KindNum:
		return b.num(td)
	case types.KindPtr:
		dir, ok := types.ParsePtrDir(td.Dir)
		if !ok {
			b.fail("unknown pointer direction %q", td.Dir)
			return types.Type{}, false
		}
		elem, ok := b.resolve("elem", td.Elem)
		if !ok {
			return types.Type{}, false
		}
		t := types.MakePtr(dir, elem)
		if td.Depth != nil {
			depth, err := safecast.Conv[uint8](*td.Depth)
			if err != nil {
				b.fail("pointer depth %d: %v", *td.Depth, err)
				return types.Type{}, false
			}
			t.Depth = depth
		}
		return t, true
	case types.KindSlice:
		elem, ok := b.resolve("elem", td.Elem)
		if !ok {
			return types.Type{}, false
		}
		low, okLow := b.bound("low", td.Low)
		high, okHigh := b.bound("high", td.High)
		if !okLow || !okHigh {
			return types.Type{}, false
		}
		return types.MakeSlice(elem, low, high), true
	case types.KindStr:
		sk, ok := types.ParseStrKind(strings.TrimSpace(td.Str))
		if !ok {
			b.fail("unknown string kind %q", td.Str)
			return types.Type{}, false
		}
		return types.MakeStr(sk, td.Strings...), true
	case types.KindStruct, types.KindUnion:
		fields, ok := b.fields(td.Fields, "field")
		if !ok {
			return types.Type{}, false
		}
		if kind == types.KindStruct {
			return types.MakeStruct(fields...), true
		}
		return types.MakeUnion(fields...), true
	case types.KindFlag:
		flags := make([]types.Flag, 0, len(td.Flags))
		for _, f := range td.Flags {
			flags = append(flags, types.Flag{Name: f.Name, Value: f.Value})
		}
		return types.MakeFlag(flags...), true
	case types.KindAlias, types.KindRes:
		elem, ok := b.resolve("elem", td.Elem)
		if !ok {
			return types.Type{}, false
		}
		if kind == types.KindAlias {
			return types.MakeAlias(elem), true
		}
		return types.MakeRes(elem), true
	case types.KindLen:
		target := types.NoTypeID
		if td.Target != "" {
			id, ok := b.resolve("target", td.Target)
			if !ok {
				return types.Type{}, false
			}
			target = id
		}
		return types.MakeLen(target, td.Param, td.Path...), true
	default:
		b.fail("unsupported kind %v", kind)
		return types.Type{}, false
	}
}

func (b *builder) bound(what string, v *int64) (int, bool) {
	if v == nil {
		return types.SliceUnbounded, true
	}
	n, err := safecast.Conv[int](*v)
	if err != nil {
		b.fail("slice %s %d: %v", what, *v, err)
		return 0, false
	}
	return n, true
}

func (b *builder) num(td typeDecl) (types.Type, bool) {
	width, err := safecast.Conv[uint8](td.Width)
	if err != nil {
		b.fail("width %d: %v", td.Width, err)
		return types.Type{}, false
	}
	limit := types.NoLimit()
	switch {
	case td.Values != nil && td.Range != nil:
		b.fail("values and range are mutually exclusive")
		return types.Type{}, false
	case td.Values != nil:
		vals, ok := b.bitsList("values", td.Values, td.Signed)
		if !ok {
			return types.Type{}, false
		}
		limit = types.UVals(vals...)
	case td.Range != nil:
		if len(td.Range) != 2 {
			b.fail("range needs [start, end), got %d items", len(td.Range))
			return types.Type{}, false
		}
		bounds, ok := b.bitsList("range", td.Range, td.Signed)
		if !ok {
			return types.Type{}, false
		}
		limit = types.URange(bounds[0], bounds[1])
	}
	return types.MakeNum(types.Width(width), td.Signed, limit), true
}

// bitsList converts TOML integers or numeric strings (for values beyond
// the int64 range) into two's-complement bit patterns.
func (b *builder) bitsList(what string, items []any, signed bool) ([]uint64, bool) {
	out := make([]uint64, 0, len(items))
	for i, it := range items {
		v, err := bits(it, signed)
		if err != nil {
			b.fail("%s[%d]: %v", what, i, err)
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func bits(item any, signed bool) (uint64, error) {
	switch v := item.(type) {
	case int64:
		if signed {
			return uint64(v), nil
		}
		return safecast.Conv[uint64](v)
	case string:
		if signed {
			s, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
			return uint64(s), err
		}
		return strconv.ParseUint(strings.TrimSpace(v), 0, 64)
	default:
		return 0, fmt.Errorf("expected an integer or numeric string, got %T", item)
	}
}
