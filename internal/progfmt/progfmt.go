// Package progfmt renders programs as readable text, one call per line.
package progfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"callgen/internal/prog"
	"callgen/internal/types"
)

// Printer renders programs against the catalog they were generated from.
type Printer struct {
	Cat *types.Catalog
	// MaxStr caps the display width of string literals; 0 disables it.
	MaxStr int
}

// Sprint renders p into a string.
func (pr Printer) Sprint(p *prog.Prog) string {
	var sb strings.Builder
	_ = pr.Fprint(&sb, p)
	return sb.String()
}

// Fprint writes p to w.
func (pr Printer) Fprint(w io.Writer, p *prog.Prog) error {
	bw := bufio.NewWriter(w)
	groupName := fmt.Sprintf("#%d", p.Group)
	if g, ok := pr.Cat.Group(p.Group); ok {
		groupName = g.Name
	}
	fmt.Fprintf(bw, "# group %s, %d calls\n", groupName, p.Len())
	for i := range p.Calls {
		bw.WriteString(pr.call(p, i))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (pr Printer) call(p *prog.Prog, i int) string {
	c := &p.Calls[i]
	var sb strings.Builder
	fn, ok := pr.Cat.Fn(c.Fn)
	if c.Ret != nil {
		fmt.Fprintf(&sb, "r%d = ", i)
	}
	if ok {
		sb.WriteString(fn.Name)
	} else {
		fmt.Fprintf(&sb, "fn#%d", c.Fn)
	}
	sb.WriteByte('(')
	for ai, a := range c.Args {
		if ai > 0 {
			sb.WriteString(", ")
		}
		if ok && ai < len(fn.Params) {
			sb.WriteString(fn.Params[ai].Name)
			sb.WriteByte('=')
		}
		pr.value(&sb, p, a.Type, a.Val)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (pr Printer) value(sb *strings.Builder, p *prog.Prog, tid types.TypeID, v prog.Value) {
	tt, known := pr.underlying(tid)
	switch v.Kind {
	case prog.ValNone:
		sb.WriteString("_")
	case prog.ValNum:
		if known && tt.Kind == types.KindLen {
			sb.WriteString("len")
			return
		}
		sb.WriteString(v.Num.String())
	case prog.ValStr:
		sb.WriteString(pr.quote(v.Str))
	case prog.ValRef:
		sb.WriteString(refName(p, v.Ref))
	case prog.ValChoice:
		name := strconv.Itoa(v.Choice)
		inner := types.NoTypeID
		if known && tt.Kind == types.KindUnion && v.Choice < len(tt.Fields) {
			name = tt.Fields[v.Choice].Name
			inner = tt.Fields[v.Choice].Type
		}
		sb.WriteString("@" + name + "(")
		if v.Inner != nil {
			pr.value(sb, p, inner, *v.Inner)
		}
		sb.WriteByte(')')
	case prog.ValGroup:
		pr.group(sb, p, tt, known, v.Elems)
	default:
		fmt.Fprintf(sb, "<%s>", v.Kind)
	}
}

func (pr Printer) group(sb *strings.Builder, p *prog.Prog, tt types.Type, known bool, elems []prog.Value) {
	if known && tt.Kind == types.KindStruct && len(tt.Fields) == len(elems) {
		sb.WriteByte('{')
		for i, e := range elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tt.Fields[i].Name + ": ")
			pr.value(sb, p, tt.Fields[i].Type, e)
		}
		sb.WriteByte('}')
		return
	}
	elem := types.NoTypeID
	if known && tt.Kind == types.KindSlice {
		elem = tt.Elem
	}
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		pr.value(sb, p, elem, e)
	}
	sb.WriteByte(']')
}

// underlying strips pointers, aliases and resources, which render as the
// value they carry.
func (pr Printer) underlying(tid types.TypeID) (types.Type, bool) {
	tt, ok := pr.Cat.Lookup(tid)
	for range pr.Cat.Len() {
		if !ok || (tt.Kind != types.KindPtr && tt.Kind != types.KindAlias && tt.Kind != types.KindRes) {
			break
		}
		tt, ok = pr.Cat.Lookup(tt.Elem)
	}
	return tt, ok
}

// refName names a return slot r<call>; other producers keep their index.
func refName(p *prog.Prog, idx prog.ArgIndex) string {
	if idx.Call >= 0 && idx.Call < p.Len() {
		if c := p.Calls[idx.Call]; c.Ret != nil && idx.Arg == len(c.Args) {
			return fmt.Sprintf("r%d", idx.Call)
		}
	}
	return "&" + idx.String()
}

func (pr Printer) quote(s string) string {
	if pr.MaxStr > 0 && runewidth.StringWidth(s) > pr.MaxStr {
		return strconv.Quote(runewidth.Truncate(s, pr.MaxStr, "")) + "…"
	}
	return strconv.Quote(s)
}
