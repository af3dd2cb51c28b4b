package types

import "fmt"

// TypeID uniquely identifies a type inside the catalog.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNum
	KindPtr
	KindSlice
	KindStr
	KindStruct
	KindUnion
	KindFlag
	KindAlias
	KindRes
	KindLen
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNum:
		return "num"
	case KindPtr:
		return "ptr"
	case KindSlice:
		return "slice"
	case KindStr:
		return "str"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindFlag:
		return "flag"
	case KindAlias:
		return "alias"
	case KindRes:
		return "res"
	case KindLen:
		return "len"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind maps the textual kind used by target files to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindNum; k <= KindLen; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// PtrDir is the data direction of a pointer argument.
type PtrDir uint8

const (
	DirIn PtrDir = iota
	DirOut
	DirInOut
)

func (d PtrDir) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return fmt.Sprintf("PtrDir(%d)", d)
	}
}

// ParsePtrDir maps "in", "out" and "inout" to a PtrDir.
func ParsePtrDir(s string) (PtrDir, bool) {
	switch s {
	case "in", "":
		return DirIn, true
	case "out":
		return DirOut, true
	case "inout", "in_out":
		return DirInOut, true
	default:
		return DirIn, false
	}
}

// StrKind selects the character policy of a string type.
type StrKind uint8

const (
	StrText  StrKind = iota // arbitrary characters
	StrCText                // alphanumeric, safe for NUL-terminated transports
	StrPath                 // path-like, pooled for reuse
)

func (k StrKind) String() string {
	switch k {
	case StrText:
		return "text"
	case StrCText:
		return "ctext"
	case StrPath:
		return "path"
	default:
		return fmt.Sprintf("StrKind(%d)", k)
	}
}

// ParseStrKind maps the textual string kind to a StrKind.
func ParseStrKind(s string) (StrKind, bool) {
	switch s {
	case "text", "str", "":
		return StrText, true
	case "ctext", "cstr":
		return StrCText, true
	case "path", "filename":
		return StrPath, true
	default:
		return StrText, false
	}
}

// SliceUnbounded marks an unspecified slice bound.
const SliceUnbounded = -1

// Field is a named member of a struct or union.
type Field struct {
	Name string
	Type TypeID
}

// Flag is a named bit value of a flag type.
type Flag struct {
	Name  string
	Value int64
}

// Type is a compact descriptor for any supported type. Only the fields
// relevant to Kind are meaningful.
type Type struct {
	Kind Kind
	Name string

	Num NumInfo // KindNum

	Dir   PtrDir // KindPtr
	Depth uint8  // KindPtr
	Elem  TypeID // pointee, slice element, alias/res underlying, len target

	Low  int // KindSlice, SliceUnbounded when unspecified
	High int // KindSlice, SliceUnbounded when unspecified

	Str  StrKind  // KindStr
	Vals []string // KindStr fixed value set, nil when free-form

	Fields []Field // KindStruct, KindUnion
	Flags  []Flag  // KindFlag

	LenPath    []string // KindLen
	LenIsParam bool     // KindLen
}

// Descriptor helpers ---------------------------------------------------------

// MakeNum describes a number with the given width, signedness and constraint.
func MakeNum(width Width, signed bool, limit NumLimit) Type {
	return Type{Kind: KindNum, Num: NumInfo{Width: width, Signed: signed, Limit: limit}}
}

// MakePtr describes a single-level pointer.
func MakePtr(dir PtrDir, elem TypeID) Type {
	return Type{Kind: KindPtr, Dir: dir, Elem: elem, Depth: 1}
}

// MakeSlice describes a slice; use SliceUnbounded for unspecified bounds.
func MakeSlice(elem TypeID, low, high int) Type {
	return Type{Kind: KindSlice, Elem: elem, Low: low, High: high}
}

// MakeStr describes a string; vals may be nil.
func MakeStr(kind StrKind, vals ...string) Type {
	return Type{Kind: KindStr, Str: kind, Vals: cloneStrings(vals)}
}

// MakeStruct describes a struct with ordered fields.
func MakeStruct(fields ...Field) Type {
	return Type{Kind: KindStruct, Fields: cloneFields(fields)}
}

// MakeUnion describes a union; exactly one field is active per value.
func MakeUnion(fields ...Field) Type {
	return Type{Kind: KindUnion, Fields: cloneFields(fields)}
}

// MakeFlag describes a flag set.
func MakeFlag(flags ...Flag) Type {
	out := make([]Flag, len(flags))
	copy(out, flags)
	return Type{Kind: KindFlag, Flags: out}
}

// MakeAlias describes an alias of the underlying type.
func MakeAlias(under TypeID) Type {
	return Type{Kind: KindAlias, Elem: under}
}

// MakeRes describes a resource handle carried by the underlying type.
func MakeRes(under TypeID) Type {
	return Type{Kind: KindRes, Elem: under}
}

// MakeLen describes a length field sized after the sibling at path.
func MakeLen(target TypeID, isParam bool, path ...string) Type {
	return Type{Kind: KindLen, Elem: target, LenIsParam: isParam, LenPath: cloneStrings(path)}
}

// Named returns a copy of t carrying the given name.
func (t Type) Named(name string) Type {
	t.Name = name
	return t
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFields(in []Field) []Field {
	out := make([]Field, len(in))
	copy(out, in)
	return out
}
