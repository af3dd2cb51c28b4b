// Package target loads a type catalog and its per-group relation tables
// from a TOML description.
package target

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"callgen/internal/relation"
	"callgen/internal/types"
)

// Target is a loaded catalog together with the relation tables of its groups.
type Target struct {
	Path    string
	Catalog *types.Catalog
	Tables  map[types.GroupID]*relation.Table
}

var (
	// ErrNoTypes reports a target without any [[type]] entry.
	ErrNoTypes = errors.New("no [[type]] entries")
	// ErrNoGroups reports a target without any [[group]] entry.
	ErrNoGroups = errors.New("no [[group]] entries")
)

type fileDecl struct {
	Types  []typeDecl  `toml:"type"`
	Groups []groupDecl `toml:"group"`
}

type typeDecl struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`

	// num
	Width  int64 `toml:"width"`
	Signed bool  `toml:"signed"`
	Values []any `toml:"values"`
	Range  []any `toml:"range"`

	// ptr, slice, alias, res
	Elem  string `toml:"elem"`
	Dir   string `toml:"dir"`
	Depth *int64 `toml:"depth"`
	Low   *int64 `toml:"low"`
	High  *int64 `toml:"high"`

	// str
	Str     string   `toml:"str"`
	Strings []string `toml:"strings"`

	// struct, union, flag
	Fields []fieldDecl `toml:"fields"`
	Flags  []flagDecl  `toml:"flags"`

	// len
	Target string   `toml:"target"`
	Path   []string `toml:"path"`
	Param  bool     `toml:"param"`
}

type fieldDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type flagDecl struct {
	Name  string `toml:"name"`
	Value int64  `toml:"value"`
}

type groupDecl struct {
	Name      string   `toml:"name"`
	Relations []string `toml:"relations"`
	Fns       []fnDecl `toml:"fn"`
}

type fnDecl struct {
	Name   string      `toml:"name"`
	Params []fieldDecl `toml:"params"`
	Ret    string      `toml:"ret"`
}

// LoadFile reads and resolves a target file.
func LoadFile(path string) (*Target, error) {
	var decl fileDecl
	meta, err := toml.DecodeFile(path, &decl)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return build(path, decl, meta)
}

// Load reads a target description from r; name is used in errors.
func Load(r io.Reader, name string) (*Target, error) {
	var decl fileDecl
	meta, err := toml.NewDecoder(r).Decode(&decl)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	return build(name, decl, meta)
}

func build(path string, decl fileDecl, meta toml.MetaData) (*Target, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if len(decl.Types) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTypes)
	}
	if len(decl.Groups) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGroups)
	}

	b := &builder{cat: types.NewCatalog()}
	ids := make([]types.TypeID, len(decl.Types))
	seen := make(map[string]int, len(decl.Types))
	for i, td := range decl.Types {
		name := canonName(td.Name)
		if name == "" {
			b.errorf("type[%d]: missing name", i)
			continue
		}
		if prev, dup := seen[name]; dup {
			b.errorf("type[%d] %q: duplicate of type[%d]", i, name, prev)
			continue
		}
		seen[name] = i
		ids[i] = b.cat.Reserve(name)
	}
	for i, td := range decl.Types {
		if ids[i] == types.NoTypeID {
			continue
		}
		b.subject = fmt.Sprintf("type[%d] %q", i, td.Name)
		if t, ok := b.typ(td); ok {
			b.cat.Define(ids[i], t.Named(canonName(td.Name)))
		}
	}

	tables := make(map[types.GroupID]*relation.Table, len(decl.Groups))
	groupSeen := make(map[string]bool, len(decl.Groups))
	for i, gd := range decl.Groups {
		b.subject = fmt.Sprintf("group[%d] %q", i, gd.Name)
		if strings.TrimSpace(gd.Name) == "" {
			b.errorf("group[%d]: missing name", i)
			continue
		}
		if groupSeen[gd.Name] {
			b.errorf("%s: duplicate group", b.subject)
			continue
		}
		groupSeen[gd.Name] = true
		fns, ok := b.fns(gd.Fns)
		if !ok {
			continue
		}
		tbl := relation.New(len(fns))
		if len(gd.Relations) > 0 {
			parsed, err := relation.Parse(gd.Relations)
			if err != nil {
				b.errorf("%s: relations: %v", b.subject, err)
				continue
			}
			tbl = parsed
		}
		gid := b.cat.AddGroup(gd.Name, fns)
		tables[gid] = tbl
	}

	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Target{Path: path, Catalog: b.cat, Tables: tables}, nil
}

type builder struct {
	cat     *types.Catalog
	subject string
	errs    []error
}

func (b *builder) errorf(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) fail(format string, args ...any) {
	b.errorf("%s: %s", b.subject, fmt.Sprintf(format, args...))
}

// canonName trims a type name and puts it in NFC so that differently
// composed spellings refer to the same type.
func canonName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// resolve maps a type name to its id.
func (b *builder) resolve(what, name string) (types.TypeID, bool) {
	name = canonName(name)
	if name == "" {
		b.fail("missing %s", what)
		return types.NoTypeID, false
	}
	id, ok := b.cat.ByName(name)
	if !ok {
		b.fail("%s refers to unknown type %q", what, name)
		return types.NoTypeID, false
	}
	return id, true
}

func (b *builder) fields(decls []fieldDecl, what string) ([]types.Field, bool) {
	out := make([]types.Field, 0, len(decls))
	ok := true
	for i, fd := range decls {
		id, found := b.resolve(fmt.Sprintf("%s[%d] %q", what, i, fd.Name), fd.Type)
		if !found {
			ok = false
			continue
		}
		out = append(out, types.Field{Name: fd.Name, Type: id})
	}
	return out, ok
}

func (b *builder) fns(decls []fnDecl) ([]types.FnInfo, bool) {
	out := make([]types.FnInfo, 0, len(decls))
	ok := true
	group := b.subject
	for i, fd := range decls {
		b.subject = fmt.Sprintf("%s fn[%d] %q", group, i, fd.Name)
		if strings.TrimSpace(fd.Name) == "" {
			b.fail("missing name")
			ok = false
			continue
		}
		fields, good := b.fields(fd.Params, "param")
		fn := types.FnInfo{Name: fd.Name}
		for _, f := range fields {
			fn.Params = append(fn.Params, types.Param{Name: f.Name, Type: f.Type})
		}
		if fd.Ret != "" {
			id, found := b.resolve("ret", fd.Ret)
			good = good && found
			fn.Ret = id
		}
		if !good {
			ok = false
			continue
		}
		out = append(out, fn)
	}
	b.subject = group
	return out, ok
}
