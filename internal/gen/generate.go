package gen

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"callgen/internal/check"
	"callgen/internal/prog"
	"callgen/internal/relation"
	"callgen/internal/rng"
	"callgen/internal/trace"
	"callgen/internal/types"
)

// Catalog is the read-only view of the type catalog used during generation.
type Catalog interface {
	TypeOf(id types.TypeID) types.Type
	IsResource(id types.TypeID) bool
	Group(id types.GroupID) (*types.Group, bool)
}

var (
	// ErrNoGroups reports an empty relation table set.
	ErrNoGroups = errors.New("gen: no relation tables")
	// ErrInvalidInput wraps every validation failure found by New.
	ErrInvalidInput = errors.New("gen: invalid generator input")
)

// Generator produces programs from validated inputs. It is immutable and
// safe for concurrent use; each Generate call owns its own state.
type Generator struct {
	cat    Catalog
	tables map[types.GroupID]*relation.Table
	groups []types.GroupID
	conf   Config
	tracer trace.Tracer
}

// New validates the catalog, tables and config once and returns a
// Generator. Every problem found is reported in the returned error.
func New(cat *types.Catalog, tables map[types.GroupID]*relation.Table, conf Config) (*Generator, error) {
	if len(tables) == 0 {
		return nil, ErrNoGroups
	}
	if err := check.All(cat, tables, conf.limits()).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	groups := make([]types.GroupID, 0, len(tables))
	owned := make(map[types.GroupID]*relation.Table, len(tables))
	for id, t := range tables {
		groups = append(groups, id)
		owned[id] = t
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return &Generator{cat: cat, tables: owned, groups: groups, conf: conf, tracer: trace.Nop}, nil
}

// Generate validates its inputs and produces one program. Callers that
// generate repeatedly should build a Generator with New instead.
func Generate(cat *types.Catalog, tables map[types.GroupID]*relation.Table, conf Config, r rng.Source) (*prog.Prog, error) {
	g, err := New(cat, tables, conf)
	if err != nil {
		return nil, err
	}
	return g.Generate(r), nil
}

// WithTracer returns a copy of g that reports program and call spans.
func (g *Generator) WithTracer(t trace.Tracer) *Generator {
	if t == nil {
		t = trace.Nop
	}
	cp := *g
	cp.tracer = t
	return &cp
}

// Config returns the generation bounds.
func (g *Generator) Config() Config { return g.conf }

// Groups returns the ids of the groups that have relation tables.
func (g *Generator) Groups() []types.GroupID {
	return append([]types.GroupID(nil), g.groups...)
}

// Generate picks a group uniformly and produces one program for it.
func (g *Generator) Generate(r rng.Source) *prog.Prog {
	return g.GenerateUnder(r, 0)
}

// GenerateUnder is Generate with the program span parented to parent.
func (g *Generator) GenerateUnder(r rng.Source, parent uint64) *prog.Prog {
	gid := rng.Pick(r, g.groups)
	return g.generateGroup(gid, r, parent)
}

// GenerateGroup produces one program for a specific group.
func (g *Generator) GenerateGroup(gid types.GroupID, r rng.Source) (*prog.Prog, error) {
	if _, ok := g.tables[gid]; !ok {
		return nil, fmt.Errorf("gen: group #%d has no relation table", gid)
	}
	return g.generateGroup(gid, r, 0), nil
}

func (g *Generator) generateGroup(gid types.GroupID, r rng.Source, parent uint64) *prog.Prog {
	grp, ok := g.cat.Group(gid)
	if !ok {
		panic(fmt.Sprintf("gen: group #%d vanished after validation", gid))
	}
	span := trace.Begin(g.tracer, trace.ScopeProgram, "program", parent)

	plan := Sequence(g.tables[gid], g.conf.ProgMaxLen, r)
	s := newState(g.cat, &g.conf, prog.New(gid), r)
	for _, i := range plan {
		g.genCall(s, &grp.Fns[i], span.ID())
	}

	span.WithExtra("group", grp.Name).
		WithExtra("plan", strconv.Itoa(len(plan))).
		WithExtra("calls", strconv.Itoa(s.prog.Len())).
		End("")
	return s.prog
}

// genCall appends one call with fresh arguments. A resource-classified
// return type makes the return slot a producer.
func (g *Generator) genCall(s *state, fn *types.FnInfo, parent uint64) {
	span := trace.Begin(g.tracer, trace.ScopeCall, fn.Name, parent)

	s.call = s.prog.Append(prog.NewCall(fn.ID))
	s.argi = 0
	args := make([]prog.Arg, 0, len(fn.Params))
	for i, p := range fn.Params {
		s.argi = i
		args = append(args, prog.Arg{Type: p.Type, Val: s.value(p.Type)})
	}
	c := &s.prog.Calls[s.call]
	c.Args = args

	if fn.HasRet() && s.cat.IsResource(fn.Ret) {
		s.argi = len(args)
		s.recordRes(fn.Ret)
		c.Ret = &prog.Arg{Type: fn.Ret, Val: prog.None()}
	}
	produced := len(s.pending)
	s.commitRes()

	span.WithExtra("pos", strconv.Itoa(s.call)).
		WithExtra("produced", strconv.Itoa(produced)).
		End("")
}
