package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Catalog stores type descriptors and operation groups. It is built once
// and then consumed read-only by the generator.
type Catalog struct {
	types  []Type
	byName map[string]TypeID
	groups []*Group
	fns    uint32
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]TypeID, 64)}
	c.types = append(c.types, Type{Kind: KindInvalid}) // reserve 0 as NoTypeID
	return c
}

// Add stores the descriptor and returns its TypeID. Named descriptors can
// later be found with ByName.
func (c *Catalog) Add(t Type) TypeID {
	id := c.nextID()
	c.types = append(c.types, t)
	if t.Name != "" {
		c.byName[t.Name] = id
	}
	return id
}

// Reserve allocates a TypeID for name before its descriptor is known.
// The slot stays KindInvalid until Define is called.
func (c *Catalog) Reserve(name string) TypeID {
	if id, ok := c.byName[name]; ok {
		return id
	}
	return c.Add(Type{Kind: KindInvalid, Name: name})
}

// Define sets the descriptor of a reserved TypeID.
func (c *Catalog) Define(id TypeID, t Type) {
	if id == NoTypeID || int(id) >= len(c.types) {
		panic(fmt.Sprintf("types: define of unknown TypeID %d", id))
	}
	if t.Name == "" {
		t.Name = c.types[id].Name
	}
	c.types[id] = t
}

func (c *Catalog) nextID() TypeID {
	n, err := safecast.Conv[uint32](len(c.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	return TypeID(n)
}

// Len returns the number of type slots, including the reserved zero slot.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Lookup returns the descriptor for a TypeID.
func (c *Catalog) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(c.types) {
		return Type{}, false
	}
	return c.types[id], true
}

// MustLookup panics when id is invalid.
func (c *Catalog) MustLookup(id TypeID) Type {
	tt, ok := c.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// TypeOf returns the descriptor of a validated TypeID.
func (c *Catalog) TypeOf(id TypeID) Type {
	return c.MustLookup(id)
}

// ByName resolves a named type.
func (c *Catalog) ByName(name string) (TypeID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// IsResource reports whether values of id are handles that one call
// produces and another consumes: a res type, or an alias chain ending in one.
func (c *Catalog) IsResource(id TypeID) bool {
	for range len(c.types) {
		tt, ok := c.Lookup(id)
		if !ok {
			return false
		}
		switch tt.Kind {
		case KindRes:
			return true
		case KindAlias:
			id = tt.Elem
		default:
			return false
		}
	}
	return false // alias cycle
}

// AddGroup appends a group of operations. Operation ids are assigned
// catalog-wide in insertion order.
func (c *Catalog) AddGroup(name string, fns []FnInfo) GroupID {
	n, err := safecast.Conv[uint32](len(c.groups))
	if err != nil {
		panic(fmt.Errorf("len(groups) overflow: %w", err))
	}
	g := &Group{ID: GroupID(n), Name: name, Fns: make([]FnInfo, len(fns))}
	for i, fn := range fns {
		fn.ID = FnID(c.fns)
		fn.Params = append([]Param(nil), fn.Params...)
		c.fns++
		g.Fns[i] = fn
	}
	c.groups = append(c.groups, g)
	return g.ID
}

// Group returns the group with the given id.
func (c *Catalog) Group(id GroupID) (*Group, bool) {
	if int(id) >= len(c.groups) {
		return nil, false
	}
	return c.groups[id], true
}

// Groups returns all groups in id order.
func (c *Catalog) Groups() []*Group {
	return c.groups
}

// GroupByName finds a group by its name.
func (c *Catalog) GroupByName(name string) (*Group, bool) {
	for _, g := range c.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Fn returns the operation with the given id.
func (c *Catalog) Fn(id FnID) (*FnInfo, bool) {
	for _, g := range c.groups {
		for i := range g.Fns {
			if g.Fns[i].ID == id {
				return &g.Fns[i], true
			}
		}
	}
	return nil, false
}

// TypeName renders a TypeID for diagnostics and printing.
func (c *Catalog) TypeName(id TypeID) string {
	tt, ok := c.Lookup(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	if tt.Name != "" {
		return tt.Name
	}
	return fmt.Sprintf("%s#%d", tt.Kind, id)
}
