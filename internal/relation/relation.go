// Package relation holds the precomputed pairwise relation matrix between
// the operations of one group.
package relation

import (
	"fmt"
	"strings"
)

// Relation classifies whether one operation depends on another.
type Relation uint8

const (
	None     Relation = iota // unrelated
	Possible                 // the column operation likely produces what the row consumes
	Unknown                  // undetermined
)

func (r Relation) String() string {
	switch r {
	case None:
		return "none"
	case Possible:
		return "possible"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Relation(%d)", r)
	}
}

// Symbol returns the single-character form used in row strings.
func (r Relation) Symbol() byte {
	switch r {
	case Possible:
		return 'P'
	case Unknown:
		return '?'
	default:
		return 'N'
	}
}

// ParseSymbol is the inverse of Symbol.
func ParseSymbol(c byte) (Relation, bool) {
	switch c {
	case 'N', 'n', '.':
		return None, true
	case 'P', 'p':
		return Possible, true
	case '?', 'U', 'u':
		return Unknown, true
	default:
		return None, false
	}
}

// Table is a square relation matrix over operation indices. Row i lists how
// operation i relates to every operation j.
type Table struct {
	n     int
	cells []Relation
}

// New creates an n×n table filled with None.
func New(n int) *Table {
	if n < 0 {
		n = 0
	}
	return &Table{n: n, cells: make([]Relation, n*n)}
}

// Len returns the number of operations covered by the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.n
}

// At returns the relation of operation i towards operation j.
func (t *Table) At(i, j int) Relation {
	return t.cells[t.index(i, j)]
}

// Set stores the relation of operation i towards operation j.
func (t *Table) Set(i, j int, r Relation) {
	t.cells[t.index(i, j)] = r
}

// Row returns the read-only row of operation i.
func (t *Table) Row(i int) []Relation {
	start := t.index(i, 0)
	return t.cells[start : start+t.n]
}

func (t *Table) index(i, j int) int {
	if i < 0 || i >= t.n || j < 0 || j >= t.n {
		panic(fmt.Sprintf("relation: index (%d, %d) out of range for %d×%d table", i, j, t.n, t.n))
	}
	return i*t.n + j
}

// Parse builds a table from row strings such as "NP?" where every row has
// exactly len(rows) symbols.
func Parse(rows []string) (*Table, error) {
	t := New(len(rows))
	for i, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != t.n {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), t.n)
		}
		for j := 0; j < len(row); j++ {
			r, ok := ParseSymbol(row[j])
			if !ok {
				return nil, fmt.Errorf("row %d column %d: invalid relation %q (expected N|P|?)", i, j, row[j])
			}
			t.Set(i, j, r)
		}
	}
	return t, nil
}

// Rows formats the table back into row strings.
func (t *Table) Rows() []string {
	out := make([]string, t.Len())
	for i := range out {
		var sb strings.Builder
		for _, r := range t.Row(i) {
			sb.WriteByte(r.Symbol())
		}
		out[i] = sb.String()
	}
	return out
}
