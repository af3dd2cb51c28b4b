package gen

import (
	"callgen/internal/relation"
	"callgen/internal/rng"
)

// Inclusion probabilities of the dependency closure.
const (
	pPossibleNew    = 0.75
	pPossibleRepeat = 0.25
	pUnknownNew     = 0.5
	pUnknownRepeat  = 0.125
)

// Table is the read-only relation matrix of one group.
type Table interface {
	At(i, j int) relation.Relation
	Len() int
}

// Sequence builds a plan of operation indices in [0, t.Len()) for a
// length budget of maxLen. The plan is never empty and its length never
// exceeds maxLen+t.Len(). Indices may repeat.
func Sequence(t Table, maxLen int, r rng.Source) []int {
	n := t.Len()
	if n == 0 {
		panic("gen: sequence over an empty relation table")
	}
	marked := make([]bool, n)
	plan := make([]int, 0, maxLen+1)

	for {
		root := r.Intn(n)
		marked[root] = true
		plan = append(plan, root)
		plan = closeDeps(t, marked, plan, len(plan)-1, maxLen, r)

		if len(plan) <= maxLen && rng.Coin(r) {
			continue
		}
		return plan
	}
}

// closeDeps sweeps plan positions from i onward, appending the related
// operations of each position after it is scanned. Appended entries are
// swept in turn, so the closure runs breadth-first until the budget is hit
// or the plan is exhausted.
func closeDeps(t Table, marked []bool, plan []int, i, maxLen int, r rng.Source) []int {
	n := t.Len()
	deps := make([]int, 0, n)
	for ; i < len(plan) && len(plan) < maxLen; i++ {
		row := plan[i]
		deps = deps[:0]
		for j := 0; j < n; j++ {
			switch t.At(row, j) {
			case relation.Possible:
				if include(r, marked[j], pPossibleNew, pPossibleRepeat) {
					deps = append(deps, j)
					marked[j] = true
				}
			case relation.Unknown:
				if include(r, marked[j], pUnknownNew, pUnknownRepeat) {
					deps = append(deps, j)
					marked[j] = true
				}
			}
		}
		plan = append(plan, deps...)
	}
	return plan
}

func include(r rng.Source, marked bool, pNew, pRepeat float64) bool {
	if marked {
		return rng.Chance(r, pRepeat)
	}
	return rng.Chance(r, pNew)
}
