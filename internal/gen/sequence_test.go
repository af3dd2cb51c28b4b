package gen

import (
	"testing"

	"callgen/internal/relation"
	"callgen/internal/rng"
)

func randomTable(n int, r rng.Source) *relation.Table {
	t := relation.New(n)
	for i := range n {
		for j := range n {
			t.Set(i, j, relation.Relation(r.Intn(3)))
		}
	}
	return t
}

func TestSequenceRespectsLengthBound(t *testing.T) {
	src := rng.New(1)
	for iter := range 500 {
		n := 1 + src.Intn(6)
		maxLen := 1 + src.Intn(10)
		tbl := randomTable(n, src)
		plan := Sequence(tbl, maxLen, rng.New(uint64(iter)))
		if len(plan) == 0 {
			t.Fatalf("iter %d: expected a non-empty plan", iter)
		}
		if len(plan) > maxLen+n {
			t.Fatalf("iter %d: expected at most %d entries, got %d", iter, maxLen+n, len(plan))
		}
		for _, i := range plan {
			if i < 0 || i >= n {
				t.Fatalf("iter %d: index %d outside [0, %d)", iter, i, n)
			}
		}
	}
}

func TestSequenceSingleOperation(t *testing.T) {
	tbl := relation.New(1)
	for seed := range uint64(50) {
		plan := Sequence(tbl, 1, rng.New(seed))
		if len(plan) < 1 || len(plan) > 2 {
			t.Fatalf("seed %d: expected 1 or 2 entries, got %v", seed, plan)
		}
		for _, i := range plan {
			if i != 0 {
				t.Fatalf("seed %d: expected only index 0, got %v", seed, plan)
			}
		}
	}
}

func TestSequenceNoRelationsOnlyRoots(t *testing.T) {
	tbl := relation.New(3)
	r := rng.New(7)
	for range 200 {
		plan := Sequence(tbl, 4, r)
		// Without relations every entry is a root, and roots are only
		// added while the plan is within budget.
		if len(plan) > 5 {
			t.Fatalf("expected at most 5 roots, got %v", plan)
		}
	}
}

func TestCloseDepsPossibleInclusionRate(t *testing.T) {
	// read (1) possibly depends on open (0)
	tbl, err := relation.Parse([]string{"NN", "PN"})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	r := rng.New(42)
	const draws = 8000
	hits := 0
	for range draws {
		marked := []bool{false, true}
		plan := closeDeps(tbl, marked, []int{1}, 0, 10, r)
		switch len(plan) {
		case 1:
		case 2:
			if plan[1] != 0 {
				t.Fatalf("expected open to be appended, got %v", plan)
			}
			hits++
		default:
			t.Fatalf("unexpected plan %v", plan)
		}
	}
	rate := float64(hits) / draws
	if rate < 0.72 || rate > 0.78 {
		t.Fatalf("expected inclusion rate near 0.75, got %.3f", rate)
	}
}

func TestCloseDepsRepeatRates(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want float64
	}{
		{"possible", []string{"NN", "PN"}, pPossibleRepeat},
		{"unknown", []string{"NN", "?N"}, pUnknownRepeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := relation.Parse(tt.rows)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			r := rng.New(3)
			const draws = 20000
			hits := 0
			for range draws {
				// open is already in the plan, so this is a repeat
				plan := closeDeps(tbl, []bool{true, true}, []int{1}, 0, 10, r)
				if len(plan) == 2 {
					hits++
				}
			}
			rate := float64(hits) / draws
			if rate < tt.want-0.02 || rate > tt.want+0.02 {
				t.Fatalf("expected repeat rate near %.3f, got %.3f", tt.want, rate)
			}
		})
	}
}

func TestCloseDepsStopsAtBudget(t *testing.T) {
	tbl, err := relation.Parse([]string{"PPP", "PPP", "PPP"})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	r := rng.New(9)
	for range 200 {
		plan := closeDeps(tbl, make([]bool, 3), []int{0}, 0, 4, r)
		if len(plan) > 4+3 {
			t.Fatalf("expected closure to stop near the budget, got %v", plan)
		}
	}
}
