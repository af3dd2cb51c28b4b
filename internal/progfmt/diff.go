package progfmt

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"callgen/internal/prog"
)

// diffContext is the number of unchanged calls shown around each change.
const diffContext = 3

// Diff renders a and b and returns their unified diff, or "" when the
// renderings are identical. Programs are compared call by call, so the
// output names the first call that diverges.
func (pr Printer) Diff(aName string, a *prog.Prog, bName string, b *prog.Prog) (string, error) {
	ra, rb := pr.Sprint(a), pr.Sprint(b)
	if ra == rb {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(ra),
		B:        splitLines(rb),
		FromFile: aName,
		ToFile:   bName,
		Context:  diffContext,
	})
}

// splitLines keeps each line's newline and drops the empty tail.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
