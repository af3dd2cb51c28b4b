package check

import (
	"fmt"
	"sort"

	"callgen/internal/diag"
	"callgen/internal/relation"
	"callgen/internal/types"
)

// Relations reports a missing table set, tables for unknown groups and
// tables whose size differs from their group.
func Relations(r diag.Reporter, cat *types.Catalog, tables map[types.GroupID]*relation.Table) {
	if len(tables) == 0 {
		diag.ReportError(r, diag.RelNoGroups, "relations", "at least one group relation table is required")
		return
	}
	ids := make([]types.GroupID, 0, len(tables))
	for id := range tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		subject := fmt.Sprintf("group #%d", id)
		if cat == nil {
			continue
		}
		g, ok := cat.Group(id)
		if !ok {
			diag.ReportError(r, diag.RelUnknownGroup, subject, "relation table refers to a group missing from the catalog")
			continue
		}
		subject = fmt.Sprintf("group %q", g.Name)
		if len(g.Fns) == 0 {
			diag.ReportError(r, diag.RelEmptyGroup, subject, "group has no operations to sequence")
			continue
		}
		tbl := tables[id]
		if tbl.Len() != len(g.Fns) {
			diag.ReportError(r, diag.RelShape, subject,
				fmt.Sprintf("relation table is %d×%d but the group has %d operations", tbl.Len(), tbl.Len(), len(g.Fns)))
		}
	}
}
