package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from Groups
// ============================================================================

// BuildCountTable produces a table with one row per group: label, row count
// and share of the total. The summary row carries the grand total.
func BuildCountTable(title, dimLabel string, groups []Group) *TableData {
	if dimLabel == "" {
		dimLabel = "Group"
	}

	columns := []Column{
		{Key: "group", Label: dimLabel, Type: "text", Align: "left"},
		{Key: "count", Label: "Postings", Type: "number", Align: "right"},
		{Key: "share", Label: "Share", Type: "number", Align: "right"},
	}

	if len(groups) == 0 {
		return &TableData{
			Title:   title,
			Columns: columns,
			Rows:    [][]string{},
		}
	}

	total := 0
	for _, g := range groups {
		total += g.Count
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			strconv.Itoa(g.Count),
			fmt.Sprintf("%.1f%%", share(g.Count, total)),
		})
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d groups)", len(groups)),
			Values: map[string]string{
				"count": FormatInt(total),
				"share": "100.0%",
			},
		},
	}
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return RoundTo2(float64(n) * 100 / float64(total))
}
