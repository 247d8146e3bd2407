// Package skillscope explores a static table of job postings by skill,
// state and work type.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/skillscope/dataset"
//	    "github.com/spektr-org/skillscope/insights"
//	)
//
//	table, err := dataset.LoadFile("main_df_subset.csv", dataset.LoadOptions{})
//	sel := insights.DefaultSelection(table, "CA").WithSkill("SQL")
//	dash, err := insights.Build(table, sel, insights.WithTopN(5))
//
// The schema package fixes the posting columns and bundled lookups, the
// engine package filters, groups, bins and categorizes any RecordView, and
// the insights package composes them into dashboard panels. The skillscope
// command (cmd/skillscope) serves the panels from a terminal, an
// interactive session or a JSON API.
package skillscope
