package dataset

import (
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// Table is the loaded posting table. It is never mutated after
// construction and is safe to share between goroutines.
type Table struct {
	postings []JobPosting
	view     engine.RecordView
	skills   []string
	report   LoadReport
}

// NewTable wraps postings in a Table. The slice is owned by the Table.
func NewTable(postings []JobPosting, report LoadReport) *Table {
	if postings == nil {
		postings = []JobPosting{}
	}
	view := Bind(postings)
	return &Table{
		postings: postings,
		view:     view,
		skills:   engine.UniqueValues(view, schema.ColSkill),
		report:   report,
	}
}

// Len returns the number of postings.
func (t *Table) Len() int { return len(t.postings) }

// View returns the table as a RecordView.
func (t *Table) View() engine.RecordView { return t.view }

// Postings returns a copy of the rows.
func (t *Table) Postings() []JobPosting {
	return append([]JobPosting(nil), t.postings...)
}

// Skills returns the distinct skills in first-seen order.
func (t *Table) Skills() []string {
	return append([]string(nil), t.skills...)
}

// HasSkill reports whether any posting carries skill.
func (t *Table) HasSkill(skill string) bool {
	for _, s := range t.skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Report returns the load report.
func (t *Table) Report() LoadReport { return t.report }
