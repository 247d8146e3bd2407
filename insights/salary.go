package insights

import (
	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// CompanyCount is one employer with its posting count.
type CompanyCount struct {
	Company  string `json:"company" yaml:"company"`
	Postings int    `json:"postings" yaml:"postings"`
}

// SalarySummary is the sidebar panel for one skill in one state.
type SalarySummary struct {
	Skill        string         `json:"skill" yaml:"skill"`
	Region       string         `json:"state" yaml:"state"`
	RegionName   string         `json:"state_name" yaml:"state_name"`
	Min          float64        `json:"min_salary" yaml:"min_salary"`
	Max          float64        `json:"max_salary" yaml:"max_salary"`
	Mean         float64        `json:"avg_salary" yaml:"avg_salary"`
	SalaryRows   int            `json:"salary_rows" yaml:"salary_rows"`
	Postings     int            `json:"postings" yaml:"postings"`
	TopCompanies []CompanyCount `json:"top_companies" yaml:"top_companies"`
}

// Salary summarises salaries for skill ∧ state: lowest min_salary, highest
// max_salary and the mean of per-row midpoints, plus posting count and the
// top employers. Returns *engine.EmptyInputError when nothing matches.
func Salary(t *dataset.Table, sel Selection, opts ...Option) (*SalarySummary, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	sub := engine.Filter(t.View(), engine.Criteria{}.
		Eq(schema.ColSkill, sel.Skill).
		Eq(schema.ColRegion, sel.Region))
	if sub.Len() == 0 {
		return nil, &engine.EmptyInputError{Op: "salary summary"}
	}

	low, err := engine.SummaryStats(sub, schema.ColMinSalary)
	if err != nil {
		return nil, err
	}
	high, err := engine.SummaryStats(sub, schema.ColMaxSalary)
	if err != nil {
		return nil, err
	}
	mid, err := engine.SummaryStats(sub, schema.ColSalaryMidpoint)
	if err != nil {
		return nil, err
	}

	return &SalarySummary{
		Skill:        sel.Skill,
		Region:       sel.Region,
		RegionName:   sel.RegionName(),
		Min:          low.Min,
		Max:          high.Max,
		Mean:         mid.Mean,
		SalaryRows:   mid.Count,
		Postings:     sub.Len(),
		TopCompanies: companyCounts(engine.TopN(sub, schema.ColCompany, cfg.TopN)),
	}, nil
}

func companyCounts(groups []engine.Group) []CompanyCount {
	out := make([]CompanyCount, len(groups))
	for i, g := range groups {
		out[i] = CompanyCount{Company: g.Key, Postings: g.Count}
	}
	return out
}
