package dataset

import "github.com/spektr-org/skillscope/engine"

// JobPosting is one row of the posting table after enrichment.
// Numeric fields are nil when the source cell was empty or not a number.
type JobPosting struct {
	JobID            string   `json:"job_id" yaml:"job_id"`
	Skill            string   `json:"skill_name" yaml:"skill_name"`
	Region           string   `json:"state" yaml:"state"`
	RegionName       string   `json:"state_full_name,omitempty" yaml:"state_full_name,omitempty"`
	Company          string   `json:"company_name" yaml:"company_name"`
	CompanySize      *int     `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	CompanySizeLabel string   `json:"company_size_label,omitempty" yaml:"company_size_label,omitempty"`
	MinSalary        *float64 `json:"min_salary,omitempty" yaml:"min_salary,omitempty"`
	MaxSalary        *float64 `json:"max_salary,omitempty" yaml:"max_salary,omitempty"`
	ExperienceLevel  string   `json:"formatted_experience_level" yaml:"formatted_experience_level"`
	WorkType         string   `json:"formatted_work_type" yaml:"formatted_work_type"`
	Views            *float64 `json:"views,omitempty" yaml:"views,omitempty"`
	Applies          *float64 `json:"applies,omitempty" yaml:"applies,omitempty"`
}

func value(p *float64) float64 {
	if p == nil {
		return engine.Missing
	}
	return *p
}

// MinSalaryValue returns the minimum salary, NaN when missing.
func (p JobPosting) MinSalaryValue() float64 { return value(p.MinSalary) }

// MaxSalaryValue returns the maximum salary, NaN when missing.
func (p JobPosting) MaxSalaryValue() float64 { return value(p.MaxSalary) }

// ViewsValue returns the view count, NaN when missing.
func (p JobPosting) ViewsValue() float64 { return value(p.Views) }

// AppliesValue returns the application count, NaN when missing.
func (p JobPosting) AppliesValue() float64 { return value(p.Applies) }

// CompanySizeValue returns the size ordinal, NaN when missing.
func (p JobPosting) CompanySizeValue() float64 {
	if p.CompanySize == nil {
		return engine.Missing
	}
	return float64(*p.CompanySize)
}

// SalaryMidpoint is (min+max)/2, NaN when either bound is missing.
func (p JobPosting) SalaryMidpoint() float64 {
	if p.MinSalary == nil || p.MaxSalary == nil {
		return engine.Missing
	}
	return (*p.MinSalary + *p.MaxSalary) / 2
}

// HasKnownRegion reports whether the region code resolved to a state name.
func (p JobPosting) HasKnownRegion() bool { return p.RegionName != "" }
