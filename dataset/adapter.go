package dataset

import (
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// adapter exposes JobPosting fields under the schema's column keys.
// Declared once; every Table binds its postings through it.
var adapter = engine.NewDomainAdapter[JobPosting]().
	Dimension(schema.ColJobID, func(p JobPosting) string { return p.JobID }).
	Dimension(schema.ColSkill, func(p JobPosting) string { return p.Skill }).
	Dimension(schema.ColRegion, func(p JobPosting) string { return p.Region }).
	Dimension(schema.ColRegionName, func(p JobPosting) string { return p.RegionName }).
	Dimension(schema.ColCompany, func(p JobPosting) string { return p.Company }).
	Dimension(schema.ColCompanySizeLabel, func(p JobPosting) string { return p.CompanySizeLabel }).
	Dimension(schema.ColExperienceLevel, func(p JobPosting) string { return p.ExperienceLevel }).
	Dimension(schema.ColWorkType, func(p JobPosting) string { return p.WorkType }).
	Measure(schema.ColMinSalary, JobPosting.MinSalaryValue).
	Measure(schema.ColMaxSalary, JobPosting.MaxSalaryValue).
	Measure(schema.ColSalaryMidpoint, JobPosting.SalaryMidpoint).
	Measure(schema.ColCompanySize, JobPosting.CompanySizeValue).
	Measure(schema.ColViews, JobPosting.ViewsValue).
	Measure(schema.ColApplies, JobPosting.AppliesValue)

// Bind returns a zero-copy view over postings.
func Bind(postings []JobPosting) engine.RecordView {
	return adapter.Bind(postings)
}
