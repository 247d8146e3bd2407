package insights

import (
	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// Lookups lists the values a selector can offer.
type Lookups struct {
	Skills           []string               `json:"skills" yaml:"skills"`
	Regions          []schema.Region        `json:"states" yaml:"states"`
	CompanySizes     []string               `json:"company_sizes" yaml:"company_sizes"`
	ExperienceLevels []string               `json:"experience_levels" yaml:"experience_levels"`
	ActivityLevels   []engine.ActivityLevel `json:"activity_levels" yaml:"activity_levels"`
}

// LookupsFor returns the table's skills and the bundled ordered lookups.
func LookupsFor(t *dataset.Table) Lookups {
	return Lookups{
		Skills:           t.Skills(),
		Regions:          schema.Regions(),
		CompanySizes:     schema.CompanySizeLabels(),
		ExperienceLevels: schema.ExperienceLevels(),
		ActivityLevels:   engine.ActivityLevels(),
	}
}
