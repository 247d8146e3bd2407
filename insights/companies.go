package insights

import (
	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// LevelCount is the posting count of one experience level.
type LevelCount struct {
	Level    string `json:"level" yaml:"level"`
	Postings int    `json:"postings" yaml:"postings"`
}

// CompanyLevels is one top employer broken down by experience level.
type CompanyLevels struct {
	Company  string       `json:"company" yaml:"company"`
	Postings int          `json:"postings" yaml:"postings"`
	Levels   []LevelCount `json:"levels" yaml:"levels"`
}

// CompanyBreakdown is the stacked-bar panel: top employers for skill ∧ state
// within one work type.
type CompanyBreakdown struct {
	Skill      string               `json:"skill" yaml:"skill"`
	Region     string               `json:"state" yaml:"state"`
	RegionName string               `json:"state_name" yaml:"state_name"`
	WorkTypes  []string             `json:"work_types" yaml:"work_types"`
	WorkType   string               `json:"work_type" yaml:"work_type"`
	Companies  []CompanyLevels      `json:"companies" yaml:"companies"`
	Series     []engine.ChartSeries `json:"series" yaml:"series"`
}

// Companies lists the work types available for skill ∧ state (first-seen
// order), picks sel.WorkType or else the first available one, and ranks the
// top employers with experience levels in seniority order.
func Companies(t *dataset.Table, sel Selection, opts ...Option) (*CompanyBreakdown, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	base := engine.Criteria{}.
		Eq(schema.ColSkill, sel.Skill).
		Eq(schema.ColRegion, sel.Region)
	workTypes := engine.UniqueValues(engine.Filter(t.View(), base), schema.ColWorkType)
	if len(workTypes) == 0 {
		return nil, &engine.EmptyInputError{Op: "company breakdown"}
	}

	workType := sel.WorkType
	if workType == "" {
		workType = workTypes[0]
	}

	sub := engine.Filter(t.View(), base.Eq(schema.ColWorkType, workType))
	if sub.Len() == 0 {
		return nil, &engine.EmptyInputError{Op: "company breakdown"}
	}

	groups := engine.TopNNested(sub, schema.ColCompany, cfg.TopN, schema.ColExperienceLevel)
	groups = engine.OrderSubGroups(groups, schema.ExperienceRank)

	out := &CompanyBreakdown{
		Skill:      sel.Skill,
		Region:     sel.Region,
		RegionName: sel.RegionName(),
		WorkTypes:  workTypes,
		WorkType:   workType,
		Companies:  make([]CompanyLevels, len(groups)),
		Series:     engine.BuildStackedSeries(groups, schema.ExperienceLevels()),
	}
	for i, g := range groups {
		levels := make([]LevelCount, len(g.SubGroups))
		for j, sg := range g.SubGroups {
			levels[j] = LevelCount{Level: sg.Key, Postings: sg.Count}
		}
		out.Companies[i] = CompanyLevels{Company: g.Key, Postings: g.Count, Levels: levels}
	}
	return out, nil
}
