package insights

import (
	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// RegionCount is one state on the choropleth with its bucket.
type RegionCount struct {
	Code     string `json:"state" yaml:"state"`
	Name     string `json:"state_name" yaml:"state_name"`
	Postings int    `json:"postings" yaml:"postings"`
	Bin      int    `json:"bin" yaml:"bin"`
	BinLabel string `json:"bin_label" yaml:"bin_label"`
}

// RegionMap is the choropleth panel: posting counts per known state for a
// skill, bucketed into fixed-width bins over the counts.
type RegionMap struct {
	Skill   string        `json:"skill" yaml:"skill"`
	Total   int           `json:"total" yaml:"total"`
	Bins    []engine.Bin  `json:"bins" yaml:"bins"`
	Regions []RegionCount `json:"states" yaml:"states"`
}

// Regions counts the skill's postings per state, in state-code order.
// Rows whose region is unknown are left out. Only the skill of sel is used.
func Regions(t *dataset.Table, sel Selection, opts ...Option) (*RegionMap, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	sub := engine.Filter(t.View(), engine.Criteria{}.
		Eq(schema.ColSkill, sel.Skill).
		NotIn(schema.ColRegionName, ""))
	if sub.Len() == 0 {
		return nil, &engine.EmptyInputError{Op: "region map"}
	}

	groups := engine.CountBy(sub, schema.ColRegion)
	engine.SortGroups(groups, engine.SortLabelAsc)

	counts := make([]float64, len(groups))
	for i, g := range groups {
		counts[i] = float64(g.Count)
	}
	bins, err := engine.FixedWidthBins(counts, cfg.MapBins)
	if err != nil {
		return nil, err
	}

	out := &RegionMap{Skill: sel.Skill, Total: sub.Len(), Bins: bins.Bins}
	out.Regions = make([]RegionCount, len(groups))
	for i, g := range groups {
		name, _ := schema.RegionName(g.Key)
		idx := bins.Assignments[i]
		out.Regions[i] = RegionCount{
			Code:     g.Key,
			Name:     name,
			Postings: g.Count,
			Bin:      idx,
			BinLabel: bins.Label(idx),
		}
	}
	return out, nil
}
