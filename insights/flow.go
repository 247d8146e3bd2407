package insights

import (
	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// Node kinds of the flow diagram.
const (
	NodeSkill      = "skill"
	NodeExperience = "experience"
)

// FlowNode is one node of the skill → experience flow diagram.
type FlowNode struct {
	Label string `json:"label" yaml:"label"`
	Kind  string `json:"kind" yaml:"kind"`
}

// FlowLink connects a skill node to an experience node. Source and Target
// index into Flow.Nodes.
type FlowLink struct {
	Source int    `json:"source" yaml:"source"`
	Target int    `json:"target" yaml:"target"`
	Skill  string `json:"skill" yaml:"skill"`
	Level  string `json:"level" yaml:"level"`
	Count  int    `json:"count" yaml:"count"`
}

// Flow is the skill distribution panel for one state.
type Flow struct {
	Region     string     `json:"state" yaml:"state"`
	RegionName string     `json:"state_name" yaml:"state_name"`
	Skills     []string   `json:"skills" yaml:"skills"`
	Nodes      []FlowNode `json:"nodes" yaml:"nodes"`
	Links      []FlowLink `json:"links" yaml:"links"`
}

// SkillFlow ranks the state's top skills (the catch-all skill is left out
// unless sel.IncludeOther) and links each to the experience levels it was
// posted at. Skill nodes come first in rank order, then levels in seniority
// order. Only the region of sel is used.
func SkillFlow(t *dataset.Table, sel Selection, opts ...Option) (*Flow, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	criteria := engine.Criteria{}.Eq(schema.ColRegion, sel.Region)
	if !sel.IncludeOther && cfg.OtherSkill != "" {
		criteria = criteria.NotIn(schema.ColSkill, cfg.OtherSkill)
	}
	sub := engine.Filter(t.View(), criteria)
	if sub.Len() == 0 {
		return nil, &engine.EmptyInputError{Op: "skill flow"}
	}

	groups := engine.TopNNested(sub, schema.ColSkill, cfg.TopN, schema.ColExperienceLevel)
	groups = engine.OrderSubGroups(groups, schema.ExperienceRank)

	flow := &Flow{
		Region:     sel.Region,
		RegionName: sel.RegionName(),
		Skills:     make([]string, len(groups)),
	}
	for i, g := range groups {
		flow.Skills[i] = g.Key
		flow.Nodes = append(flow.Nodes, FlowNode{Label: g.Key, Kind: NodeSkill})
	}

	levelNode := make(map[string]int)
	for _, level := range levelsIn(groups) {
		levelNode[level] = len(flow.Nodes)
		flow.Nodes = append(flow.Nodes, FlowNode{Label: level, Kind: NodeExperience})
	}

	for i, g := range groups {
		for _, sg := range g.SubGroups {
			flow.Links = append(flow.Links, FlowLink{
				Source: i,
				Target: levelNode[sg.Key],
				Skill:  g.Key,
				Level:  sg.Key,
				Count:  sg.Count,
			})
		}
	}
	return flow, nil
}

// levelsIn returns the experience levels present in any subgroup, in
// seniority order; unrecognised levels follow in first-seen order.
func levelsIn(groups []engine.Group) []string {
	present := make(map[string]bool)
	var unranked []string
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if present[sg.Key] {
				continue
			}
			present[sg.Key] = true
			if schema.ExperienceRank(sg.Key) < 0 {
				unranked = append(unranked, sg.Key)
			}
		}
	}

	var levels []string
	for _, level := range schema.ExperienceLevels() {
		if present[level] {
			levels = append(levels, level)
		}
	}
	return append(levels, unranked...)
}
