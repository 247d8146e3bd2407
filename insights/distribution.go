package insights

import (
	"go.uber.org/zap"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// SalaryBox is the salary box for one company size and activity level.
type SalaryBox struct {
	CompanySize string               `json:"company_size" yaml:"company_size"`
	Activity    engine.ActivityLevel `json:"activity" yaml:"activity"`
	engine.Box  `yaml:",inline"`
}

// SalaryDistribution is the box-plot panel for one skill.
type SalaryDistribution struct {
	Skill     string                     `json:"skill" yaml:"skill"`
	Samples   int                        `json:"samples" yaml:"samples"`
	Unlabeled int                        `json:"unlabeled" yaml:"unlabeled"`
	Quantiles engine.QuantileCategorizer `json:"applies_quantiles" yaml:"applies_quantiles"`
	Boxes     []SalaryBox                `json:"boxes" yaml:"boxes"`
}

// Keys of the exploded sample view.
const (
	sampleSalary = "salary"
	sampleBound  = "salary_bound"
)

// Salaries explodes each posting of the skill into its min and
// max salary, drops samples missing a salary or an application count, and
// buckets applications by the samples' median and 75th percentile. Boxes are
// ordered by company size then activity level; samples without a size label
// are counted in Unlabeled only. Only the skill of sel is used.
func Salaries(t *dataset.Table, sel Selection, opts ...Option) (*SalaryDistribution, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	sub := engine.Filter(t.View(), engine.Criteria{}.Eq(schema.ColSkill, sel.Skill))
	samples := engine.FilterPresent(
		engine.Melt(sub, sampleSalary, sampleBound, schema.ColMinSalary, schema.ColMaxSalary),
		sampleSalary, schema.ColApplies)
	if samples.Len() == 0 {
		return nil, &engine.EmptyInputError{Op: "salary distribution", Measure: schema.ColApplies}
	}

	applies := engine.Values(samples, schema.ColApplies)
	categorizer, err := engine.NewQuantileCategorizer(applies)
	if err != nil {
		return nil, err
	}
	levels := categorizer.CategorizeAll(applies)

	cfg.Logger.Debug("applies quantiles",
		zap.String("skill", sel.Skill),
		zap.Int("samples", samples.Len()),
		zap.Float64("median", categorizer.Median),
		zap.Float64("p75", categorizer.P75))

	out := &SalaryDistribution{Skill: sel.Skill, Samples: samples.Len(), Quantiles: *categorizer}

	type cell struct {
		size     string
		activity engine.ActivityLevel
	}
	salaries := make(map[cell][]float64)
	for i := 0; i < samples.Len(); i++ {
		size := samples.Dimension(i, schema.ColCompanySizeLabel)
		if size == "" {
			out.Unlabeled++
			continue
		}
		c := cell{size, levels[i]}
		salaries[c] = append(salaries[c], samples.Measure(i, sampleSalary))
	}

	for _, size := range schema.CompanySizeLabels() {
		for _, level := range engine.ActivityLevels() {
			values, ok := salaries[cell{size, level}]
			if !ok {
				continue
			}
			box, err := engine.BoxStats(values)
			if err != nil {
				return nil, err
			}
			out.Boxes = append(out.Boxes, SalaryBox{CompanySize: size, Activity: level, Box: box})
		}
	}
	return out, nil
}
