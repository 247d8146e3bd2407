package insights

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// ============================================================================
// DASHBOARD — Every panel for one selection
// ============================================================================
// Panels fail independently: a panel without data is reported as a
// PanelError and the rest of the dashboard is still returned.
// ============================================================================

// Panel names.
const (
	PanelSalary    = "salary"
	PanelRegions   = "regions"
	PanelFlow      = "flow"
	PanelCompanies = "companies"
	PanelSalaries  = "salaries"
)

// Error kinds reported in PanelError.Kind.
const (
	KindEmptyInput    = "empty_input"
	KindInvalidBins   = "invalid_bins"
	KindUnknownRegion = "unknown_region"
	KindInvalid       = "invalid_selection"
	KindInternal      = "internal"
)

// PanelError is the fallback for a panel that could not be computed.
type PanelError struct {
	Panel   string `json:"panel" yaml:"panel"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Dashboard holds every panel for one selection. A nil panel has a
// matching entry in Errors.
type Dashboard struct {
	Selection Selection           `json:"selection" yaml:"selection"`
	Salary    *SalarySummary      `json:"salary,omitempty" yaml:"salary,omitempty"`
	Regions   *RegionMap          `json:"regions,omitempty" yaml:"regions,omitempty"`
	Flow      *Flow               `json:"flow,omitempty" yaml:"flow,omitempty"`
	Companies *CompanyBreakdown   `json:"companies,omitempty" yaml:"companies,omitempty"`
	Salaries  *SalaryDistribution `json:"salaries,omitempty" yaml:"salaries,omitempty"`
	Errors    []PanelError        `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Build computes every panel. Only an invalid selection fails the call;
// panel errors are collected in Dashboard.Errors.
func Build(t *dataset.Table, sel Selection, opts ...Option) (*Dashboard, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	d := &Dashboard{Selection: sel}

	record := func(panel string, err error) bool {
		if err == nil {
			return true
		}
		pe := PanelError{Panel: panel, Kind: ErrorKind(err), Message: err.Error()}
		if pe.Kind == KindEmptyInput {
			pe.Message = "insufficient data"
		}
		cfg.Logger.Warn("panel unavailable",
			zap.String("panel", panel),
			zap.String("kind", pe.Kind),
			zap.Error(err))
		d.Errors = append(d.Errors, pe)
		return false
	}

	if s, err := Salary(t, sel, opts...); record(PanelSalary, err) {
		d.Salary = s
	}
	if r, err := Regions(t, sel, opts...); record(PanelRegions, err) {
		d.Regions = r
	}
	if f, err := SkillFlow(t, sel, opts...); record(PanelFlow, err) {
		d.Flow = f
	}
	if c, err := Companies(t, sel, opts...); record(PanelCompanies, err) {
		d.Companies = c
	}
	if s, err := Salaries(t, sel, opts...); record(PanelSalaries, err) {
		d.Salaries = s
	}

	cfg.Logger.Debug("dashboard built",
		zap.String("skill", sel.Skill),
		zap.String("state", sel.Region),
		zap.Int("panel_errors", len(d.Errors)))
	return d, nil
}

// ErrorKind classifies an error returned by a panel.
func ErrorKind(err error) string {
	var (
		empty   *engine.EmptyInputError
		bins    *engine.InvalidBinConfigError
		region  *schema.UnknownRegionError
		invalid *SelectionError
	)
	switch {
	case errors.As(err, &empty):
		return KindEmptyInput
	case errors.As(err, &bins):
		return KindInvalidBins
	case errors.As(err, &region):
		return KindUnknownRegion
	case errors.As(err, &invalid):
		return KindInvalid
	default:
		return KindInternal
	}
}
