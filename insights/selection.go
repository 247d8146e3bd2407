package insights

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/schema"
)

var validate = validator.New()

// Selection is the user's current choice of skill, state and work type.
// It is a value: the With* methods return a modified copy.
type Selection struct {
	Skill        string `json:"skill" yaml:"skill" validate:"required,max=200"`
	Region       string `json:"state" yaml:"state" validate:"required,len=2,uppercase"`
	WorkType     string `json:"work_type,omitempty" yaml:"work_type,omitempty" validate:"max=200"`
	IncludeOther bool   `json:"include_other" yaml:"include_other"`
}

// SelectionError reports a selection field that failed validation.
type SelectionError struct {
	Field  string
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s %s", e.Field, e.Reason)
}

// DefaultSelection picks the table's first skill and the given region
// (a code or full state name). An empty work type means "first available".
func DefaultSelection(t *dataset.Table, region string) Selection {
	sel := Selection{Region: strings.ToUpper(strings.TrimSpace(region))}
	if code, err := schema.ResolveRegion(region); err == nil {
		sel.Region = code
	}
	if skills := t.Skills(); len(skills) > 0 {
		sel.Skill = skills[0]
	}
	return sel
}

func (s Selection) WithSkill(skill string) Selection {
	s.Skill = skill
	return s
}

// WithRegion accepts a two-letter code or a full state name. Unresolvable
// input is kept upper-cased so Validate can report it.
func (s Selection) WithRegion(region string) Selection {
	if code, err := schema.ResolveRegion(region); err == nil {
		s.Region = code
		return s
	}
	s.Region = strings.ToUpper(strings.TrimSpace(region))
	return s
}

func (s Selection) WithWorkType(workType string) Selection {
	s.WorkType = workType
	return s
}

func (s Selection) WithIncludeOther(include bool) Selection {
	s.IncludeOther = include
	return s
}

// Validate checks field shapes and that the region is a known state.
// Returns *SelectionError or *schema.UnknownRegionError.
func (s Selection) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &SelectionError{Field: strings.ToLower(verrs[0].Field()), Reason: reason(verrs[0])}
		}
		return err
	}
	if _, err := schema.RegionName(s.Region); err != nil {
		return err
	}
	return nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return "must be a two-letter state code"
	case "uppercase":
		return "must be upper-case"
	case "max":
		return "is too long"
	default:
		return "failed " + fe.Tag()
	}
}

// RegionName returns the full state name of the selection's region, or ""
// when it is unknown.
func (s Selection) RegionName() string {
	name, _ := schema.RegionName(s.Region)
	return name
}
