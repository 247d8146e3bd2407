package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Fixed shape of the job-postings table
// ============================================================================
// The loader uses the schema to map CSV headers onto posting fields.
// The engine and insights use the column keys as dimension/measure names.
// Derived columns (region name, size label, salary midpoint) are produced by
// the dataset package from the static lookups in lookups.go.
// ============================================================================

// Source columns, as they appear (snake_cased) in the CSV header.
const (
	ColJobID           = "job_id"
	ColSkill           = "skill_name"
	ColRegion          = "state"
	ColCompany         = "company_name"
	ColCompanySize     = "company_size"
	ColMinSalary       = "min_salary"
	ColMaxSalary       = "max_salary"
	ColExperienceLevel = "formatted_experience_level"
	ColWorkType        = "formatted_work_type"
	ColViews           = "views"
	ColApplies         = "applies"
)

// Derived columns exposed through the record view.
const (
	ColRegionName       = "state_full_name"
	ColCompanySizeLabel = "company_size_label"
	ColSalaryMidpoint   = "salary_midpoint"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Groupable   bool   `json:"groupable"`
	Filterable  bool   `json:"filterable"`
	DerivedFrom string `json:"derivedFrom,omitempty"` // source column for lookup-enriched fields
	Ordered     bool   `json:"ordered,omitempty"`     // values carry a fixed categorical order
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit,omitempty"` // "currency", "count", "ordinal"
	Required    bool   `json:"required"`
	DerivedFrom string `json:"derivedFrom,omitempty"`
}

// JobPostings returns the schema of the postings table.
func JobPostings() Config {
	return Config{
		Name:        "Job Postings",
		Description: "Job postings by skill, state, company and experience level",
		Dimensions: []DimensionMeta{
			{Key: ColJobID, DisplayName: "Job ID", Required: true, Filterable: true},
			{Key: ColSkill, DisplayName: "Skill", Required: true, Groupable: true, Filterable: true},
			{Key: ColRegion, DisplayName: "State", Required: true, Groupable: true, Filterable: true},
			{Key: ColRegionName, DisplayName: "State Name", Groupable: true, Filterable: true, DerivedFrom: ColRegion},
			{Key: ColCompany, DisplayName: "Company", Required: true, Groupable: true, Filterable: true},
			{Key: ColCompanySizeLabel, DisplayName: "Company Size", Groupable: true, Filterable: true, DerivedFrom: ColCompanySize, Ordered: true},
			{Key: ColExperienceLevel, DisplayName: "Experience Level", Required: true, Groupable: true, Filterable: true, Ordered: true},
			{Key: ColWorkType, DisplayName: "Work Type", Required: true, Groupable: true, Filterable: true},
		},
		Measures: []MeasureMeta{
			{Key: ColMinSalary, DisplayName: "Minimum Salary", Unit: "currency", Required: true},
			{Key: ColMaxSalary, DisplayName: "Maximum Salary", Unit: "currency", Required: true},
			{Key: ColSalaryMidpoint, DisplayName: "Average Salary", Unit: "currency", DerivedFrom: ColMinSalary + "," + ColMaxSalary},
			{Key: ColCompanySize, DisplayName: "Company Size Class", Unit: "ordinal", Required: true},
			{Key: ColViews, DisplayName: "Views", Unit: "count", Required: true},
			{Key: ColApplies, DisplayName: "Applications", Unit: "count", Required: true},
		},
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// RequiredColumns returns the source columns a CSV must provide, in schema order.
func (c Config) RequiredColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.Required {
			cols = append(cols, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required {
			cols = append(cols, m.Key)
		}
	}
	return cols
}

// DisplayName returns the display name for a dimension or measure key,
// or the key itself when unknown.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// ============================================================================
// HEADER MAPPING
// ============================================================================

// HeaderIndex maps normalized header names to their column positions.
type HeaderIndex map[string]int

// MissingColumnsError reports required columns absent from a CSV header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// IndexHeaders normalizes a CSV header row and checks it against the schema.
// Unmapped columns are ignored; the first occurrence of a duplicate wins.
func (c Config) IndexHeaders(headers []string) (HeaderIndex, error) {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	var missing []string
	for _, col := range c.RequiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

// NormalizeHeader converts "Column Name" → "column_name".
// A leading UTF-8 byte-order mark is dropped.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
