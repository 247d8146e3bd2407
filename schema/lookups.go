package schema

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// STATIC LOOKUPS — bundled enrichment tables
// ============================================================================
// Built once at package init and never mutated. Callers get copies of the
// ordered slices so nothing outside this file can change them.
// ============================================================================

// Region is a two-letter jurisdiction code with its full name.
type Region struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// regions is in the order the selector offers them.
var regions = []Region{
	{"NJ", "New Jersey"}, {"IL", "Illinois"}, {"NY", "New York"}, {"CA", "California"},
	{"PA", "Pennsylvania"}, {"WI", "Wisconsin"}, {"WA", "Washington"}, {"NC", "North Carolina"},
	{"OH", "Ohio"}, {"GA", "Georgia"}, {"KY", "Kentucky"}, {"FL", "Florida"},
	{"MD", "Maryland"}, {"TX", "Texas"}, {"VA", "Virginia"}, {"MI", "Michigan"},
	{"SD", "South Dakota"}, {"IN", "Indiana"}, {"NE", "Nebraska"}, {"MO", "Missouri"},
	{"MA", "Massachusetts"}, {"TN", "Tennessee"}, {"LA", "Louisiana"}, {"DC", "District of Columbia"},
	{"AR", "Arkansas"}, {"OK", "Oklahoma"}, {"UT", "Utah"}, {"MN", "Minnesota"},
	{"AZ", "Arizona"}, {"CT", "Connecticut"}, {"RI", "Rhode Island"}, {"ME", "Maine"},
	{"NH", "New Hampshire"}, {"CO", "Colorado"}, {"AL", "Alabama"}, {"KS", "Kansas"},
	{"ID", "Idaho"}, {"HI", "Hawaii"}, {"OR", "Oregon"}, {"NV", "Nevada"},
	{"NM", "New Mexico"}, {"VT", "Vermont"}, {"IA", "Iowa"}, {"SC", "South Carolina"},
	{"DE", "Delaware"}, {"ND", "North Dakota"}, {"MS", "Mississippi"}, {"WY", "Wyoming"},
	{"MT", "Montana"}, {"AK", "Alaska"}, {"WV", "West Virginia"},
}

var regionByCode = func() map[string]string {
	m := make(map[string]string, len(regions))
	for _, r := range regions {
		m[r.Code] = r.Name
	}
	return m
}()

var regionByName = func() map[string]string {
	m := make(map[string]string, len(regions))
	for _, r := range regions {
		m[strings.ToLower(r.Name)] = r.Code
	}
	return m
}()

// UnknownRegionError reports a region code outside the fixed mapping.
type UnknownRegionError struct {
	Code string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region code %q", e.Code)
}

// Regions returns every known region in selector order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionName returns the full name for a region code.
func RegionName(code string) (string, error) {
	name, ok := regionByCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", &UnknownRegionError{Code: code}
	}
	return name, nil
}

// ResolveRegion accepts either a code ("CA") or a full name ("California")
// and returns the canonical code.
func ResolveRegion(s string) (string, error) {
	s = strings.TrimSpace(s)
	code := strings.ToUpper(s)
	if _, ok := regionByCode[code]; ok {
		return code, nil
	}
	if code, ok := regionByName[strings.ToLower(s)]; ok {
		return code, nil
	}
	return "", &UnknownRegionError{Code: s}
}

// ── Company size ─────────────────────────────────────────────────────────────

var companySizeLabels = []string{
	"2-50 employees",
	"51-200 employees",
	"201-500 employees",
	"501-1000 employees",
	"1001-5000 employees",
	"5001-10,000 employees",
	"10,001+ employees",
}

// CompanySizeLabels returns the seven size bands, smallest first.
func CompanySizeLabels() []string {
	out := make([]string, len(companySizeLabels))
	copy(out, companySizeLabels)
	return out
}

// CompanySizeLabel maps an ordinal class (1–7) to its band label.
// Non-integral or out-of-range values yield ok=false (the unlabeled bucket).
func CompanySizeLabel(ordinal float64) (string, bool) {
	if math.IsNaN(ordinal) || ordinal != math.Trunc(ordinal) {
		return "", false
	}
	i := int(ordinal)
	if i < 1 || i > len(companySizeLabels) {
		return "", false
	}
	return companySizeLabels[i-1], true
}

// CompanySizeRank returns the 0-based position of a size label, or -1.
func CompanySizeRank(label string) int {
	for i, l := range companySizeLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// ── Experience level ─────────────────────────────────────────────────────────

var experienceLevels = []string{
	"Internship",
	"Entry level",
	"Associate",
	"Mid-Senior level",
	"Director",
	"Executive",
}

// ExperienceLevels returns the fixed seniority order, most junior first.
func ExperienceLevels() []string {
	out := make([]string, len(experienceLevels))
	copy(out, experienceLevels)
	return out
}

// ExperienceRank returns the 0-based seniority of a level, or -1.
func ExperienceRank(level string) int {
	for i, l := range experienceLevels {
		if l == level {
			return i
		}
	}
	return -1
}
