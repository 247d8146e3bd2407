package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// HEADER TESTS
// ============================================================================

var postingHeaders = []string{
	"Job ID", "Skill Name", "State", "Company Name", "Company Size",
	"Min Salary", "Max Salary", "Formatted Experience Level", "Formatted Work Type",
	"Views", "Applies", "Description",
}

func TestIndexHeaders_AllRequiredPresent(t *testing.T) {
	idx, err := JobPostings().IndexHeaders(postingHeaders)
	require.NoError(t, err)

	assert.Equal(t, 0, idx[ColJobID])
	assert.Equal(t, 1, idx[ColSkill])
	assert.Equal(t, 7, idx[ColExperienceLevel])
	assert.Equal(t, 10, idx[ColApplies])
	assert.Equal(t, 11, idx["description"], "extra columns are indexed but not required")
}

func TestIndexHeaders_MissingColumns(t *testing.T) {
	_, err := JobPostings().IndexHeaders([]string{"job_id", "skill_name", "state"})
	require.Error(t, err)

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Columns, ColCompany)
	assert.Contains(t, missing.Columns, ColApplies)
	assert.NotContains(t, missing.Columns, ColSkill)
}

func TestIndexHeaders_DuplicateKeepsFirst(t *testing.T) {
	headers := append([]string{}, postingHeaders...)
	headers = append(headers, "skill_name")
	idx, err := JobPostings().IndexHeaders(headers)
	require.NoError(t, err)
	assert.Equal(t, 1, idx[ColSkill])
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "job_id", NormalizeHeader("\ufeffjob_id"))
	assert.Equal(t, "formatted_work_type", NormalizeHeader(" Formatted Work-Type "))
	assert.Equal(t, "", NormalizeHeader("   "))
}

func TestRequiredColumns_ExcludesDerived(t *testing.T) {
	cols := JobPostings().RequiredColumns()
	assert.Contains(t, cols, ColMinSalary)
	assert.NotContains(t, cols, ColRegionName)
	assert.NotContains(t, cols, ColCompanySizeLabel)
	assert.NotContains(t, cols, ColSalaryMidpoint)
}

func TestDisplayName(t *testing.T) {
	cfg := JobPostings()
	assert.Equal(t, "Experience Level", cfg.DisplayName(ColExperienceLevel))
	assert.Equal(t, "Applications", cfg.DisplayName(ColApplies))
	assert.Equal(t, "unknown_key", cfg.DisplayName("unknown_key"))
}

// ============================================================================
// LOOKUP TESTS
// ============================================================================

func TestRegions_FiftyStatesPlusDC(t *testing.T) {
	all := Regions()
	assert.Len(t, all, 51)

	seen := make(map[string]bool)
	for _, r := range all {
		assert.Len(t, r.Code, 2)
		assert.False(t, seen[r.Code], "duplicate code %s", r.Code)
		seen[r.Code] = true
	}
	assert.True(t, seen["DC"])
}

func TestRegions_ReturnsCopy(t *testing.T) {
	a := Regions()
	a[0].Name = "Mutated"
	name, err := RegionName(a[0].Code)
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", name)
}

func TestRegionName(t *testing.T) {
	name, err := RegionName("ca")
	require.NoError(t, err)
	assert.Equal(t, "California", name)

	_, err = RegionName("ZZ")
	var unknown *UnknownRegionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "ZZ", unknown.Code)
}

func TestResolveRegion(t *testing.T) {
	code, err := ResolveRegion("District of Columbia")
	require.NoError(t, err)
	assert.Equal(t, "DC", code)

	code, err = ResolveRegion(" tx ")
	require.NoError(t, err)
	assert.Equal(t, "TX", code)

	_, err = ResolveRegion("Ontario")
	assert.Error(t, err)
}

func TestCompanySizeLabel(t *testing.T) {
	label, ok := CompanySizeLabel(1)
	require.True(t, ok)
	assert.Equal(t, "2-50 employees", label)

	label, ok = CompanySizeLabel(7.0)
	require.True(t, ok)
	assert.Equal(t, "10,001+ employees", label)

	for _, v := range []float64{0, 8, 2.5, -1} {
		_, ok := CompanySizeLabel(v)
		assert.False(t, ok, "ordinal %v should be unlabeled", v)
	}
}

func TestCompanySizeRank(t *testing.T) {
	labels := CompanySizeLabels()
	for i, l := range labels {
		assert.Equal(t, i, CompanySizeRank(l))
	}
	assert.Equal(t, -1, CompanySizeRank("huge"))
}

func TestExperienceRank_FixedOrder(t *testing.T) {
	assert.Equal(t, []string{
		"Internship", "Entry level", "Associate", "Mid-Senior level", "Director", "Executive",
	}, ExperienceLevels())
	assert.Less(t, ExperienceRank("Internship"), ExperienceRank("Executive"))
	assert.Equal(t, 3, ExperienceRank("Mid-Senior level"))
	assert.Equal(t, -1, ExperienceRank("Senior"))
}
