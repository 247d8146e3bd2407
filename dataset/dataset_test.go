package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

const postingsCSV = `Job ID,Skill Name,State,Company Name,Company Size,Min Salary,Max Salary,Formatted Experience Level,Formatted Work Type,Views,Applies,Title
1,SQL,CA,Acme,7,80000,100000,Entry level,Full-time,10,2,Analyst
2,SQL,ca,Initech,3,90000,110000,Associate,Full-time,5,0,Engineer
3,Python,ZZ,Globex,9,,,Director,Contract,1,,Lead
4,SQL,NY,Acme,2,120000,100000,Associate,Full-time,3,1,Analyst
5,SQL,CA,Acme
6,"Go,Lang",TX,Hooli,1.5,abc,50000,Executive,Part-time,NaN,4,Manager
7,S"QL,CA,Acme,1,1,2,Entry level,Full-time,1,1,Intern
`

func load(t *testing.T, policy SalaryPolicy) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(postingsCSV), LoadOptions{SalaryPolicy: policy})
	require.NoError(t, err)
	return table
}

// ============================================================================
// LOAD
// ============================================================================

func TestLoad_Report(t *testing.T) {
	table := load(t, "")
	report := table.Report()

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 2, report.Skipped, "short row and bare quote")
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 1, report.InvertedSalaries)
	assert.Equal(t, 2, report.UnlabeledSizes)
	assert.Equal(t, map[string]int{"ZZ": 1}, report.UnknownRegions)
	assert.Equal(t, []string{"ZZ"}, report.UnknownRegionCodes())
}

func TestLoad_Enrichment(t *testing.T) {
	postings := load(t, SalaryDrop).Postings()

	first := postings[0]
	assert.Equal(t, "California", first.RegionName)
	assert.Equal(t, "10,001+ employees", first.CompanySizeLabel)
	require.NotNil(t, first.CompanySize)
	assert.Equal(t, 7, *first.CompanySize)
	assert.Equal(t, 90000.0, first.SalaryMidpoint())

	second := postings[1]
	assert.Equal(t, "CA", second.Region, "region codes are upper-cased")
	assert.Equal(t, "201-500 employees", second.CompanySizeLabel)

	unknown := postings[2]
	assert.Equal(t, "ZZ", unknown.Region)
	assert.False(t, unknown.HasKnownRegion())
	assert.Equal(t, "", unknown.CompanySizeLabel)
	assert.Nil(t, unknown.MinSalary)
	assert.True(t, math.IsNaN(unknown.SalaryMidpoint()))
	assert.True(t, math.IsNaN(unknown.AppliesValue()))

	quoted := postings[3]
	assert.Equal(t, "Go,Lang", quoted.Skill)
	assert.Nil(t, quoted.CompanySize, "fractional size has no ordinal")
	assert.Nil(t, quoted.MinSalary)
	assert.Nil(t, quoted.Views, "NaN cells are missing")
	assert.Equal(t, 4.0, quoted.AppliesValue())
}

func TestLoad_SalaryPolicies(t *testing.T) {
	swapped := load(t, SalarySwap)
	require.Equal(t, 5, swapped.Len())
	row := swapped.Postings()[3]
	assert.Equal(t, "4", row.JobID)
	assert.Equal(t, 100000.0, *row.MinSalary)
	assert.Equal(t, 120000.0, *row.MaxSalary)
	assert.Equal(t, 1, swapped.Report().InvertedSalaries)
	assert.Equal(t, 0, swapped.Report().Dropped)

	kept := load(t, SalaryKeep)
	row = kept.Postings()[3]
	assert.Equal(t, 120000.0, *row.MinSalary)
	assert.Equal(t, 1, kept.Report().InvertedSalaries)
}

func TestLoad_MissingColumn(t *testing.T) {
	_, err := Load(strings.NewReader("job_id,skill_name,state\n1,SQL,CA\n"), LoadOptions{})
	require.Error(t, err)

	var missing *schema.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Columns, schema.ColApplies)
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.csv")
	require.NoError(t, os.WriteFile(path, []byte(postingsCSV), 0o600))

	table, err := LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.csv"), LoadOptions{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseSalaryPolicy(t *testing.T) {
	p, err := ParseSalaryPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SalaryDrop, p)

	p, err = ParseSalaryPolicy(" Swap ")
	require.NoError(t, err)
	assert.Equal(t, SalarySwap, p)

	_, err = ParseSalaryPolicy("clip")
	assert.Error(t, err)
}

// ============================================================================
// TABLE AND VIEW
// ============================================================================

func TestTable_SkillsFirstSeen(t *testing.T) {
	table := load(t, "")
	assert.Equal(t, []string{"SQL", "Python", "Go,Lang"}, table.Skills())
	assert.True(t, table.HasSkill("Python"))
	assert.False(t, table.HasSkill("python"))
}

func TestTable_PostingsIsCopy(t *testing.T) {
	table := load(t, "")
	rows := table.Postings()
	rows[0].Skill = "changed"
	assert.Equal(t, "SQL", table.Postings()[0].Skill)
}

func TestView_ExposesSchemaColumns(t *testing.T) {
	view := load(t, "").View()
	require.Equal(t, 4, view.Len())

	assert.Equal(t, "Acme", view.Dimension(0, schema.ColCompany))
	assert.Equal(t, "California", view.Dimension(0, schema.ColRegionName))
	assert.Equal(t, "", view.Dimension(2, schema.ColRegionName))
	assert.Equal(t, 90000.0, view.Measure(0, schema.ColSalaryMidpoint))
	assert.True(t, engine.IsMissing(view.Measure(2, schema.ColMinSalary)))
	assert.True(t, engine.IsMissing(view.Measure(0, "no_such_measure")))

	sub := engine.Filter(view, engine.Criteria{}.Eq(schema.ColSkill, "SQL").Eq(schema.ColRegion, "CA"))
	stats, err := engine.SummaryStats(sub, schema.ColMinSalary)
	require.NoError(t, err)
	assert.Equal(t, 80000.0, stats.Min)
	assert.Equal(t, 90000.0, stats.Max)
	assert.Equal(t, 85000.0, stats.Mean)
}

func TestNewTable_Empty(t *testing.T) {
	table := NewTable(nil, LoadReport{})
	assert.Equal(t, 0, table.View().Len())
	assert.Empty(t, table.Skills())
}
