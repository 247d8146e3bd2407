package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FIXTURES
// ============================================================================

func posting(skill, state, company, level string, minSalary float64) Record {
	return Record{
		Dimensions: map[string]string{
			"skill_name":                 skill,
			"state":                      state,
			"company_name":               company,
			"formatted_experience_level": level,
		},
		Measures: map[string]float64{"min_salary": minSalary},
	}
}

func sampleView() RecordView {
	return NewSliceView([]Record{
		posting("SQL", "CA", "Acme", "Entry level", 80000),
		posting("Python", "CA", "Globex", "Associate", 100000),
		posting("SQL", "NY", "Acme", "Mid-Senior level", 70000),
		posting("SQL", "CA", "Initech", "Associate", 90000),
		posting("Go", "TX", "Globex", "Entry level", 120000),
	})
}

// counted builds a view whose dimension "k" takes each key count times,
// interleaved so first appearance follows keys order.
func counted(keys []string, counts []int) RecordView {
	var records []Record
	remaining := append([]int(nil), counts...)
	for more := true; more; {
		more = false
		for i, k := range keys {
			if remaining[i] == 0 {
				continue
			}
			remaining[i]--
			more = true
			records = append(records, Record{Dimensions: map[string]string{"k": k}})
		}
	}
	return NewSliceView(records)
}

// ============================================================================
// FILTER
// ============================================================================

func TestFilter_SkillAndRegion(t *testing.T) {
	view := sampleView()
	sub := Filter(view, Criteria{}.Eq("skill_name", "SQL").Eq("state", "CA"))
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, "Acme", sub.Dimension(0, "company_name"))
	assert.Equal(t, "Initech", sub.Dimension(1, "company_name"))

	stats, err := SummaryStats(sub, "min_salary")
	require.NoError(t, err)
	assert.Equal(t, 80000.0, stats.Min)
	assert.Equal(t, 90000.0, stats.Max)
	assert.Equal(t, 85000.0, stats.Mean)
	assert.Equal(t, 2, stats.Count)
}

func TestFilter_OrWithinDimension(t *testing.T) {
	sub := Filter(sampleView(), Criteria{}.In("state", "NY", "TX"))
	assert.Equal(t, 2, sub.Len())
}

func TestFilter_Exclude(t *testing.T) {
	sub := Filter(sampleView(), Criteria{}.NotIn("skill_name", "SQL"))
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, "Python", sub.Dimension(0, "skill_name"))
	assert.Equal(t, "Go", sub.Dimension(1, "skill_name"))
}

func TestFilter_EmptyCriteriaReturnsView(t *testing.T) {
	view := sampleView()
	assert.Same(t, view, Filter(view, Criteria{}))
}

func TestFilter_NoMatchIsEmptyView(t *testing.T) {
	sub := Filter(sampleView(), Criteria{}.Eq("skill_name", "sql"))
	assert.Equal(t, 0, sub.Len(), "matching is case-sensitive")
}

func TestFilter_Idempotent(t *testing.T) {
	c := Criteria{}.Eq("skill_name", "SQL").NotIn("state", "NY")
	once := Filter(sampleView(), c)
	twice := Filter(once, c)
	require.Equal(t, once.Len(), twice.Len())
	for i := 0; i < once.Len(); i++ {
		assert.Equal(t, once.Dimension(i, "company_name"), twice.Dimension(i, "company_name"))
	}
}

func TestCriteria_Immutable(t *testing.T) {
	base := Criteria{}.Eq("state", "CA")
	derived := base.Eq("state", "NY").Eq("skill_name", "SQL")

	assert.Equal(t, []string{"CA"}, base.Include["state"])
	assert.False(t, base.HasFilter("skill_name"))
	assert.Equal(t, []string{"skill_name", "state"}, derived.Dimensions())
	assert.True(t, Criteria{}.IsEmpty())
}

func TestFilter_NestedSubViewsFlatten(t *testing.T) {
	sql := Filter(sampleView(), Criteria{}.Eq("skill_name", "SQL"))
	ca := Filter(sql, Criteria{}.Eq("state", "CA"))

	sv, ok := ca.(*SubView)
	require.True(t, ok)
	assert.Equal(t, []int{0, 3}, sv.indices, "indices point into the root view")
	assert.Equal(t, "Initech", ca.Dimension(1, "company_name"))
}

func TestFilterPresent(t *testing.T) {
	view := NewSliceView([]Record{
		{Measures: map[string]float64{"a": 1, "b": 2}},
		{Measures: map[string]float64{"a": 3}},
		{Measures: map[string]float64{"a": math.NaN(), "b": 4}},
	})
	assert.Equal(t, 3, FilterPresent(view).Len())
	assert.Equal(t, 2, FilterPresent(view, "a").Len())
	assert.Equal(t, 1, FilterPresent(view, "a", "b").Len())
}

// ============================================================================
// VIEWS
// ============================================================================

func TestSliceView_SortedKeysAndMissing(t *testing.T) {
	view := sampleView()
	assert.Equal(t, []string{"company_name", "formatted_experience_level", "skill_name", "state"}, view.DimensionKeys())
	assert.Equal(t, []string{"min_salary"}, view.MeasureKeys())
	assert.True(t, IsMissing(view.Measure(0, "max_salary")))
	assert.True(t, IsMissing(view.Measure(99, "min_salary")))
	assert.Equal(t, "", view.Dimension(-1, "state"))
}

func TestMelt(t *testing.T) {
	view := NewSliceView([]Record{
		{Dimensions: map[string]string{"company_name": "Acme"}, Measures: map[string]float64{"lo": 1, "hi": 2, "applies": 5}},
		{Dimensions: map[string]string{"company_name": "Hooli"}, Measures: map[string]float64{"hi": 4}},
	})
	melted := Melt(view, "salary", "bound", "lo", "hi")

	require.Equal(t, 4, melted.Len())
	assert.Equal(t, []float64{1, 2, 4}, Values(melted, "salary"), "missing lo is skipped")
	assert.Equal(t, []string{"lo", "hi", "lo", "hi"}, []string{
		melted.Dimension(0, "bound"), melted.Dimension(1, "bound"),
		melted.Dimension(2, "bound"), melted.Dimension(3, "bound"),
	})
	assert.Equal(t, "Hooli", melted.Dimension(3, "company_name"))
	assert.Equal(t, 5.0, melted.Measure(1, "applies"))
	assert.Contains(t, melted.DimensionKeys(), "bound")
	assert.Contains(t, melted.MeasureKeys(), "salary")
	assert.True(t, IsMissing(melted.Measure(4, "salary")))

	present := FilterPresent(melted, "salary", "applies")
	assert.Equal(t, 2, present.Len())
}

func TestDomainAdapter(t *testing.T) {
	type row struct {
		name  string
		value float64
	}
	view := NewDomainAdapter[row]().
		Dimension("name", func(r row) string { return r.name }).
		Measure("value", func(r row) float64 { return r.value }).
		Bind([]row{{"a", 1}, {"b", Missing}})

	assert.Equal(t, 2, view.Len())
	assert.Equal(t, "b", view.Dimension(1, "name"))
	assert.Equal(t, "", view.Dimension(1, "other"))
	assert.True(t, IsMissing(view.Measure(1, "value")))
	assert.True(t, IsMissing(view.Measure(5, "value")))
	assert.Equal(t, []string{"name"}, view.DimensionKeys())
	assert.Equal(t, []string{"value"}, view.MeasureKeys())
}

// ============================================================================
// AGGREGATION
// ============================================================================

func TestGroupBy_PartitionsView(t *testing.T) {
	view := sampleView()
	for _, keys := range [][]string{{"state"}, {"skill_name", "state"}, {}} {
		groups := GroupBy(view, keys...)
		total := 0
		for _, g := range groups {
			total += g.Count
		}
		assert.Equal(t, view.Len(), total, "keys %v", keys)
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	groups := GroupBy(sampleView(), "skill_name", "state")
	require.Len(t, groups, 4)
	assert.Equal(t, []string{"SQL", "CA"}, groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []string{"Python", "CA"}, groups[1].Key)
	assert.Equal(t, []string{"SQL", "NY"}, groups[2].Key)
	assert.Equal(t, []string{"Go", "TX"}, groups[3].Key)
}

func TestGroupBy_EmptyView(t *testing.T) {
	assert.Empty(t, GroupBy(NewSliceView(nil), "state"))
}

func TestTopN_TieKeepsFirstAppearance(t *testing.T) {
	view := counted([]string{"A", "B", "C"}, []int{5, 5, 3})
	top := TopN(view, "k", 2)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Key)
	assert.Equal(t, "B", top[1].Key)
}

func TestTopN_Properties(t *testing.T) {
	view := counted([]string{"x", "y", "z", "w"}, []int{1, 4, 4, 2})
	all := GroupBy(view, "k")

	for n := 0; n <= 5; n++ {
		top := TopN(view, "k", n)
		if n > 0 {
			assert.LessOrEqual(t, len(top), n)
		} else {
			assert.Len(t, top, len(all))
		}
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
		}
		for _, g := range top {
			found := false
			for _, a := range all {
				if a.Key[0] == g.Key {
					found = true
					assert.Equal(t, a.Count, g.Count)
				}
			}
			assert.True(t, found, "group %s not in GroupBy", g.Key)
		}
	}
}

func TestTopNNested_AndOrderSubGroups(t *testing.T) {
	groups := TopNNested(sampleView(), "company_name", 2, "formatted_experience_level")
	require.Len(t, groups, 2)
	assert.Equal(t, "Acme", groups[0].Key)
	assert.Equal(t, "Globex", groups[1].Key)

	require.Len(t, groups[0].SubGroups, 2)
	assert.Equal(t, "Entry level", groups[0].SubGroups[0].Key)
	assert.Equal(t, "Mid-Senior level", groups[0].SubGroups[1].Key)

	// Globex saw Associate before Entry level; rank puts Entry level first.
	order := map[string]int{"Entry level": 0, "Associate": 1}
	rank := func(k string) int {
		if r, ok := order[k]; ok {
			return r
		}
		return -1
	}
	ordered := OrderSubGroups(groups, rank)
	assert.Equal(t, "Entry level", ordered[1].SubGroups[0].Key)
	assert.Equal(t, "Associate", ordered[1].SubGroups[1].Key)
	assert.Equal(t, "Associate", groups[1].SubGroups[0].Key, "input is not modified")
}

func TestOrderSubGroups_UnrankedLast(t *testing.T) {
	groups := []Group{{Key: "g", SubGroups: []Group{{Key: "u1"}, {Key: "b"}, {Key: "u2"}, {Key: "a"}}}}
	rank := func(k string) int {
		switch k {
		case "a":
			return 0
		case "b":
			return 1
		}
		return -1
	}
	out := OrderSubGroups(groups, rank)
	keys := []string{}
	for _, sg := range out[0].SubGroups {
		keys = append(keys, sg.Key)
	}
	assert.Equal(t, []string{"a", "b", "u1", "u2"}, keys)
}

func TestSummaryStats_SkipsMissing(t *testing.T) {
	view := NewSliceView([]Record{
		{Measures: map[string]float64{"v": 10}},
		{Measures: map[string]float64{}},
		{Measures: map[string]float64{"v": 30}},
	})
	stats, err := SummaryStats(view, "v")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 20.0, stats.Mean)
	assert.Equal(t, []float64{10, 30}, Values(view, "v"))
	assert.Equal(t, 40.0, SumMeasure(view, "v"))
}

func TestSummaryStats_EmptyInput(t *testing.T) {
	_, err := SummaryStats(NewSliceView(nil), "min_salary")
	var empty *EmptyInputError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "min_salary", empty.Measure)
}

func TestUniqueValues(t *testing.T) {
	assert.Equal(t, []string{"CA", "NY", "TX"}, UniqueValues(sampleView(), "state"))
}

// ============================================================================
// BINNING
// ============================================================================

func TestFixedWidthBins_Assignment(t *testing.T) {
	b, err := FixedWidthBins([]float64{1, 2, 3, 10, 4, math.NaN()}, 3)
	require.NoError(t, err)
	require.Len(t, b.Bins, 3)

	assert.Equal(t, []int{0, 0, 0, 2, 0, -1}, b.Assignments)
	assert.Equal(t, []string{"1 - 4", "4 - 7", "7 - 10"}, b.Labels())
	assert.Equal(t, 4, b.Bins[0].Count)
	assert.Equal(t, 0, b.Bins[1].Count)
	assert.Equal(t, 1, b.Bins[2].Count)
}

func TestFixedWidthBins_EdgesSpanRange(t *testing.T) {
	values := []float64{3, 17, 42, 8, 99, 23, 61}
	b, err := FixedWidthBins(values, 4)
	require.NoError(t, err)

	assert.Equal(t, 3.0, b.Bins[0].Lower)
	assert.Equal(t, 99.0, b.Bins[len(b.Bins)-1].Upper)
	for i := 1; i < len(b.Bins); i++ {
		assert.Equal(t, b.Bins[i-1].Upper, b.Bins[i].Lower, "bins are contiguous")
	}

	total := 0
	for i, v := range values {
		idx := b.Assignments[i]
		require.GreaterOrEqual(t, idx, 0)
		bin := b.Bins[idx]
		if idx == 0 {
			assert.True(t, v >= bin.Lower && v <= bin.Upper)
		} else {
			assert.True(t, v > bin.Lower && v <= bin.Upper)
		}
	}
	for _, bin := range b.Bins {
		total += bin.Count
	}
	assert.Equal(t, len(values), total)
}

func TestFixedWidthBins_ThousandsLabels(t *testing.T) {
	b, err := FixedWidthBins([]float64{1000, 2500, 4000}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1K - 2K", "2K - 3K", "3K - 4K"}, b.Labels())
}

func TestFixedWidthBins_ConstantColumn(t *testing.T) {
	b, err := FixedWidthBins([]float64{5, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, b.Bins[1].Upper)
	assert.Equal(t, []int{0, 0}, b.Assignments)
}

func TestFixedWidthBins_InvalidConfig(t *testing.T) {
	var invalid *InvalidBinConfigError

	_, err := FixedWidthBins([]float64{1, 2}, 0)
	assert.True(t, errors.As(err, &invalid))

	_, err = FixedWidthBins([]float64{math.NaN()}, 3)
	assert.True(t, errors.As(err, &invalid))
}

func TestFixedWidthBinsView_AlignsWithRows(t *testing.T) {
	view := NewSliceView([]Record{
		{Measures: map[string]float64{"n": 1}},
		{Measures: map[string]float64{}},
		{Measures: map[string]float64{"n": 9}},
	})
	b, err := FixedWidthBinsView(view, "n", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, -1, 1}, b.Assignments)
	assert.Equal(t, -1, b.Assign(100))
	assert.Equal(t, "", b.Label(-1))
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(s, 0))
	assert.Equal(t, 2.5, Quantile(s, 0.5))
	assert.Equal(t, 3.25, Quantile(s, 0.75))
	assert.Equal(t, 4.0, Quantile(s, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestCategorize_Buckets(t *testing.T) {
	q := NewQuantileCategorizerFrom(5, 10)
	got := q.CategorizeAll([]float64{0, 5, 10, 20})
	assert.Equal(t, []ActivityLevel{NoActivity, BelowMedian, MedianToP75, AboveP75}, got)

	_, ok := q.Categorize(math.NaN())
	assert.False(t, ok)
}

func TestCategorize_ComputedBoundaries(t *testing.T) {
	q, err := NewQuantileCategorizer([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.5, q.Median)
	assert.Equal(t, 3.25, q.P75)

	level, ok := q.Categorize(q.P75)
	require.True(t, ok)
	assert.Equal(t, MedianToP75, level, "P75 itself is in the lower bucket")

	_, err = NewQuantileCategorizer(nil)
	var invalid *InvalidBinConfigError
	assert.True(t, errors.As(err, &invalid))
}

func TestActivityLevelRank(t *testing.T) {
	assert.Equal(t, 0, NoActivity.Rank())
	assert.Equal(t, 3, AboveP75.Rank())
	assert.Equal(t, -1, ActivityLevel("busy").Rank())
}

func TestBoxStats(t *testing.T) {
	box, err := BoxStats([]float64{5, 1, math.NaN(), 3, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, Box{Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, Count: 5}, box)

	_, err = BoxStats(nil)
	var empty *EmptyInputError
	assert.True(t, errors.As(err, &empty))
}

// ============================================================================
// BUILDERS AND FORMATTING
// ============================================================================

func TestBuildSeries(t *testing.T) {
	series := BuildSeries(TopN(sampleView(), "state", 0), "")
	require.Len(t, series, 1)
	assert.Equal(t, "Count", series[0].Name)
	assert.Equal(t, []ChartPoint{{"CA", 3}, {"NY", 1}, {"TX", 1}}, series[0].Data)
}

func TestBuildStackedSeries_ZeroFilledInStackOrder(t *testing.T) {
	groups := []Group{
		{Key: "Acme", SubGroups: []Group{{Key: "Director", Count: 1}, {Key: "Entry level", Count: 2}}},
		{Key: "Globex", SubGroups: []Group{{Key: "Contract", Count: 4}}},
	}
	series := BuildStackedSeries(groups, []string{"Entry level", "Associate", "Director"})

	require.Len(t, series, 3)
	assert.Equal(t, "Entry level", series[0].Name)
	assert.Equal(t, "Director", series[1].Name)
	assert.Equal(t, "Contract", series[2].Name)
	assert.Equal(t, []ChartPoint{{"Acme", 2}, {"Globex", 0}}, series[0].Data)
	assert.Equal(t, []ChartPoint{{"Acme", 0}, {"Globex", 4}}, series[2].Data)

	assert.Empty(t, BuildStackedSeries(nil, nil))
}

func TestBuildCountTable(t *testing.T) {
	tbl := BuildCountTable("Postings by state", "State", TopN(sampleView(), "state", 0))
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []string{"CA", "3", "60.0%"}, tbl.Rows[0])
	require.NotNil(t, tbl.Summary)
	assert.Equal(t, "5", tbl.Summary.Values["count"])

	empty := BuildCountTable("none", "", nil)
	assert.Empty(t, empty.Rows)
	assert.Nil(t, empty.Summary)
	assert.Equal(t, "Group", empty.Columns[0].Label)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "85K", FormatCompact(85000))
	assert.Equal(t, "2K", FormatCompact(2500))
	assert.Equal(t, "4K", FormatCompact(3500))
	assert.Equal(t, "999", FormatCompact(999.9))

	assert.Equal(t, "$85,000", FormatCurrency(85000, "$"))
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5, "$"))
	assert.Equal(t, "-$20", FormatCurrency(-20, "$"))
	assert.Equal(t, "1,234,567", FormatInt(1234567))

	assert.Equal(t, "Company Size Label", LabelForDimension("company_size_label"))
	assert.Equal(t, "", LabelForDimension(""))
	assert.Equal(t, 1.24, RoundTo2(1.235000001))
}
