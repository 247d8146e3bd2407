package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Counting, Ranking and Statistics via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Group order is always first-encountered order unless a sort is requested.
// ============================================================================

// ============================================================================
// GROUPING
// ============================================================================

// GroupBy counts rows per distinct tuple of keys, in first-encountered order.
// The counts partition the view: they always sum to view.Len().
// With no keys the whole view is a single group with an empty key.
func GroupBy(view RecordView, keys ...string) []GroupCount {
	n := view.Len()
	if n == 0 {
		return []GroupCount{}
	}
	if len(keys) == 0 {
		return []GroupCount{{Key: []string{}, Count: n}}
	}

	pos := make(map[string]int)
	out := make([]GroupCount, 0)
	tuple := make([]string, len(keys))

	for i := 0; i < n; i++ {
		for k, key := range keys {
			tuple[k] = view.Dimension(i, key)
		}
		id := tupleID(tuple)
		if p, ok := pos[id]; ok {
			out[p].Count++
			continue
		}
		pos[id] = len(out)
		out = append(out, GroupCount{Key: append([]string(nil), tuple...), Count: 1})
	}
	return out
}

// tupleID joins values with a unit separator so ("a b","c") ≠ ("a","b c").
func tupleID(values []string) string {
	return strings.Join(values, "\x1f")
}

// CountBy groups rows by one dimension, in first-encountered order.
// Each group carries a sub-view of its rows.
func CountBy(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// TopN returns the n groups of dimension with the most rows.
// Ties keep first-encountered order. n <= 0 returns every group, ranked.
func TopN(view RecordView, dimension string, n int) []Group {
	groups := CountBy(view, dimension)
	SortGroups(groups, SortCountDesc)
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopNNested ranks groups of outer with TopN and attaches, to each, the
// counts of inner within that group in first-encountered order.
func TopNNested(view RecordView, outer string, n int, inner string) []Group {
	groups := TopN(view, outer, n)
	for i := range groups {
		groups[i].SubGroups = CountBy(groups[i].View, inner)
	}
	return groups
}

// OrderSubGroups returns a copy of groups whose subgroups are ordered by rank.
// Keys with a negative rank keep their relative order after all ranked keys.
func OrderSubGroups(groups []Group, rank func(key string) int) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		subs := append([]Group(nil), g.SubGroups...)
		sort.SliceStable(subs, func(a, b int) bool {
			ra, rb := rank(subs[a].Key), rank(subs[b].Key)
			if ra < 0 {
				return false
			}
			if rb < 0 {
				return true
			}
			return ra < rb
		})
		g.SubGroups = subs
		out[i] = g
	}
	return out
}

// ============================================================================
// STATISTICS
// ============================================================================

// Values returns the non-missing values of a measure, in row order.
func Values(view RecordView, measure string) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// SummaryStats computes min, max and mean of a measure over non-missing values.
// Returns *EmptyInputError when there is nothing to summarise.
func SummaryStats(view RecordView, measure string) (Stats, error) {
	var s Stats
	var total float64
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if IsMissing(v) {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if s.Count == 0 || v > s.Max {
			s.Max = v
		}
		total += v
		s.Count++
	}
	if s.Count == 0 {
		return Stats{}, &EmptyInputError{Op: "summary stats", Measure: measure}
	}
	s.Mean = total / float64(s.Count)
	return s, nil
}

// SumMeasure sums the non-missing values of a measure.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !IsMissing(v) {
			total += v
		}
	}
	return total
}

// ============================================================================
// SORTING
// ============================================================================

// Sort modes for SortGroups.
const (
	SortNone      = ""
	SortCountDesc = "count_desc"
	SortCountAsc  = "count_asc"
	SortLabelAsc  = "label_asc"
	SortLabelDesc = "label_desc"
)

// SortGroups sorts groups in place. Sorting is stable, so equal groups keep
// their first-encountered order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortCountDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	case SortCountAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count < groups[j].Count })
	case SortLabelAsc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case SortLabelDesc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

// UniqueValues returns distinct non-empty values of a dimension in
// first-encountered order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
