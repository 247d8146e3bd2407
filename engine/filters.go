package engine

import "sort"

// ============================================================================
// FILTERS — Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Criteria selects rows by exact dimension values.
// Include: AND across dimensions, OR within a dimension's value set.
// Exclude: a row matching any excluded value of any dimension is dropped.
// A dimension without values places no constraint.
//
// Criteria values are immutable: the builder methods return a copy.
type Criteria struct {
	Include map[string][]string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude map[string][]string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Eq returns a copy of c that additionally requires dimension == value.
// An existing constraint on the same dimension is replaced.
func (c Criteria) Eq(dimension, value string) Criteria {
	return c.In(dimension, value)
}

// In returns a copy of c that requires dimension to be one of values.
func (c Criteria) In(dimension string, values ...string) Criteria {
	out := c.clone()
	if out.Include == nil {
		out.Include = make(map[string][]string)
	}
	out.Include[dimension] = append([]string(nil), values...)
	return out
}

// NotIn returns a copy of c that rejects rows whose dimension is one of values.
func (c Criteria) NotIn(dimension string, values ...string) Criteria {
	out := c.clone()
	if out.Exclude == nil {
		out.Exclude = make(map[string][]string)
	}
	out.Exclude[dimension] = append([]string(nil), values...)
	return out
}

// HasFilter returns true if a specific dimension is constrained.
func (c Criteria) HasFilter(dimension string) bool {
	return len(c.Include[dimension]) > 0 || len(c.Exclude[dimension]) > 0
}

// IsEmpty returns true if no constraint is set.
func (c Criteria) IsEmpty() bool {
	for _, vals := range c.Include {
		if len(vals) > 0 {
			return false
		}
	}
	for _, vals := range c.Exclude {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// Dimensions returns the constrained dimension keys, sorted.
func (c Criteria) Dimensions() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range []map[string][]string{c.Include, c.Exclude} {
		for k, vals := range m {
			if len(vals) > 0 && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func (c Criteria) clone() Criteria {
	return Criteria{Include: cloneSets(c.Include), Exclude: cloneSets(c.Exclude)}
}

func cloneSets(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Filter returns a view of the rows matching criteria, in input order.
// Empty criteria return the original view; no match returns an empty view.
func Filter(view RecordView, criteria Criteria) RecordView {
	if criteria.IsEmpty() {
		return view
	}

	include := toSets(criteria.Include)
	exclude := toSets(criteria.Exclude)

	// Single pass — record passes if it matches ALL include sets and no exclude set
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, include, exclude) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// FilterPresent returns the rows where every listed measure has a value.
func FilterPresent(view RecordView, measures ...string) RecordView {
	if len(measures) == 0 {
		return view
	}
	indices := make([]int, 0, view.Len())
rows:
	for i := 0; i < view.Len(); i++ {
		for _, m := range measures {
			if IsMissing(view.Measure(i, m)) {
				continue rows
			}
		}
		indices = append(indices, i)
	}
	return newSubView(view, indices)
}

func matches(view RecordView, i int, include, exclude map[string]map[string]bool) bool {
	for dim, set := range include {
		if !set[view.Dimension(i, dim)] {
			return false
		}
	}
	for dim, set := range exclude {
		if set[view.Dimension(i, dim)] {
			return false
		}
	}
	return true
}

// toSets converts dimension value lists to lookup sets, skipping empty lists.
func toSets(m map[string][]string) map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(m))
	for dim, values := range m {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		sets[dim] = set
	}
	return sets
}
