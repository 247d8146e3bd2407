package engine

import (
	"math"
	"sort"
)

// ============================================================================
// BINNING — Fixed-width buckets and quantile categories
// ============================================================================
// Pure functions of their input: no state survives a call. Quantile
// boundaries are computed once per categorizer and reused for every value.
// ============================================================================

// ============================================================================
// FIXED-WIDTH BINS
// ============================================================================

// Bin is one labeled interval of a fixed-width binning.
// Bin 0 is [Lower, Upper]; every other bin is (Lower, Upper].
type Bin struct {
	Index int     `json:"index" yaml:"index"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Label string  `json:"label" yaml:"label"`
	Count int     `json:"count" yaml:"count"`
}

// Binning is the result of partitioning a column into fixed-width bins.
// Assignments[i] is the bin index of input value i, or -1 when it is missing.
type Binning struct {
	Bins        []Bin `json:"bins" yaml:"bins"`
	Assignments []int `json:"assignments" yaml:"assignments"`
	edges       []float64
}

// FixedWidthBins partitions values into k equal-width intervals spanning
// [min, max] of the non-missing values. When min == max the upper bound is
// widened by one so no interval has zero width.
func FixedWidthBins(values []float64, k int) (*Binning, error) {
	if k <= 0 {
		return nil, &InvalidBinConfigError{Reason: "bin count must be positive"}
	}

	lo, hi, found := math.Inf(1), math.Inf(-1), false
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		found = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !found {
		return nil, &InvalidBinConfigError{Reason: "column has no numeric values"}
	}
	if lo == hi {
		hi = lo + 1
	}

	width := (hi - lo) / float64(k)
	edges := make([]float64, k+1)
	for i := 0; i < k; i++ {
		edges[i] = lo + float64(i)*width
	}
	edges[k] = hi

	b := &Binning{
		Bins:        make([]Bin, k),
		Assignments: make([]int, len(values)),
		edges:       edges,
	}
	for i := 0; i < k; i++ {
		b.Bins[i] = Bin{
			Index: i,
			Lower: edges[i],
			Upper: edges[i+1],
			Label: FormatCompact(edges[i]) + " - " + FormatCompact(edges[i+1]),
		}
	}
	for i, v := range values {
		idx := b.Assign(v)
		b.Assignments[i] = idx
		if idx >= 0 {
			b.Bins[idx].Count++
		}
	}
	return b, nil
}

// FixedWidthBinsView bins a measure of a view; Assignments align with rows.
func FixedWidthBinsView(view RecordView, measure string, k int) (*Binning, error) {
	values := make([]float64, view.Len())
	for i := range values {
		values[i] = view.Measure(i, measure)
	}
	return FixedWidthBins(values, k)
}

// Assign returns the bin index containing v, or -1 when v is missing or
// outside the binned range.
func (b *Binning) Assign(v float64) int {
	k := len(b.edges) - 1
	if IsMissing(v) || k < 1 || v < b.edges[0] || v > b.edges[k] {
		return -1
	}
	// smallest i with v <= upper edge of bin i; bin 0 also takes its lower edge
	return sort.SearchFloat64s(b.edges[1:], v)
}

// Label returns the label of bin idx, or "" when idx is out of range.
func (b *Binning) Label(idx int) string {
	if idx < 0 || idx >= len(b.Bins) {
		return ""
	}
	return b.Bins[idx].Label
}

// Labels returns bin labels, lowest bin first.
func (b *Binning) Labels() []string {
	out := make([]string, len(b.Bins))
	for i, bin := range b.Bins {
		out[i] = bin.Label
	}
	return out
}

// ============================================================================
// QUANTILES
// ============================================================================

// Quantile returns the p-quantile of sorted values using linear
// interpolation between closest ranks. Returns NaN for no values.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	p = math.Max(0, math.Min(1, p))
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// sortedValues drops missing values and sorts the rest.
func sortedValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// BoxStats returns the five-number summary of the non-missing values.
func BoxStats(values []float64) (Box, error) {
	s := sortedValues(values)
	if len(s) == 0 {
		return Box{}, &EmptyInputError{Op: "box stats"}
	}
	return Box{
		Min:    s[0],
		Q1:     Quantile(s, 0.25),
		Median: Quantile(s, 0.5),
		Q3:     Quantile(s, 0.75),
		Max:    s[len(s)-1],
		Count:  len(s),
	}, nil
}

// ============================================================================
// ACTIVITY CATEGORIES
// ============================================================================

// ActivityLevel is an ordered volume bucket relative to the distribution.
type ActivityLevel string

const (
	NoActivity      ActivityLevel = "No Activity"
	BelowMedian     ActivityLevel = "Below Median"
	MedianToP75     ActivityLevel = "Median-to-P75"
	AboveP75        ActivityLevel = "Above P75"
	unknownActivity ActivityLevel = ""
)

// ActivityLevels returns the buckets in their fixed order.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{NoActivity, BelowMedian, MedianToP75, AboveP75}
}

// Rank returns the position of the level in ActivityLevels, or -1.
func (a ActivityLevel) Rank() int {
	for i, l := range ActivityLevels() {
		if l == a {
			return i
		}
	}
	return -1
}

// QuantileCategorizer buckets values against a distribution's median and
// 75th percentile. A value equal to a boundary falls in the lower bucket.
type QuantileCategorizer struct {
	Median float64 `json:"median" yaml:"median"`
	P75    float64 `json:"p75" yaml:"p75"`
}

// NewQuantileCategorizer computes the boundaries from values.
func NewQuantileCategorizer(values []float64) (*QuantileCategorizer, error) {
	s := sortedValues(values)
	if len(s) == 0 {
		return nil, &InvalidBinConfigError{Reason: "column has no numeric values"}
	}
	return &QuantileCategorizer{
		Median: Quantile(s, 0.5),
		P75:    Quantile(s, 0.75),
	}, nil
}

// NewQuantileCategorizerFrom uses explicit boundaries.
func NewQuantileCategorizerFrom(median, p75 float64) *QuantileCategorizer {
	return &QuantileCategorizer{Median: median, P75: p75}
}

// Categorize places v in its bucket. Missing values return ok=false.
func (q *QuantileCategorizer) Categorize(v float64) (ActivityLevel, bool) {
	switch {
	case IsMissing(v):
		return unknownActivity, false
	case v == 0:
		return NoActivity, true
	case v <= q.Median:
		return BelowMedian, true
	case v <= q.P75:
		return MedianToP75, true
	default:
		return AboveP75, true
	}
}

// CategorizeAll categorizes each value; missing values map to "".
func (q *QuantileCategorizer) CategorizeAll(values []float64) []ActivityLevel {
	out := make([]ActivityLevel, len(values))
	for i, v := range values {
		out[i], _ = q.Categorize(v)
	}
	return out
}
