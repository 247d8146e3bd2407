package engine

import (
	"math"
	"sort"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Aggregations read rows through RecordView and never copy the table.
//
//   DomainView[T]  typed structs read through registered accessors
//   SliceView      []Record, for ad-hoc tables and tests
//   SubView        row subset of a parent (indices only)
//   MeltView       one row per (parent row, melted measure)
//
// Absent numeric values read as Missing (NaN).
// ============================================================================

// RecordView provides indexed access to a dataset.
// Dimension and Measure are called in tight loops.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string
	MeasureKeys() []string
}

// Missing is the value a view reports for an absent measure.
var Missing = math.NaN()

// IsMissing reports whether a measure value is absent.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView serves []Record. Keys are reported sorted.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView wraps records without copying them.
func NewSliceView(records []Record) RecordView {
	dims := make(map[string]struct{})
	meas := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Dimensions {
			dims[k] = struct{}{}
		}
		for k := range r.Measures {
			meas[k] = struct{}{}
		}
	}
	return &SliceView{records: records, dimKeys: sortedKeys(dims), mesKeys: sortedKeys(meas)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

// Measure reports Missing for keys the record does not carry.
func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return Missing
	}
	if val, ok := v.records[i].Measures[key]; ok {
		return val
	}
	return Missing
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW
// ============================================================================

// SubView selects rows of a parent view by index.
type SubView struct {
	parent  RecordView
	indices []int
}

// newSubView takes ownership of indices. A subset of a subset is flattened
// onto the root view so chained filters cost one indirection.
func newSubView(parent RecordView, indices []int) RecordView {
	if sv, ok := parent.(*SubView); ok {
		for i, idx := range indices {
			indices[i] = sv.indices[idx]
		}
		parent = sv.parent
	}
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return Missing
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// MELT VIEW
// ============================================================================
// Unpivots several measures into one: a posting with min and max salary
// becomes two rows whose "salary" measure is min, then max.
// ============================================================================

// MeltView repeats each parent row once per melted measure.
type MeltView struct {
	parent   RecordView
	measures []string
	value    string
	source   string
}

// Melt returns a view with parent.Len()*len(measures) rows in parent order.
// Row i reads measures[i%len(measures)] under the value key and names it
// under the source dimension; every other key reads through to the parent.
func Melt(parent RecordView, value, source string, measures ...string) RecordView {
	return &MeltView{
		parent:   parent,
		measures: append([]string(nil), measures...),
		value:    value,
		source:   source,
	}
}

func (v *MeltView) Len() int { return v.parent.Len() * len(v.measures) }

func (v *MeltView) Dimension(i int, key string) string {
	if i < 0 || i >= v.Len() {
		return ""
	}
	if key == v.source {
		return v.measures[i%len(v.measures)]
	}
	return v.parent.Dimension(i/len(v.measures), key)
}

func (v *MeltView) Measure(i int, key string) float64 {
	if i < 0 || i >= v.Len() {
		return Missing
	}
	row := i / len(v.measures)
	if key == v.value {
		return v.parent.Measure(row, v.measures[i%len(v.measures)])
	}
	return v.parent.Measure(row, key)
}

func (v *MeltView) DimensionKeys() []string {
	return append(append([]string(nil), v.parent.DimensionKeys()...), v.source)
}

func (v *MeltView) MeasureKeys() []string {
	return append(append([]string(nil), v.parent.MeasureKeys()...), v.value)
}

// ============================================================================
// DOMAIN ADAPTER
// ============================================================================
//
//	adapter := engine.NewDomainAdapter[JobPosting]().
//	    Dimension("skill_name", func(p JobPosting) string { return p.Skill }).
//	    Measure("min_salary", func(p JobPosting) float64 { return p.MinSalaryValue() })
//
//	view := adapter.Bind(postings)
//
// ============================================================================

// DomainAdapter registers typed accessors once and binds them to any
// number of slices.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates an adapter for T with no accessors.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers or replaces a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers or replaces a measure accessor. Accessors return
// Missing for absent values.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind returns a view over data. The slice is referenced, not copied.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed structs through registered accessors.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	fn, ok := v.dims[key]
	if !ok || i < 0 || i >= len(v.data) {
		return ""
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	fn, ok := v.meas[key]
	if !ok || i < 0 || i >= len(v.data) {
		return Missing
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }
