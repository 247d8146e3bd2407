package engine

// ============================================================================
// ENGINE TYPES — Domain-agnostic aggregation results
// ============================================================================
// Every result is a plain structured record: no rendering hints, no colours.
// A presentation layer (CLI, REPL, HTTP client) decides how to draw them.
//
// Dependency: engine imports only golang.org/x/text for label formatting.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure absent from the map reads as NaN (missing), not zero.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is one bucket of a group-by over a single dimension.
// Builders convert these into chart series or table rows.
type Group struct {
	Key       string     `json:"key" yaml:"key"`
	Count     int        `json:"count" yaml:"count"`
	SubGroups []Group    `json:"subGroups,omitempty" yaml:"subGroups,omitempty"`
	View      RecordView `json:"-" yaml:"-"` // rows in this group (zero-copy)
}

// GroupCount is one row of a multi-key group-by-count.
type GroupCount struct {
	Key   []string `json:"key" yaml:"key"`
	Count int      `json:"count" yaml:"count"`
}

// Stats summarises the non-missing values of one measure.
type Stats struct {
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Count int     `json:"count" yaml:"count"`
}

// Box holds the five-number summary used for box plots.
type Box struct {
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	Count  int     `json:"count" yaml:"count"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name string       `json:"name" yaml:"name"`
	Data []ChartPoint `json:"data" yaml:"data"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a rendered-agnostic table of aggregate rows.
type TableData struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []Column   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`   // "text", "number", "currency"
	Align string `json:"align" yaml:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label" yaml:"label"`
	Values map[string]string `json:"values" yaml:"values"`
}
