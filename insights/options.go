package insights

import "go.uber.org/zap"

// ============================================================================
// INSIGHTS OPTIONS — Functional options for panels and Build()
// ============================================================================

// Option configures panel computation via functional options pattern.
type Option func(*config)

type config struct {
	TopN       int    // companies in the sidebar and bar chart, skills in the flow
	MapBins    int    // fixed-width buckets for the region map
	OtherSkill string // catch-all skill value hidden from the flow ranking
	Logger     *zap.Logger
}

// WithTopN sets how many skills or companies a ranked panel keeps.
func WithTopN(n int) Option {
	return func(c *config) {
		c.TopN = n
	}
}

// WithMapBins sets the number of region-map buckets.
func WithMapBins(k int) Option {
	return func(c *config) {
		c.MapBins = k
	}
}

// WithOtherSkill names the catch-all skill value (default "other").
func WithOtherSkill(skill string) Option {
	return func(c *config) {
		c.OtherSkill = skill
	}
}

// WithLogger routes panel diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:       5,
		MapBins:    3,
		OtherSkill: "other",
		Logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
