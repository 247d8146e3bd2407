// Package config provides layered configuration for the skillscope CLI
// and server.
//
// Precedence (highest to lowest): flags > SKILLSCOPE_* env vars > config
// file (skillscope.yaml) > defaults.
package config

import "time"

// Defaults applied before any file, env var or flag.
const (
	DefaultDataPath          = "main_df_subset.csv"
	DefaultState             = "CA"
	DefaultSalaryPolicy      = "drop"
	DefaultTopN              = 5
	DefaultMapBins           = 3
	DefaultOtherSkill        = "other"
	DefaultOutput            = "table"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultAddr              = ":8080"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultHistoryFile       = ".skillscope_history"
)

// Config holds every setting of the CLI and server.
type Config struct {
	DataPath     string       `koanf:"data" validate:"required"`
	DefaultState string       `koanf:"default_state" validate:"required"`
	SalaryPolicy string       `koanf:"salary_policy" validate:"oneof=drop swap keep"`
	TopN         int          `koanf:"top_n" validate:"min=1,max=50"`
	MapBins      int          `koanf:"map_bins" validate:"min=1,max=20"`
	OtherSkill   string       `koanf:"other_skill"`
	Output       string       `koanf:"output" validate:"oneof=table json yaml csv"`
	HistoryFile  string       `koanf:"history_file"`
	Log          LogConfig    `koanf:"log"`
	Server       ServerConfig `koanf:"server"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}
