package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/schema"
)

// EnvPrefix is the prefix of environment overrides: SKILLSCOPE_TOP_N -> top_n.
const EnvPrefix = "SKILLSCOPE_"

// sections are nested config keys; env vars and flags address their fields
// as <section>_<field> / --<section>-<field>.
var sections = []string{"log", "server"}

// flagKeys maps flags whose names do not follow the key convention.
var flagKeys = map[string]string{
	"state": "default_state",
	"addr":  "server.addr",
}

var validate = validator.New()

// findConfigFile returns the explicit path, or skillscope.yaml/.yml in the
// working directory, or "".
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"skillscope.yaml", "skillscope.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration from defaults, the config file, environment
// variables and explicitly set flags, then validates it. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data":                       DefaultDataPath,
		"default_state":              DefaultState,
		"salary_policy":              DefaultSalaryPolicy,
		"top_n":                      DefaultTopN,
		"map_bins":                   DefaultMapBins,
		"other_skill":                DefaultOtherSkill,
		"output":                     DefaultOutput,
		"history_file":               DefaultHistoryFile,
		"log.level":                  DefaultLogLevel,
		"log.format":                 DefaultLogFormat,
		"server.addr":                DefaultAddr,
		"server.read_header_timeout": DefaultReadHeaderTimeout,
		"server.shutdown_timeout":    DefaultShutdownTimeout,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: SKILLSCOPE_LOG_LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return sectionKey(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = sectionKey(strings.ReplaceAll(f.Name, "-", "_"))
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// sectionKey turns "log_level" into "log.level" for known sections.
func sectionKey(key string) string {
	for _, s := range sections {
		if strings.HasPrefix(key, s+"_") {
			return s + "." + strings.TrimPrefix(key, s+"_")
		}
	}
	return key
}

// Validate checks field constraints and normalizes DefaultState to its
// two-letter code.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := dataset.ParseSalaryPolicy(c.SalaryPolicy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	code, err := schema.ResolveRegion(c.DefaultState)
	if err != nil {
		return fmt.Errorf("invalid config: default_state: %w", err)
	}
	c.DefaultState = code
	return nil
}

// Policy returns the parsed salary policy. Only valid after Validate.
func (c *Config) Policy() dataset.SalaryPolicy {
	p, _ := dataset.ParseSalaryPolicy(c.SalaryPolicy)
	return p
}
