// Package config loads lquery settings from an optional YAML file and
// LQUERY_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LQUERY_ENGINE_PARALLELISM
const EnvPrefix = "LQUERY"

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Spreadsheet SpreadsheetConfig `mapstructure:"spreadsheet"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // text or json
	AddSource bool   `mapstructure:"add_source"`
	// SeqURL enables the Seq sink when set
	SeqURL string `mapstructure:"seq_url"`
}

type EngineConfig struct {
	// Parallelism bounds the number of columns permuted at once; 0 means runtime.NumCPU()
	Parallelism int `mapstructure:"parallelism"`
}

type SpreadsheetConfig struct {
	SheetName string `mapstructure:"sheet_name"`
	// Header treats the first row as column names on import and writes it on export
	Header bool `mapstructure:"header"`
}

var defaults = map[string]any{
	"log.level":              "info",
	"log.format":             "text",
	"log.add_source":         false,
	"log.seq_url":            "",
	"engine.parallelism":     0,
	"spreadsheet.sheet_name": "Table",
	"spreadsheet.header":     false,
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Log:         LogConfig{Level: "info", Format: "text"},
		Spreadsheet: SpreadsheetConfig{SheetName: "Table"},
	}
}

// Load reads the config file at path, then applies environment overrides.
// With an empty path, lquery.yaml in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("lquery")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type check
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Engine.Parallelism < 0 {
		return fmt.Errorf("engine.parallelism must not be negative, got %d", c.Engine.Parallelism)
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error")
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Workers resolves Parallelism to a positive worker count
func (e EngineConfig) Workers() int {
	if e.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return e.Parallelism
}
