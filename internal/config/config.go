// Package config loads repostat settings from defaults, an optional config
// file and REPOSTAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix, e.g. REPOSTAT_LOG_LEVEL.
const EnvPrefix = "REPOSTAT"

// Config holds every setting the CLI reads.
type Config struct {
	Format      string `mapstructure:"format"`
	Output      string `mapstructure:"output"`
	Top         int    `mapstructure:"top"`
	QueriesFile string `mapstructure:"queries_file"`
	MetricsFile string `mapstructure:"metrics_file"`
	Log         Log    `mapstructure:"log"`
}

// Log configures the logger built by the logging package.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	SeqURL string `mapstructure:"seq_url"`
}

var defaults = map[string]interface{}{
	"format":       "json",
	"output":       "",
	"top":          10,
	"queries_file": "",
	"metrics_file": "",
	"log.level":    "warn",
	"log.format":   "text",
	"log.seq_url":  "",
}

// Load reads configuration. An empty path skips the config file; a
// non-empty path must exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
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

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Format) {
	case "json", "jsonl", "csv", "table":
	default:
		errs = append(errs, fmt.Errorf("format: unsupported value %q", c.Format))
	}
	if c.Top < 0 {
		errs = append(errs, fmt.Errorf("top: must not be negative, got %d", c.Top))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unsupported value %q", c.Log.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
