// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"isofit/internal/errors"
	"isofit/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Engine contains calculation defaults
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// EngineConfig contains calculation defaults
type EngineConfig struct {
	// DefaultLanguage selects the language of descriptions and summaries
	DefaultLanguage string `json:"default_language" yaml:"default_language" env:"ISOFIT_LANG"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json, markdown)
	DefaultFormat string `json:"default_format" yaml:"default_format" env:"ISOFIT_FORMAT"`

	// NoColor disables ANSI colors in terminal output
	NoColor bool `json:"no_color" yaml:"no_color" env:"ISOFIT_NO_COLOR"`

	// Precision is the number of decimals used for millimeter limits
	Precision int32 `json:"precision" yaml:"precision" env:"ISOFIT_PRECISION"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr" env:"ISOFIT_ADDR"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" yaml:"read_timeout_seconds" env:"ISOFIT_READ_TIMEOUT"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" yaml:"write_timeout_seconds" env:"ISOFIT_WRITE_TIMEOUT"`

	// MetricsEnabled exposes /metrics
	MetricsEnabled bool `json:"metrics_enabled" yaml:"metrics_enabled" env:"ISOFIT_METRICS"`

	// Workers is the default batch concurrency, overridable per request
	Workers int `json:"workers" yaml:"workers" env:"ISOFIT_WORKERS"`
}

// MaxWorkers bounds batch concurrency
const MaxWorkers = 64

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			DefaultLanguage: "en",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Precision:     3,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			MetricsEnabled:      true,
			Workers:             4,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns ~/.isofit/config.yaml
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".isofit", "config.yaml")
}

// Load loads configuration from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config file", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	return config, nil
}

// Save saves configuration to a file in the format matching its extension
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("failed to create config directory", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Config("failed to marshal config", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays ISOFIT_* environment variables onto the configuration
func ApplyEnv(c *Config) error {
	if err := env.Parse(c); err != nil {
		return errors.Config("failed to parse environment", err)
	}
	return nil
}

// Validate checks the configuration for values the engine cannot use
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Engine.DefaultLanguage); err != nil {
		return errors.Config(fmt.Sprintf("engine.default_language %q is not a language tag", c.Engine.DefaultLanguage), err)
	}
	switch c.Output.DefaultFormat {
	case "text", "json", "markdown":
	default:
		return errors.Config(fmt.Sprintf("output.default_format must be text, json or markdown, got %q", c.Output.DefaultFormat), nil)
	}
	if c.Output.Precision < 1 || c.Output.Precision > 6 {
		return errors.Config("output.precision must be between 1 and 6", nil)
	}
	if c.Server.Addr == "" {
		return errors.Config("server.addr is required", nil)
	}
	if c.Server.ReadTimeoutSeconds <= 0 || c.Server.WriteTimeoutSeconds <= 0 {
		return errors.Config("server timeouts must be positive", nil)
	}
	if c.Server.Workers < 1 || c.Server.Workers > MaxWorkers {
		return errors.Config(fmt.Sprintf("server.workers must be between 1 and %d, got %d", MaxWorkers, c.Server.Workers), nil)
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Config("invalid logging configuration", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
