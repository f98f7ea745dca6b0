package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the annotate configuration.
// Priority: flags > environment > config file > defaults.
type Config struct {
	Strict  bool          `toml:"strict"`
	Logging LoggingConfig `toml:"logging"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"` // empty: stderr only
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load returns the defaults merged with the TOML file at path (if any) and
// the CATTR_* environment variables. Unknown keys in the file are an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("CATTR_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("CATTR_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
	if strict := os.Getenv("CATTR_STRICT"); strict == "1" || strings.EqualFold(strict, "true") {
		cfg.Strict = true
	}
}

// ApplyFlagOverrides applies command-line values; empty strings and a false
// strict flag leave the current value alone.
func ApplyFlagOverrides(cfg *Config, level, file string, strict bool) {
	if level != "" {
		cfg.Logging.Level = level
	}
	if file != "" {
		cfg.Logging.File = file
	}
	if strict {
		cfg.Strict = true
	}
}

// Validate normalizes the log level and checks field constraints.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
