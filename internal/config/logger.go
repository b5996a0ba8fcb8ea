package config

import (
	"fmt"
	"slices"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

// LoggerConfig selects the zap level, encoding and sink.
type LoggerConfig struct {
	Level  string
	Format string
	// Output is stdout, stderr or a file path.
	Output string
}

// LoadLoggerConfigFromEnv reads LOG_* variables.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Format: GetEnv("LOG_FORMAT", "json"),
		Output: GetEnv("LOG_OUTPUT", "stdout"),
	}
}

// Validate checks level and format against the values zap is built with.
func (c LoggerConfig) Validate() error {
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not one of %v", c.Level, logLevels)
	}
	if !slices.Contains(logFormats, c.Format) {
		return fmt.Errorf("LOG_FORMAT %q is not one of %v", c.Format, logFormats)
	}
	return nil
}

// IsProduction selects zap's production preset: JSON output above debug level.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}
