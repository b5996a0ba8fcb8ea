package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_OUTPUT", "/var/log/realty-ops.log")

	cfg := LoadLoggerConfigFromEnv()
	assert.Equal(t, LoggerConfig{Level: "debug", Format: "console", Output: "/var/log/realty-ops.log"}, cfg)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsProduction())
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  LoggerConfig
		wantErr string
	}{
		{"json info", LoggerConfig{Level: "info", Format: "json"}, ""},
		{"console warn", LoggerConfig{Level: "warn", Format: "console"}, ""},
		{"unknown level", LoggerConfig{Level: "trace", Format: "json"}, "LOG_LEVEL"},
		{"level is case sensitive", LoggerConfig{Level: "INFO", Format: "json"}, "LOG_LEVEL"},
		{"unknown format", LoggerConfig{Level: "info", Format: "logfmt"}, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "warn", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}
