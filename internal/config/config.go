// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Database holds relational store configuration.
	Database DatabaseConfig
	// Auth holds identity token configuration.
	Auth AuthConfig
	// Storage holds object store configuration.
	Storage StorageConfig
	// Cache holds property list cache configuration.
	Cache CacheConfig
	// Mail holds invite notification configuration.
	Mail MailConfig
	// Property holds lifecycle options.
	Property PropertyConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
	// SentryDSN enables panic reporting when non-empty.
	SentryDSN string
	// CollaboratorTimeout bounds every call into the database, object store and cache.
	CollaboratorTimeout time.Duration
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:              LoadServerConfigFromEnv(),
		Logger:              LoadLoggerConfigFromEnv(),
		Database:            LoadDatabaseConfigFromEnv(),
		Auth:                LoadAuthConfigFromEnv(),
		Storage:             LoadStorageConfigFromEnv(),
		Cache:               LoadCacheConfigFromEnv(),
		Mail:                LoadMailConfigFromEnv(),
		Property:            LoadPropertyConfigFromEnv(),
		GinMode:             GetEnv("GIN_MODE", "release"),
		SentryDSN:           GetEnv("SENTRY_DSN", ""),
		CollaboratorTimeout: GetEnvDuration("COLLABORATOR_TIMEOUT", 5*time.Second),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}
	if err := c.Mail.Validate(); err != nil {
		return fmt.Errorf("mail config validation failed: %w", err)
	}
	if err := c.Property.Validate(); err != nil {
		return fmt.Errorf("property config validation failed: %w", err)
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	if c.CollaboratorTimeout <= 0 {
		return fmt.Errorf("COLLABORATOR_TIMEOUT must be greater than 0")
	}

	return nil
}
