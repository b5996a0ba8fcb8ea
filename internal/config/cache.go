package config

import (
	"fmt"
	"time"
)

// CacheConfig holds Redis list cache configuration.
type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	// TTL bounds how long a cached list page lives without invalidation.
	TTL time.Duration
}

// LoadCacheConfigFromEnv loads cache configuration from environment variables.
func LoadCacheConfigFromEnv() CacheConfig {
	return CacheConfig{
		Enabled:  GetEnvBool("CACHE_ENABLED", false),
		Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
		TTL:      GetEnvDuration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate validates cache configuration.
func (c CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_ENABLED is set")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be greater than 0")
	}
	return nil
}
