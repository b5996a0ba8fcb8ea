package config

import (
	"fmt"
	"time"
)

// StorageConfig holds object store configuration.
type StorageConfig struct {
	// Bucket is the namespace property images are stored under.
	Bucket string
	// SigningSecret signs object URLs.
	SigningSecret string
	// SignedURLTTL is the lifetime of URLs handed out by detail views.
	SignedURLTTL time.Duration
	// PublicBaseURL prefixes signed URLs (scheme://host of this service).
	PublicBaseURL string
	// MaxUploadBytes caps image payload size.
	MaxUploadBytes int64
}

// LoadStorageConfigFromEnv loads storage configuration from environment variables.
func LoadStorageConfigFromEnv() StorageConfig {
	return StorageConfig{
		Bucket:         GetEnv("STORAGE_BUCKET", "property-images"),
		SigningSecret:  GetEnv("STORAGE_SIGNING_SECRET", ""),
		SignedURLTTL:   GetEnvDuration("STORAGE_SIGNED_URL_TTL", 30*24*time.Hour),
		PublicBaseURL:  GetEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080"),
		MaxUploadBytes: int64(GetEnvInt("STORAGE_MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// Validate validates storage configuration.
func (c StorageConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if len(c.SigningSecret) < 16 {
		return fmt.Errorf("STORAGE_SIGNING_SECRET must be at least 16 characters")
	}
	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("STORAGE_SIGNED_URL_TTL must be greater than 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("STORAGE_MAX_UPLOAD_BYTES must be greater than 0")
	}
	return nil
}
