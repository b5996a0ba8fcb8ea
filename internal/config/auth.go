package config

import (
	"fmt"
	"time"
)

// AuthConfig holds identity token configuration.
type AuthConfig struct {
	// JWTSecret signs access tokens (HS256).
	JWTSecret string
	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration
	// Issuer is written into the iss claim.
	Issuer string
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret: GetEnv("AUTH_JWT_SECRET", ""),
		TokenTTL:  GetEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		Issuer:    GetEnv("AUTH_ISSUER", "realty-ops"),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be greater than 0")
	}
	return nil
}
