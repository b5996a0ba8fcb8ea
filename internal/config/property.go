package config

import "fmt"

// PropertyConfig holds property lifecycle options.
type PropertyConfig struct {
	// StrictTransitions forbids leaving Sold/Lost without an explicit reopen.
	StrictTransitions bool
	// PlaceholderImageURL is stored when a property is created without an image URL.
	PlaceholderImageURL string
}

// LoadPropertyConfigFromEnv loads property configuration from environment variables.
func LoadPropertyConfigFromEnv() PropertyConfig {
	return PropertyConfig{
		StrictTransitions:   GetEnvBool("PROPERTY_STRICT_TRANSITIONS", false),
		PlaceholderImageURL: GetEnv("PROPERTY_PLACEHOLDER_IMAGE", "/placeholder.svg?height=400&width=600"),
	}
}

// Validate validates property configuration.
func (c PropertyConfig) Validate() error {
	if c.PlaceholderImageURL == "" {
		return fmt.Errorf("PROPERTY_PLACEHOLDER_IMAGE cannot be empty")
	}
	return nil
}
