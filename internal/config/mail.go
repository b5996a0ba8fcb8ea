package config

import "fmt"

// MailConfig holds SMTP configuration for invite notifications.
// An empty Host disables delivery.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AppURL is linked from invite emails.
	AppURL string
}

// LoadMailConfigFromEnv loads mail configuration from environment variables.
func LoadMailConfigFromEnv() MailConfig {
	return MailConfig{
		Host:     GetEnv("SMTP_HOST", ""),
		Port:     GetEnvInt("SMTP_PORT", 587),
		Username: GetEnv("SMTP_USERNAME", ""),
		Password: GetEnv("SMTP_PASSWORD", ""),
		From:     GetEnv("MAIL_FROM", "no-reply@realty-ops.local"),
		AppURL:   GetEnv("APP_URL", "http://localhost:3000"),
	}
}

// Enabled reports whether invite emails are sent.
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

// Validate validates mail configuration.
func (c MailConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT: %d", c.Port)
	}
	if c.From == "" {
		return fmt.Errorf("MAIL_FROM is required when SMTP_HOST is set")
	}
	return nil
}
