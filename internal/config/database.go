package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig holds relational store connection configuration.
type DatabaseConfig struct {
	// Driver selects the gorm dialector: postgres or sqlite.
	Driver   string
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
	// SQLitePath is the database file used when Driver is sqlite.
	SQLitePath string

	// MigrationsPath is the directory holding golang-migrate SQL files.
	MigrationsPath string
	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool

	Retry RetryConfig
	Pool  PoolConfig
}

// RetryConfig holds connection retry configuration.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// PoolConfig holds database connection pool configuration.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Driver:         GetEnv("DB_DRIVER", "postgres"),
		Host:           GetEnv("DB_HOST", "localhost"),
		User:           GetEnv("DB_USER", "postgres"),
		Password:       GetEnv("DB_PASSWORD", "postgres"),
		DBName:         GetEnv("DB_NAME", "realty_ops"),
		Port:           GetEnv("DB_PORT", "5432"),
		SSLMode:        GetEnv("DB_SSLMODE", "disable"),
		TimeZone:       GetEnv("DB_TIMEZONE", "UTC"),
		SQLitePath:     GetEnv("DB_SQLITE_PATH", "realty_ops.db"),
		MigrationsPath: GetEnv("MIGRATIONS_PATH", "migrations"),
		AutoMigrate:    GetEnvBool("MIGRATIONS_AUTO", true),
		Retry: RetryConfig{
			MaxAttempts:  GetEnvInt("DB_RETRY_MAX_ATTEMPTS", 5),
			InitialDelay: GetEnvDuration("DB_RETRY_INITIAL_DELAY", time.Second),
			MaxDelay:     GetEnvDuration("DB_RETRY_MAX_DELAY", 30*time.Second),
			Multiplier:   GetEnvFloat("DB_RETRY_MULTIPLIER", 2.0),
		},
		Pool: PoolConfig{
			MaxOpenConns:    GetEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    GetEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: GetEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
	}
}

// DSN builds the PostgreSQL DSN string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

// Redact removes the password from a message that may contain the DSN.
func (c DatabaseConfig) Redact(msg string) string {
	if c.Password == "" {
		return msg
	}
	return strings.ReplaceAll(msg, c.Password, "***")
}

// Validate validates database configuration.
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case "postgres":
		if c.Host == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be: postgres, sqlite)", c.Driver)
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("DB_RETRY_MAX_ATTEMPTS must be greater than 0")
	}
	if c.Pool.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be greater than 0")
	}
	if c.Pool.MaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be non-negative")
	}
	if c.Pool.MaxIdleConns > c.Pool.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot be greater than DB_MAX_OPEN_CONNS (%d)",
			c.Pool.MaxIdleConns, c.Pool.MaxOpenConns)
	}

	return nil
}
