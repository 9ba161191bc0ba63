package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	JWT           JWTConfig
	Roles         RolesConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the domain record store.
// Type is "memory" or "postgres".
type StorageConfig struct {
	Type     string
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type PostgresConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// JWTConfig holds token verification configuration
type JWTConfig struct {
	Secret string
}

// RolesConfig holds the two role identifiers recognized by the
// ownership authorizer. Both are arbitrary configured strings; any
// token role outside these two values is denied.
type RolesConfig struct {
	Admin string
	User  string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// roleIdentifierPattern restricts role identifiers to letters, digits,
// CJK characters, underscore and hyphen.
var roleIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_\x{4e00}-\x{9fa5}-]+$`)

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 3000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Type:     getEnv("STORAGE_TYPE", "memory"),
			Postgres: loadPostgresConfig(),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Roles: RolesConfig{
			Admin: getEnv("ROLE_ADMIN", "administrator"),
			User:  getEnv("ROLE_USER", "user"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set.
// Role identifier validation happens here, once at process start.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required: set JWT_SECRET")
	}

	if err := c.Roles.Validate(); err != nil {
		return err
	}

	switch c.Storage.Type {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.ConnectionString == "" && c.Storage.Postgres.Host == "" {
			return fmt.Errorf("postgres storage requires DATABASE_URL or DB_HOST")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// Validate checks the role identifiers: both non-empty, mutually
// distinct, and drawn from the restricted character class (letters,
// digits, CJK characters, underscore, hyphen).
func (r *RolesConfig) Validate() error {
	if r.User == "" || r.Admin == "" {
		return fmt.Errorf("role identifiers must not be empty")
	}
	if r.User == r.Admin {
		return fmt.Errorf("standard-user and administrator role identifiers must be distinct")
	}
	if !roleIdentifierPattern.MatchString(r.User) || !roleIdentifierPattern.MatchString(r.Admin) {
		return fmt.Errorf("role identifiers may only contain letters, digits, CJK characters, underscores and hyphens")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *PostgresConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password)
func (c *PostgresConfig) LogString() string {
	if c.ConnectionString != "" {
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadPostgresConfig loads postgres config from DATABASE_URL or DB_* env vars
func loadPostgresConfig() PostgresConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return PostgresConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return PostgresConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "domains"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "domains"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
