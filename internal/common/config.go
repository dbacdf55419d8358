// Package common provides shared utilities for tradejournal
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultTenantID is the owner used when no identity is configured.
const DefaultTenantID = "00000000-0000-0000-0000-000000000000"

const defaultJWTSecret = "dev-jwt-secret-change-in-production"

// Config holds all configuration for tradejournal
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Tenant      TenantConfig  `toml:"tenant"`
	Auth        AuthConfig    `toml:"auth"`
	Backup      BackupConfig  `toml:"backup"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendSurrealDB = "surrealdb"
	BackendBadger    = "badger"
	BackendMemory    = "memory"
)

// StorageConfig selects and configures the remote store.
type StorageConfig struct {
	Backend   string `toml:"backend"`   // sqlite, surrealdb, badger or memory
	Path      string `toml:"path"`      // file or directory for sqlite and badger
	Address   string `toml:"address"`   // surrealdb websocket endpoint
	Namespace string `toml:"namespace"` // surrealdb
	Database  string `toml:"database"`  // surrealdb
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the per-call store timeout
func (c *StorageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Describe returns a short human readable location for the store.
func (c *StorageConfig) Describe() string {
	switch c.Backend {
	case BackendSurrealDB:
		return fmt.Sprintf("%s (%s/%s/%s)", c.Backend, c.Address, c.Namespace, c.Database)
	case BackendMemory:
		return c.Backend
	default:
		return fmt.Sprintf("%s (%s)", c.Backend, c.Path)
	}
}

// TenantConfig holds the single-tenant identity used when auth is off.
type TenantConfig struct {
	ID       string `toml:"id"`
	Currency string `toml:"currency"`
}

// AuthConfig holds authentication configuration for login and JWT.
type AuthConfig struct {
	Required    bool             `toml:"required"`
	JWTSecret   string           `toml:"jwt_secret"`
	TokenExpiry string           `toml:"token_expiry"` // duration string, default "24h"
	LoginRate   float64          `toml:"login_rate"`   // login attempts per second per process
	LoginBurst  int              `toml:"login_burst"`
	Users       []UserCredential `toml:"users"`
}

// UserCredential is a configured login. PasswordHash is a bcrypt hash.
type UserCredential struct {
	ID           string `toml:"id"`
	Email        string `toml:"email"`
	Name         string `toml:"name"`
	PasswordHash string `toml:"password_hash"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// FindUser returns the credential with the given email, case-insensitive.
func (c *AuthConfig) FindUser(email string) (UserCredential, bool) {
	email = strings.TrimSpace(email)
	for _, u := range c.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return UserCredential{}, false
}

// BackupConfig controls the scheduled export job.
type BackupConfig struct {
	Schedule string   `toml:"schedule"` // cron expression with seconds; empty disables
	Dir      string   `toml:"dir"`
	Format   string   `toml:"format"` // json or msgpack
	S3       S3Config `toml:"s3"`
}

// Enabled reports whether a schedule is configured.
func (c *BackupConfig) Enabled() bool {
	return strings.TrimSpace(c.Schedule) != ""
}

// S3Config holds AWS S3 configuration for backups
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`   // Optional key prefix within bucket
	Region    string `toml:"region"`   // AWS region (e.g., "us-east-1")
	Endpoint  string `toml:"endpoint"` // Custom endpoint for S3-compatible stores (MinIO, R2)
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"` // console or json
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Path:      "data/tradejournal.db",
			Address:   "ws://localhost:8000/rpc",
			Namespace: "tradejournal",
			Database:  "journal",
			Username:  "root",
			Password:  "root",
			Timeout:   "10s",
		},
		Tenant: TenantConfig{
			ID:       DefaultTenantID,
			Currency: "USD",
		},
		Auth: AuthConfig{
			JWTSecret:   defaultJWTSecret,
			TokenExpiry: "24h",
			LoginRate:   1,
			LoginBurst:  5,
		},
		Backup: BackupConfig{
			Dir:    "data/backups",
			Format: "json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	applyEnvOverrides(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TJ_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TJ_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TJ_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TJ_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Storage overrides
	if v := os.Getenv("TJ_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("TJ_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("TJ_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}

	if v := os.Getenv("TJ_TENANT_ID"); v != "" {
		config.Tenant.ID = v
	}

	// Auth overrides
	if v := os.Getenv("TJ_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("TJ_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("TJ_AUTH_REQUIRED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Auth.Required = b
		}
	}
	email, hash := os.Getenv("TJ_AUTH_EMAIL"), os.Getenv("TJ_AUTH_PASSWORD_HASH")
	if email != "" && hash != "" {
		if _, exists := config.Auth.FindUser(email); !exists {
			config.Auth.Users = append(config.Auth.Users, UserCredential{
				ID:           config.Tenant.ID,
				Email:        email,
				PasswordHash: hash,
			})
		}
	}

	// Backup overrides
	if v := os.Getenv("TJ_BACKUP_SCHEDULE"); v != "" {
		config.Backup.Schedule = v
	}
	if v := os.Getenv("TJ_BACKUP_DIR"); v != "" {
		config.Backup.Dir = v
	}
	if v := os.Getenv("TJ_BACKUP_S3_BUCKET"); v != "" {
		config.Backup.S3.Bucket = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendSurrealDB, BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Tenant.ID) == "" {
		c.Tenant.ID = DefaultTenantID
	}
	for i := range c.Auth.Users {
		if c.Auth.Users[i].ID == "" {
			c.Auth.Users[i].ID = c.Tenant.ID
		}
	}
	c.Tenant.Currency = strings.ToUpper(c.Tenant.Currency)
	return nil
}

// ValidateRequired returns the names of settings that must be changed before
// running in production.
func (c *Config) ValidateRequired() []string {
	var missing []string
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
		missing = append(missing, "auth.jwt_secret")
	}
	if c.Auth.Required && len(c.Auth.Users) == 0 {
		missing = append(missing, "auth.users")
	}
	return missing
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
