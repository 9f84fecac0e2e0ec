package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for the northwind service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	API      APIConfig      `mapstructure:"api"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// DatabaseConfig selects and tunes the persistence backend
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=sqlite postgres memory"`
	Path            string        `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN             string        `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"min=0"`
	CacheSize       int           `mapstructure:"cache_size" validate:"min=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig controls token issuance and password hashing
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer        string        `mapstructure:"issuer" validate:"required"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"required"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`

	// BootstrapAdmin, when set, is created as an Admin at startup unless a
	// user of that name already exists.
	BootstrapAdmin    string `mapstructure:"bootstrap_admin" validate:"required_with=BootstrapPassword,max=64"`
	BootstrapPassword string `mapstructure:"bootstrap_password" validate:"required_with=BootstrapAdmin,omitempty,min=8"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// APIConfig controls response policy
type APIConfig struct {
	// EmptyListNotFound answers an empty collection with a 404 failure
	// envelope instead of a 200 with an empty array.
	EmptyListNotFound bool `mapstructure:"empty_list_not_found"`
}

// AuditConfig controls where request log records go
type AuditConfig struct {
	Persist bool `mapstructure:"persist"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "~/northwind/data/northwind.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 1 * time.Minute,
			CacheSize:       256,
			AutoMigrate:     true,
		},
		Auth: AuthConfig{
			Issuer:        "northwind",
			TokenLifetime: time.Hour,
			BcryptCost:    10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		API: APIConfig{
			EmptyListNotFound: true,
		},
	}
}

// Validate checks the struct tags on every section
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
