// Package config loads server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete server configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Storage StorageConfig `koanf:"storage"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	StaticDir       string        `koanf:"static_dir"` // frontend build served at /, empty disables
}

// AuthConfig holds the admin secret
type AuthConfig struct {
	AdminPassword  string `koanf:"admin_password"`
	LoginRateLimit int    `koanf:"login_rate_limit"` // attempts per minute per IP
}

// StorageConfig selects and locates the store backend
type StorageConfig struct {
	Backend       string `koanf:"backend"`        // file, sqlite or badger
	Path          string `koanf:"path"`           // data dir, or database file for sqlite
	DeleteMissing string `koanf:"delete_missing"` // ignore or error
}

// LoggingConfig mirrors logging.Config
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Auth: AuthConfig{
			LoginRateLimit: 10,
		},
		Storage: StorageConfig{
			Backend:       "file",
			Path:          "./data",
			DeleteMissing: "ignore",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.AdminPassword == "" {
		errs = append(errs, errors.New("auth.admin_password is required"))
	}
	if c.Auth.LoginRateLimit < 0 {
		errs = append(errs, errors.New("auth.login_rate_limit must not be negative"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}

	switch c.Storage.Backend {
	case "file", "sqlite", "badger":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q must be one of file, sqlite, badger", c.Storage.Backend))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}

	switch c.Storage.DeleteMissing {
	case "ignore", "error":
	default:
		errs = append(errs, fmt.Errorf("storage.delete_missing %q must be ignore or error", c.Storage.DeleteMissing))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}

	return errors.Join(errs...)
}
