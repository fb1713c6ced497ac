package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// envMappings maps lowercased environment variable names to config paths.
// PORT, DB_PATH and ADMIN_PASSWORD are kept for older deployments.
var envMappings = map[string]string{
	"raidmap_host":             "server.host",
	"raidmap_port":             "server.port",
	"raidmap_read_timeout":     "server.read_timeout",
	"raidmap_write_timeout":    "server.write_timeout",
	"raidmap_shutdown_timeout": "server.shutdown_timeout",
	"raidmap_cors_origins":     "server.cors_origins",
	"raidmap_static_dir":       "server.static_dir",

	"raidmap_admin_password":   "auth.admin_password",
	"raidmap_login_rate_limit": "auth.login_rate_limit",

	"raidmap_storage_backend": "storage.backend",
	"raidmap_storage_path":    "storage.path",
	"raidmap_delete_missing":  "storage.delete_missing",

	"raidmap_log_level":  "logging.level",
	"raidmap_log_format": "logging.format",
	"raidmap_log_caller": "logging.caller",

	"port":           "server.port",
	"db_path":        "storage.path",
	"admin_password": "auth.admin_password",
}

// sliceConfigPaths are split on commas when they come from the environment
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// Load builds the configuration from defaults, file and environment
// and validates it
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps known variables and drops everything else
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
