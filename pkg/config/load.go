package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention REDWING_SECTION_FIELD (e.g. REDWING_DATABASE_PATH) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies REDWING_SECTION_FIELD environment variable
// overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Database overrides
	if val := os.Getenv("REDWING_DATABASE_PATH"); val != "" {
		cfg.Database.Path = val
	}
	if val := os.Getenv("REDWING_DATABASE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Database.MaxOpenConns = i
		}
	}
	if val := os.Getenv("REDWING_DATABASE_MAX_IDLE_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Database.MaxIdleConns = i
		}
	}
	if val := os.Getenv("REDWING_DATABASE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Database.BusyTimeout = d
		}
	}

	// Schema overrides
	if val := os.Getenv("REDWING_SCHEMA_PATH"); val != "" {
		cfg.Schema.Path = val
	}
	if val := os.Getenv("REDWING_SCHEMA_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schema.Watch = b
		}
	}
	if val := os.Getenv("REDWING_SCHEMA_DEBOUNCE_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Schema.DebounceDelay = d
		}
	}

	// Session overrides
	if val := os.Getenv("REDWING_SESSIONS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Sessions.Enabled = b
		}
	}
	if val := os.Getenv("REDWING_SESSIONS_PATH"); val != "" {
		cfg.Sessions.Path = val
	}
	if val := os.Getenv("REDWING_SESSIONS_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Sessions.TTL = d
		}
	}
	if val := os.Getenv("REDWING_SESSIONS_PRUNE_SCHEDULE"); val != "" {
		cfg.Sessions.PruneSchedule = val
	}

	// Migration overrides
	if val := os.Getenv("REDWING_MIGRATIONS_DIR"); val != "" {
		cfg.Migrations.Dir = val
	}

	// Logging overrides
	if val := os.Getenv("REDWING_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("REDWING_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("REDWING_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("REDWING_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
