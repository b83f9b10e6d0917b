package config

import "time"

// Default values for configuration fields.
const (
	// Database defaults
	DefaultDatabasePath         = "data/redwing.db"
	DefaultDatabaseMaxOpenConns = 10
	DefaultDatabaseMaxIdleConns = 5
	DefaultDatabaseBusyTimeout  = 5 * time.Second

	// Schema defaults
	DefaultSchemaPath          = "./schema.yaml"
	DefaultSchemaDebounceDelay = 500 * time.Millisecond

	// Session defaults
	DefaultSessionsPath          = "data/sessions.db"
	DefaultSessionsTTL           = 30 * 24 * time.Hour
	DefaultSessionsPruneSchedule = "0 3 * * *"

	// Migration defaults
	DefaultMigrationsDir = "./migrations"

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDatabaseMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDatabaseMaxIdleConns
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = DefaultDatabaseBusyTimeout
	}

	if cfg.Schema.Path == "" {
		cfg.Schema.Path = DefaultSchemaPath
	}
	if cfg.Schema.DebounceDelay == 0 {
		cfg.Schema.DebounceDelay = DefaultSchemaDebounceDelay
	}

	if cfg.Sessions.Path == "" {
		cfg.Sessions.Path = DefaultSessionsPath
	}
	if cfg.Sessions.TTL == 0 {
		cfg.Sessions.TTL = DefaultSessionsTTL
	}
	if cfg.Sessions.PruneSchedule == "" {
		cfg.Sessions.PruneSchedule = DefaultSessionsPruneSchedule
	}

	if cfg.Migrations.Dir == "" {
		cfg.Migrations.Dir = DefaultMigrationsDir
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}
