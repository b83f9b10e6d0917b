package config

import "time"

// Config is the root configuration for redwing.
type Config struct {
	// Database configures the primary SQLite database the mapping
	// engine runs against.
	Database DatabaseConfig `yaml:"database"`

	// Schema configures where table descriptions are loaded from.
	Schema SchemaConfig `yaml:"schema"`

	// Sessions configures the session store.
	Sessions SessionsConfig `yaml:"sessions"`

	// Migrations configures the migration runner.
	Migrations MigrationsConfig `yaml:"migrations"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `yaml:"metrics"`
}

// DatabaseConfig contains settings for the primary database.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// SchemaConfig contains settings for table description loading.
type SchemaConfig struct {
	// Path is the YAML file holding the table descriptions.
	Path string `yaml:"path"`

	// Watch enables hot reloading when the schema file changes.
	Watch bool `yaml:"watch"`

	// DebounceDelay is how long file change events are coalesced
	// before a reload.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// SessionsConfig contains settings for the session store.
type SessionsConfig struct {
	// Enabled turns the session store on.
	Enabled bool `yaml:"enabled"`

	// Path is the session database file path, separate from the
	// primary database.
	Path string `yaml:"path"`

	// TTL is how long an untouched session survives. Zero disables
	// pruning.
	TTL time.Duration `yaml:"ttl"`

	// PruneSchedule is a cron expression for scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// MigrationsConfig contains settings for the migration runner.
type MigrationsConfig struct {
	// Dir is the directory holding ordered .sql migration files.
	Dir string `yaml:"dir"`
}

// LoggingConfig contains settings for structured logging.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains settings for metrics collection.
type MetricsConfig struct {
	// Enabled turns collector registration on.
	Enabled bool `yaml:"enabled"`
}
