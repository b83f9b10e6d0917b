package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/redwing/app.db
  max_open_conns: 4
schema:
  path: ./tables.yaml
  watch: true
sessions:
  enabled: true
  ttl: 1h
logging:
  level: debug
  format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Database.Path != "/var/lib/redwing/app.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.MaxOpenConns != 4 {
		t.Errorf("Database.MaxOpenConns = %d, want 4", cfg.Database.MaxOpenConns)
	}
	// Unset fields pick up defaults.
	if cfg.Database.MaxIdleConns != DefaultDatabaseMaxIdleConns {
		t.Errorf("Database.MaxIdleConns = %d, want default", cfg.Database.MaxIdleConns)
	}
	if cfg.Sessions.PruneSchedule != DefaultSessionsPruneSchedule {
		t.Errorf("Sessions.PruneSchedule = %q, want default", cfg.Sessions.PruneSchedule)
	}
	if !cfg.Schema.Watch {
		t.Error("Schema.Watch = false, want true")
	}
	if cfg.Sessions.TTL != time.Hour {
		t.Errorf("Sessions.TTL = %v, want 1h", cfg.Sessions.TTL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("LoadConfig() error = %v, want read failure", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "database: [not a mapping")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("LoadConfig() error = %v, want parse failure", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: loud
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("LoadConfig() error = %v, want logging.level validation failure", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  path: from-file.db
logging:
  level: info
`)

	t.Setenv("REDWING_DATABASE_PATH", "from-env.db")
	t.Setenv("REDWING_LOGGING_LEVEL", "warn")
	t.Setenv("REDWING_SCHEMA_WATCH", "true")
	t.Setenv("REDWING_SESSIONS_TTL", "15m")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	if cfg.Database.Path != "from-env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if !cfg.Schema.Watch {
		t.Error("Schema.Watch = false, want env override true")
	}
	if cfg.Sessions.TTL != 15*time.Minute {
		t.Errorf("Sessions.TTL = %v, want 15m", cfg.Sessions.TTL)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("REDWING_LOGGING_FORMAT", "xml")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("error = %v, want logging.format validation failure", err)
	}
}
