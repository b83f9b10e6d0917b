package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.MaxOpenConns != DefaultDatabaseMaxOpenConns {
		t.Errorf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Schema.Path != DefaultSchemaPath {
		t.Errorf("Schema.Path = %q", cfg.Schema.Path)
	}
	if cfg.Schema.DebounceDelay != DefaultSchemaDebounceDelay {
		t.Errorf("Schema.DebounceDelay = %v", cfg.Schema.DebounceDelay)
	}
	if cfg.Sessions.TTL != DefaultSessionsTTL {
		t.Errorf("Sessions.TTL = %v", cfg.Sessions.TTL)
	}
	if cfg.Migrations.Dir != DefaultMigrationsDir {
		t.Errorf("Migrations.Dir = %q", cfg.Migrations.Dir)
	}
	if cfg.Logging.Level != DefaultLoggingLevel {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Path = "custom.db"
	cfg.Logging.Format = "text"

	ApplyDefaults(cfg)

	if cfg.Database.Path != "custom.db" {
		t.Errorf("Database.Path = %q, want custom.db", cfg.Database.Path)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want text", cfg.Logging.Format)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	snapshot := *cfg
	ApplyDefaults(cfg)
	if *cfg != snapshot {
		t.Error("second ApplyDefaults changed the configuration")
	}
}
