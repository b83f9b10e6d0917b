package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error with
// field context.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a Config for invalid values. It returns a
// ValidationErrors listing every problem found, or nil if the
// configuration is valid.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Database.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "database.path",
			Message: "must not be empty",
		})
	}
	if cfg.Database.MaxOpenConns < 1 {
		errs = append(errs, &ValidationError{
			Field:   "database.max_open_conns",
			Message: "must be at least 1",
		})
	}
	if cfg.Database.MaxIdleConns < 0 {
		errs = append(errs, &ValidationError{
			Field:   "database.max_idle_conns",
			Message: "must not be negative",
		})
	}
	if cfg.Database.BusyTimeout < 0 {
		errs = append(errs, &ValidationError{
			Field:   "database.busy_timeout",
			Message: "must not be negative",
		})
	}

	if cfg.Schema.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "schema.path",
			Message: "must not be empty",
		})
	}
	if cfg.Schema.DebounceDelay < 0 {
		errs = append(errs, &ValidationError{
			Field:   "schema.debounce_delay",
			Message: "must not be negative",
		})
	}

	if cfg.Sessions.Enabled {
		if cfg.Sessions.Path == "" {
			errs = append(errs, &ValidationError{
				Field:   "sessions.path",
				Message: "must not be empty when sessions are enabled",
			})
		}
		if cfg.Sessions.TTL < 0 {
			errs = append(errs, &ValidationError{
				Field:   "sessions.ttl",
				Message: "must not be negative",
			})
		}
		if cfg.Sessions.PruneSchedule != "" {
			if _, err := cron.ParseStandard(cfg.Sessions.PruneSchedule); err != nil {
				errs = append(errs, &ValidationError{
					Field:   "sessions.prune_schedule",
					Message: fmt.Sprintf("invalid cron expression: %v", err),
				})
			}
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be debug, info, warn or error, got %q", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
