// Package migrate applies ordered .sql migration files to a database.
//
// Migrations are plain SQL files in one directory, applied in
// lexicographic filename order. Applied filenames are recorded in a
// schema_migrations table so each file runs exactly once; the
// conventional naming is a sortable numeric prefix, like
// 0001_create_users.sql.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const bookkeepingSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Runner applies migrations from a directory to one database.
type Runner struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
}

// NewRunner creates a migration runner over db reading from dir.
func NewRunner(db *sql.DB, dir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		db:     db,
		dir:    dir,
		logger: logger.With("component", "migrate"),
	}
}

// Pending returns the migration filenames not yet applied, in the
// order they would run.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	if _, err := r.db.ExecContext(ctx, bookkeepingSQL); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %q: %w", r.dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, f := range files {
		if !applied[f] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// Run applies every pending migration and returns how many ran. Each
// file runs in its own transaction together with its bookkeeping row,
// so a failing migration leaves the database at the previous file's
// state.
func (r *Runner) Run(ctx context.Context) (int, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, name := range pending {
		if err := r.apply(ctx, name); err != nil {
			return i, err
		}
		r.logger.Info("migration applied", "file", name)
	}
	return len(pending), nil
}

// apply runs one migration file in a transaction.
func (r *Runner) apply(ctx context.Context, name string) error {
	script, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply migration %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
		tx.Rollback()
		return fmt.Errorf("record migration %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", name, err)
	}
	return nil
}

// applied returns the set of already-applied migration filenames.
func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return applied, nil
}
