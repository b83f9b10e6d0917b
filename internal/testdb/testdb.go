// Package testdb opens throwaway in-memory SQLite databases for tests.
package testdb

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // SQLite driver
)

// Open returns an in-memory database that is torn down with the test.
// The pool is capped at one connection so every statement sees the same
// in-memory database.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

// Exec runs one DDL or seed statement, failing the test on error.
func Exec(t *testing.T, db *sql.DB, stmt string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(stmt, args...); err != nil {
		t.Fatalf("exec %q failed: %v", stmt, err)
	}
}
