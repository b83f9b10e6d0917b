package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"redwing-hq/redwing/pkg/telemetry/metrics"
)

// Config contains configuration for the session store.
type Config struct {
	// Path is the database file path.
	Path string

	// TTL is how long an untouched session survives. Zero disables
	// pruning entirely.
	TTL time.Duration

	// PruneSchedule is a cron expression for scheduled pruning, used by
	// the Scheduler. Empty means no scheduled pruning.
	PruneSchedule string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default session store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:          "data/sessions.db",
		TTL:           30 * 24 * time.Hour,
		PruneSchedule: "0 3 * * *",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		WALMode:       true,
		BusyTimeout:   5 * time.Second,
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_time ON sessions (time);
`

// Store keeps session rows in a SQLite table: a text id, the session
// data as a JSON object, and the last access time as a unix timestamp.
type Store struct {
	db      *sql.DB
	config  *Config
	logger  *slog.Logger
	metrics *metrics.Session

	// now and pick are swapped out in tests.
	now  func() time.Time
	pick func(n int64) int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics attaches prune metrics.
func WithMetrics(m *metrics.Session) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore opens the session database at config.Path and creates the
// sessions table if it does not exist.
func NewStore(config *Config, opts ...Option) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{
		db:     db,
		config: config,
		logger: slog.Default(),
		now:    time.Now,
		pick:   rand.Int63n,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("session store initialized",
		"path", config.Path,
		"ttl", config.TTL,
	)
	return s, nil
}

// initialize sets pragmas and creates the schema.
func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable wal mode: %w", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		stmt := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("set busy timeout: %w", err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Open loads the session with the given id, creating a fresh one when
// id is empty or names no stored row. The returned session always
// exists in the database; a caller that passed an empty id persists the
// new ID itself, typically in a cookie.
//
// Opening a session occasionally triggers a prune pass. The chance is
// one in the current row count, so the expected pruning frequency stays
// constant as the number of sessions grows.
func (s *Store) Open(ctx context.Context, id string) (*Session, error) {
	if s.config.TTL > 0 {
		if err := s.maybePrune(ctx); err != nil {
			s.logger.Warn("opportunistic prune failed", "error", err)
		}
	}

	if id != "" {
		var raw string
		err := s.db.QueryRowContext(ctx,
			"SELECT data FROM sessions WHERE id = ?", id).Scan(&raw)
		switch {
		case err == nil:
			var values map[string]string
			if jsonErr := json.Unmarshal([]byte(raw), &values); jsonErr == nil {
				if _, err := s.db.ExecContext(ctx,
					"UPDATE sessions SET time = ? WHERE id = ?",
					s.now().Unix(), id); err != nil {
					return nil, fmt.Errorf("touch session: %w", err)
				}
				return &Session{store: s, id: id, values: values}, nil
			}
			// Undecodable data counts as no session; fall through and
			// mint a fresh one.
		case !errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("load session: %w", err)
		}
	}

	fresh := &Session{
		store:  s,
		id:     uuid.NewString(),
		values: make(map[string]string),
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, data, time) VALUES (?, ?, ?)",
		fresh.id, "{}", s.now().Unix()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return fresh, nil
}

// Delete removes the session row with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Count returns the number of stored session rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// Prune removes every session idle longer than the configured TTL and
// returns how many went away. With a zero TTL it does nothing.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.config.TTL <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.config.TTL).Unix()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE time < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	remaining, err := s.Count(ctx)
	if err != nil {
		return pruned, err
	}
	s.metrics.ObservePrune(pruned, remaining)
	if pruned > 0 {
		s.logger.Info("sessions pruned", "pruned", pruned, "remaining", remaining)
	}
	return pruned, nil
}

// maybePrune runs Prune with probability 1/count.
func (s *Store) maybePrune(ctx context.Context) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 || s.pick(count) != 0 {
		return nil
	}
	_, err = s.Prune(ctx)
	return err
}

// Session is one loaded session: an id and a string-to-string value
// map cached in memory. Mutations write through to the store.
type Session struct {
	store  *Store
	id     string
	values map[string]string
}

// ID returns the session's database id.
func (s *Session) ID() string {
	return s.id
}

// Get returns the value for key and whether it is present.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value for key and persists the session.
func (s *Session) Set(ctx context.Context, key, value string) error {
	s.values[key] = value
	return s.update(ctx)
}

// Remove drops the key-value pair and persists the session.
func (s *Session) Remove(ctx context.Context, key string) error {
	delete(s.values, key)
	return s.update(ctx)
}

// Clear empties the session and persists it.
func (s *Session) Clear(ctx context.Context) error {
	s.values = make(map[string]string)
	return s.update(ctx)
}

// update rewrites the row's data and access time.
func (s *Session) update(ctx context.Context) error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE sessions SET data = ?, time = ? WHERE id = ?",
		string(data), s.store.now().Unix(), s.id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("session %s is gone from the store", s.id)
	}
	return nil
}
