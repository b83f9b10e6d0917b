// Package session provides a SQLite-backed HTTP session store.
//
// Each session is one database row: a uuid id, a JSON object of string
// values, and a last-access timestamp. Stale rows are pruned after a
// configurable TTL, either opportunistically on session open with a
// probability that keeps the pruning frequency independent of the
// number of sessions, or on a cron schedule via the Scheduler.
package session
