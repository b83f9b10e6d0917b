// Package metrics contains the Prometheus collectors exported by
// redwing's database and session layers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DB collects statement-level metrics for the mapping engine.
type DB struct {
	queries  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewDB creates the database collectors and registers them with reg,
// or with the default registerer if reg is nil.
func NewDB(reg prometheus.Registerer) *DB {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &DB{
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redwing_db_statements_total",
				Help: "Total number of statements executed, by table, operation and result",
			},
			[]string{"table", "op", "result"},
		),

		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redwing_db_rows_total",
				Help: "Total number of rows returned or affected, by table and operation",
			},
			[]string{"table", "op"},
		),

		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "redwing_db_statement_duration_seconds",
				Help:    "Statement execution latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table", "op"},
		),
	}
}

// Observe records one executed statement.
func (m *DB) Observe(table, op string, d time.Duration, rows int64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.queries.WithLabelValues(table, op, result).Inc()
	m.duration.WithLabelValues(table, op).Observe(d.Seconds())
	if err == nil && rows > 0 {
		m.rows.WithLabelValues(table, op).Add(float64(rows))
	}
}

// Session collects metrics for the session store.
type Session struct {
	pruned   prometheus.Counter
	pruneRun prometheus.Counter
	active   prometheus.Gauge
}

// NewSession creates the session collectors and registers them with
// reg, or with the default registerer if reg is nil.
func NewSession(reg prometheus.Registerer) *Session {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Session{
		pruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "redwing_sessions_pruned_total",
			Help: "Total number of session rows removed by pruning",
		}),
		pruneRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "redwing_session_prune_runs_total",
			Help: "Total number of prune passes executed",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "redwing_sessions_active",
			Help: "Session rows present after the last prune pass",
		}),
	}
}

// ObservePrune records one prune pass.
func (m *Session) ObservePrune(pruned, remaining int64) {
	if m == nil {
		return
	}
	m.pruneRun.Inc()
	m.pruned.Add(float64(pruned))
	m.active.Set(float64(remaining))
}
