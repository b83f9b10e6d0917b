// Package telemetry groups redwing's observability concerns.
//
// # Components
//
//   - logging: structured logging over log/slog
//   - metrics: Prometheus collectors for the mapping engine and the
//     session store
//
// Components take a *slog.Logger and tag themselves with a "component"
// attribute; metrics are registered through an explicit
// prometheus.Registerer so tests can use private registries.
package telemetry
