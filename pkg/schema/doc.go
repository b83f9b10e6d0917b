// Package schema describes database tables at runtime.
//
// Instead of generating per-model code, redwing interprets an explicit
// schema description: each table lists its columns with a scalar kind,
// nullability, primary-key flag, uniqueness-group label and default
// ordering. The description is declared in YAML and loaded with Load;
// a Watcher can hot-reload it when the file changes.
//
// The mapping engine in pkg/record consumes these descriptions to
// assemble and execute statements; nothing in this package touches a
// database.
package schema
