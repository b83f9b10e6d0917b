// Redwing is a schema-interpreted data mapping toolkit for SQLite.
//
// The CLI manages the databases behind the redwing packages:
//
//	# Apply pending migrations
//	redwing migrate --config /path/to/config.yaml
//
//	# Check a schema file without touching the database
//	redwing schema lint
//
//	# Remove stale sessions once
//	redwing sessions prune
//
//	# Keep pruning on the configured cron schedule
//	redwing sessions prune --schedule
//
//	# Show version information
//	redwing version
package main

func main() {
	Execute()
}
