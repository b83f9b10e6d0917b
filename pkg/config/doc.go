// Package config loads and validates redwing's YAML configuration.
//
// Configuration is read from a YAML file, filled in with defaults,
// overridden by REDWING_SECTION_FIELD environment variables, and
// validated before use. A process-wide singleton is available through
// Initialize and GetConfig for the CLI; library consumers should pass
// explicit Config values instead.
package config
