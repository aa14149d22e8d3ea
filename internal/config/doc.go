// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and ERRORFREE_* environment variables.
// It provides type-safe access to the settings of the HTTP server, the
// database, the spelling client and the scheduler.
package config
