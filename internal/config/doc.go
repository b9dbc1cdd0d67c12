// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml and TASKTRACK_* environment variables.
// It provides type-safe access to the settings needed by the server, the
// store, the task service and the list cache.
package config
