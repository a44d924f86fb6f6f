// Package config loads, defaults, validates, and watches the Parley
// configuration.
//
// Configuration is read from a YAML file, filled with defaults, and
// optionally overridden by PARLEY_* environment variables. The Watcher
// reloads the file on change so session defaults (persona, eviction) can
// be adjusted without a restart.
package config
