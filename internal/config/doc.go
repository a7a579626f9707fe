// Package config loads, normalizes, and validates the repocast TOML
// configuration file.
package config
