// Package config loads, normalizes, and validates Prospector configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PROSPECTOR_DATA_DIR. The Config type centralizes the database location,
// upstream endpoints, and the single HTTP timeout policy shared by the lead
// and email sources.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
