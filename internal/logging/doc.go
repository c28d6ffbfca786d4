// Package logging assembles structured slog loggers used across Prospector.
//
// It owns the console and JSON handlers, centralizes level parsing and the
// log file location, and exposes context-aware helpers so engine code tags
// log lines with collection IDs, credential purposes, and run identifiers.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
