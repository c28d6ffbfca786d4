// Package services defines shared utilities consumed by the ingestion and
// verification engines and their upstream clients.
//
// Key responsibilities:
//   - Context helpers that stamp collection IDs, credential purposes, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper, and Label which turns any
//     failure into the stable outcome name shown to operators.
//
// Upstream HTTP clients live in subpackages (leadsource, emailcheck) and report
// failures through these markers so callers can decide between rotating a
// credential, aborting, or reporting a non-error outcome.
package services
