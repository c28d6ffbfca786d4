// Package notifications reports finished fetch and verification runs via
// ntfy.
//
// A run that completes, or finds nothing left to do, produces a normal
// priority message; any other outcome is sent with high priority and the
// error text so an unattended batch job can be picked up again. Without a
// configured topic the service is a no-op.
package notifications
