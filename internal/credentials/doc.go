// Package credentials models purpose-scoped API keys and the forward-only
// rotation pool used when an upstream reports a rate limit.
//
// A Pool is built for one purpose (leads or email) from credentials scoped to
// that purpose or to both, preserving construction order. Rotation only moves
// forward and never wraps: once the last key is rate limited the run stops
// with services.ErrAuthExhausted so an operator can add keys.
package credentials
