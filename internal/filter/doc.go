// Package filter defines the search descriptor stored with each collection
// and its two encodings: the storage form kept in SQLite and the query form
// sent to the lead source.
package filter
