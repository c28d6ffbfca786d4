// Package store owns the SQLite database behind Prospector.
//
// It keeps four tables: credentials, filters, collections, and records. The
// collection row carries the resumption contract (next cursor, fetched
// count, verified count); every write that advances it shares a transaction
// with the records it accounts for, so an interrupted run resumes from the
// last committed page or verified record. Writes retry while SQLite reports
// the database as busy.
package store
