// Package ingest runs the resumable fetch loop that pulls people from the
// lead source into a collection.
//
// The loop is explicit: it carries the current cursor and the number of
// people received this run, asks the credential pool for a key, and on a 429
// rotates to the next key and repeats the identical request. Any other
// failure aborts the run with the collection state exactly as last
// committed. Each successful page is stored together with its cursor in one
// transaction before the next page is requested.
package ingest
