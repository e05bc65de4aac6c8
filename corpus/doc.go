// Package corpus implements the append-only store of uploaded strings.
//
// Each uploaded string becomes an Entry holding the verbatim text, its token
// sequence and a sequential ID. Entries are never updated or removed.
//
// # Concurrency
//
// Appends are serialized by a writer lock. Tokenization runs before the lock
// is taken, so the critical section only assigns IDs and publishes a new
// Snapshot. Readers load the current Snapshot without locking; a Snapshot is
// immutable and never observes an entry appended after it was published.
package corpus
