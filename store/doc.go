// Package store defines the backing store adapter contract the metadata
// engine is layered over, plus an in-memory reference implementation.
//
// The engine owns no storage of its own: every operation delegates to an
// Adapter, and the adapter (or the database behind it) is the sole source of
// truth and the only shared mutable resource. Real adapters live in the
// store/sqlite and store/postgres subpackages; Memory exists for tests and
// for hosts that want a throwaway store.
package store
