// Package meta implements the typed attribute-store engine.
//
// Two layers compose it. Accessor performs single-entity, single-key
// operations: typed reads, conditional writes, numeric deltas, array and
// dot-path mutation, introspection. Coordinator orchestrates multi-key and
// multi-entity work (batches, backup/restore, prefix operations, cohort
// analytics) entirely on top of Accessor calls plus the adapter's bulk
// queries - it owns no storage of its own.
//
// The engine is stateless between calls and holds no locks; consistency is
// whatever the backing store provides. Read-then-write operations such as
// UpdateIfChanged and Toggle can lose a race against a concurrent writer
// (last write wins).
//
// Expected conditions never surface as errors: absence reads as nil or the
// caller's default, and a rejected write reports false. Backing store
// failures are logged via log/slog and folded into those same failure
// values; bulk operations keep going past per-item failures.
package meta
