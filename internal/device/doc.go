// Package device models the raw device records pushed by the backend
// registry store and derives everything the control layer needs from them.
//
// # Key Types
//
//   - RawDevice: the read-only record as pushed per building
//   - Categorized: record + semantic category, display metadata, default actions
//   - ControlTarget: resolved remote-control entity ID and command domain
//   - Snapshot: the live per-building record collection with SQLite write-through
//
// # Pipeline
//
//	registry push ──▶ Snapshot ──▶ Categorize ──▶ Resolve ──▶ control sessions
//
// Categorize and Resolve are pure, total functions over a record: they
// never fail, never touch the network, and return identical results for
// identical input. Derived values are recomputed on every call rather than
// stored, so a record overwrite is all it takes to refresh the view.
//
// Access filtering (FilterVisible) runs before categorization in the
// UI-facing paths; the snapshot itself holds every pushed record.
package device
