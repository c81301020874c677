// Package action implements the action sync engine.
//
// The engine owns the declarative input state of a session: which action
// sets are active, and the most recent state of every action in them.
// State advances only through explicit Sync calls, once per render or
// simulation tick. Each Sync queries the backend runtime for every
// action of the active sets and publishes a new immutable Snapshot;
// readers always observe a complete snapshot, never a half-updated one.
//
// # State machine
//
// An Engine starts Idle. DeclareActiveSets moves it to SetsDeclared;
// the first Sync moves it to Synced. Re-declaring from Synced returns
// to SetsDeclared; syncing again without a new declaration reuses the
// previous active-set list and just advances the snapshot.
//
// # Partial failure
//
// A backend failure scoped to a single action does not abort the cycle:
// the action's previous value is carried forward and flagged Stale.
// Only backend.ErrRuntimeLost aborts a Sync, leaving the previous
// snapshot in place.
//
// # Implicit sets
//
// The legacy input adapter synthesizes actions outside the manifest.
// It registers them here through RegisterImplicitSet and
// RegisterImplicitAction; implicit sets are synced whenever marked
// active, independent of the declared list.
package action
