// Package legacy presents the flat, index-addressed polling surface of
// the old API on top of the action sync engine.
//
// Every legacy input slot (device index, button id, edge type) is
// backed by a synthesized implicit action, created lazily the first
// time the slot is polled and cached for the life of the process. Both
// API generations therefore share one source of truth: the engine's
// current snapshot.
//
// Reads never block and never trigger a sync; they return whatever the
// current snapshot holds for the resolved action.
package legacy
