// Package binding holds the immutable binding model: action sets, actions,
// and per-interaction-profile input bindings.
//
// The model is built once at session start from an action manifest and a
// set of per-profile bindings documents, and is read-only afterwards.
// Loading validates documents against embedded JSON schemas, resolves
// binding conflicts, and fails with a [ConfigError] naming the offending
// profile, action, or input component.
//
// # Source precedence
//
// Bindings documents come from two sources: the bundled defaults and an
// optional operator override directory. If the override source defines
// bindings for an interaction profile, the default document for that
// profile is ignored wholesale; there is no per-action merge. Partial
// merges can pair inputs from incompatible documents, so the override
// wins or loses a profile in full.
//
// # Conflict resolution
//
// Within one profile, an input component maps to at most one action per
// hand. When two bindings claim the same component, the one with the more
// specific device-role qualifier wins (a concrete hand beats "any hand").
// An unresolvable tie is a configuration error, surfaced to the operator
// instead of being decided arbitrarily.
package binding
