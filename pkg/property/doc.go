// Package property implements the per-device property store of the
// legacy API surface.
//
// Each connected device index carries a set of typed property records.
// The supported key set is fixed per device class; defaults are seeded
// from the interaction profile table when the device attaches, so
// class-generic client code never has to special-case missing
// properties. Backend-reported values override the seeded defaults.
//
// The four failure modes are distinct: a free index reads
// ErrNotConnected, a key outside the class's supported set reads
// ErrNotSupported, a supported key without a value reads ErrNotSet,
// and a typed getter that disagrees with the key's registered type
// reads ErrTypeMismatch.
package property
