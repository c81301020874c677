// Package device maps backend entities to stable legacy device indices
// and resolves their poses into caller-facing tracking origins.
//
// # Slot table
//
// Device identity is an index into a fixed slot table, never a raw
// entity handle, so stale indices fail safely instead of dangling.
// Index 0 is reserved for the head-mounted entity; other entities take
// the lowest free index in connection order. A detached slot passes
// through a retiring state for one sync cycle before its index is
// reusable, so queries racing a disconnect observe NotConnected at
// least once instead of reading another device's data.
//
// # Spaces
//
// Callers ask for poses in a tracking origin (seated, standing, raw);
// the resolver queries the backend's native space for that origin and,
// for the seated origin, composes the recentering offset captured by
// the last Recenter call. The raw origin is served from the standing
// frame.
package device
