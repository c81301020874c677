// Package runtime wires the input/tracking core into a session.
//
// A Session owns the component graph: the action sync engine, the
// device registry and space resolver, the property store, and the
// legacy input adapter, all over one backend runtime handle. Backend
// device events are queued as they arrive and applied only at the sync
// cycle boundary, so device slot creation and retirement are
// serialized against snapshot publication.
//
// One Sync call per render tick drives the whole core: pending
// attaches are applied, the engine syncs, slots that retired last
// cycle are freed, and pending detaches begin their one-cycle
// retirement grace period.
package runtime
