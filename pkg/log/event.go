package log

import "time"

// Event represents a runtime log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// DeviceIndex is the legacy device index, for device-scoped events.
	DeviceIndex *uint32 `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Sync        *SyncEvent        `cbor:"5,keyasint,omitempty"`  // Sync cycle summary
	Device      *DeviceEvent      `cbor:"6,keyasint,omitempty"`  // Slot lifecycle
	Binding     *BindingEvent     `cbor:"7,keyasint,omitempty"`  // Binding model load
	Space       *SpaceEvent       `cbor:"8,keyasint,omitempty"`  // Tracking space changes
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Session state
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySync indicates a sync cycle summary.
	CategorySync Category = 0
	// CategoryDevice indicates a device slot lifecycle event.
	CategoryDevice Category = 1
	// CategoryBinding indicates a binding model event.
	CategoryBinding Category = 2
	// CategorySpace indicates a tracking-space event.
	CategorySpace Category = 3
	// CategoryState indicates a session state change.
	CategoryState Category = 4
	// CategoryError indicates an error event.
	CategoryError Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySync:
		return "SYNC"
	case CategoryDevice:
		return "DEVICE"
	case CategoryBinding:
		return "BINDING"
	case CategorySpace:
		return "SPACE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SyncEvent summarizes one sync cycle.
type SyncEvent struct {
	// Frame is the snapshot frame counter after the cycle.
	Frame uint64 `cbor:"1,keyasint"`

	// Duration is the wall time the cycle took. Stored as nanoseconds.
	Duration time.Duration `cbor:"2,keyasint"`

	// ActionCount is the number of actions refreshed this cycle.
	ActionCount int `cbor:"3,keyasint"`

	// StaleCount is the number of actions carried forward stale.
	StaleCount int `cbor:"4,keyasint,omitempty"`
}

// DeviceEvent captures device slot lifecycle changes.
type DeviceEvent struct {
	// Entity is the backend entity handle.
	Entity uint64 `cbor:"1,keyasint"`

	// Class is the device class name.
	Class string `cbor:"2,keyasint"`

	// OldState is the previous slot state (may be empty).
	OldState string `cbor:"3,keyasint,omitempty"`

	// NewState is the new slot state.
	NewState string `cbor:"4,keyasint"`

	// Serial is the device serial, if known.
	Serial string `cbor:"5,keyasint,omitempty"`
}

// BindingEvent captures binding model loads.
type BindingEvent struct {
	// Profile is the interaction profile path.
	Profile string `cbor:"1,keyasint"`

	// Source is the winning bindings source (DEFAULT or OVERRIDE).
	Source string `cbor:"2,keyasint"`

	// BindingCount is the number of resolved bindings for the profile.
	BindingCount int `cbor:"3,keyasint"`
}

// SpaceEvent captures tracking-space changes (recenter, origin switch).
type SpaceEvent struct {
	// Origin is the tracking origin name.
	Origin string `cbor:"1,keyasint"`

	// Recentered is true when the seated origin was re-captured.
	Recentered bool `cbor:"2,keyasint,omitempty"`
}

// StateChangeEvent captures session lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Scope describes what operation was being performed.
	Scope string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Action is the affected action path, if the error is action-scoped.
	Action string `cbor:"3,keyasint,omitempty"`
}
