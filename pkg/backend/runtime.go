package backend

import (
	"context"
	"errors"
	"time"
)

// Runtime errors.
var (
	// ErrRuntimeLost means the runtime connection itself is gone. Not
	// recoverable locally; the owning session must tear down.
	ErrRuntimeLost = errors.New("backend runtime lost")

	// ErrActionUnknown means the runtime has no state for the queried
	// action. Scoped to a single query; the caller carries forward.
	ErrActionUnknown = errors.New("action unknown to backend")

	// ErrEntityUnknown means the entity handle does not resolve.
	ErrEntityUnknown = errors.New("entity unknown to backend")
)

// Runtime is the surface of the modern VR runtime consumed by the core.
//
// ActionState and EntityPose may block on the underlying runtime; callers
// bound them with the context deadline. Implementations must be safe for
// concurrent use.
type Runtime interface {
	// ActionState returns the current state of the named action,
	// restricted to the given device role (RoleAny for unrestricted).
	//
	// A failure scoped to this one action returns ErrActionUnknown or a
	// transient error; a dead runtime returns ErrRuntimeLost.
	ActionState(ctx context.Context, action string, restrict Role) (ActionState, error)

	// SkeletonState returns per-joint transforms for a skeleton action.
	// The joint set is runtime-defined and carried through opaquely.
	SkeletonState(ctx context.Context, action string, restrict Role) ([]PoseSample, error)

	// PoseState returns the located pose of a pose action in the given
	// native reference space, predicted for time at.
	PoseState(ctx context.Context, action string, restrict Role, space ReferenceSpace, at time.Time) (PoseSample, error)

	// EntityPose returns the pose of an entity in the given native
	// reference space, predicted for time at.
	EntityPose(ctx context.Context, entity EntityID, space ReferenceSpace, at time.Time) (PoseSample, error)

	// TriggerHaptic fires a haptic pulse on the named vibration action.
	TriggerHaptic(ctx context.Context, action string, restrict Role, duration time.Duration, frequency, amplitude float64) error

	// Subscribe registers a device event handler. Events are delivered
	// from a runtime-owned goroutine; handlers must not block. Subscribe
	// replaces any previous handler; passing nil unsubscribes.
	Subscribe(fn func(DeviceEvent))
}
