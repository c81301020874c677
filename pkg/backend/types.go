package backend

import (
	"time"

	"github.com/testerpester2/xrizer/pkg/pose"
)

// ActionType identifies the value shape of an action.
type ActionType uint8

const (
	// ActionBoolean is a digital on/off input.
	ActionBoolean ActionType = iota

	// ActionVector1 is a one-dimensional analog input in [0, 1] or [-1, 1].
	ActionVector1

	// ActionVector2 is a two-dimensional analog input (thumbstick, trackpad).
	ActionVector2

	// ActionPose is a tracked spatial input.
	ActionPose

	// ActionSkeleton is a per-joint hand tracking input.
	ActionSkeleton

	// ActionVibration is a haptic output.
	ActionVibration
)

// String returns the action type name as it appears in manifests.
func (t ActionType) String() string {
	switch t {
	case ActionBoolean:
		return "boolean"
	case ActionVector1:
		return "vector1"
	case ActionVector2:
		return "vector2"
	case ActionPose:
		return "pose"
	case ActionSkeleton:
		return "skeleton"
	case ActionVibration:
		return "vibration"
	default:
		return "unknown"
	}
}

// ParseActionType parses a manifest type string.
// Returns false if the string is not a known action type.
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "boolean":
		return ActionBoolean, true
	case "vector1", "single":
		return ActionVector1, true
	case "vector2":
		return ActionVector2, true
	case "pose":
		return ActionPose, true
	case "skeleton":
		return ActionSkeleton, true
	case "vibration":
		return ActionVibration, true
	default:
		return 0, false
	}
}

// Role restricts an action or binding to a device role.
type Role uint8

const (
	// RoleAny matches any device.
	RoleAny Role = iota

	// RoleLeft matches the left-hand controller.
	RoleLeft

	// RoleRight matches the right-hand controller.
	RoleRight

	// RoleHead matches the head-mounted entity.
	RoleHead
)

// String returns the role's user path prefix.
func (r Role) String() string {
	switch r {
	case RoleLeft:
		return "/user/hand/left"
	case RoleRight:
		return "/user/hand/right"
	case RoleHead:
		return "/user/head"
	default:
		return "/user/any"
	}
}

// Specificity orders roles for binding conflict resolution: a concrete
// hand is more specific than RoleAny.
func (r Role) Specificity() int {
	if r == RoleAny {
		return 0
	}
	return 1
}

// DeviceClass categorizes a tracked entity.
type DeviceClass uint8

const (
	// ClassInvalid marks an unoccupied device slot.
	ClassInvalid DeviceClass = iota

	// ClassHMD is the head-mounted display.
	ClassHMD

	// ClassController is a hand controller.
	ClassController

	// ClassGenericTracker is a body/object tracker.
	ClassGenericTracker

	// ClassTrackingReference is a base station or equivalent.
	ClassTrackingReference
)

// String returns the device class name.
func (c DeviceClass) String() string {
	switch c {
	case ClassHMD:
		return "HMD"
	case ClassController:
		return "CONTROLLER"
	case ClassGenericTracker:
		return "TRACKER"
	case ClassTrackingReference:
		return "REFERENCE"
	default:
		return "INVALID"
	}
}

// TrackingOrigin is the reference frame a caller wants poses expressed in.
type TrackingOrigin uint8

const (
	// OriginSeated is the recenterable seated frame.
	OriginSeated TrackingOrigin = iota

	// OriginStanding is the floor-level play-space frame.
	OriginStanding

	// OriginRaw is the uncalibrated frame. The reference implementation
	// never calibrates it separately; it resolves to the standing frame.
	OriginRaw
)

// String returns the tracking origin name.
func (o TrackingOrigin) String() string {
	switch o {
	case OriginSeated:
		return "SEATED"
	case OriginStanding:
		return "STANDING"
	case OriginRaw:
		return "RAW"
	default:
		return "UNKNOWN"
	}
}

// ReferenceSpace is a native reference space of the backend runtime.
type ReferenceSpace uint8

const (
	// SpaceLocal is the runtime's head-local space (seated analog).
	SpaceLocal ReferenceSpace = iota

	// SpaceStage is the runtime's floor-anchored space (standing analog).
	SpaceStage
)

// String returns the reference space name.
func (s ReferenceSpace) String() string {
	switch s {
	case SpaceLocal:
		return "LOCAL"
	case SpaceStage:
		return "STAGE"
	default:
		return "UNKNOWN"
	}
}

// NativeSpace maps a caller-facing tracking origin to the backend
// reference space it is served from. Seated maps to the local space;
// standing and raw both map to the stage space.
func NativeSpace(o TrackingOrigin) ReferenceSpace {
	if o == OriginSeated {
		return SpaceLocal
	}
	return SpaceStage
}

// EntityID is an opaque handle for a backend-tracked entity.
type EntityID uint64

// PoseValidity qualifies a pose sample.
type PoseValidity uint8

const (
	// PoseValid means the sample is fresh and fully tracked.
	PoseValid PoseValidity = iota

	// PoseOldData means tracking was lost and the sample is the last
	// known pose.
	PoseOldData

	// PoseNotTracked means the entity has no usable pose at all.
	PoseNotTracked
)

// String returns the validity name.
func (v PoseValidity) String() string {
	switch v {
	case PoseValid:
		return "VALID"
	case PoseOldData:
		return "OLD_DATA"
	case PoseNotTracked:
		return "NOT_TRACKED"
	default:
		return "UNKNOWN"
	}
}

// PoseSample is a pose query result.
type PoseSample struct {
	// Transform is the entity pose in the queried space.
	Transform pose.Transform

	// Velocity is the linear velocity in meters per second.
	Velocity pose.Vec3

	// AngularVelocity is the angular velocity in radians per second.
	AngularVelocity pose.Vec3

	// Validity qualifies the sample.
	Validity PoseValidity

	// At is the time the sample is predicted for.
	At time.Time
}

// ActionState is an action state query result.
type ActionState struct {
	// Active reports whether any bound, connected input backs the action.
	Active bool

	// Bool is the value of a boolean action.
	Bool bool

	// X and Y carry vector1 (X only) and vector2 values.
	X, Y float64

	// UpdatedAt is the backend's timestamp for the last value change.
	UpdatedAt time.Time
}

// DeviceEventKind distinguishes attach from detach.
type DeviceEventKind uint8

const (
	// DeviceAttached signals a newly connected entity.
	DeviceAttached DeviceEventKind = iota

	// DeviceDetached signals a disconnected entity.
	DeviceDetached
)

// String returns the event kind name.
func (k DeviceEventKind) String() string {
	switch k {
	case DeviceAttached:
		return "ATTACHED"
	case DeviceDetached:
		return "DETACHED"
	default:
		return "UNKNOWN"
	}
}

// DeviceEvent reports an entity connecting to or disconnecting from the
// backend runtime.
type DeviceEvent struct {
	// Kind is attach or detach.
	Kind DeviceEventKind

	// Entity is the backend handle.
	Entity EntityID

	// Class is the device class. Never changes for a given entity.
	Class DeviceClass

	// Role is the hand role for controllers, RoleAny otherwise.
	Role Role

	// Profile is the interaction profile path of the device
	// (e.g. "/interaction_profiles/valve/index_controller").
	Profile string

	// Serial is the backend-reported serial number, if any.
	Serial string
}
