package binding

import "github.com/testerpester2/xrizer/pkg/backend"

// MainAxisType says what the controller's primary 2D input is.
type MainAxisType uint8

const (
	// AxisThumbstick is a thumbstick main axis.
	AxisThumbstick MainAxisType = iota

	// AxisTrackpad is a trackpad main axis.
	AxisTrackpad
)

// HandString is a string property that may differ per hand.
type HandString struct {
	Left, Right string
}

// Both returns a HandString with the same value for both hands.
func Both(s string) HandString {
	return HandString{Left: s, Right: s}
}

// ForRole returns the value for a concrete hand role. RoleAny and
// non-hand roles get the left value.
func (h HandString) ForRole(r backend.Role) string {
	if r == backend.RoleRight {
		return h.Right
	}
	return h.Left
}

// ProfileProperties describes a supported interaction profile: its legacy
// identity strings and its legacy input surface. Values mirror what the
// legacy runtime reports for the physical hardware.
type ProfileProperties struct {
	// Path is the interaction profile path.
	Path string

	// ControllerType is the legacy controller type string, used to match
	// bindings documents.
	ControllerType string

	// Model is the reported model number.
	Model HandString

	// RenderModelName is the legacy render model identifier.
	RenderModelName HandString

	// RegisteredDeviceType is the legacy registered device type.
	RegisteredDeviceType HandString

	// SerialNumber is the reported serial number.
	SerialNumber HandString

	// TrackingSystemName is the legacy tracking system identifier.
	TrackingSystemName string

	// ManufacturerName is the reported manufacturer.
	ManufacturerName string

	// MainAxis is the primary 2D input kind.
	MainAxis MainAxisType

	// SupportedButtons is the legacy supported-buttons bitmask
	// (bit n set = legacy button id n is present on the hardware).
	SupportedButtons uint64
}

// Supported interaction profiles. Identity strings and button masks are
// taken from legacy runtime system reports for the respective hardware.
var profiles = []*ProfileProperties{
	{
		Path:           "/interaction_profiles/valve/index_controller",
		ControllerType: "knuckles",
		Model:          Both("Knuckles"),
		RenderModelName: HandString{
			Left:  "valve_controller_knu_1_0_left",
			Right: "valve_controller_knu_1_0_right",
		},
		RegisteredDeviceType: HandString{
			Left:  "valve/index_controllerLHR-FFFFFFF1",
			Right: "valve/index_controllerLHR-FFFFFFF2",
		},
		SerialNumber:       HandString{Left: "LHR-FFFFFFF1", Right: "LHR-FFFFFFF2"},
		TrackingSystemName: "lighthouse",
		ManufacturerName:   "Valve",
		MainAxis:           AxisThumbstick,
		// system, app menu, grip, A, axis0 (thumbstick), axis1 (trigger),
		// axis2 (trackpad)
		SupportedButtons: 1<<0 | 1<<1 | 1<<2 | 1<<7 | 1<<32 | 1<<33 | 1<<34,
	},
	{
		Path:                 "/interaction_profiles/htc/vive_controller",
		ControllerType:       "vive_controller",
		Model:                Both("Vive. Controller MV"),
		RenderModelName:      Both("vr_controller_vive_1_5"),
		RegisteredDeviceType: HandString{Left: "htc/vive_controllerLHR-00000001", Right: "htc/vive_controllerLHR-00000002"},
		SerialNumber:         HandString{Left: "LHR-00000001", Right: "LHR-00000002"},
		TrackingSystemName:   "lighthouse",
		ManufacturerName:     "HTC",
		MainAxis:             AxisTrackpad,
		// system, app menu, grip, axis0 (trackpad), axis1 (trigger)
		SupportedButtons: 1<<0 | 1<<1 | 1<<2 | 1<<32 | 1<<33,
	},
	{
		Path:           "/interaction_profiles/oculus/touch_controller",
		ControllerType: "oculus_touch",
		Model:          Both("Miramar"),
		RenderModelName: HandString{
			Left:  "oculus_quest2_controller_left",
			Right: "oculus_quest2_controller_right",
		},
		RegisteredDeviceType: HandString{
			Left:  "oculus/WMHD000000000000_Controller_Left",
			Right: "oculus/WMHD000000000000_Controller_Right",
		},
		SerialNumber:       HandString{Left: "WMHD000000000000_L", Right: "WMHD000000000000_R"},
		TrackingSystemName: "oculus",
		ManufacturerName:   "Oculus",
		MainAxis:           AxisThumbstick,
		// system, app menu (B/Y), grip, A/X, axis0 (thumbstick),
		// axis1 (trigger), axis2 (grip analog)
		SupportedButtons: 1<<0 | 1<<1 | 1<<2 | 1<<7 | 1<<32 | 1<<33 | 1<<34,
	},
	{
		Path:                 "/interaction_profiles/khr/simple_controller",
		ControllerType:       "generic",
		Model:                Both("generic"),
		RenderModelName:      Both("generic_controller"),
		RegisteredDeviceType: HandString{Left: "generic/controller_left", Right: "generic/controller_right"},
		SerialNumber:         HandString{Left: "GEN-0000001", Right: "GEN-0000002"},
		TrackingSystemName:   "generic",
		ManufacturerName:     "Unknown",
		MainAxis:             AxisTrackpad,
		// system, app menu, axis1 (trigger)
		SupportedButtons: 1<<0 | 1<<1 | 1<<33,
	},
}

// Profiles returns all supported interaction profiles.
func Profiles() []*ProfileProperties {
	return profiles
}

// PropertiesForProfile returns the properties for an interaction profile
// path, or nil if the profile is not supported.
func PropertiesForProfile(path string) *ProfileProperties {
	for _, p := range profiles {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// PropertiesForControllerType returns the properties for a legacy
// controller type string, or nil.
func PropertiesForControllerType(ct string) *ProfileProperties {
	for _, p := range profiles {
		if p.ControllerType == ct {
			return p
		}
	}
	return nil
}
