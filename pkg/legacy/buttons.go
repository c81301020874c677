package legacy

import "github.com/testerpester2/xrizer/pkg/backend"

// ButtonID is a legacy button identifier. Values match the legacy
// API's button enumeration; axis buttons start at 32.
type ButtonID uint32

// Legacy button identifiers.
const (
	ButtonSystem          ButtonID = 0
	ButtonApplicationMenu ButtonID = 1
	ButtonGrip            ButtonID = 2
	ButtonDPadLeft        ButtonID = 3
	ButtonDPadUp          ButtonID = 4
	ButtonDPadRight       ButtonID = 5
	ButtonDPadDown        ButtonID = 6
	ButtonA               ButtonID = 7
	ButtonProximitySensor ButtonID = 31
	ButtonAxis0           ButtonID = 32
	ButtonAxis1           ButtonID = 33
	ButtonAxis2           ButtonID = 34
	ButtonAxis3           ButtonID = 35
	ButtonAxis4           ButtonID = 36

	// Aliases used by clients of the legacy API.
	ButtonTouchpad = ButtonAxis0
	ButtonTrigger  = ButtonAxis1
)

// MaxAxes is the number of legacy axis slots.
const MaxAxes = 5

// Mask returns the button's bit in the supported-buttons bitmask.
func (b ButtonID) Mask() uint64 {
	return 1 << uint64(b)
}

// String returns the short button name used in synthesized action
// paths.
func (b ButtonID) String() string {
	switch b {
	case ButtonSystem:
		return "system"
	case ButtonApplicationMenu:
		return "app_menu"
	case ButtonGrip:
		return "grip"
	case ButtonDPadLeft:
		return "dpad_left"
	case ButtonDPadUp:
		return "dpad_up"
	case ButtonDPadRight:
		return "dpad_right"
	case ButtonDPadDown:
		return "dpad_down"
	case ButtonA:
		return "a"
	case ButtonProximitySensor:
		return "proximity"
	case ButtonAxis0:
		return "axis0"
	case ButtonAxis1:
		return "axis1"
	case ButtonAxis2:
		return "axis2"
	case ButtonAxis3:
		return "axis3"
	case ButtonAxis4:
		return "axis4"
	default:
		return "unknown"
	}
}

// AxisIndex returns the axis slot of an axis button, or -1 for
// non-axis buttons.
func (b ButtonID) AxisIndex() int {
	if b >= ButtonAxis0 && b < ButtonAxis0+MaxAxes {
		return int(b - ButtonAxis0)
	}
	return -1
}

// EdgeType selects which aspect of a legacy input a slot reads.
type EdgeType uint8

const (
	// EdgePress reads the digital pressed state.
	EdgePress EdgeType = iota

	// EdgeTouch reads the capacitive touched state.
	EdgeTouch

	// EdgeValue reads the analog value.
	EdgeValue
)

// String returns the edge suffix used in synthesized action paths.
func (e EdgeType) String() string {
	switch e {
	case EdgePress:
		return "click"
	case EdgeTouch:
		return "touch"
	case EdgeValue:
		return "value"
	default:
		return "unknown"
	}
}

// actionType returns the value shape of the synthesized action for a
// (button, edge) pair. Press and touch edges are boolean; value edges
// are 2D for the trackpad/thumbstick axes and 1D otherwise.
func actionType(b ButtonID, e EdgeType) backend.ActionType {
	if e != EdgeValue {
		return backend.ActionBoolean
	}
	switch b {
	case ButtonAxis0, ButtonAxis2:
		return backend.ActionVector2
	default:
		return backend.ActionVector1
	}
}
