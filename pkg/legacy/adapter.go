package legacy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/testerpester2/xrizer/pkg/action"
	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/device"
	"github.com/testerpester2/xrizer/pkg/property"
)

// Adapter errors. ErrNotConnected is shared with the device registry.
var (
	// ErrNotConnected mirrors device.ErrNotConnected for legacy callers.
	ErrNotConnected = device.ErrNotConnected

	// ErrUnsupportedInput means the button is not present on the
	// device's hardware. Callers should stop polling it.
	ErrUnsupportedInput = errors.New("input not supported for device")
)

// implicitSetName returns the per-device implicit action set path.
func implicitSetName(index uint32) string {
	return fmt.Sprintf("/xrizer/legacy/device%d", index)
}

// slotKey addresses one legacy input slot within a device.
type slotKey struct {
	button ButtonID
	edge   EdgeType
}

// deviceSlots caches the synthesized actions of one device index.
type deviceSlots struct {
	set     string
	actions map[slotKey]string
}

// ControllerState is the packed controller state of the legacy polling
// API.
type ControllerState struct {
	// PacketNum increases whenever the underlying snapshot advances.
	PacketNum uint64

	// ButtonPressed and ButtonTouched are bitmasks indexed by
	// ButtonID.Mask.
	ButtonPressed uint64
	ButtonTouched uint64

	// Axes are the analog values of the legacy axis slots.
	Axes [MaxAxes][2]float64
}

// Adapter is the legacy input front end. Safe for concurrent use; all
// reads resolve against the engine's current snapshot.
type Adapter struct {
	engine   *action.Engine
	registry *device.Registry
	props    *property.Store

	mu      sync.Mutex
	devices map[uint32]*deviceSlots
}

// NewAdapter creates an adapter over the engine, registry and property
// store.
func NewAdapter(engine *action.Engine, registry *device.Registry, props *property.Store) *Adapter {
	return &Adapter{
		engine:   engine,
		registry: registry,
		props:    props,
		devices:  make(map[uint32]*deviceSlots),
	}
}

// DeviceAttached activates the device's implicit set so its actions
// sync every cycle. Called from the session's cycle boundary.
func (a *Adapter) DeviceAttached(index uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureSetLocked(index); err != nil {
		return err
	}
	return a.engine.SetImplicitSetActive(implicitSetName(index), true)
}

// DeviceDetached deactivates the device's implicit set. The cached
// actions stay resolved for the life of the process; a re-plug of the
// same index reuses them.
func (a *Adapter) DeviceDetached(index uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.devices[index]; !ok {
		return nil
	}
	return a.engine.SetImplicitSetActive(implicitSetName(index), false)
}

// ensureSetLocked creates the per-device implicit set on first use.
// Caller holds a.mu.
func (a *Adapter) ensureSetLocked(index uint32) error {
	if _, ok := a.devices[index]; ok {
		return nil
	}
	set := implicitSetName(index)
	if err := a.engine.RegisterImplicitSet(set); err != nil {
		return err
	}
	a.devices[index] = &deviceSlots{
		set:     set,
		actions: make(map[slotKey]string),
	}
	return nil
}

// ResolveOrCreate returns the synthesized action path for a legacy
// input slot, creating the implicit set and action on first use.
// Idempotent: identical arguments always return the same identity.
func (a *Adapter) ResolveOrCreate(index uint32, button ButtonID, edge EdgeType) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolveLocked(index, button, edge)
}

func (a *Adapter) resolveLocked(index uint32, button ButtonID, edge EdgeType) (string, error) {
	if err := a.ensureSetLocked(index); err != nil {
		return "", err
	}
	dev := a.devices[index]

	key := slotKey{button: button, edge: edge}
	if name, ok := dev.actions[key]; ok {
		return name, nil
	}

	name := fmt.Sprintf("%s/%s_%s", dev.set, button, edge)
	if err := a.engine.RegisterImplicitAction(dev.set, name, actionType(button, edge), backend.RoleAny); err != nil {
		return "", err
	}
	dev.actions[key] = name

	// A set created by a poll against an already connected device must
	// still sync.
	if _, err := a.registry.Get(index); err == nil {
		if err := a.engine.SetImplicitSetActive(dev.set, true); err != nil {
			return "", err
		}
	}
	return name, nil
}

// HapticAction returns the device's synthesized vibration action,
// registering it on first use.
func (a *Adapter) HapticAction(index uint32) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureSetLocked(index); err != nil {
		return "", err
	}
	name := implicitSetName(index) + "/haptic"
	if err := a.engine.RegisterImplicitAction(implicitSetName(index), name, backend.ActionVibration, backend.RoleAny); err != nil {
		return "", err
	}
	return name, nil
}

// supported reports whether the button exists on the device's
// hardware, per the seeded supported-buttons mask.
func (a *Adapter) supported(index uint32, button ButtonID) error {
	mask, err := a.props.GetUint64(index, property.KeySupportedButtons)
	switch {
	case err == nil:
		if mask&button.Mask() == 0 {
			return ErrUnsupportedInput
		}
		return nil
	case errors.Is(err, property.ErrNotSupported), errors.Is(err, property.ErrNotSet):
		// No button surface for this class at all.
		return ErrUnsupportedInput
	case errors.Is(err, property.ErrNotConnected):
		return ErrNotConnected
	default:
		return err
	}
}

// Read returns the current snapshot state of a legacy input slot,
// resolving the slot on first use. A free device index reads
// ErrNotConnected; a button outside the device's hardware reads
// ErrUnsupportedInput.
func (a *Adapter) Read(index uint32, button ButtonID, edge EdgeType) (action.State, error) {
	if _, err := a.registry.Get(index); err != nil {
		return action.State{}, err
	}
	if err := a.supported(index, button); err != nil {
		return action.State{}, err
	}

	a.mu.Lock()
	name, err := a.resolveLocked(index, button, edge)
	a.mu.Unlock()
	if err != nil {
		return action.State{}, err
	}

	switch actionType(button, edge) {
	case backend.ActionVector2:
		return a.engine.GetScalar2(name, backend.RoleAny)
	case backend.ActionVector1:
		return a.engine.GetScalar1(name, backend.RoleAny)
	default:
		return a.engine.GetBoolean(name, backend.RoleAny)
	}
}

// packedButtons are the slots ControllerState assembles, in legacy
// button-id order.
var packedButtons = []ButtonID{
	ButtonSystem, ButtonApplicationMenu, ButtonGrip,
	ButtonDPadLeft, ButtonDPadUp, ButtonDPadRight, ButtonDPadDown,
	ButtonA, ButtonProximitySensor,
	ButtonAxis0, ButtonAxis1, ButtonAxis2, ButtonAxis3, ButtonAxis4,
}

// ControllerState assembles the packed legacy controller state for a
// device. Every bit and axis is read against one snapshot, so the
// packed state never mixes frames even when a sync lands mid-assembly;
// the packet number is that snapshot's frame.
func (a *Adapter) ControllerState(index uint32) (ControllerState, error) {
	if _, err := a.registry.Get(index); err != nil {
		return ControllerState{}, err
	}
	mask, err := a.props.GetUint64(index, property.KeySupportedButtons)
	if err != nil {
		if errors.Is(err, property.ErrNotConnected) {
			return ControllerState{}, ErrNotConnected
		}
		return ControllerState{}, ErrUnsupportedInput
	}

	snap := a.engine.Snapshot()
	var out ControllerState
	if snap != nil {
		out.PacketNum = snap.Frame
	}

	for _, button := range packedButtons {
		if mask&button.Mask() == 0 {
			continue
		}

		// Resolving registers the slots for subsequent syncs even when
		// no snapshot exists yet.
		press, pressErr := a.ResolveOrCreate(index, button, EdgePress)
		touch, touchErr := a.ResolveOrCreate(index, button, EdgeTouch)
		axis := button.AxisIndex()
		var value string
		var valueErr error
		if axis >= 0 {
			value, valueErr = a.ResolveOrCreate(index, button, EdgeValue)
		}
		if snap == nil {
			continue
		}

		if pressErr == nil {
			if st, ok := snap.Lookup(press, backend.RoleAny); ok && st.Bool {
				out.ButtonPressed |= button.Mask()
			}
		}
		if touchErr == nil {
			if st, ok := snap.Lookup(touch, backend.RoleAny); ok && st.Bool {
				out.ButtonTouched |= button.Mask()
			}
		}
		if axis >= 0 && valueErr == nil {
			if st, ok := snap.Lookup(value, backend.RoleAny); ok {
				out.Axes[axis][0] = st.X
				out.Axes[axis][1] = st.Y
			}
		}
	}
	return out, nil
}
