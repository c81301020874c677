package device

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/log"
)

// Registry errors.
var (
	// ErrNotConnected means the device index has no active device.
	ErrNotConnected = errors.New("device not connected")

	// ErrSlotExhausted means all device indices are in use.
	ErrSlotExhausted = errors.New("device slot table exhausted")

	// ErrAlreadyAttached means the entity already occupies a slot.
	ErrAlreadyAttached = errors.New("entity already attached")
)

// MaxDevices is the size of the slot table, matching the legacy API's
// tracked-device limit.
const MaxDevices = 64

// HeadIndex is the device index reserved for the head-mounted entity.
const HeadIndex uint32 = 0

// slotState is the lifecycle state of one slot.
type slotState uint8

const (
	slotFree slotState = iota
	slotActive
	slotRetiring
)

func (s slotState) String() string {
	switch s {
	case slotActive:
		return "active"
	case slotRetiring:
		return "retiring"
	default:
		return "free"
	}
}

// Slot describes one occupied device index.
type Slot struct {
	// Index is the legacy device index.
	Index uint32

	// AttachID uniquely identifies this attachment (UUID). A re-plug of
	// the same physical device gets a fresh AttachID.
	AttachID string

	// Entity is the backend handle.
	Entity backend.EntityID

	// Class is the device class.
	Class backend.DeviceClass

	// Role is the hand role for controllers.
	Role backend.Role

	// Profile is the interaction profile path.
	Profile string

	// Serial is the backend-reported serial.
	Serial string
}

type slotEntry struct {
	state slotState
	slot  Slot
}

// Registry is the device slot table. Attach, Detach and EndCycle are
// driven from the session's cycle boundary; lookups are safe from any
// goroutine.
type Registry struct {
	mu       sync.RWMutex
	slots    [MaxDevices]slotEntry
	byEntity map[backend.EntityID]uint32

	logger    log.Logger
	sessionID string
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger log.Logger, sessionID string) *Registry {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Registry{
		byEntity:  make(map[backend.EntityID]uint32),
		logger:    logger,
		sessionID: sessionID,
	}
}

// Attach assigns a device index to a newly connected entity. An
// HMD-class entity takes index 0 unless another HMD actively holds it;
// everything else takes the lowest free index above it.
func (r *Registry) Attach(ev backend.DeviceEvent) (Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEntity[ev.Entity]; ok {
		return Slot{}, ErrAlreadyAttached
	}

	index, ok := r.pickIndex(ev.Class)
	if !ok {
		return Slot{}, ErrSlotExhausted
	}

	slot := Slot{
		Index:    index,
		AttachID: uuid.NewString(),
		Entity:   ev.Entity,
		Class:    ev.Class,
		Role:     ev.Role,
		Profile:  ev.Profile,
		Serial:   ev.Serial,
	}
	old := r.slots[index].state
	r.slots[index] = slotEntry{state: slotActive, slot: slot}
	r.byEntity[ev.Entity] = index

	r.logDevice(index, ev.Entity, ev.Class, old.String(), "active", ev.Serial)
	return slot, nil
}

// pickIndex finds the index for a new attachment. Caller holds the lock.
//
// The head index is reserved for HMD-class entities: an HMD may reclaim
// it while the previous head attachment is still retiring, so a re-plug
// across a cycle boundary keeps index 0. Nothing else can take a
// retiring slot before EndCycle.
func (r *Registry) pickIndex(class backend.DeviceClass) (uint32, bool) {
	if class == backend.ClassHMD && r.slots[HeadIndex].state != slotActive {
		return HeadIndex, true
	}
	for i := HeadIndex + 1; i < MaxDevices; i++ {
		if r.slots[i].state == slotFree {
			return i, true
		}
	}
	return 0, false
}

// Detach marks the entity's slot retiring. The index stays reserved
// until the next EndCycle so in-flight queries observe NotConnected
// before the index can be reused.
func (r *Registry) Detach(entity backend.EntityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.byEntity[entity]
	if !ok {
		return ErrNotConnected
	}
	entry := &r.slots[index]
	entry.state = slotRetiring
	delete(r.byEntity, entity)

	r.logDevice(index, entity, entry.slot.Class, "active", "retiring", entry.slot.Serial)
	return nil
}

// EndCycle frees all retiring slots and returns them, so the session
// can release per-device state keyed by index. Called once per sync
// cycle from the session's cycle boundary.
func (r *Registry) EndCycle() []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var freed []Slot
	for i := range r.slots {
		if r.slots[i].state != slotRetiring {
			continue
		}
		slot := r.slots[i].slot
		r.slots[i] = slotEntry{}
		freed = append(freed, slot)
		r.logDevice(uint32(i), slot.Entity, slot.Class, "retiring", "free", slot.Serial)
	}
	return freed
}

// Get returns the active slot at the given index, or ErrNotConnected.
func (r *Registry) Get(index uint32) (Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= MaxDevices || r.slots[index].state != slotActive {
		return Slot{}, ErrNotConnected
	}
	return r.slots[index].slot, nil
}

// ByEntity returns the active slot for a backend entity.
func (r *Registry) ByEntity(entity backend.EntityID) (Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, ok := r.byEntity[entity]
	if !ok {
		return Slot{}, ErrNotConnected
	}
	return r.slots[index].slot, nil
}

// Connected returns all active slots in index order.
func (r *Registry) Connected() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Slot
	for i := range r.slots {
		if r.slots[i].state == slotActive {
			out = append(out, r.slots[i].slot)
		}
	}
	return out
}

func (r *Registry) logDevice(index uint32, entity backend.EntityID, class backend.DeviceClass, oldState, newState, serial string) {
	idx := index
	r.logger.Log(log.Event{
		Timestamp:   time.Now(),
		SessionID:   r.sessionID,
		Category:    log.CategoryDevice,
		DeviceIndex: &idx,
		Device: &log.DeviceEvent{
			Entity:   uint64(entity),
			Class:    class.String(),
			OldState: oldState,
			NewState: newState,
			Serial:   serial,
		},
	})
}
