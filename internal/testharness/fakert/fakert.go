// Package fakert provides a scriptable in-memory backend runtime for
// tests. State is set directly by the test; queries return whatever was
// last scripted. Error and latency injection cover the failure paths.
package fakert

import (
	"context"
	"sync"
	"time"

	"github.com/testerpester2/xrizer/pkg/backend"
)

type stateKey struct {
	action string
	role   backend.Role
}

// HapticCall records one TriggerHaptic invocation.
type HapticCall struct {
	Action    string
	Restrict  backend.Role
	Duration  time.Duration
	Frequency float64
	Amplitude float64
}

// FakeRuntime is a scriptable backend.Runtime for tests.
// The zero value is not usable; construct with New.
type FakeRuntime struct {
	mu sync.Mutex

	states    map[stateKey]backend.ActionState
	skeletons map[stateKey][]backend.PoseSample
	poses     map[stateKey]backend.PoseSample
	entities  map[backend.EntityID]map[backend.ReferenceSpace]backend.PoseSample

	actionErrs map[string]error
	latencies  map[string]time.Duration
	lost       bool

	handler func(backend.DeviceEvent)
	haptics []HapticCall
}

// New creates an empty FakeRuntime.
func New() *FakeRuntime {
	return &FakeRuntime{
		states:     make(map[stateKey]backend.ActionState),
		skeletons:  make(map[stateKey][]backend.PoseSample),
		poses:      make(map[stateKey]backend.PoseSample),
		entities:   make(map[backend.EntityID]map[backend.ReferenceSpace]backend.PoseSample),
		actionErrs: make(map[string]error),
		latencies:  make(map[string]time.Duration),
	}
}

// SetActionState scripts the state returned for an action and role.
// States scripted with RoleAny serve as fallback for any restrict role.
func (f *FakeRuntime) SetActionState(action string, role backend.Role, state backend.ActionState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[stateKey{action, role}] = state
}

// SetSkeletonState scripts the joint samples returned for a skeleton action.
func (f *FakeRuntime) SetSkeletonState(action string, role backend.Role, joints []backend.PoseSample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skeletons[stateKey{action, role}] = joints
}

// SetPoseState scripts the pose returned for a pose action.
// The same sample is returned for every reference space.
func (f *FakeRuntime) SetPoseState(action string, role backend.Role, sample backend.PoseSample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poses[stateKey{action, role}] = sample
}

// SetEntityPose scripts the pose of an entity in one reference space.
func (f *FakeRuntime) SetEntityPose(entity backend.EntityID, space backend.ReferenceSpace, sample backend.PoseSample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entities[entity] == nil {
		f.entities[entity] = make(map[backend.ReferenceSpace]backend.PoseSample)
	}
	f.entities[entity][space] = sample
}

// RemoveEntity forgets an entity; subsequent pose queries return
// ErrEntityUnknown.
func (f *FakeRuntime) RemoveEntity(entity backend.EntityID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entities, entity)
}

// FailAction makes every query for the named action return err.
// Pass nil to clear.
func (f *FakeRuntime) FailAction(action string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.actionErrs, action)
		return
	}
	f.actionErrs[action] = err
}

// SetLatency delays every query for the named action by d.
func (f *FakeRuntime) SetLatency(action string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latencies[action] = d
}

// SetLost toggles the fatal runtime-lost condition. While set, every
// call returns backend.ErrRuntimeLost.
func (f *FakeRuntime) SetLost(lost bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lost = lost
}

// Emit delivers a device event to the subscribed handler, if any.
func (f *FakeRuntime) Emit(event backend.DeviceEvent) {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	if handler != nil {
		handler(event)
	}
}

// HapticCalls returns a copy of all recorded haptic invocations.
func (f *FakeRuntime) HapticCalls() []HapticCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]HapticCall, len(f.haptics))
	copy(out, f.haptics)
	return out
}

// gate applies lost, per-action error, per-action latency and context
// cancellation, in that order.
func (f *FakeRuntime) gate(ctx context.Context, action string) error {
	f.mu.Lock()
	lost := f.lost
	err := f.actionErrs[action]
	delay := f.latencies[action]
	f.mu.Unlock()

	if lost {
		return backend.ErrRuntimeLost
	}
	if err != nil {
		return err
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

// ActionState implements backend.Runtime.
func (f *FakeRuntime) ActionState(ctx context.Context, action string, restrict backend.Role) (backend.ActionState, error) {
	if err := f.gate(ctx, action); err != nil {
		return backend.ActionState{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.states[stateKey{action, restrict}]; ok {
		return s, nil
	}
	if s, ok := f.states[stateKey{action, backend.RoleAny}]; ok {
		return s, nil
	}
	return backend.ActionState{}, backend.ErrActionUnknown
}

// SkeletonState implements backend.Runtime.
func (f *FakeRuntime) SkeletonState(ctx context.Context, action string, restrict backend.Role) ([]backend.PoseSample, error) {
	if err := f.gate(ctx, action); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.skeletons[stateKey{action, restrict}]; ok {
		return s, nil
	}
	if s, ok := f.skeletons[stateKey{action, backend.RoleAny}]; ok {
		return s, nil
	}
	return nil, backend.ErrActionUnknown
}

// PoseState implements backend.Runtime.
func (f *FakeRuntime) PoseState(ctx context.Context, action string, restrict backend.Role, space backend.ReferenceSpace, at time.Time) (backend.PoseSample, error) {
	if err := f.gate(ctx, action); err != nil {
		return backend.PoseSample{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.poses[stateKey{action, restrict}]; ok {
		return s, nil
	}
	if s, ok := f.poses[stateKey{action, backend.RoleAny}]; ok {
		return s, nil
	}
	return backend.PoseSample{}, backend.ErrActionUnknown
}

// EntityPose implements backend.Runtime.
func (f *FakeRuntime) EntityPose(ctx context.Context, entity backend.EntityID, space backend.ReferenceSpace, at time.Time) (backend.PoseSample, error) {
	f.mu.Lock()
	lost := f.lost
	spaces, ok := f.entities[entity]
	var sample backend.PoseSample
	var have bool
	if ok {
		sample, have = spaces[space]
	}
	f.mu.Unlock()

	if lost {
		return backend.PoseSample{}, backend.ErrRuntimeLost
	}
	if err := ctx.Err(); err != nil {
		return backend.PoseSample{}, err
	}
	if !ok {
		return backend.PoseSample{}, backend.ErrEntityUnknown
	}
	if !have {
		return backend.PoseSample{Validity: backend.PoseNotTracked, At: at}, nil
	}
	sample.At = at
	return sample, nil
}

// TriggerHaptic implements backend.Runtime.
func (f *FakeRuntime) TriggerHaptic(ctx context.Context, action string, restrict backend.Role, duration time.Duration, frequency, amplitude float64) error {
	if err := f.gate(ctx, action); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.haptics = append(f.haptics, HapticCall{
		Action:    action,
		Restrict:  restrict,
		Duration:  duration,
		Frequency: frequency,
		Amplitude: amplitude,
	})
	return nil
}

// Subscribe implements backend.Runtime.
func (f *FakeRuntime) Subscribe(fn func(backend.DeviceEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = fn
}

// Compile-time interface satisfaction check.
var _ backend.Runtime = (*FakeRuntime)(nil)
