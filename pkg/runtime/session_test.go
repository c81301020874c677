package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testerpester2/xrizer/internal/testharness/fakert"
	"github.com/testerpester2/xrizer/pkg/action"
	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/binding"
	"github.com/testerpester2/xrizer/pkg/config"
	"github.com/testerpester2/xrizer/pkg/device"
	"github.com/testerpester2/xrizer/pkg/legacy"
	"github.com/testerpester2/xrizer/pkg/pose"
	"github.com/testerpester2/xrizer/pkg/property"
)

const knucklesProfile = "/interaction_profiles/valve/index_controller"

func sessionModel(t *testing.T) *binding.Model {
	t.Helper()
	man := &binding.Manifest{
		Sets: []binding.SetDecl{{Name: "/actions/main", Usage: "leftright"}},
		Actions: []binding.ActionDecl{
			{Name: "/actions/main/in/fire", Type: "boolean"},
		},
	}
	model, err := binding.NewModel(man, nil)
	require.NoError(t, err)
	return model
}

func newTestSession(t *testing.T) (*Session, *fakert.FakeRuntime) {
	t.Helper()
	rt := fakert.New()
	s := NewSession(config.Default(), rt, sessionModel(t), nil)
	t.Cleanup(func() { s.Close() })
	return s, rt
}

func TestSessionLifecycle(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	assert.Equal(t, SessionRunning, s.State())
	assert.NotEmpty(t, s.ID())

	// Devices connect; the events queue until the cycle boundary.
	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceAttached, Entity: 1, Class: backend.ClassHMD})
	rt.Emit(backend.DeviceEvent{
		Kind: backend.DeviceAttached, Entity: 2, Class: backend.ClassController,
		Role: backend.RoleLeft, Profile: knucklesProfile, Serial: "LHR-TEST0001",
	})
	_, err := s.Registry().Get(device.HeadIndex)
	assert.ErrorIs(t, err, device.ErrNotConnected, "attach applied before the cycle boundary")

	rt.SetActionState("/actions/main/in/fire", backend.RoleAny, backend.ActionState{Active: true, Bool: true})
	require.NoError(t, s.Engine().DeclareActiveSets([]action.ActiveSet{{Set: "/actions/main"}}))
	require.NoError(t, s.Sync(ctx))

	// Slot table: HMD at 0, controller at the next free index.
	head, err := s.Registry().Get(device.HeadIndex)
	require.NoError(t, err)
	assert.Equal(t, backend.ClassHMD, head.Class)

	ctrl, err := s.Registry().ByEntity(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ctrl.Index)

	// Properties were seeded from the interaction profile before the
	// snapshot went out.
	ct, err := s.Properties().GetString(ctrl.Index, property.KeyControllerType)
	require.NoError(t, err)
	assert.Equal(t, "knuckles", ct)

	// Modern path reads the synced action.
	st, err := s.Engine().GetBoolean("/actions/main/in/fire", backend.RoleAny)
	require.NoError(t, err)
	assert.True(t, st.Bool)
}

func TestSessionLegacyPolling(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.Emit(backend.DeviceEvent{
		Kind: backend.DeviceAttached, Entity: 2, Class: backend.ClassController,
		Role: backend.RoleLeft, Profile: knucklesProfile,
	})
	require.NoError(t, s.Sync(ctx))

	ctrl, err := s.Registry().ByEntity(2)
	require.NoError(t, err)

	// First poll lazily creates the implicit slot; the value arrives
	// with the next sync.
	name, err := s.Legacy().ResolveOrCreate(ctrl.Index, legacy.ButtonTrigger, legacy.EdgePress)
	require.NoError(t, err)
	rt.SetActionState(name, backend.RoleAny, backend.ActionState{Active: true, Bool: true})
	require.NoError(t, s.Sync(ctx))

	st, err := s.Legacy().Read(ctrl.Index, legacy.ButtonTrigger, legacy.EdgePress)
	require.NoError(t, err)
	assert.True(t, st.Bool)

	cs, err := s.Legacy().ControllerState(ctrl.Index)
	require.NoError(t, err)
	assert.NotZero(t, cs.ButtonPressed&legacy.ButtonTrigger.Mask())
	assert.Equal(t, s.Engine().Snapshot().Frame, cs.PacketNum)
}

func TestSessionPoseAndRecenter(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceAttached, Entity: 1, Class: backend.ClassHMD})
	require.NoError(t, s.Sync(ctx))

	head := backend.PoseSample{
		Transform: pose.Transform{Rotation: pose.QuatIdentity, Position: pose.Vec3{Y: 1.7}},
		Validity:  backend.PoseValid,
	}
	rt.SetEntityPose(1, backend.SpaceLocal, head)
	rt.SetEntityPose(1, backend.SpaceStage, head)

	got, err := s.Resolver().PoseFor(ctx, device.HeadIndex, backend.OriginStanding, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1.7, got.Transform.Position.Y)

	require.NoError(t, s.Recenter(ctx, backend.OriginSeated))
	got, err = s.Resolver().PoseFor(ctx, device.HeadIndex, backend.OriginSeated, time.Now())
	require.NoError(t, err)
	assert.True(t, got.Transform.IsIdentity(1e-9))
}

func TestSessionHaptics(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.Emit(backend.DeviceEvent{
		Kind: backend.DeviceAttached, Entity: 2, Class: backend.ClassController,
		Role: backend.RoleRight, Profile: knucklesProfile,
	})
	require.NoError(t, s.Sync(ctx))
	ctrl, err := s.Registry().ByEntity(2)
	require.NoError(t, err)

	require.NoError(t, s.TriggerHaptic(ctx, ctrl.Index, 10*time.Millisecond, 160, 0.5))

	calls := rt.HapticCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Action, "/haptic")
	assert.Equal(t, 0.5, calls[0].Amplitude)

	// No device, no pulse.
	assert.ErrorIs(t, s.TriggerHaptic(ctx, 7, time.Millisecond, 160, 1), device.ErrNotConnected)
}

func TestSessionDisconnectGrace(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.Emit(backend.DeviceEvent{
		Kind: backend.DeviceAttached, Entity: 2, Class: backend.ClassController,
		Role: backend.RoleLeft, Profile: knucklesProfile,
	})
	require.NoError(t, s.Sync(ctx))
	ctrl, err := s.Registry().ByEntity(2)
	require.NoError(t, err)

	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceDetached, Entity: 2})
	require.NoError(t, s.Sync(ctx))

	// Retiring: queries fail but the property records survive the
	// grace cycle.
	_, err = s.Registry().Get(ctrl.Index)
	assert.ErrorIs(t, err, device.ErrNotConnected)
	assert.True(t, s.Properties().Connected(ctrl.Index))

	// Next cycle completes the retirement.
	require.NoError(t, s.Sync(ctx))
	assert.False(t, s.Properties().Connected(ctrl.Index))

	// The freed index is reusable afterwards.
	rt.Emit(backend.DeviceEvent{
		Kind: backend.DeviceAttached, Entity: 3, Class: backend.ClassController,
		Role: backend.RoleLeft, Profile: knucklesProfile,
	})
	require.NoError(t, s.Sync(ctx))
	again, err := s.Registry().ByEntity(3)
	require.NoError(t, err)
	assert.Equal(t, ctrl.Index, again.Index)
}

func TestSessionHeadIndexAfterReplug(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceAttached, Entity: 1, Class: backend.ClassHMD})
	require.NoError(t, s.Sync(ctx))

	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceDetached, Entity: 1})
	require.NoError(t, s.Sync(ctx))

	// The old head slot is still retiring when the replacement HMD
	// connects on the very next cycle; it must land on index 0 anyway.
	rt.Emit(backend.DeviceEvent{Kind: backend.DeviceAttached, Entity: 3, Class: backend.ClassHMD})
	require.NoError(t, s.Sync(ctx))

	head, err := s.Registry().Get(device.HeadIndex)
	require.NoError(t, err)
	assert.Equal(t, backend.EntityID(3), head.Entity)

	slot, err := s.Registry().ByEntity(3)
	require.NoError(t, err)
	assert.Equal(t, device.HeadIndex, slot.Index)

	// Properties were reseeded for the new attachment.
	assert.True(t, s.Properties().Connected(device.HeadIndex))

	// The slot survives subsequent cycle boundaries.
	require.NoError(t, s.Sync(ctx))
	_, err = s.Registry().Get(device.HeadIndex)
	require.NoError(t, err)
}

func TestSessionRuntimeLost(t *testing.T) {
	s, rt := newTestSession(t)
	ctx := context.Background()

	rt.SetActionState("/actions/main/in/fire", backend.RoleAny, backend.ActionState{Active: true})
	require.NoError(t, s.Engine().DeclareActiveSets([]action.ActiveSet{{Set: "/actions/main"}}))
	require.NoError(t, s.Sync(ctx))
	before := s.Engine().Snapshot()

	rt.SetLost(true)
	err := s.Sync(ctx)
	assert.ErrorIs(t, err, backend.ErrRuntimeLost)
	assert.Equal(t, SessionLost, s.State())

	// The final snapshot stays readable after teardown.
	assert.Same(t, before, s.Engine().Snapshot())
	assert.ErrorIs(t, s.Sync(ctx), ErrSessionClosed)
}

func TestSessionClose(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.Close())
	assert.Equal(t, SessionClosed, s.State())
	assert.ErrorIs(t, s.Sync(context.Background()), ErrSessionClosed)
	assert.ErrorIs(t, s.Recenter(context.Background(), backend.OriginSeated), ErrSessionClosed)

	// Close is idempotent.
	require.NoError(t, s.Close())
	assert.Equal(t, SessionClosed, s.State())
}
