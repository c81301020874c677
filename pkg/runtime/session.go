package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/testerpester2/xrizer/pkg/action"
	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/binding"
	"github.com/testerpester2/xrizer/pkg/config"
	"github.com/testerpester2/xrizer/pkg/device"
	"github.com/testerpester2/xrizer/pkg/legacy"
	"github.com/testerpester2/xrizer/pkg/log"
	"github.com/testerpester2/xrizer/pkg/property"
)

// Session errors.
var (
	// ErrSessionClosed means the session was closed or torn down.
	ErrSessionClosed = errors.New("session closed")
)

// SessionState is the session lifecycle state.
type SessionState uint8

const (
	// SessionRunning is the normal operating state.
	SessionRunning SessionState = iota

	// SessionLost means the backend runtime connection died; the
	// session tore down.
	SessionLost

	// SessionClosed means Close was called.
	SessionClosed
)

// String returns the session state name.
func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionLost:
		return "lost"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session owns one input/tracking session over a backend runtime.
// Sync, Recenter and Close are owner-thread-only; everything reachable
// through the component accessors follows the components' own rules.
type Session struct {
	id     string
	cfg    config.Config
	rt     backend.Runtime
	model  *binding.Model
	logger log.Logger

	engine   *action.Engine
	registry *device.Registry
	resolver *device.Resolver
	props    *property.Store
	adapter  *legacy.Adapter

	mu      sync.Mutex
	pending []backend.DeviceEvent
	state   SessionState
}

// LoadModel loads the binding model named by the configuration. The
// operator's bindings directory shadows the default source per profile.
func LoadModel(cfg config.Config) (*binding.Model, error) {
	return binding.Load(cfg.ManifestPath, cfg.DefaultBindingsDir, cfg.BindingsDir)
}

// NewSession builds the component graph and subscribes to backend
// device events. A nil logger disables logging.
func NewSession(cfg config.Config, rt backend.Runtime, model *binding.Model, logger log.Logger) *Session {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	id := uuid.NewString()

	engine := action.New(rt, model, action.Config{
		SessionID:   id,
		SyncTimeout: cfg.SyncTimeout,
		PoseSpace:   backend.SpaceStage,
		Logger:      logger,
	})
	registry := device.NewRegistry(logger, id)
	resolver := device.NewResolver(rt, registry, logger, id)
	props := property.NewStore()

	s := &Session{
		id:       id,
		cfg:      cfg,
		rt:       rt,
		model:    model,
		logger:   logger,
		engine:   engine,
		registry: registry,
		resolver: resolver,
		props:    props,
		adapter:  legacy.NewAdapter(engine, registry, props),
	}

	rt.Subscribe(s.onDeviceEvent)
	s.logState("", SessionRunning.String(), "session start")
	return s
}

// onDeviceEvent queues a backend device event for the next cycle
// boundary. Called from the backend's goroutine; must not block.
func (s *Session) onDeviceEvent(ev backend.DeviceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionRunning {
		return
	}
	s.pending = append(s.pending, ev)
}

// drainPending splits the queued events into attaches to apply before
// the engine sync and detaches to apply after it.
func (s *Session) drainPending() (attaches, detaches []backend.DeviceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.pending {
		if ev.Kind == backend.DeviceAttached {
			attaches = append(attaches, ev)
		} else {
			detaches = append(detaches, ev)
		}
	}
	s.pending = nil
	return attaches, detaches
}

// Sync runs one cycle: apply pending attaches, sync the engine, free
// slots that finished their retirement grace, then apply pending
// detaches. Owner-thread-only.
func (s *Session) Sync(ctx context.Context) error {
	if s.State() != SessionRunning {
		return ErrSessionClosed
	}

	attaches, detaches := s.drainPending()

	for _, ev := range attaches {
		slot, err := s.registry.Attach(ev)
		if err != nil {
			s.logError("attach", err)
			continue
		}
		s.props.Seed(slot.Index, slot.Class, slot.Role, slot.Profile)
		if err := s.adapter.DeviceAttached(slot.Index); err != nil {
			s.logError("attach", err)
		}
	}

	if err := s.engine.Sync(ctx); err != nil {
		if errors.Is(err, backend.ErrRuntimeLost) {
			s.teardown(SessionLost, "backend runtime lost")
			return err
		}
		if !errors.Is(err, action.ErrNotSynced) {
			return err
		}
		// Nothing declared yet; device bookkeeping still runs.
	}

	// Free slots that retired last cycle, then mark this cycle's
	// detaches retiring. The gap between the two is the one-cycle grace
	// period racing queries rely on.
	for _, slot := range s.registry.EndCycle() {
		s.props.Drop(slot.Index)
	}

	for _, ev := range detaches {
		slot, err := s.registry.ByEntity(ev.Entity)
		if err != nil {
			continue
		}
		if err := s.registry.Detach(ev.Entity); err != nil {
			continue
		}
		if err := s.adapter.DeviceDetached(slot.Index); err != nil {
			s.logError("detach", err)
		}
	}
	return nil
}

// Recenter captures a new seated origin. Owner-thread-only, serialized
// with Sync by the caller.
func (s *Session) Recenter(ctx context.Context, origin backend.TrackingOrigin) error {
	if s.State() != SessionRunning {
		return ErrSessionClosed
	}
	return s.resolver.Recenter(ctx, origin, time.Now())
}

// TriggerHaptic fires a haptic pulse on a device's synthesized
// vibration action. Fire-and-forget: no state is kept beyond the
// backend call.
func (s *Session) TriggerHaptic(ctx context.Context, index uint32, duration time.Duration, frequency, amplitude float64) error {
	if s.State() != SessionRunning {
		return ErrSessionClosed
	}
	if _, err := s.registry.Get(index); err != nil {
		return err
	}
	name, err := s.adapter.HapticAction(index)
	if err != nil {
		return err
	}
	if err := s.rt.TriggerHaptic(ctx, name, backend.RoleAny, duration, frequency, amplitude); err != nil {
		if errors.Is(err, backend.ErrRuntimeLost) {
			s.teardown(SessionLost, "backend runtime lost")
		}
		return err
	}
	return nil
}

// Close tears the session down. The final snapshot stays readable;
// subsequent Sync calls fail with ErrSessionClosed. Safe to call more
// than once.
func (s *Session) Close() error {
	s.teardown(SessionClosed, "close requested")
	return nil
}

// teardown transitions to a terminal state and unsubscribes from the
// backend.
func (s *Session) teardown(to SessionState, reason string) {
	s.mu.Lock()
	if s.state != SessionRunning {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = to
	s.pending = nil
	s.mu.Unlock()

	s.rt.Subscribe(nil)
	s.logState(from.String(), to.String(), reason)
}

// State returns the session lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the session's UUID.
func (s *Session) ID() string {
	return s.id
}

// Engine returns the action sync engine.
func (s *Session) Engine() *action.Engine {
	return s.engine
}

// Registry returns the device registry.
func (s *Session) Registry() *device.Registry {
	return s.registry
}

// Resolver returns the device/space resolver.
func (s *Session) Resolver() *device.Resolver {
	return s.resolver
}

// Properties returns the property store.
func (s *Session) Properties() *property.Store {
	return s.props
}

// Legacy returns the legacy input adapter.
func (s *Session) Legacy() *legacy.Adapter {
	return s.adapter
}

func (s *Session) logState(from, to, reason string) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (s *Session) logError(scope string, err error) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Scope:   scope,
			Message: err.Error(),
		},
	})
}
