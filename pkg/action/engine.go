package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/binding"
	"github.com/testerpester2/xrizer/pkg/log"
)

// Engine errors.
var (
	// ErrNotSynced means no snapshot has been published yet.
	ErrNotSynced = errors.New("no snapshot published yet")

	// ErrUnknownAction means the action is neither in the binding model
	// nor registered as an implicit action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownSet means a declared action set does not exist.
	ErrUnknownSet = errors.New("unknown action set")

	// ErrWrongType means a getter was called for an action of a
	// different declared type.
	ErrWrongType = errors.New("action has different type")

	// ErrActionExists means an implicit registration collides with an
	// existing action or set.
	ErrActionExists = errors.New("action already registered")
)

// DefaultSyncTimeout bounds the backend queries of one sync cycle.
const DefaultSyncTimeout = 50 * time.Millisecond

// EngineState is the engine lifecycle state.
type EngineState uint8

const (
	// StateIdle means no action sets have been declared.
	StateIdle EngineState = iota

	// StateSetsDeclared means an active-set list is pending its first
	// sync.
	StateSetsDeclared

	// StateSynced means a snapshot has been published for the current
	// declaration.
	StateSynced
)

// String returns the engine state name.
func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSetsDeclared:
		return "SETS_DECLARED"
	case StateSynced:
		return "SYNCED"
	default:
		return "UNKNOWN"
	}
}

// ActiveSet names one action set to activate, optionally restricted to
// a device role.
type ActiveSet struct {
	// Set is the action set path, e.g. "/actions/main".
	Set string

	// Restrict limits the set's queries to one device role. RoleAny
	// queries unrestricted.
	Restrict backend.Role
}

// implicitAction is an action registered outside the manifest.
type implicitAction struct {
	typ      backend.ActionType
	restrict backend.Role
}

// implicitSet groups implicit actions; synced whenever active.
type implicitSet struct {
	active  bool
	actions map[string]implicitAction
}

// Config carries the engine's construction parameters.
type Config struct {
	// SessionID tags log events.
	SessionID string

	// SyncTimeout bounds the backend queries of one cycle. Zero means
	// DefaultSyncTimeout.
	SyncTimeout time.Duration

	// PoseSpace is the native space pose actions are located in.
	PoseSpace backend.ReferenceSpace

	// Logger receives sync and error events. Nil means NoopLogger.
	Logger log.Logger
}

// Engine is the action sync engine. Sync is owner-thread-only; all
// other methods are safe for concurrent use.
type Engine struct {
	rt        backend.Runtime
	model     *binding.Model
	logger    log.Logger
	sessionID string
	timeout   time.Duration
	poseSpace backend.ReferenceSpace

	mu       sync.Mutex
	state    EngineState
	active   []ActiveSet
	implicit map[string]*implicitSet

	snap  atomic.Pointer[Snapshot]
	frame uint64
}

// New creates an engine over the given backend runtime and binding
// model.
func New(rt backend.Runtime, model *binding.Model, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	timeout := cfg.SyncTimeout
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &Engine{
		rt:        rt,
		model:     model,
		logger:    logger,
		sessionID: cfg.SessionID,
		timeout:   timeout,
		poseSpace: cfg.PoseSpace,
		implicit:  make(map[string]*implicitSet),
	}
}

// State returns the engine lifecycle state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// DeclareActiveSets replaces the active-set list used by subsequent
// syncs. Every referenced set must exist in the binding model. The
// declaration itself does not touch backend state.
func (e *Engine) DeclareActiveSets(sets []ActiveSet) error {
	for _, s := range sets {
		if e.model.Set(s.Set) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownSet, s.Set)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = append([]ActiveSet(nil), sets...)
	e.state = StateSetsDeclared
	return nil
}

// RegisterImplicitSet creates an implicit set. Registration is
// idempotent. The set starts inactive.
func (e *Engine) RegisterImplicitSet(name string) error {
	if e.model.Set(name) != nil {
		return fmt.Errorf("%w: set %s", ErrActionExists, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.implicit[name]; ok {
		return nil
	}
	e.implicit[name] = &implicitSet{actions: make(map[string]implicitAction)}
	return nil
}

// RegisterImplicitAction adds an action to an implicit set.
// Registration with identical parameters is idempotent; a name
// collision with a manifest action or a differently-typed implicit
// action fails.
func (e *Engine) RegisterImplicitAction(set, name string, typ backend.ActionType, restrict backend.Role) error {
	if e.model.Action(name) != nil {
		return fmt.Errorf("%w: %s", ErrActionExists, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	is, ok := e.implicit[set]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSet, set)
	}
	if prev, ok := is.actions[name]; ok {
		if prev.typ != typ || prev.restrict != restrict {
			return fmt.Errorf("%w: %s", ErrActionExists, name)
		}
		return nil
	}
	is.actions[name] = implicitAction{typ: typ, restrict: restrict}
	return nil
}

// SetImplicitSetActive toggles whether an implicit set is synced.
func (e *Engine) SetImplicitSetActive(name string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	is, ok := e.implicit[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSet, name)
	}
	is.active = active
	return nil
}

// query is one backend fetch planned for a sync cycle.
type query struct {
	key stateKey
	typ backend.ActionType
}

// collectQueries snapshots the declared and implicit sets into a
// deterministic query plan.
func (e *Engine) collectQueries() []query {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[stateKey]struct{})
	var out []query
	add := func(k stateKey, t backend.ActionType) {
		if t == backend.ActionVibration {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, query{key: k, typ: t})
	}

	for _, as := range e.active {
		set := e.model.Set(as.Set)
		if set == nil {
			continue
		}
		for name, a := range set.Actions {
			add(stateKey{name, as.Restrict}, a.Type)
		}
	}
	for _, is := range e.implicit {
		if !is.active {
			continue
		}
		for name, a := range is.actions {
			add(stateKey{name, a.restrict}, a.typ)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].key.action != out[j].key.action {
			return out[i].key.action < out[j].key.action
		}
		return out[i].key.role < out[j].key.role
	})
	return out
}

// Sync queries the backend for every action of the active sets and
// publishes a new snapshot. Owner-thread-only.
//
// A failure scoped to one action carries that action forward stale; the
// sync still succeeds. An action the backend does not know reads as
// inactive, not stale: synthesized legacy slots exist before the
// backend binds them. backend.ErrRuntimeLost aborts without
// publishing.
func (e *Engine) Sync(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateIdle && len(e.implicit) == 0 {
		e.mu.Unlock()
		return ErrNotSynced
	}
	e.mu.Unlock()

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	queries := e.collectQueries()
	prior := e.snap.Load()

	states := make(map[stateKey]State, len(queries))
	staleCount := 0

	for _, q := range queries {
		st, err := e.fetch(ctx, q, started)
		if errors.Is(err, backend.ErrActionUnknown) {
			// Unbound on the backend: an inactive read, not a failure.
			st, err = State{Type: q.typ}, nil
		}
		if err != nil {
			if errors.Is(err, backend.ErrRuntimeLost) {
				e.logError("sync", q.key.action, err)
				return backend.ErrRuntimeLost
			}
			// Carry the prior value forward, stale.
			st = State{Type: q.typ}
			if prior != nil {
				if prev, ok := prior.states[q.key]; ok {
					st = prev
				}
			}
			st.Changed = false
			st.Stale = true
			staleCount++
			e.logError("sync", q.key.action, err)
		} else if prior != nil {
			if prev, ok := prior.states[q.key]; ok {
				st.Changed = valueChanged(prev, st)
				if !st.Changed && st.LastChange.IsZero() {
					st.LastChange = prev.LastChange
				}
			} else {
				st.Changed = st.Active
			}
		} else {
			st.Changed = st.Active
		}
		if st.Changed && st.LastChange.IsZero() {
			st.LastChange = started
		}
		states[q.key] = st
	}

	e.frame++
	next := &Snapshot{
		Frame:  e.frame,
		At:     started,
		states: states,
	}
	e.snap.Store(next)

	e.mu.Lock()
	e.state = StateSynced
	e.mu.Unlock()

	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Category:  log.CategorySync,
		Sync: &log.SyncEvent{
			Frame:       next.Frame,
			Duration:    time.Since(started),
			ActionCount: len(queries),
			StaleCount:  staleCount,
		},
	})
	return nil
}

// fetch performs the backend query for one action.
func (e *Engine) fetch(ctx context.Context, q query, at time.Time) (State, error) {
	st := State{Type: q.typ}

	switch q.typ {
	case backend.ActionPose:
		sample, err := e.rt.PoseState(ctx, q.key.action, q.key.role, e.poseSpace, at)
		if err != nil {
			return State{}, err
		}
		st.Pose = sample
		st.Active = sample.Validity != backend.PoseNotTracked
		return st, nil

	case backend.ActionSkeleton:
		joints, err := e.rt.SkeletonState(ctx, q.key.action, q.key.role)
		if err != nil {
			return State{}, err
		}
		st.Skeleton = joints
		st.Active = len(joints) > 0
		return st, nil

	default:
		as, err := e.rt.ActionState(ctx, q.key.action, q.key.role)
		if err != nil {
			return State{}, err
		}
		st.Active = as.Active
		st.Bool = as.Bool
		st.X = as.X
		st.Y = as.Y
		st.LastChange = as.UpdatedAt
		return st, nil
	}
}

// valueChanged compares the value portion of two states.
func valueChanged(prev, next State) bool {
	if prev.Active != next.Active {
		return true
	}
	switch next.Type {
	case backend.ActionBoolean:
		return prev.Bool != next.Bool
	case backend.ActionVector1:
		return prev.X != next.X
	case backend.ActionVector2:
		return prev.X != next.X || prev.Y != next.Y
	case backend.ActionPose:
		return !prev.Pose.Transform.ApproxEq(next.Pose.Transform, 1e-6) ||
			prev.Pose.Validity != next.Pose.Validity
	default:
		return false
	}
}

func (e *Engine) logError(scope, action string, err error) {
	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Scope:   scope,
			Message: err.Error(),
			Action:  action,
		},
	})
}

// Snapshot returns the current snapshot, or nil before the first sync.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// get looks up an action state of the expected type in the current
// snapshot. Actions known to the engine but absent from the snapshot
// (their set is inactive) read as inactive zero values.
func (e *Engine) get(action string, restrict backend.Role, want backend.ActionType) (State, error) {
	typ, ok := e.actionType(action)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if typ != want {
		return State{}, fmt.Errorf("%w: %s is %s", ErrWrongType, action, typ)
	}

	snap := e.snap.Load()
	if snap == nil {
		return State{}, ErrNotSynced
	}
	if st, ok := snap.Lookup(action, restrict); ok {
		return st, nil
	}
	return State{Type: typ}, nil
}

// actionType resolves an action's declared type across the model and
// the implicit registry.
func (e *Engine) actionType(action string) (backend.ActionType, bool) {
	if a := e.model.Action(action); a != nil {
		return a.Type, true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, is := range e.implicit {
		if a, ok := is.actions[action]; ok {
			return a.typ, true
		}
	}
	return 0, false
}

// GetBoolean reads a boolean action from the current snapshot.
func (e *Engine) GetBoolean(action string, restrict backend.Role) (State, error) {
	return e.get(action, restrict, backend.ActionBoolean)
}

// GetScalar1 reads a vector1 action from the current snapshot.
func (e *Engine) GetScalar1(action string, restrict backend.Role) (State, error) {
	return e.get(action, restrict, backend.ActionVector1)
}

// GetScalar2 reads a vector2 action from the current snapshot.
func (e *Engine) GetScalar2(action string, restrict backend.Role) (State, error) {
	return e.get(action, restrict, backend.ActionVector2)
}

// GetPose reads a pose action from the current snapshot.
func (e *Engine) GetPose(action string, restrict backend.Role) (State, error) {
	return e.get(action, restrict, backend.ActionPose)
}

// GetSkeleton reads a skeleton action from the current snapshot.
func (e *Engine) GetSkeleton(action string, restrict backend.Role) (State, error) {
	return e.get(action, restrict, backend.ActionSkeleton)
}
