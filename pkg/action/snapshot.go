package action

import (
	"time"

	"github.com/testerpester2/xrizer/pkg/backend"
)

// State is the per-action record inside a Snapshot.
type State struct {
	// Type is the action's declared value shape.
	Type backend.ActionType

	// Active reports whether the action was backed by a bound, connected
	// input during the last sync.
	Active bool

	// Bool is the value of a boolean action.
	Bool bool

	// X and Y carry vector1 (X only) and vector2 values.
	X, Y float64

	// Pose is the located sample of a pose action.
	Pose backend.PoseSample

	// Skeleton carries the joint samples of a skeleton action, opaque to
	// the engine.
	Skeleton []backend.PoseSample

	// Changed reports a value change relative to the previous snapshot.
	Changed bool

	// LastChange is the time of the most recent value change.
	LastChange time.Time

	// Stale marks a value carried forward after a backend failure.
	Stale bool
}

// stateKey addresses one synced action state. Role is the restriction
// the action was synced under, RoleAny when unrestricted.
type stateKey struct {
	action string
	role   backend.Role
}

// Snapshot is one immutable, versioned publication of action state.
// Snapshots are never mutated after publication.
type Snapshot struct {
	// Frame is the monotonic sync counter.
	Frame uint64

	// At is the time the snapshot was published.
	At time.Time

	states map[stateKey]State
}

// Lookup returns the state for an action under the given restriction,
// falling back to the unrestricted entry. Callers assembling several
// values that must agree on a frame hold one Snapshot and look up
// against it, rather than going through the engine getters.
func (s *Snapshot) Lookup(action string, restrict backend.Role) (State, bool) {
	if st, ok := s.states[stateKey{action, restrict}]; ok {
		return st, true
	}
	if restrict != backend.RoleAny {
		if st, ok := s.states[stateKey{action, backend.RoleAny}]; ok {
			return st, true
		}
	}
	return State{}, false
}

// Len returns the number of action states in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.states)
}
