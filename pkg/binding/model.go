package binding

import (
	"fmt"

	"github.com/testerpester2/xrizer/pkg/backend"
)

// Source identifies where a bindings document came from.
type Source uint8

const (
	// SourceDefault is the bundled default bindings source.
	SourceDefault Source = iota

	// SourceOverride is the operator-provided override source.
	SourceOverride
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "DEFAULT"
	case SourceOverride:
		return "OVERRIDE"
	default:
		return "UNKNOWN"
	}
}

// ConfigError is a fatal binding/manifest configuration problem. It
// aborts model construction and is surfaced to the operator.
type ConfigError struct {
	// Profile is the interaction profile path, if the error is scoped
	// to one profile.
	Profile string

	// Action is the offending action path, if any.
	Action string

	// Component is the offending input component path, if any.
	Component string

	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "binding configuration error"
	if e.Profile != "" {
		msg += fmt.Sprintf(" [profile %s]", e.Profile)
	}
	if e.Action != "" {
		msg += fmt.Sprintf(" [action %s]", e.Action)
	}
	if e.Component != "" {
		msg += fmt.Sprintf(" [component %s]", e.Component)
	}
	return msg + ": " + e.Reason
}

// Action is a named, typed logical input or output, independent of any
// physical binding. Immutable after load.
type Action struct {
	// Name is the full action path, e.g. "/actions/main/in/fire".
	Name string

	// Type is the declared value shape.
	Type backend.ActionType

	// Set is the owning action set.
	Set *ActionSet

	// Requirement is the manifest requirement level
	// ("mandatory", "suggested" or "optional").
	Requirement string
}

// ActionSet is a named group of actions that activate together.
type ActionSet struct {
	// Name is the set path, e.g. "/actions/main".
	Name string

	// Usage is the manifest usage hint ("leftright", "single", "hidden").
	Usage string

	// Actions indexes the set's actions by full path.
	Actions map[string]*Action
}

// Binding maps one physical input component to an action for a specific
// interaction profile.
type Binding struct {
	// Profile is the interaction profile path.
	Profile string

	// Role is the device role the source path named.
	Role backend.Role

	// Component is the input component path with the hand stripped,
	// e.g. "/input/trigger/click".
	Component string

	// Mode is the bindings-document input mode ("button", "trigger",
	// "joystick", "trackpad", "pose", "haptic", ...).
	Mode string

	// Action is the bound action.
	Action *Action
}

// ComponentKey addresses a resolved binding within a profile.
type ComponentKey struct {
	// Role is a concrete hand (RoleAny bindings are expanded to both
	// hands during resolution).
	Role backend.Role

	// Component is the hand-stripped input component path.
	Component string
}

// ProfileBindings is the resolved binding table for one interaction
// profile.
type ProfileBindings struct {
	// Profile is the interaction profile path.
	Profile string

	// ControllerType is the legacy controller type string
	// ("knuckles", "vive_controller", ...).
	ControllerType string

	// Source records which source won this profile.
	Source Source

	byComponent map[ComponentKey]*Binding
	byAction    map[string][]*Binding
}

// ForComponent returns the binding for a component and hand, or nil.
func (p *ProfileBindings) ForComponent(role backend.Role, component string) *Binding {
	return p.byComponent[ComponentKey{Role: role, Component: component}]
}

// ForAction returns all bindings targeting the given action path.
func (p *ProfileBindings) ForAction(action string) []*Binding {
	return p.byAction[action]
}

// Bindings returns all resolved bindings of the profile.
func (p *ProfileBindings) Bindings() []*Binding {
	out := make([]*Binding, 0, len(p.byComponent))
	for _, b := range p.byComponent {
		out = append(out, b)
	}
	return out
}

// Model is the validated, immutable binding model.
type Model struct {
	sets     map[string]*ActionSet
	actions  map[string]*Action
	profiles map[string]*ProfileBindings
}

// Set returns an action set by path, or nil.
func (m *Model) Set(name string) *ActionSet {
	return m.sets[name]
}

// Action returns an action by full path, or nil.
func (m *Model) Action(name string) *Action {
	return m.actions[name]
}

// Profile returns the resolved bindings for an interaction profile path,
// or nil if the profile has no bindings.
func (m *Model) Profile(path string) *ProfileBindings {
	return m.profiles[path]
}

// Sets returns all action sets.
func (m *Model) Sets() []*ActionSet {
	out := make([]*ActionSet, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s)
	}
	return out
}

// Actions returns all declared actions.
func (m *Model) Actions() []*Action {
	out := make([]*Action, 0, len(m.actions))
	for _, a := range m.actions {
		out = append(out, a)
	}
	return out
}

// Profiles returns the paths of all profiles with resolved bindings.
func (m *Model) Profiles() []string {
	out := make([]string, 0, len(m.profiles))
	for p := range m.profiles {
		out = append(out, p)
	}
	return out
}
