package binding

import (
	"strings"

	"github.com/testerpester2/xrizer/pkg/backend"
)

// SetDecl is a manifest action-set declaration.
type SetDecl struct {
	Name  string
	Usage string
}

// ActionDecl is a manifest action declaration. The owning set is implied
// by the action path.
type ActionDecl struct {
	Name        string
	Type        string
	Requirement string
}

// Manifest is a decoded action manifest.
type Manifest struct {
	Sets    []SetDecl
	Actions []ActionDecl
}

// Entry is one input-to-action mapping from a bindings document.
type Entry struct {
	// Role is the device role parsed from the source path.
	Role backend.Role

	// Component is the hand-stripped input component path.
	Component string

	// Mode is the input mode from the document.
	Mode string

	// Action is the target action path.
	Action string
}

// Document is a decoded per-profile bindings document.
type Document struct {
	// ControllerType is the legacy controller type string the document
	// names.
	ControllerType string

	// Source is where the document was loaded from.
	Source Source

	// Entries are the document's input mappings.
	Entries []Entry
}

// SetNameForAction derives the owning set path from a full action path:
// "/actions/main/in/fire" -> "/actions/main".
func SetNameForAction(action string) string {
	parts := strings.Split(strings.TrimPrefix(action, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return "/" + parts[0] + "/" + parts[1]
}

// NewModel validates the manifest and bindings documents and builds the
// immutable model. Documents from the override source shadow default
// documents for the same interaction profile wholesale.
func NewModel(man *Manifest, docs []*Document) (*Model, error) {
	m := &Model{
		sets:     make(map[string]*ActionSet),
		actions:  make(map[string]*Action),
		profiles: make(map[string]*ProfileBindings),
	}

	for _, sd := range man.Sets {
		name := normalizePath(sd.Name)
		if name == "" {
			return nil, &ConfigError{Reason: "action set with empty name"}
		}
		if _, dup := m.sets[name]; dup {
			return nil, &ConfigError{Action: name, Reason: "duplicate action set"}
		}
		m.sets[name] = &ActionSet{Name: name, Usage: sd.Usage, Actions: make(map[string]*Action)}
	}

	for _, ad := range man.Actions {
		name := normalizePath(ad.Name)
		if name == "" {
			return nil, &ConfigError{Reason: "action with empty name"}
		}
		if _, dup := m.actions[name]; dup {
			return nil, &ConfigError{Action: name, Reason: "duplicate action"}
		}
		ty, ok := backend.ParseActionType(ad.Type)
		if !ok {
			return nil, &ConfigError{Action: name, Reason: "unknown action type " + ad.Type}
		}
		setName := SetNameForAction(name)
		if setName == "" {
			return nil, &ConfigError{Action: name, Reason: "action path has no set component"}
		}
		// Sets referenced only by actions are created implicitly, as the
		// legacy manifest format allows.
		set, ok := m.sets[setName]
		if !ok {
			set = &ActionSet{Name: setName, Actions: make(map[string]*Action)}
			m.sets[setName] = set
		}
		a := &Action{Name: name, Type: ty, Set: set, Requirement: ad.Requirement}
		m.actions[name] = a
		set.Actions[name] = a
	}

	// Override documents shadow default documents per profile, wholesale.
	selected := make(map[string]*Document)
	for _, doc := range docs {
		props := PropertiesForControllerType(doc.ControllerType)
		if props == nil {
			return nil, &ConfigError{
				Reason: "unknown controller type " + doc.ControllerType,
			}
		}
		prev, ok := selected[props.Path]
		switch {
		case !ok:
			selected[props.Path] = doc
		case prev.Source == doc.Source:
			return nil, &ConfigError{
				Profile: props.Path,
				Reason:  "two bindings documents from the same source",
			}
		case doc.Source == SourceOverride:
			selected[props.Path] = doc
		}
	}

	for path, doc := range selected {
		pb, err := resolveProfile(m, path, doc)
		if err != nil {
			return nil, err
		}
		m.profiles[path] = pb
	}

	return m, nil
}

// resolveProfile applies the fan-out policy for one profile: per concrete
// hand, the most role-specific binding for a component wins; an
// unresolvable tie between distinct actions fails the load.
func resolveProfile(m *Model, profile string, doc *Document) (*ProfileBindings, error) {
	pb := &ProfileBindings{
		Profile:        profile,
		ControllerType: doc.ControllerType,
		Source:         doc.Source,
		byComponent:    make(map[ComponentKey]*Binding),
		byAction:       make(map[string][]*Binding),
	}

	type candidate struct {
		entry  Entry
		action *Action
	}
	byComponent := make(map[string][]candidate)
	for _, e := range doc.Entries {
		actionName := normalizePath(e.Action)
		action := m.actions[actionName]
		if action == nil {
			return nil, &ConfigError{
				Profile:   profile,
				Action:    actionName,
				Component: e.Component,
				Reason:    "binding references undeclared action",
			}
		}
		comp := normalizePath(e.Component)
		if comp == "" {
			return nil, &ConfigError{
				Profile: profile,
				Action:  actionName,
				Reason:  "binding with empty input component",
			}
		}
		byComponent[comp] = append(byComponent[comp], candidate{
			entry:  Entry{Role: e.Role, Component: comp, Mode: e.Mode, Action: actionName},
			action: action,
		})
	}

	for comp, cands := range byComponent {
		for _, role := range []backend.Role{backend.RoleLeft, backend.RoleRight} {
			var best *candidate
			var tie bool
			for i := range cands {
				c := &cands[i]
				if c.entry.Role != role && c.entry.Role != backend.RoleAny {
					continue
				}
				switch {
				case best == nil:
					best = c
				case c.entry.Role.Specificity() > best.entry.Role.Specificity():
					best, tie = c, false
				case c.entry.Role.Specificity() == best.entry.Role.Specificity() &&
					c.action != best.action:
					tie = true
				}
			}
			if tie {
				return nil, &ConfigError{
					Profile:   profile,
					Component: comp,
					Reason:    "two actions bound to one input with equal role specificity",
				}
			}
			if best == nil {
				continue
			}
			b := &Binding{
				Profile:   profile,
				Role:      best.entry.Role,
				Component: comp,
				Mode:      best.entry.Mode,
				Action:    best.action,
			}
			pb.byComponent[ComponentKey{Role: role, Component: comp}] = b
		}
	}

	seen := make(map[*Binding]bool)
	for _, b := range pb.byComponent {
		if !seen[b] {
			seen[b] = true
			pb.byAction[b.Action.Name] = append(pb.byAction[b.Action.Name], b)
		}
	}

	return pb, nil
}

// normalizePath lowercases a path and strips a trailing slash. The legacy
// API treats action and input paths as case-insensitive.
func normalizePath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	return strings.TrimSuffix(p, "/")
}
