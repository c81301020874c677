package binding

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/testerpester2/xrizer/pkg/backend"
)

//go:embed schemas/action_manifest.schema.json
var manifestSchemaJSON []byte

//go:embed schemas/bindings.schema.json
var bindingsSchemaJSON []byte

var (
	manifestSchema *jsonschema.Schema
	bindingsSchema *jsonschema.Schema
)

func init() {
	manifestSchema = mustCompileSchema("action_manifest.schema.json", manifestSchemaJSON)
	bindingsSchema = mustCompileSchema("bindings.schema.json", bindingsSchemaJSON)
}

func mustCompileSchema(name string, data []byte) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("failed to add embedded schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile embedded schema %s: %v", name, err))
	}
	return s
}

// manifestJSON mirrors the on-disk action manifest format.
type manifestJSON struct {
	ActionSets []struct {
		Name  string `json:"name"`
		Usage string `json:"usage"`
	} `json:"action_sets"`
	Actions []struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		Requirement string `json:"requirement"`
	} `json:"actions"`
}

// bindingsJSON mirrors the on-disk bindings document format.
type bindingsJSON struct {
	ControllerType string `json:"controller_type"`
	Bindings       map[string]struct {
		Sources []struct {
			Path   string `json:"path"`
			Mode   string `json:"mode"`
			Inputs map[string]struct {
				Output string `json:"output"`
			} `json:"inputs"`
		} `json:"sources"`
		Poses []struct {
			Path   string `json:"path"`
			Output string `json:"output"`
		} `json:"poses"`
		Haptics []struct {
			Path   string `json:"path"`
			Output string `json:"output"`
		} `json:"haptics"`
	} `json:"bindings"`
}

// LoadManifest reads and schema-validates an action manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read action manifest: %w", err)
	}
	if err := validateAgainst(manifestSchema, data); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("action manifest %s: %v", filepath.Base(path), err)}
	}

	var raw manifestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("action manifest %s: %v", filepath.Base(path), err)}
	}

	man := &Manifest{}
	for _, s := range raw.ActionSets {
		man.Sets = append(man.Sets, SetDecl{Name: s.Name, Usage: s.Usage})
	}
	for _, a := range raw.Actions {
		man.Actions = append(man.Actions, ActionDecl{Name: a.Name, Type: a.Type, Requirement: a.Requirement})
	}
	return man, nil
}

// LoadDocument reads and schema-validates one bindings document.
func LoadDocument(path string, source Source) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings document: %w", err)
	}
	if err := validateAgainst(bindingsSchema, data); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("bindings %s: %v", filepath.Base(path), err)}
	}

	var raw bindingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("bindings %s: %v", filepath.Base(path), err)}
	}

	doc := &Document{ControllerType: raw.ControllerType, Source: source}
	for _, set := range raw.Bindings {
		for _, src := range set.Sources {
			role, base := parseSourcePath(src.Path)
			for input, target := range src.Inputs {
				comp := base
				// The "position" input addresses the 2D component itself.
				if input != "position" {
					comp = base + "/" + strings.ToLower(input)
				}
				doc.Entries = append(doc.Entries, Entry{
					Role:      role,
					Component: comp,
					Mode:      src.Mode,
					Action:    target.Output,
				})
			}
		}
		for _, p := range set.Poses {
			role, comp := parseSourcePath(p.Path)
			doc.Entries = append(doc.Entries, Entry{
				Role: role, Component: comp, Mode: "pose", Action: p.Output,
			})
		}
		for _, h := range set.Haptics {
			role, comp := parseSourcePath(h.Path)
			doc.Entries = append(doc.Entries, Entry{
				Role: role, Component: comp, Mode: "haptic", Action: h.Output,
			})
		}
	}
	return doc, nil
}

// LoadBindingsDir loads every bindings_*.json in dir. A missing directory
// yields no documents, which matters for the optional override source.
func LoadBindingsDir(dir string, source Source) ([]*Document, error) {
	if dir == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "bindings_*.json"))
	if err != nil {
		return nil, err
	}
	var docs []*Document
	for _, path := range matches {
		doc, err := LoadDocument(path, source)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Load builds the full model: the action manifest plus the default
// bindings source, with the override source (if set) winning per profile.
func Load(manifestPath, defaultDir, overrideDir string) (*Model, error) {
	man, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	docs, err := LoadBindingsDir(defaultDir, SourceDefault)
	if err != nil {
		return nil, err
	}
	overrides, err := LoadBindingsDir(overrideDir, SourceOverride)
	if err != nil {
		return nil, err
	}
	return NewModel(man, append(docs, overrides...))
}

func validateAgainst(schema *jsonschema.Schema, data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	return schema.Validate(instance)
}

// parseSourcePath splits a bindings source path into a device role and the
// hand-stripped component base. Paths without a hand prefix apply to any
// hand.
func parseSourcePath(p string) (backend.Role, string) {
	p = normalizePath(p)
	switch {
	case strings.HasPrefix(p, "/user/hand/left/"):
		return backend.RoleLeft, strings.TrimPrefix(p, "/user/hand/left")
	case strings.HasPrefix(p, "/user/hand/right/"):
		return backend.RoleRight, strings.TrimPrefix(p, "/user/hand/right")
	case strings.HasPrefix(p, "/user/hand/any/"):
		return backend.RoleAny, strings.TrimPrefix(p, "/user/hand/any")
	default:
		return backend.RoleAny, p
	}
}
