package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testerpester2/xrizer/pkg/backend"
)

func testManifest() *Manifest {
	return &Manifest{
		Sets: []SetDecl{{Name: "/actions/main", Usage: "leftright"}},
		Actions: []ActionDecl{
			{Name: "/actions/main/in/fire", Type: "boolean", Requirement: "mandatory"},
			{Name: "/actions/main/in/teleport", Type: "boolean"},
			{Name: "/actions/main/in/move", Type: "vector2"},
			{Name: "/actions/main/in/hand", Type: "pose"},
			{Name: "/actions/main/out/rumble", Type: "vibration"},
		},
	}
}

func TestNewModelManifest(t *testing.T) {
	m, err := NewModel(testManifest(), nil)
	require.NoError(t, err)

	set := m.Set("/actions/main")
	require.NotNil(t, set)
	assert.Len(t, set.Actions, 5)

	fire := m.Action("/actions/main/in/fire")
	require.NotNil(t, fire)
	assert.Equal(t, backend.ActionBoolean, fire.Type)
	assert.Same(t, set, fire.Set)

	t.Run("ImplicitSetCreation", func(t *testing.T) {
		man := &Manifest{Actions: []ActionDecl{{Name: "/actions/extra/in/x", Type: "vector1"}}}
		m, err := NewModel(man, nil)
		require.NoError(t, err)
		require.NotNil(t, m.Set("/actions/extra"))
	})

	t.Run("PathsAreCaseInsensitive", func(t *testing.T) {
		man := &Manifest{Actions: []ActionDecl{{Name: "/Actions/Main/in/Fire", Type: "boolean"}}}
		m, err := NewModel(man, nil)
		require.NoError(t, err)
		assert.NotNil(t, m.Action("/actions/main/in/fire"))
	})

	t.Run("UnknownTypeFails", func(t *testing.T) {
		man := &Manifest{Actions: []ActionDecl{{Name: "/actions/main/in/x", Type: "matrix4"}}}
		_, err := NewModel(man, nil)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "/actions/main/in/x", cfgErr.Action)
	})

	t.Run("DuplicateActionFails", func(t *testing.T) {
		man := &Manifest{Actions: []ActionDecl{
			{Name: "/actions/main/in/x", Type: "boolean"},
			{Name: "/actions/main/in/X", Type: "boolean"},
		}}
		_, err := NewModel(man, nil)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestResolveProfile(t *testing.T) {
	const profile = "/interaction_profiles/valve/index_controller"

	t.Run("UndeclaredActionFails", func(t *testing.T) {
		doc := &Document{
			ControllerType: "knuckles",
			Entries: []Entry{{
				Role: backend.RoleAny, Component: "/input/trigger/click",
				Mode: "button", Action: "/actions/main/in/missing",
			}},
		}
		_, err := NewModel(testManifest(), []*Document{doc})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, profile, cfgErr.Profile)
		assert.Equal(t, "/actions/main/in/missing", cfgErr.Action)
	})

	t.Run("UnknownControllerTypeFails", func(t *testing.T) {
		doc := &Document{ControllerType: "hoverboard"}
		_, err := NewModel(testManifest(), []*Document{doc})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("FanOutEqualSpecificityFails", func(t *testing.T) {
		doc := &Document{
			ControllerType: "knuckles",
			Entries: []Entry{
				{Role: backend.RoleAny, Component: "/input/trigger/click", Mode: "button", Action: "/actions/main/in/fire"},
				{Role: backend.RoleAny, Component: "/input/trigger/click", Mode: "button", Action: "/actions/main/in/teleport"},
			},
		}
		_, err := NewModel(testManifest(), []*Document{doc})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "/input/trigger/click", cfgErr.Component)
	})

	t.Run("MoreSpecificRoleWins", func(t *testing.T) {
		doc := &Document{
			ControllerType: "knuckles",
			Entries: []Entry{
				{Role: backend.RoleAny, Component: "/input/trigger/click", Mode: "button", Action: "/actions/main/in/fire"},
				{Role: backend.RoleLeft, Component: "/input/trigger/click", Mode: "button", Action: "/actions/main/in/teleport"},
			},
		}
		m, err := NewModel(testManifest(), []*Document{doc})
		require.NoError(t, err)

		pb := m.Profile(profile)
		require.NotNil(t, pb)

		left := pb.ForComponent(backend.RoleLeft, "/input/trigger/click")
		require.NotNil(t, left)
		assert.Equal(t, "/actions/main/in/teleport", left.Action.Name)

		// The any-hand binding still covers the right hand.
		right := pb.ForComponent(backend.RoleRight, "/input/trigger/click")
		require.NotNil(t, right)
		assert.Equal(t, "/actions/main/in/fire", right.Action.Name)
	})

	t.Run("SameActionTwiceIsNotAConflict", func(t *testing.T) {
		doc := &Document{
			ControllerType: "knuckles",
			Entries: []Entry{
				{Role: backend.RoleLeft, Component: "/input/a/click", Mode: "button", Action: "/actions/main/in/fire"},
				{Role: backend.RoleLeft, Component: "/input/a/click", Mode: "button", Action: "/actions/main/in/fire"},
			},
		}
		_, err := NewModel(testManifest(), []*Document{doc})
		require.NoError(t, err)
	})

	t.Run("AnyHandExpandsToBothHands", func(t *testing.T) {
		doc := &Document{
			ControllerType: "knuckles",
			Entries: []Entry{
				{Role: backend.RoleAny, Component: "/input/a/click", Mode: "button", Action: "/actions/main/in/fire"},
			},
		}
		m, err := NewModel(testManifest(), []*Document{doc})
		require.NoError(t, err)

		pb := m.Profile(profile)
		assert.NotNil(t, pb.ForComponent(backend.RoleLeft, "/input/a/click"))
		assert.NotNil(t, pb.ForComponent(backend.RoleRight, "/input/a/click"))
		assert.Len(t, pb.ForAction("/actions/main/in/fire"), 1)
	})
}

func TestSourcePrecedence(t *testing.T) {
	defaultDoc := func() *Document {
		return &Document{
			ControllerType: "knuckles",
			Source:         SourceDefault,
			Entries: []Entry{
				{Role: backend.RoleAny, Component: "/input/a/click", Mode: "button", Action: "/actions/main/in/fire"},
				{Role: backend.RoleAny, Component: "/input/b/click", Mode: "button", Action: "/actions/main/in/teleport"},
			},
		}
	}

	t.Run("OverrideWinsWholesale", func(t *testing.T) {
		override := &Document{
			ControllerType: "knuckles",
			Source:         SourceOverride,
			Entries: []Entry{
				{Role: backend.RoleAny, Component: "/input/trigger/click", Mode: "button", Action: "/actions/main/in/fire"},
			},
		}
		m, err := NewModel(testManifest(), []*Document{defaultDoc(), override})
		require.NoError(t, err)

		pb := m.Profile("/interaction_profiles/valve/index_controller")
		require.NotNil(t, pb)
		assert.Equal(t, SourceOverride, pb.Source)
		assert.NotNil(t, pb.ForComponent(backend.RoleLeft, "/input/trigger/click"))
		// Nothing from the default document survives, not even components
		// the override leaves unbound.
		assert.Nil(t, pb.ForComponent(backend.RoleLeft, "/input/a/click"))
		assert.Nil(t, pb.ForComponent(backend.RoleLeft, "/input/b/click"))
	})

	t.Run("OrderDoesNotMatter", func(t *testing.T) {
		override := &Document{ControllerType: "knuckles", Source: SourceOverride}
		m, err := NewModel(testManifest(), []*Document{override, defaultDoc()})
		require.NoError(t, err)
		assert.Equal(t, SourceOverride, m.Profile("/interaction_profiles/valve/index_controller").Source)
	})

	t.Run("TwoDocumentsSameSourceFails", func(t *testing.T) {
		_, err := NewModel(testManifest(), []*Document{defaultDoc(), defaultDoc()})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}
