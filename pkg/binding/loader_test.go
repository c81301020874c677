package binding

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testerpester2/xrizer/pkg/backend"
)

func TestLoadManifest(t *testing.T) {
	man, err := LoadManifest(filepath.Join("testdata", "action_manifest.json"))
	require.NoError(t, err)
	assert.Len(t, man.Sets, 2)
	assert.Len(t, man.Actions, 7)
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument(filepath.Join("testdata", "bindings", "bindings_knuckles.json"), SourceDefault)
	require.NoError(t, err)
	assert.Equal(t, "knuckles", doc.ControllerType)

	byAction := make(map[string]Entry)
	for _, e := range doc.Entries {
		byAction[e.Action] = e
	}

	fire := byAction["/actions/main/in/fire"]
	assert.Equal(t, backend.RoleRight, fire.Role)
	assert.Equal(t, "/input/trigger/click", fire.Component)
	assert.Equal(t, "button", fire.Mode)

	// "position" addresses the 2D component itself, no suffix.
	move := byAction["/actions/main/in/move"]
	assert.Equal(t, "/input/thumbstick", move.Component)

	hand := byAction["/actions/main/in/hand_left"]
	assert.Equal(t, backend.RoleLeft, hand.Role)
	assert.Equal(t, "/input/grip/pose", hand.Component)
	assert.Equal(t, "pose", hand.Mode)

	haptic := byAction["/actions/main/out/haptic_left"]
	assert.Equal(t, "/output/haptic", haptic.Component)
	assert.Equal(t, "haptic", haptic.Mode)

	menu := byAction["/actions/ui/in/menu"]
	assert.Equal(t, backend.RoleAny, menu.Role)
	assert.Equal(t, "/input/b/click", menu.Component)
}

func TestLoadDocumentSchemaViolation(t *testing.T) {
	_, err := LoadDocument(filepath.Join("testdata", "bad", "bindings_broken.json"), SourceDefault)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoad(t *testing.T) {
	manifest := filepath.Join("testdata", "action_manifest.json")
	defaults := filepath.Join("testdata", "bindings")

	t.Run("DefaultsOnly", func(t *testing.T) {
		m, err := Load(manifest, defaults, "")
		require.NoError(t, err)

		pb := m.Profile("/interaction_profiles/valve/index_controller")
		require.NotNil(t, pb)
		assert.Equal(t, SourceDefault, pb.Source)

		b := pb.ForComponent(backend.RoleRight, "/input/trigger/click")
		require.NotNil(t, b)
		assert.Equal(t, "/actions/main/in/fire", b.Action.Name)
	})

	t.Run("OverrideDirectoryWins", func(t *testing.T) {
		m, err := Load(manifest, defaults, filepath.Join("testdata", "override"))
		require.NoError(t, err)

		pb := m.Profile("/interaction_profiles/valve/index_controller")
		require.NotNil(t, pb)
		assert.Equal(t, SourceOverride, pb.Source)

		// The override rebinds fire to the A button and drops the rest.
		assert.NotNil(t, pb.ForComponent(backend.RoleRight, "/input/a/click"))
		assert.Nil(t, pb.ForComponent(backend.RoleRight, "/input/trigger/click"))
	})

	t.Run("MissingOverrideDirIsFine", func(t *testing.T) {
		_, err := Load(manifest, defaults, filepath.Join("testdata", "does-not-exist"))
		require.NoError(t, err)
	})
}
