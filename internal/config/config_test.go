package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phtn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())

	g, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 1, g.CellCount())
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := writeConfig(t, `
isotope: h3
cooling_step: 1 h
mesh: [0, 2, 2, 0, 2, 2, 0, 2, 1]
outputs:
  gammas: out/gammas.txt
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "h3", cfg.Isotope)
	assert.Equal(t, Scalar("1 h"), cfg.CoolingStep)
	assert.Equal(t, MeshSpec("0 2 2 0 2 2 0 2 1"), cfg.Mesh)
	assert.Equal(t, "out/gammas.txt", cfg.Outputs.Gammas)
	assert.Equal(t, "phtn_sdef", cfg.Outputs.SDEF, "unset keys keep defaults")
	assert.Equal(t, 80, cfg.WrapWidth)

	g, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 4, g.CellCount())
}

func TestLoadNumericCoolingStep(t *testing.T) {
	cfg, err := Load(writeConfig(t, "cooling_step: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, Scalar("3"), cfg.CoolingStep)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"policy": "zero_policy: nothing\n",
		"level":  "log:\n  level: chatty\n",
		"mesh":   "mesh: 0 1 1\n",
		"wrap":   "wrap_width: 5\n",
		"yaml":   "isotope: [\n",
		"list":   "mesh: [0, x, 1, 0, 1, 1, 0, 1, 1]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
