package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[engine]
frame_rate = "20ms"
frames = 100

[data]
templates = "levels/1-1.yaml"

[[spawn]]
template = "Goomba"
count = 3

[[spawn]]
template = "Spawner"
id = "spawner"
count = 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Engine.FrameRate)
	assert.Equal(t, 100, cfg.Engine.Frames)
	assert.Equal(t, 64, cfg.Engine.MaxComponents, "unset keys keep their defaults")
	assert.Equal(t, "levels/1-1.yaml", cfg.Data.Templates)
	assert.Equal(t, "scripts", cfg.Data.Scripts)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 320.0, cfg.View.Width)
	require.Len(t, cfg.Spawn, 2)
	assert.Equal(t, SpawnConfig{Template: "Spawner", ID: "spawner", Count: 1}, cfg.Spawn[1])
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"frame rate": "[engine]\nframe_rate = \"0s\"\n",
		"limits":     "[engine]\nmax_systems = 0\n",
		"spawn":      "[[spawn]]\ncount = 2\n",
		"negative":   "[[spawn]]\ntemplate = \"Goomba\"\ncount = -1\n",
		"syntax":     "[engine\n",
		"wrong type": "[engine]\nframes = \"many\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
