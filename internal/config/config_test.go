package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Canvas.Width = 320
	c.LED.Enabled = true
	c.LED.SPIDev = "/dev/spidev0.0"
	require.NoError(t, Save(path, c))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 30\ncanvas: {width: 100, height: 50}\n"), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, c.FPS)
	assert.Equal(t, 100, c.Canvas.Width)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "calm", c.StartPreset)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 30\naddr: \":9000\"\n"), 0644))
	t.Setenv("WAVECANVAS_FPS", "24")
	t.Setenv("WAVECANVAS_CANVAS_WIDTH", "200")
	t.Setenv("WAVECANVAS_LED_WHITE_CAP", "0.5")
	t.Setenv("WAVECANVAS_PNG_ENABLED", "true")

	c, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 24, c.FPS)
	assert.Equal(t, 200, c.Canvas.Width)
	assert.Equal(t, 0.5, c.LED.WhiteCap)
	assert.True(t, c.PNG.Enabled)
	assert.Equal(t, ":9000", c.Addr)
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("WAVECANVAS_FPS", "fast")
	_, err = Resolve("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Canvas.Width = 0
	c.LED.WhiteCap = 2
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas")
	assert.Contains(t, err.Error(), "white_cap")
}
