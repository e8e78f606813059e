package engine

import (
	"path/filepath"
	"testing"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	assert.Equal(t, sdl.Color{R: 10, G: 20, B: 30, A: 255}, ParseColor("10,20,30"))
	assert.Equal(t, sdl.Color{R: 10, G: 20, B: 30, A: 40}, ParseColor("10,20,30,40"))
	assert.Equal(t, sdl.Color{R: 10, G: 20, B: 30, A: 0}, ParseColor("10,20,30,0"))
	assert.Equal(t, sdl.Color{}, ParseColor(""))
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)

	cfg := DefaultConfig()
	cfg.SettingsFile = "lab.json"
	cfg.OutputDir = "/data/msbias"
	cfg.DLPDevice = "/dev/ttyUSB0"
	cfg.ScreenWidth, cfg.ScreenHeight = 2560, 1440
	cfg.Fullscreen = true
	cfg.Testing = true
	cfg.MouseGaze = true
	cfg.Participant = 12
	cfg.BGColor = sdl.Color{R: 1, G: 2, B: 3, A: 255}
	cfg.SaveCacheTo(path)

	got := DefaultConfig()
	got.LoadCacheFrom(path)

	assert.Equal(t, "lab.json", got.SettingsFile)
	assert.Equal(t, "/data/msbias", got.OutputDir)
	assert.Equal(t, "/dev/ttyUSB0", got.DLPDevice)
	assert.Equal(t, 2560, got.ScreenWidth)
	assert.Equal(t, 1440, got.ScreenHeight)
	assert.True(t, got.Fullscreen)
	assert.True(t, got.Testing)
	assert.True(t, got.MouseGaze)
	assert.False(t, got.SkipPractice)
	assert.Equal(t, cfg.BGColor, got.BGColor)
	assert.Zero(t, got.Participant, "participant is asked for every run")
}

func TestLoadCacheMissingFileKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadCacheFrom(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "participant missing")

	cfg.Participant = 1
	require.Error(t, cfg.Validate(), "age missing")

	cfg.Age = 30
	require.NoError(t, cfg.Validate())

	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate())
}

func TestParseSetup(t *testing.T) {
	cfg := DefaultConfig()
	assert.EqualError(t, parseSetup(cfg, "", "20"), "enter a participant number")
	assert.EqualError(t, parseSetup(cfg, "4", "0"), "enter the participant's age")

	require.NoError(t, parseSetup(cfg, "4", "21"))
	assert.Equal(t, 4, cfg.Participant)
	assert.Equal(t, 21, cfg.Age)
}
