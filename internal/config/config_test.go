package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := LoadFrom(lookup(nil))
	assert.Equal(t, &Config{
		SampleRate:   44100,
		BlockSize:    128,
		Voices:       4,
		ReverbPreset: "smallRoom",
		MIDIBackend:  "gomidi",
		LogLevel:     "info",
	}, c)
	require.NoError(t, c.Validate())
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestFromDotEnv(t *testing.T) {
	t.Parallel()

	vars, err := godotenv.Unmarshal(`
# rack settings
RACK_SAMPLE_RATE=48000
RACK_BLOCK_SIZE=256
RACK_VOICES=8
RACK_HEADLESS=true
RACK_MIDI_BACKEND=portmidi
RACK_MIDI_IN="KeyStep 37"
RACK_REVERB_PRESET=cathedral
RACK_SCRIPT=patches/demo.lua
RACK_LOG_LEVEL=debug
`)
	require.NoError(t, err)

	c := LoadFrom(lookup(vars))
	require.NoError(t, c.Validate())
	assert.InDelta(t, 48000, c.SampleRate, 0)
	assert.Equal(t, 256, c.BlockSize)
	assert.Equal(t, 8, c.Voices)
	assert.True(t, c.Headless)
	assert.Equal(t, "portmidi", c.MIDIBackend)
	assert.Equal(t, "KeyStep 37", c.MIDIIn)
	assert.Equal(t, "cathedral", c.ReverbPreset)
	assert.Equal(t, "patches/demo.lua", c.Script)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
}

func TestUnparsableNumbersFallBack(t *testing.T) {
	t.Parallel()

	c := LoadFrom(lookup(map[string]string{
		"RACK_SAMPLE_RATE": "fast",
		"RACK_VOICES":      "many",
		"RACK_HEADLESS":    "maybe",
	}))
	assert.InDelta(t, 44100, c.SampleRate, 0)
	assert.Equal(t, 4, c.Voices)
	assert.False(t, c.Headless)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	c := LoadFrom(lookup(map[string]string{
		"RACK_SAMPLE_RATE":  "1000",
		"RACK_VOICES":       "0",
		"RACK_MIDI_BACKEND": "alsa",
		"RACK_LOG_LEVEL":    "chatty",
	}))

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"sample rate", "voices", "midi backend", "log level"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rack.env")
	require.NoError(t, os.WriteFile(path, []byte("RACK_TEST_ONLY_VOICES=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("RACK_TEST_ONLY_VOICES") })

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "7", os.Getenv("RACK_TEST_ONLY_VOICES"))
}
