// Package config reads the rack host configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds the host settings.
type Config struct {
	// Audio
	SampleRate float64
	BlockSize  int
	Headless   bool // render into a null sink instead of the sound card

	// Modules
	Voices       int
	ReverbPreset string

	// MIDI
	MIDIBackend string // gomidi, portmidi or none
	MIDIIn      string // port name substring, empty for the first port

	Script   string // Lua patch script run at startup
	LogLevel string
}

// LoadEnvFile loads variables from .env files into the process environment
// without overriding variables that are already set. With no paths it reads
// ./.env. A missing file is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	err := godotenv.Load(existing...)
	if err != nil {
		return fmt.Errorf("config: load %s: %w", strings.Join(existing, ", "), err)
	}

	return nil
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Unparsable numbers
// fall back to their defaults; Validate reports out-of-range values.
func LoadFrom(getenv func(string) string) *Config {
	e := env{getenv: getenv}

	return &Config{
		SampleRate:   e.float("RACK_SAMPLE_RATE", 44100),
		BlockSize:    e.int("RACK_BLOCK_SIZE", 128),
		Headless:     e.bool("RACK_HEADLESS", false),
		Voices:       e.int("RACK_VOICES", 4),
		ReverbPreset: e.str("RACK_REVERB_PRESET", "smallRoom"),
		MIDIBackend:  e.str("RACK_MIDI_BACKEND", "gomidi"),
		MIDIIn:       e.str("RACK_MIDI_IN", ""),
		Script:       e.str("RACK_SCRIPT", ""),
		LogLevel:     e.str("RACK_LOG_LEVEL", "info"),
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("%w: sample rate %v", ErrInvalid, c.SampleRate))
	}
	if c.BlockSize < 16 || c.BlockSize > 8192 {
		errs = append(errs, fmt.Errorf("%w: block size %d", ErrInvalid, c.BlockSize))
	}
	if c.Voices < 1 || c.Voices > 32 {
		errs = append(errs, fmt.Errorf("%w: voices %d", ErrInvalid, c.Voices))
	}
	switch c.MIDIBackend {
	case "gomidi", "portmidi", "none":
	default:
		errs = append(errs, fmt.Errorf("%w: midi backend %q", ErrInvalid, c.MIDIBackend))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel returns the log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}

	return l, nil
}

type env struct {
	getenv func(string) string
}

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	v, err := strconv.Atoi(e.str(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func (e env) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e.str(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func (e env) bool(key string, def bool) bool {
	v, err := strconv.ParseBool(e.str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}
