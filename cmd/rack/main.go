// Command rack runs the patch bay, the polyphonic synth and the reverb in a
// terminal.
//
// Usage:
//
//	rack [flags]
//
// Settings come from the environment (RACK_*), optionally loaded from a
// .env file, and are overridden by flags.
//
// Examples:
//
//	rack
//	rack -voices 8 -preset cathedral
//	rack -headless -script patch.lua
//	rack -midi-backend none
//	rack -list-midi
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/cwbudde/algo-rack/device"
	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/internal/config"
	"github.com/cwbudde/algo-rack/internal/rack"
	"github.com/cwbudde/algo-rack/internal/script"
	"github.com/cwbudde/algo-rack/midiin"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command line. Zero values leave the config untouched.
type options struct {
	envFile  string
	listMIDI bool
}

func parseFlags(args []string, cfg *config.Config, out io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("rack", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.envFile, "env", "", "load settings from this .env file (default ./.env)")
	fs.BoolVar(&opts.listMIDI, "list-midi", false, "list MIDI input ports and exit")
	fs.Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	fs.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "render block size in frames")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "discard audio instead of opening the sound card")
	fs.IntVar(&cfg.Voices, "voices", cfg.Voices, "synth polyphony")
	fs.StringVar(&cfg.ReverbPreset, "preset", cfg.ReverbPreset, "initial reverb preset")
	fs.StringVar(&cfg.MIDIBackend, "midi-backend", cfg.MIDIBackend, "MIDI backend: gomidi, portmidi or none")
	fs.StringVar(&cfg.MIDIIn, "midi-in", cfg.MIDIIn, "MIDI input port name (substring match)")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "Lua patch script to run at startup")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: rack [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Plays a polyphonic synth through a convolution reverb.\n")
		fmt.Fprintf(fs.Output(), "Keys a-; play notes, z/x shift octaves, 1 patches the reverb,\n")
		fmt.Fprintf(fs.Output(), "2 cycles presets, Esc cancels patching, q quits.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	return opts, fs.Parse(args)
}

// loadConfig applies .env, the environment and then the flags, in that
// order of increasing precedence.
func loadConfig(args []string) (*config.Config, options, error) {
	// the .env path is itself a flag, so a silent first pass finds it;
	// the second pass reports errors
	peek, _ := parseFlags(args, config.LoadFrom(func(string) string { return "" }), io.Discard)

	var paths []string
	if peek.envFile != "" {
		paths = append(paths, peek.envFile)
	}
	err := config.LoadEnvFile(paths...)
	if err != nil {
		return nil, options{}, err
	}

	cfg := config.Load()
	opts, err := parseFlags(args, cfg, os.Stderr)
	if err != nil {
		return nil, options{}, err
	}

	return cfg, opts, cfg.Validate()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h)
}

func run(args []string) error {
	cfg, opts, err := loadConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)

	if opts.listMIDI {
		return listMIDI(os.Stdout, cfg.MIDIBackend)
	}

	devOpts := []device.Option{
		device.WithProcessorOptions(core.WithSampleRate(cfg.SampleRate), core.WithBlockSize(cfg.BlockSize)),
		device.WithLogger(logger),
	}
	if cfg.Headless {
		devOpts = append(devOpts, device.WithSinkFactory(func(pc core.ProcessorConfig, _ *slog.Logger) (device.Sink, error) {
			return device.NewNullSink(pc.SampleRate, 10*time.Millisecond), nil
		}))
	}
	dev := device.New(devOpts...)
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("closing audio device", "err", err)
		}
	}()

	r, err := rack.New(dev.Context(),
		rack.WithVoices(cfg.Voices),
		rack.WithReverbPreset(cfg.ReverbPreset),
		rack.WithLogger(logger))
	if err != nil {
		return err
	}
	defer r.Close()

	err = dev.Resume()
	if err != nil {
		return fmt.Errorf("start audio: %w", err)
	}
	logger.Info("audio running",
		"sample_rate", cfg.SampleRate,
		"block_size", cfg.BlockSize,
		"voices", cfg.Voices,
		"headless", cfg.Headless)

	in, err := midiin.Open(cfg.MIDIBackend, cfg.MIDIIn, r.Synth, midiin.WithLogger(logger))
	if err != nil {
		// keyboard play still works without a controller
		logger.Warn("MIDI input disabled", "backend", cfg.MIDIBackend, "err", err)
	} else {
		defer in.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Script != "" {
		eng := script.New(
			script.WithBay(r.Bay),
			script.WithSynth(r.Synth),
			script.WithReverb(r.Reverb),
			script.WithLogger(logger))
		go func() {
			err := eng.RunFile(ctx, cfg.Script)
			if err != nil && ctx.Err() == nil {
				logger.Error("patch script failed", "err", err)
			}
		}()
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		logger.Info("stdin is not a terminal, running until interrupted")
		<-ctx.Done()
		return nil
	}

	return runTerminal(ctx, fd, r, logger)
}

func listMIDI(w io.Writer, backend string) error {
	var (
		ports []string
		err   error
	)
	switch backend {
	case midiin.BackendPortMIDI:
		ports, err = midiin.PortMIDIPorts()
	case midiin.BackendNone:
	default:
		ports = midiin.Ports()
	}
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no MIDI input ports")
		return nil
	}
	for i, p := range ports {
		fmt.Fprintf(w, "%d\t%s\n", i, p)
	}

	return nil
}
