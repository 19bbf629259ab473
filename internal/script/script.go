// Package script runs Lua patch scripts against the rack.
//
// Scripts see three tables:
//
//	rack.connect(out, in) -> cable id or nil
//	rack.disconnect(cable), rack.unplug(in)
//	rack.outputs(), rack.inputs(), rack.cables()
//	rack.sleep(seconds), rack.log(msg)
//
//	synth.note_on(n), synth.note_off(n), synth.all_off()
//	synth.set(name, value), synth.get(name), synth.status()
//
//	reverb.preset(key), reverb.set(name, value), reverb.status()
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
	"github.com/cwbudde/algo-rack/patchbay"
)

var ErrNoModule = errors.New("script: module not available")

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures an Engine.
type Option func(*Engine)

func WithBay(b *patchbay.Bay) Option {
	return func(e *Engine) { e.bay = b }
}

func WithSynth(s *synth.Synth) Option {
	return func(e *Engine) { e.synth = s }
}

func WithReverb(r *reverb.Reverb) Option {
	return func(e *Engine) { e.reverb = r }
}

// WithSleeper replaces the real-time wait behind rack.sleep.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		if s != nil {
			e.sleep = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine binds rack components to Lua. An Engine is not safe for concurrent
// use; each Run uses a fresh interpreter.
type Engine struct {
	bay    *patchbay.Bay
	synth  *synth.Synth
	reverb *reverb.Reverb
	sleep  Sleeper
	logger *slog.Logger
}

// New creates an engine. Modules that are not given are reported as
// errors when a script uses them.
func New(opts ...Option) *Engine {
	e := &Engine{sleep: sleepContext, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// RunString executes Lua source. name is used in error messages.
func (e *Engine) RunString(ctx context.Context, name, src string) error {
	return e.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.LoadString(src)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes a Lua file.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	return e.run(ctx, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (e *Engine) run(ctx context.Context, name string, exec func(*lua.LState) error) error {
	L := e.newState(ctx)
	defer L.Close()

	e.logger.Debug("script started", "script", name)

	err := exec(L)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("script %s: %w", name, ctxErr)
		}
		return fmt.Errorf("script %s: %w", name, err)
	}

	e.logger.Debug("script finished", "script", name)

	return nil
}

func (e *Engine) newState(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	L.SetContext(ctx)

	L.SetGlobal("print", L.NewFunction(e.luaLog))
	L.SetGlobal("rack", e.rackTable(L))
	L.SetGlobal("synth", e.synthTable(L))
	L.SetGlobal("reverb", e.reverbTable(L))

	return L
}

func (e *Engine) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.logger.Info("script", "msg", strings.Join(parts, " "))

	return 0
}

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.NewTable()
	for _, s := range items {
		t.Append(lua.LString(s))
	}

	return t
}

func raise(L *lua.LState, err error) int {
	L.RaiseError("%s", err.Error())
	return 0
}
