package script

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func (e *Engine) rackTable(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"connect":    e.rackConnect,
		"disconnect": e.rackDisconnect,
		"unplug":     e.rackUnplug,
		"outputs":    e.rackOutputs,
		"inputs":     e.rackInputs,
		"cables":     e.rackCables,
		"sleep":      e.rackSleep,
		"log":        e.luaLog,
	})
}

func (e *Engine) requireBay(L *lua.LState) bool {
	if e.bay == nil {
		raise(L, fmt.Errorf("%w: patch bay", ErrNoModule))
		return false
	}
	return true
}

func (e *Engine) rackConnect(L *lua.LState) int {
	out, in := L.CheckString(1), L.CheckString(2)
	if !e.requireBay(L) {
		return 0
	}

	id, ok := e.bay.Connect(out, in)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(id))

	return 1
}

func (e *Engine) rackDisconnect(L *lua.LState) int {
	id := L.CheckString(1)
	if e.requireBay(L) {
		e.bay.Disconnect(id)
	}
	return 0
}

func (e *Engine) rackUnplug(L *lua.LState) int {
	in := L.CheckString(1)
	if e.requireBay(L) {
		e.bay.DisconnectInput(in)
	}
	return 0
}

func (e *Engine) rackOutputs(L *lua.LState) int {
	if !e.requireBay(L) {
		return 0
	}
	L.Push(stringList(L, e.bay.Outputs()))
	return 1
}

func (e *Engine) rackInputs(L *lua.LState) int {
	if !e.requireBay(L) {
		return 0
	}
	L.Push(stringList(L, e.bay.Inputs()))
	return 1
}

func (e *Engine) rackCables(L *lua.LState) int {
	if !e.requireBay(L) {
		return 0
	}

	t := L.NewTable()
	for _, c := range e.bay.Cables() {
		row := L.NewTable()
		row.RawSetString("id", lua.LString(c.ID))
		row.RawSetString("output", lua.LString(c.OutputID))
		row.RawSetString("input", lua.LString(c.InputID))
		t.Append(row)
	}
	L.Push(t)

	return 1
}

func (e *Engine) rackSleep(L *lua.LState) int {
	sec := float64(L.CheckNumber(1))
	if sec <= 0 {
		return 0
	}

	err := e.sleep(L.Context(), time.Duration(sec*float64(time.Second)))
	if err != nil {
		return raise(L, err)
	}

	return 0
}
