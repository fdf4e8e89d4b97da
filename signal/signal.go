// SPDX-License-Identifier: Unlicense OR MIT

// Package signal implements the compositor's named pub/sub bus
// (spec.md §4.7): a string-keyed registry of C-equivalent Go callbacks
// and scripted Lua callbacks, fired in that order on emit.
package signal

import (
	lua "github.com/yuin/gopher-lua"
)

// Logger is the injectable sink a Bus reports scripted-callback
// failures through (spec.md §7 "captured... error message... logged").
// Native callbacks and Emit itself report nothing. It is the same shape as
// compositor.Logger, declared locally so this package doesn't import
// compositor.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Callback is a C-equivalent (Go-native) listener. payload is the
// component-specific value named in the emitting package's doc comment
// (a *container.Container, a *container.Toplevel, and so on).
type Callback func(payload interface{})

// ScriptedCallback pairs a gopher-lua function with the interpreter
// state it must be called through; Bus never owns or creates an
// *lua.LState itself (that remains the scripting host's job, spec.md
// §6), it only threads the one it's handed back through CallByParam.
type ScriptedCallback struct {
	State *lua.LState
	Fn    *lua.LFunction
}

// Handle identifies one native-callback subscription, returned by
// Connect so Disconnect doesn't need to compare Go func values (which
// is not possible beyond nil-ness). This is the handle-based membership
// the rest of the core uses in place of intrusive lists.
type Handle uint64

type nativeSub struct {
	handle Handle
	fn     Callback
}

// entry holds every listener registered for one signal name.
type entry struct {
	native   []nativeSub
	scripted []ScriptedCallback
}

// Bus is the SignalBus of spec.md §4.7. Entries are never removed from
// the underlying map once a name has been connected to, even after
// every listener on it unsubscribes — matching the source's "cheap and
// avoids re-hash churn" rationale. The zero value is not usable;
// construct with NewBus.
type Bus struct {
	entries map[string]*entry
	nextID  Handle
	logger  Logger
}

// NewBus returns a ready-to-use Bus. logger may be nil, in which case a
// scripted callback failure is silently dropped, matching the bus's
// previous behavior.
func NewBus(logger Logger) *Bus {
	return &Bus{entries: make(map[string]*entry), logger: logger}
}

func (b *Bus) entryFor(name string) *entry {
	e, ok := b.entries[name]
	if !ok {
		e = &entry{}
		b.entries[name] = e
	}
	return e
}

// Connect subscribes fn to name, appending to the existing listener
// list if one is already registered, and returns a Handle Disconnect
// can later use to remove just this subscription.
func (b *Bus) Connect(name string, fn Callback) Handle {
	b.nextID++
	h := b.nextID
	e := b.entryFor(name)
	e.native = append(e.native, nativeSub{handle: h, fn: fn})
	return h
}

// Disconnect removes the native subscription h from name. The entry
// for name itself is left in place even if this empties it, so the
// name survives after its last unsubscribe.
func (b *Bus) Disconnect(name string, h Handle) {
	e, ok := b.entries[name]
	if !ok {
		return
	}
	kept := e.native[:0]
	for _, sub := range e.native {
		if sub.handle != h {
			kept = append(kept, sub)
		}
	}
	e.native = kept
}

// ConnectScripted subscribes a Lua function, called through state, to
// name.
func (b *Bus) ConnectScripted(name string, state *lua.LState, fn *lua.LFunction) {
	e := b.entryFor(name)
	e.scripted = append(e.scripted, ScriptedCallback{State: state, Fn: fn})
}

// DisconnectScripted removes every scripted callback registered against
// fn (by pointer identity) from name.
func (b *Bus) DisconnectScripted(name string, fn *lua.LFunction) {
	e, ok := b.entries[name]
	if !ok {
		return
	}
	kept := e.scripted[:0]
	for _, sc := range e.scripted {
		if sc.Fn != fn {
			kept = append(kept, sc)
		}
	}
	e.scripted = kept
}

// Emit fires name's native callbacks in registration order, then its
// scripted callbacks, each receiving payload as their sole Lua argument
// via ToLValue. A scripted call that errors is swallowed: the core
// treats scripting-host panics as e.g. a logged event, never a reason
// to abort emission to the remaining listeners (spec.md §5 re-entrancy:
// emit points are documented terminal, not resumable).
func (b *Bus) Emit(name string, payload interface{}) {
	e, ok := b.entries[name]
	if !ok {
		return
	}
	for _, sub := range e.native {
		sub.fn(payload)
	}
	if len(e.scripted) == 0 {
		return
	}
	arg := ToLValue(payload)
	for _, sc := range e.scripted {
		b.callScripted(name, sc, arg)
	}
}

// EmitVarargs is emit_varargs from spec.md §4.7: a convenience for
// multi-argument scripted payloads. Native callbacks still see the
// single native payload value (there is no multi-arg native signal in
// this core); scripted callbacks receive args positionally.
func (b *Bus) EmitVarargs(name string, payload interface{}, args ...interface{}) {
	e, ok := b.entries[name]
	if !ok {
		return
	}
	for _, sub := range e.native {
		sub.fn(payload)
	}
	if len(e.scripted) == 0 {
		return
	}
	lvals := make([]lua.LValue, len(args))
	for i, a := range args {
		lvals[i] = ToLValue(a)
	}
	for _, sc := range e.scripted {
		b.callScriptedVarargs(name, sc, lvals)
	}
}

// callScripted invokes sc against arg, logging (not propagating) any
// error CallByParam returns — a scripting-host panic or runtime error is
// a logged event, never a reason to abort emission to the remaining
// listeners (spec.md §5 re-entrancy).
func (b *Bus) callScripted(name string, sc ScriptedCallback, arg lua.LValue) {
	if sc.State == nil || sc.Fn == nil {
		return
	}
	if err := sc.State.CallByParam(lua.P{
		Fn:      sc.Fn,
		NRet:    0,
		Protect: true,
	}, arg); err != nil {
		b.logError(name, err)
	}
}

func (b *Bus) callScriptedVarargs(name string, sc ScriptedCallback, args []lua.LValue) {
	if sc.State == nil || sc.Fn == nil {
		return
	}
	if err := sc.State.CallByParam(lua.P{
		Fn:      sc.Fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		b.logError(name, err)
	}
}

func (b *Bus) logError(name string, err error) {
	if b.logger != nil {
		b.logger.Printf("signal %q: scripted callback error: %v", name, err)
	}
}

// ToLValue converts a native payload into the Lua value scripted
// listeners receive. Anything that isn't one of the recognized scalar
// kinds is wrapped in a *lua.LUserData so scripted code can still pass
// it back into core-exposed functions that expect that handle.
func ToLValue(payload interface{}) lua.LValue {
	switch v := payload.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	default:
		ud := lua.LUserData{Value: payload}
		return &ud
	}
}
