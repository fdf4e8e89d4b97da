// SPDX-License-Identifier: Unlicense OR MIT

package input

// Modifiers is a bitmask of held modifier keys: Shift, Ctrl, Alt and
// Super take bits 0..3 in that order.
type Modifiers uint32

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Callback is a keybinding action. Press and release actions are
// separate Callbacks in a Binding.
type Callback func()

// Binding pairs a press action with an optional release action
// (spec.md §4.4 "keybindings"); OnRelease may be nil.
type Binding struct {
	OnPress   Callback
	OnRelease Callback
}

// bindID packs a modifier mask and a keysym/button code into the single
// uint64 the Keybinds registry keys on.
func bindID(mods Modifiers, sym uint32) uint64 {
	return uint64(mods)<<32 | uint64(sym)
}

// VTSwitcher is the optional collaborator that lets Keybinds wire up
// its built-in Ctrl+Alt+F1..F12 virtual-terminal switch bindings. A
// compositor not running on a VT-capable seat (e.g. nested under an
// existing session) can leave this nil.
type VTSwitcher interface {
	SwitchVT(n int) error
}

// vtF1 is the keysym of F1 in the xkb keysyms header; F2..F12 follow
// it contiguously, matching the rest of the function-key row.
const vtF1 = 0xffbe

// Keybinds is the global keybinding registry of spec.md §4.4: a
// map from packed (modifier, keysym) ids to press/release
// callback pairs, suspended in full while a SessionLock is active.
type Keybinds struct {
	bindings map[uint64]Binding
	locked   bool
}

// NewKeybinds returns an empty registry with the built-in VT-switch
// bindings installed if vt is non-nil.
func NewKeybinds(vt VTSwitcher) *Keybinds {
	k := &Keybinds{bindings: make(map[uint64]Binding)}
	k.installBuiltins(vt)
	return k
}

func (k *Keybinds) installBuiltins(vt VTSwitcher) {
	if vt == nil {
		return
	}
	for i := 0; i < 12; i++ {
		n := i + 1
		sym := uint32(vtF1 + i)
		k.Bind(ModCtrl|ModAlt, sym, Binding{OnPress: func() { vt.SwitchVT(n) }})
	}
}

// Bind installs binding for (mods, sym), replacing any existing one.
func (k *Keybinds) Bind(mods Modifiers, sym uint32, binding Binding) {
	k.bindings[bindID(mods, sym)] = binding
}

// Unbind removes the binding for (mods, sym), if any.
func (k *Keybinds) Unbind(mods Modifiers, sym uint32) {
	delete(k.bindings, bindID(mods, sym))
}

// Clear removes every binding, then reinstalls the built-in VT-switch
// bindings if vt is non-nil (spec.md §4.4: VT switching survives a
// user keybinding reset).
func (k *Keybinds) Clear(vt VTSwitcher) {
	k.bindings = make(map[uint64]Binding)
	k.installBuiltins(vt)
}

// SetLocked suspends (true) or resumes (false) dispatch. While locked,
// DispatchPress/DispatchRelease report false without invoking any
// callback — a SessionLock holds this set for its duration.
func (k *Keybinds) SetLocked(locked bool) { k.locked = locked }

// DispatchPress looks up and invokes the OnPress callback for (mods,
// sym), reporting whether a binding existed and dispatch was not
// locked.
func (k *Keybinds) DispatchPress(mods Modifiers, sym uint32) bool {
	if k.locked {
		return false
	}
	b, ok := k.bindings[bindID(mods, sym)]
	if !ok || b.OnPress == nil {
		return false
	}
	b.OnPress()
	return true
}

// DispatchRelease looks up and invokes the OnRelease callback for
// (mods, sym), reporting whether one existed and fired.
func (k *Keybinds) DispatchRelease(mods Modifiers, sym uint32) bool {
	if k.locked {
		return false
	}
	b, ok := k.bindings[bindID(mods, sym)]
	if !ok || b.OnRelease == nil {
		return false
	}
	b.OnRelease()
	return true
}
