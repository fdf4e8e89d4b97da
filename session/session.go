// SPDX-License-Identifier: Unlicense OR MIT

// Package session implements SessionLock (spec.md §4.6): ownership of
// a single active session-lock client, keyboard-focus pinning to its
// lock surface, and suspension of keybinding dispatch for the duration
// of the lock.
package session

import "mosaicwm.dev/mosaic/output"

// Locker is the wire-protocol session-lock resource (external, spec.md
// §6): the client that requested the lock. It is an opaque handle the
// core compares by identity, mirroring container.Surface's treatment
// of wire-protocol resources it doesn't parse.
type Locker interface{}

// LockSurface is the opaque per-output lock-screen surface a Locker
// creates once the lock is granted.
type LockSurface interface{}

// KeyboardFocus is the narrow slice of the seat's keyboard-focus
// machinery SessionLock needs: pin focus to an opaque surface handle,
// or release it back to whatever would otherwise hold it.
type KeyboardFocus interface {
	SetKeyboardFocus(surface interface{})
	ClearKeyboardFocus()
}

// Dispatcher is the narrow slice of input.Keybinds SessionLock
// suspends/resumes; declared locally instead of importing package
// input so a SessionLock can be driven by any keybinding registry
// shaped like one.
type Dispatcher interface {
	SetLocked(locked bool)
}

// Lock is a SessionLock (spec.md §4.6 "owns a single active Locker").
// The zero value is unlocked and ready to use.
type Lock struct {
	locker  Locker
	surface LockSurface

	// lockOutput is the output whose output.NewestFocusVisibleToplevel
	// is consulted to re-select keyboard focus on unlock.
	lockOutput *output.Output

	keyboard   KeyboardFocus
	dispatcher Dispatcher
}

// New returns an unlocked Lock driven through keyboard and dispatcher.
// Either may be nil for tests that don't care about the side effect.
func New(keyboard KeyboardFocus, dispatcher Dispatcher) *Lock {
	return &Lock{keyboard: keyboard, dispatcher: dispatcher}
}

// Locked reports whether a Locker currently holds the lock.
func (l *Lock) Locked() bool { return l.locker != nil }

// Active returns the currently active Locker, or nil if unlocked.
func (l *Lock) Active() Locker { return l.locker }

// Grant installs locker as the active lock, pins keyboard focus to
// surface, and suspends keybinding dispatch. It reports false without
// effect if a different lock is already active — spec.md §4.6 allows
// only one at a time. Granting the same locker that already holds the
// lock (e.g. a second lock-surface creation before unlock) is a no-op
// that reports true.
func (l *Lock) Grant(locker Locker, surface LockSurface, lockOutput *output.Output) bool {
	if l.locker != nil {
		return l.locker == locker
	}
	l.locker = locker
	l.surface = surface
	l.lockOutput = lockOutput
	if l.keyboard != nil {
		l.keyboard.SetKeyboardFocus(surface)
	}
	if l.dispatcher != nil {
		l.dispatcher.SetLocked(true)
	}
	return true
}

// Unlock releases the active lock, resumes keybinding dispatch, and
// re-selects keyboard focus via newest_focus_visible_toplevel on the
// output that held the lock surface (spec.md §4.6). It is a no-op if
// nothing is locked.
func (l *Lock) Unlock() {
	if l.locker == nil {
		return
	}
	l.locker = nil
	l.surface = nil
	if l.dispatcher != nil {
		l.dispatcher.SetLocked(false)
	}
	if l.keyboard != nil {
		l.keyboard.ClearKeyboardFocus()
	}
	if l.lockOutput != nil {
		if next := l.lockOutput.NewestFocusVisibleToplevel(); next != nil {
			l.lockOutput.Focus(next.Container())
			if l.keyboard != nil {
				l.keyboard.SetKeyboardFocus(next.Surface)
			}
		}
	}
	l.lockOutput = nil
}
