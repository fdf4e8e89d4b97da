// SPDX-License-Identifier: Unlicense OR MIT

package container

import "mosaicwm.dev/mosaic/scene"

// Kind discriminates the two flavors of client surface a Toplevel can
// wrap. It replaces the source's untagged native/legacy pointer union
// (spec.md §9 REDESIGN FLAGS) with an explicit tag checked by callers
// instead of dereferenced through a shared union field.
type Kind int

const (
	Native Kind = iota
	LegacyX11
)

func (k Kind) String() string {
	if k == LegacyX11 {
		return "legacy-x11"
	}
	return "native"
}

// Surface is the wire-protocol resource handle a Toplevel wraps. The
// core never parses or serializes through it; it is an opaque handle
// supplied by the external wire-protocol server collaborator
// (spec.md §6).
type Surface interface{}

// RequestedState is the client's last-requested intent for
// fullscreen/maximized/minimized. It is advisory: the compositor decides
// the actual state via Container's set_fullscreen/set_maximized/
// set_minimized.
type RequestedState struct {
	Fullscreen bool
	Maximized  bool
	Minimized  bool
}

// Listener receives lifecycle notifications for a Toplevel. Any of its
// methods may be nil-receiver-safe no-ops if the embedder doesn't care;
// Toplevel calls them synchronously from the event-loop thread.
type Listener interface {
	OnMap(*Toplevel)
	OnUnmap(*Toplevel)
	OnDestroy(*Toplevel)
}

// Toplevel is a client application window: either a Native wire-protocol
// surface or a LegacyX11 one, at all times owned by at most one
// Container. The wire-protocol resource triggers Toplevel's destruction;
// the owning Container arranges it but does not own it.
type Toplevel struct {
	Kind      Kind
	Surface   Surface
	Requested RequestedState

	// Parent is set for popups/transient toplevels and feeds the
	// should-float heuristic (spec.md §4.8 step 3).
	Parent *Toplevel
	// MinMaxEqual reports whether min size == max size in either
	// dimension, the second should-float trigger.
	MinMaxEqual bool
	// Modal is set for legacy-X11 toplevels that announced themselves
	// modal, the third should-float trigger.
	Modal bool

	listener Listener

	container *Container
	sceneNode scene.Node
	mapped    bool
}

// NewToplevel constructs an unmapped Toplevel. listener may be nil.
func NewToplevel(kind Kind, surface Surface, listener Listener) *Toplevel {
	return &Toplevel{Kind: kind, Surface: surface, listener: listener}
}

// Mapped reports whether the toplevel is currently mapped.
func (t *Toplevel) Mapped() bool { return t.mapped }

// SetMapped updates the mapped flag and fires the matching lifecycle
// notification. It is exported for Output.Map/Unmap to drive.
func (t *Toplevel) SetMapped(mapped bool) {
	if mapped == t.mapped {
		return
	}
	t.mapped = mapped
	if mapped {
		t.notifyMap()
	} else {
		t.notifyUnmap()
	}
}

// Destroy fires the destroy notification. Per spec.md §3, destroy is the
// only operation a fully unmapped Toplevel still accepts.
func (t *Toplevel) Destroy() {
	t.notifyDestroy()
}

// Container returns the toplevel's current container, or nil.
func (t *Toplevel) Container() *Container { return t.container }

// ShouldFloat applies the should-float heuristic from spec.md §4.8 step
// 3: true iff the toplevel has a parent, or its min size equals its max
// size in either dimension, or it is a modal legacy-X11 toplevel.
func (t *Toplevel) ShouldFloat() bool {
	if t.Parent != nil {
		return true
	}
	if t.MinMaxEqual {
		return true
	}
	if t.Kind == LegacyX11 && t.Modal {
		return true
	}
	return false
}

// IsX11 reports whether the toplevel wraps a legacy-X11 surface. It
// replaces the source's "is_x11" pointer-union check (spec.md §9) with a
// direct tag comparison.
func (t *Toplevel) IsX11() bool { return t.Kind == LegacyX11 }

func (t *Toplevel) notifyMap() {
	if t.listener != nil {
		t.listener.OnMap(t)
	}
}

func (t *Toplevel) notifyUnmap() {
	if t.listener != nil {
		t.listener.OnUnmap(t)
	}
}

func (t *Toplevel) notifyDestroy() {
	if t.listener != nil {
		t.listener.OnDestroy(t)
	}
}
