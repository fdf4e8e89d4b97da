// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"image"
	"math"

	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/geom"
	"mosaicwm.dev/mosaic/scene"
)

// CursorState is the InputRouter's pointer state machine state
// (spec.md §4.4).
type CursorState int

const (
	Normal CursorState = iota
	Move
	Resize
)

func (s CursorState) String() string {
	switch s {
	case Move:
		return "move"
	case Resize:
		return "resize"
	default:
		return "normal"
	}
}

// Edges is a bitmask of the rectangle edges an interactive resize is
// dragging.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Constraint is the kind of pointer-constraint region currently active.
type Constraint int

const (
	NoConstraint Constraint = iota
	Confined
	Locked
)

// Seat is the wire-protocol seat collaborator (external, spec.md §6)
// that motion events and cursor-image changes are forwarded to.
type Seat interface {
	Motion(delta image.Point)
	SetCursorImage(name string)
	ClearPointerFocus()
}

// HitTester locates the scene node under a point. It is the minimal
// slice of the renderer's scene graph (spec.md §6 "at-point") the
// router needs for Normal-state hover tracking.
type HitTester interface {
	AtPoint(p image.Point) scene.Node
}

// Keyboard is the wire-protocol seat's keyboard-focus collaborator
// (external, spec.md §6) the focus policy notifies on activation
// (spec.md §4.4 step 5 "notify the keyboard enter on the target
// surface"), and that an exclusive-keyboard layer-shell surface pins
// focus through instead.
type Keyboard interface {
	Enter(surface interface{})
	Leave()
}

// HoverNotifier receives a notification as the hovered scene node
// changes during Normal-state pointer motion — the "scene-motion
// focus-change signal" the focus policy suppresses while it runs
// (spec.md §4.4 step 4), to keep a stray in-flight motion handler from
// racing the activate sequence.
type HoverNotifier interface {
	HoverChanged(prev, next scene.Node)
}

// Router is the InputRouter of spec.md §4.4: a single cursor state
// machine per seat, driving interactive move/resize grabs, pointer
// hover/constraint bookkeeping, and owning a ResizeScheduler.
type Router struct {
	state CursorState

	grabTop    *container.Toplevel
	grabOffset image.Point

	resizeEdges   Edges
	resizeInitial image.Rectangle
	resizeOrigin  image.Point
	scheduler     *ResizeScheduler

	hovered          scene.Node
	hoverNotifier    HoverNotifier
	suppressHover    bool
	constraintKind   Constraint
	constraintRegion image.Rectangle
	lastCursor       image.Point

	// focusedSurface is the wire-protocol surface handle currently
	// holding keyboard focus, compared by identity in the focus policy's
	// same-surface no-op check (spec.md §4.4 step 2).
	focusedSurface interface{}

	// pinnedSurface is non-nil while an exclusive focus override is
	// active (spec.md §4.4 "Exclusive focus overrides"): an
	// exclusive-keyboard layer-shell surface. While pinned, the focus
	// policy is a no-op. A SessionLock does not use this pin.
	pinnedSurface interface{}
}

// NewRouter returns a Router whose resize scheduler coalesces to the
// refresh rate hz (see NewResizeScheduler).
func NewRouter(hz int) *Router {
	return &Router{scheduler: NewResizeScheduler(hz)}
}

// State returns the router's current cursor state.
func (r *Router) State() CursorState { return r.state }

// GrabTarget returns the toplevel currently held by an interactive
// move/resize grab, or nil if the router is Normal.
func (r *Router) GrabTarget() *container.Toplevel { return r.grabTop }

// SetHoverNotifier installs n to receive hover-change notifications from
// Normal-state pointer motion.
func (r *Router) SetHoverNotifier(n HoverNotifier) { r.hoverNotifier = n }

// FocusedSurface returns the wire-protocol surface handle currently
// holding keyboard focus, or nil.
func (r *Router) FocusedSurface() interface{} { return r.focusedSurface }

// SetFocusedSurface records surface as the keyboard-focused one, without
// itself notifying any collaborator — the focus policy (compositor.Focus)
// owns the notification sequence.
func (r *Router) SetFocusedSurface(surface interface{}) { r.focusedSurface = surface }

// SetSuppressHover gates whether a hovered-node change during
// Normal-state motion notifies the HoverNotifier (spec.md §4.4 step 4).
func (r *Router) SetSuppressHover(suppress bool) { r.suppressHover = suppress }

// RefreshHover re-evaluates the hovered scene node at the router's last
// known cursor position without any pointer movement (spec.md §4.4 step
// 5 "run one no-motion cursor update"), using hit to locate the node
// under the cursor. It is a no-op outside the Normal state.
func (r *Router) RefreshHover(hit HitTester) {
	if r.state != Normal {
		return
	}
	r.normalMotion(r.lastCursor, hit, nil)
}

// PinFocus installs surface as an exclusive focus override (spec.md
// §4.4 "Exclusive focus overrides"): while pinned, the focus policy is a
// no-op. Used for an exclusive-keyboard layer-shell surface;
// session.Lock pins its lock surface through its own KeyboardFocus
// instead.
func (r *Router) PinFocus(surface interface{}) { r.pinnedSurface = surface }

// UnpinFocus releases a focus pin installed by PinFocus.
func (r *Router) UnpinFocus() { r.pinnedSurface = nil }

// Pinned reports whether an exclusive focus override is currently
// active.
func (r *Router) Pinned() bool { return r.pinnedSurface != nil }

// PinnedSurface returns the surface an exclusive focus override is
// currently pinned to, or nil.
func (r *Router) PinnedSurface() interface{} { return r.pinnedSurface }

// movable reports whether top's container is a legal interactive-grab
// target: floating, not fullscreen/maximized, not unmanaged.
func movable(top *container.Toplevel) bool {
	c := top.Container()
	if c == nil || c.Unmanaged() {
		return false
	}
	st := c.State()
	return st.Has(container.Floating) && !st.Has(container.Fullscreen) && !st.Has(container.Maximized)
}

// StartInteractiveMove begins a Move grab on top if it is movable and
// the router is currently Normal. Returns whether the grab started.
func (r *Router) StartInteractiveMove(top *container.Toplevel, cursor image.Point) bool {
	if r.state != Normal || !movable(top) {
		return false
	}
	c := top.Container()
	r.state = Move
	r.grabTop = top
	r.grabOffset = cursor.Sub(c.Rect.Min)
	return true
}

// StartInteractiveResize begins a Resize grab on top. If edges is 0,
// the dragged edge(s) are inferred from cursor's position within the
// toplevel's geometry box, normalized to [-1,1]² (spec.md §4.4).
func (r *Router) StartInteractiveResize(top *container.Toplevel, cursor image.Point, edges Edges) bool {
	if r.state != Normal || !movable(top) {
		return false
	}
	c := top.Container()
	if edges == 0 {
		nx, ny := geom.Normalize(c.Rect, cursor)
		edges = inferEdges(nx, ny)
	}
	r.state = Resize
	r.grabTop = top
	r.resizeEdges = edges
	r.resizeInitial = c.Rect
	r.resizeOrigin = cursor
	return true
}

// inferEdges maps normalized device coordinates to the dragged edge(s):
// a single edge in the near-center band along the perpendicular axis
// (|n| <= 0.3) paired with an outer band on the axis itself
// (0.4 < |n| <= 1); otherwise a corner, chosen by quadrant sign.
func inferEdges(x, y float64) Edges {
	ax, ay := math.Abs(x), math.Abs(y)
	switch {
	case ax <= 0.3 && ay > 0.4 && ay <= 1:
		if y < 0 {
			return EdgeTop
		}
		return EdgeBottom
	case ay <= 0.3 && ax > 0.4 && ax <= 1:
		if x < 0 {
			return EdgeLeft
		}
		return EdgeRight
	default:
		var e Edges
		if x < 0 {
			e |= EdgeLeft
		} else {
			e |= EdgeRight
		}
		if y < 0 {
			e |= EdgeTop
		} else {
			e |= EdgeBottom
		}
		return e
	}
}

// StopInteractive ends any active grab, returning to Normal. A pending
// scheduled resize rectangle, if any, is flushed first.
func (r *Router) StopInteractive() {
	if r.state == Resize {
		r.scheduler.Flush(r.commitResize)
	}
	r.state = Normal
	r.grabTop = nil
}

func (r *Router) commitResize(rect image.Rectangle) {
	if r.grabTop == nil {
		return
	}
	c := r.grabTop.Container()
	if c == nil {
		return
	}
	c.SetPosition(rect.Min.X, rect.Min.Y)
	c.SetSize(rect.Dx(), rect.Dy())
}

// candidateResizeRect derives the next resize rectangle from cursor,
// enforcing a 1px minimum on both axes (spec.md §4.4).
func (r *Router) candidateResizeRect(cursor image.Point) image.Rectangle {
	delta := cursor.Sub(r.resizeOrigin)
	rect := r.resizeInitial
	if r.resizeEdges&EdgeLeft != 0 {
		rect.Min.X += delta.X
	}
	if r.resizeEdges&EdgeRight != 0 {
		rect.Max.X += delta.X
	}
	if r.resizeEdges&EdgeTop != 0 {
		rect.Min.Y += delta.Y
	}
	if r.resizeEdges&EdgeBottom != 0 {
		rect.Max.Y += delta.Y
	}
	if rect.Max.X-rect.Min.X < 1 {
		if r.resizeEdges&EdgeLeft != 0 {
			rect.Min.X = rect.Max.X - 1
		} else {
			rect.Max.X = rect.Min.X + 1
		}
	}
	if rect.Max.Y-rect.Min.Y < 1 {
		if r.resizeEdges&EdgeTop != 0 {
			rect.Min.Y = rect.Max.Y - 1
		} else {
			rect.Max.Y = rect.Min.Y + 1
		}
	}
	return rect
}

// Motion handles a pointer-motion event according to the router's
// current state (spec.md §4.4 "Motion handling"). hit and seat are
// only consulted in the Normal state.
func (r *Router) Motion(cursor image.Point, hit HitTester, seat Seat) {
	switch r.state {
	case Move:
		c := r.grabTop.Container()
		if c == nil {
			return
		}
		origin := cursor.Sub(r.grabOffset)
		c.SetPosition(origin.X, origin.Y)
	case Resize:
		rect := r.candidateResizeRect(cursor)
		r.scheduler.Schedule(rect, r.commitResize)
	default:
		r.normalMotion(cursor, hit, seat)
	}
}

// SetConstraint installs a pointer constraint over region, active until
// SetConstraint(NoConstraint, ...) or the hovered surface changes.
func (r *Router) SetConstraint(kind Constraint, region image.Rectangle) {
	r.constraintKind = kind
	r.constraintRegion = region
}

func (r *Router) normalMotion(cursor image.Point, hit HitTester, seat Seat) {
	delta := cursor.Sub(r.lastCursor)
	r.lastCursor = cursor

	var node scene.Node
	if hit != nil {
		node = hit.AtPoint(cursor)
	}
	if node != r.hovered {
		if r.constraintKind != NoConstraint {
			r.constraintKind = NoConstraint
		}
		prev := r.hovered
		r.hovered = node
		if !r.suppressHover && r.hoverNotifier != nil {
			r.hoverNotifier.HoverChanged(prev, node)
		}
	}

	if r.constraintKind == Locked {
		return
	}

	if r.constraintKind == Confined {
		clamped := geom.ClampPoint(cursor, r.constraintRegion)
		delta = clamped.Sub(cursor.Sub(delta))
	}

	if node == nil {
		if seat != nil {
			seat.SetCursorImage("default")
			seat.ClearPointerFocus()
		}
		return
	}
	if seat != nil {
		seat.Motion(delta)
	}
}
