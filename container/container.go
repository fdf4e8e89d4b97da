// SPDX-License-Identifier: Unlicense OR MIT

package container

import (
	"image"

	"mosaicwm.dev/mosaic/geom"
	"mosaicwm.dev/mosaic/scene"
	"mosaicwm.dev/mosaic/tag"
)

// Emitter is the narrow slice of signal.Bus that Container needs: fire a
// named signal with a payload. It lets this package emit
// container::*/client::* signals (spec.md §4.7) without importing the
// signal package.
type Emitter interface {
	Emit(name string, payload interface{})
}

// OutputBinding is the non-owning back-reference a Container holds to
// its Output (spec.md §3 Ownership). It exposes only what Container
// itself needs: the current view selectors (for unminimize snap-back and
// visibility) and the output's rectangles (for fullscreen/centering).
type OutputBinding interface {
	ActiveWorkspace() int
	ActiveTag() tag.Bitfield
	Geometry() image.Rectangle
	UsableArea() image.Rectangle
}

// Container is the unit of tiling: a rectangle that groups one or more
// client Toplevels in a front-to-back stack, with a decorative Border.
// Container never contains zero toplevels except transiently inside
// Remove.
type Container struct {
	Rect        image.Rectangle
	FloatingBox image.Rectangle
	Border      Border
	Workspace   int
	Tags        tag.Bitfield
	Opacity     float64

	// BspLeaf is the BSP leaf handle this container occupies on its
	// workspace's BSP tree, or nil if it has never been inserted into one
	// or a move to another workspace removed it. While the container is
	// floating/fullscreen/maximized/minimized the leaf is kept, disabled.
	BspLeaf BspNode

	toplevels []*Toplevel
	state     State

	tree      scene.Tree
	root      scene.Node
	popupRoot scene.Node

	// layer is the fixed scene layer the container's root currently sits
	// under (spec.md §4.5 ontop/above/below); it starts at
	// scene.ToplevelLayer, the ordinary stacking position every mapped
	// container occupies until reparented.
	layer scene.Layer

	output OutputBinding
	emit   Emitter
}

// BspNode is the narrow interface layout.Node satisfies, so this package
// doesn't need to import layout (which would create an import cycle,
// since layout.Tileable is implemented by *Container).
type BspNode interface {
	IsLeaf() bool
	Enabled() bool
}

// New constructs an empty managed Container. tree and emit may be nil
// (scene operations become no-ops and signals aren't emitted); parent is
// the scene node the container's root attaches under.
func New(tree scene.Tree, parent scene.Node, emit Emitter) *Container {
	c := &Container{Opacity: 1, tree: tree, emit: emit, layer: scene.ToplevelLayer}
	if tree != nil {
		c.root = tree.CreateNode(parent)
		c.popupRoot = tree.CreateNode(c.root)
	}
	return c
}

// NewUnmanaged constructs a Container for an override-redirect legacy-X11
// client: it carries the Unmanaged state bit and never joins any output
// list (spec.md §3 Container invariants).
func NewUnmanaged(tree scene.Tree, parent scene.Node) *Container {
	c := New(tree, parent, nil)
	c.state = Unmanaged
	return c
}

func (c *Container) emitSignal(name string, payload interface{}) {
	if c.emit != nil {
		c.emit.Emit(name, payload)
	}
}

// State returns the container's current state bitfield.
func (c *Container) State() State { return c.state }

// Unmanaged reports whether the container is an override-redirect
// client excluded from tiling, focus stack, and container lists.
func (c *Container) Unmanaged() bool { return c.state.Has(Unmanaged) }

// SetOutput binds the container's non-owning Output back-reference.
func (c *Container) SetOutput(ob OutputBinding) { c.output = ob }

// Toplevels returns the container's ordered toplevel stack, front at
// the tail (scene order), as a read-only slice.
func (c *Container) Toplevels() []*Toplevel {
	return c.toplevels
}

// Front returns the front (last) toplevel, or nil if the container is
// momentarily empty.
func (c *Container) Front() *Toplevel {
	if len(c.toplevels) == 0 {
		return nil
	}
	return c.toplevels[len(c.toplevels)-1]
}

// Insert appends t to the toplevel stack and attaches its surface tree
// above any existing toplevel but below the popup subtree. It is a
// silent no-op if either side is unmanaged.
func (c *Container) Insert(t *Toplevel) {
	if c.Unmanaged() || t == nil {
		return
	}
	t.container = c
	c.toplevels = append(c.toplevels, t)
	if c.tree != nil {
		node := c.tree.CreateNode(c.root)
		t.sceneNode = node
	}
	c.applySize()
	c.emitSignal("container::insert", c)
}

// Remove detaches t from the container. If destroyOnEmpty is true and
// the container becomes empty, Remove destroys the container (emitting
// container::destroy) after emitting container::remove; callers that
// need the non-destroying variant (used during Swap) pass false.
func (c *Container) Remove(t *Toplevel, destroyOnEmpty bool) (destroyed bool) {
	idx := -1
	for i, tl := range c.toplevels {
		if tl == t {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	c.toplevels = append(c.toplevels[:idx], c.toplevels[idx+1:]...)
	t.container = nil
	c.emitSignal("container::remove", t)
	if len(c.toplevels) == 0 {
		c.applySize()
		if destroyOnEmpty {
			c.emitSignal("container::destroy", c)
			return true
		}
		return false
	}
	c.applySize()
	return false
}

// SetFront promotes t above all siblings in scene order, disabling the
// scene trees of every other toplevel, then re-applies the container's
// size. It does not change the minimized state of the other toplevels.
// It is idempotent.
func (c *Container) SetFront(t *Toplevel) {
	idx := -1
	for i, tl := range c.toplevels {
		if tl == t {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	c.toplevels = append(c.toplevels[:idx], c.toplevels[idx+1:]...)
	c.toplevels = append(c.toplevels, t)
	for _, tl := range c.toplevels {
		if c.tree != nil && tl.sceneNode != nil {
			c.tree.SetEnabled(tl.sceneNode, tl == t)
		}
	}
	c.applySize()
}

// FocusIdx cyclically advances which toplevel is front by n (negative
// moves backward) and promotes it via SetFront. n == 0 is a no-op.
func (c *Container) FocusIdx(n int) {
	count := len(c.toplevels)
	if n == 0 || count == 0 {
		return
	}
	cur := count - 1 // front is always at the tail
	next := ((cur+n)%count + count) % count
	c.SetFront(c.toplevels[next])
}

func (c *Container) applySize() {
	for _, t := range c.toplevels {
		if c.tree != nil && t.sceneNode != nil {
			c.tree.SetPosition(t.sceneNode, c.Rect.Min.X, c.Rect.Min.Y)
		}
	}
}

// configureAllowed reports whether the container currently accepts a
// layout-driven or client-driven geometry change: not fullscreen, not
// maximized.
func (c *Container) configureAllowed() bool {
	return !c.state.Has(Fullscreen) && !c.state.Has(Maximized)
}

// ConfigureAllowed implements layout.Tileable.
func (c *Container) ConfigureAllowed() bool { return c.configureAllowed() }

// SetSize updates the container rectangle's size and every contained
// toplevel's surface clip. If the container allows configuration and is
// laid out freely, the new rect is also saved as FloatingBox.
func (c *Container) SetSize(w, h int) {
	next := image.Rectangle{Min: c.Rect.Min, Max: c.Rect.Min.Add(image.Pt(w, h))}
	next = geom.Clamp(next)
	c.Rect = next
	c.applySize()
	if c.configureAllowed() && c.state.Has(Floating) {
		c.FloatingBox = c.Rect
	}
}

// SetPosition updates the container rectangle's origin.
func (c *Container) SetPosition(x, y int) {
	size := c.Rect.Size()
	c.Rect = image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y).Add(size)}
	c.applySize()
	if c.configureAllowed() && c.state.Has(Floating) {
		c.FloatingBox = c.Rect
	}
}

// SetPositionGap is SetPosition offset inward by gap on the edges the
// layout engine has already accounted for; it implements
// layout.Tileable.
func (c *Container) SetPositionGap(x, y, gap int) {
	c.SetPosition(x+gap, y+gap)
}

// SetGeometry is the client-requested entry point for a combined
// move+resize. Per the Open Question resolution in spec.md §9, it
// forwards (box.Dx(), box.Dy()) to SetSize — not (box.Min.X, box.Min.Y),
// which was the source's bug.
func (c *Container) SetGeometry(box image.Rectangle) {
	c.SetPosition(box.Min.X, box.Min.Y)
	c.SetSize(box.Dx(), box.Dy())
}

// SetFloating enables or disables free-form layout. Disallowed (no-op)
// while fullscreen or maximized. setBspEnabled, if non-nil, is called to
// disable (enabling=true) or re-enable (enabling=false) the container's
// existing BSP leaf; bspInsert is called instead when disabling float
// with no existing leaf on a BSP workspace. Both callbacks close over
// the owning Output's layout.Tree, which this package cannot reference
// directly (see BspNode).
func (c *Container) SetFloating(floating bool, bspInsert func() BspNode, setBspEnabled func(bool)) {
	if !c.configureAllowed() {
		return
	}
	if floating {
		c.Rect = c.FloatingBox
		if setBspEnabled != nil {
			setBspEnabled(false)
		}
		c.state |= Floating
		c.applySize()
		return
	}
	c.state &^= Floating
	if c.BspLeaf != nil && setBspEnabled != nil {
		setBspEnabled(true)
	} else if c.BspLeaf == nil && bspInsert != nil {
		c.BspLeaf = bspInsert()
	}
	c.emitSignal("client::property::floating", c)
}

// SetFullscreen enables or disables fullscreen. Enabling saves the
// current geometry into FloatingBox (if floating) and disables any BSP
// leaf; disabling restores geometry or re-enables the BSP leaf.
// Fullscreen and Maximized are mutually exclusive. Border is hidden
// while fullscreen (spec.md §4.1) and restored on exit unless the
// container is still maximized. Forwards intent to every contained
// toplevel and emits client::property::fullscreen for the front
// toplevel only.
func (c *Container) SetFullscreen(fullscreen bool, setBspEnabled func(bool)) {
	if fullscreen == c.state.Has(Fullscreen) {
		return
	}
	if fullscreen {
		if c.state.Has(Floating) {
			c.FloatingBox = c.Rect
		}
		if setBspEnabled != nil {
			setBspEnabled(false)
		}
		c.state &^= Maximized
		c.state |= Fullscreen
		c.Border.Enabled = false
		if c.output != nil {
			c.Rect = c.output.Geometry()
			c.applySize()
		}
	} else {
		c.state &^= Fullscreen
		if !c.state.Has(Maximized) {
			c.Border.Enabled = true
		}
		if c.state.Has(Floating) {
			c.Rect = c.FloatingBox
			c.applySize()
		} else if setBspEnabled != nil {
			setBspEnabled(true)
		}
	}
	for _, t := range c.toplevels {
		t.Requested.Fullscreen = fullscreen
	}
	if front := c.Front(); front != nil {
		c.emitSignal("client::property::fullscreen", front)
	}
}

// SetMaximized is SetFullscreen's sibling; see spec.md §4.1. Border is
// likewise hidden while maximized and restored on exit unless the
// container is still fullscreen.
func (c *Container) SetMaximized(maximized bool, setBspEnabled func(bool)) {
	if maximized == c.state.Has(Maximized) {
		return
	}
	if maximized {
		if c.state.Has(Floating) {
			c.FloatingBox = c.Rect
		}
		if setBspEnabled != nil {
			setBspEnabled(false)
		}
		c.state &^= Fullscreen
		c.state |= Maximized
		c.Border.Enabled = false
		if c.output != nil {
			c.Rect = c.output.UsableArea()
			c.applySize()
		}
	} else {
		c.state &^= Maximized
		if !c.state.Has(Fullscreen) {
			c.Border.Enabled = true
		}
		if c.state.Has(Floating) {
			c.Rect = c.FloatingBox
			c.applySize()
		} else if setBspEnabled != nil {
			setBspEnabled(true)
		}
	}
	for _, t := range c.toplevels {
		t.Requested.Maximized = maximized
	}
	if front := c.Front(); front != nil {
		c.emitSignal("client::property::maximized", front)
	}
}

// RefreshMaximizedGeometry re-reads the output's usable area into a
// currently-maximized container's rect. Callers (Output.Arrange) use
// this after a layer-shell exclusive-zone change instead of toggling
// SetMaximized off and on, since maximized geometry tracks usable_area
// rather than a fixed saved rect. It is a no-op unless Maximized is set.
func (c *Container) RefreshMaximizedGeometry() {
	if !c.state.Has(Maximized) || c.output == nil {
		return
	}
	c.Rect = c.output.UsableArea()
	c.applySize()
}

// SetMinimized toggles scene visibility and minimized-list membership
// (the membership itself is Output's job; this only updates state and
// emits the signal). Per the Open Question in spec.md §9, toward the
// client this is policy: the client-side notification is left as an
// implementation choice, but internal state and the
// client::property::minimized signal always fire. On unminimize the
// container snaps to the output's current active tag/workspace.
func (c *Container) SetMinimized(minimized bool, setBspEnabled func(bool)) {
	if minimized == c.state.Has(Minimized) {
		return
	}
	if minimized {
		c.state |= Minimized
		if setBspEnabled != nil {
			setBspEnabled(false)
		}
		if c.tree != nil && c.root != nil {
			c.tree.SetEnabled(c.root, false)
		}
	} else {
		c.state &^= Minimized
		if c.tree != nil && c.root != nil {
			c.tree.SetEnabled(c.root, true)
		}
		if c.output != nil {
			c.Workspace = c.output.ActiveWorkspace()
			c.Tags = c.output.ActiveTag()
		}
	}
	for _, t := range c.toplevels {
		t.Requested.Minimized = minimized
	}
	if front := c.Front(); front != nil {
		c.emitSignal("client::property::minimized", front)
	}
}

// SetSticky toggles visibility across all tags.
func (c *Container) SetSticky(sticky bool) {
	if sticky {
		c.state |= Sticky
	} else {
		c.state &^= Sticky
	}
}

// SetOpacity clamps opacity to [0,1] and emits container::opacity.
func (c *Container) SetOpacity(opacity float64) {
	c.Opacity = geom.Clampf01(opacity)
	c.emitSignal("container::opacity", c)
}

// Swap exchanges the full toplevel populations of a and b, preserving
// each container's identity and geometry, and restores each container's
// front toplevel.
func Swap(a, b *Container) {
	if a == nil || b == nil || a == b {
		return
	}
	a.toplevels, b.toplevels = b.toplevels, a.toplevels
	for _, t := range a.toplevels {
		t.container = a
	}
	for _, t := range b.toplevels {
		t.container = b
	}
	a.applySize()
	b.applySize()
	a.emitSignal("container::swap", b)
	b.emitSignal("container::swap", a)
}

// MoveToTag rebinds the container to workspace i (1-based) and the
// corresponding single tag bit. The caller is responsible for the BSP
// unbind/rebind dance (it needs the old and new workspace's Tree, which
// lives on Output, not Container) before/after calling MoveToTag.
func (c *Container) MoveToTag(i int) {
	c.Workspace = i
	c.Tags = tag.Bit(i)
}

// Layer reports the fixed scene layer the container's root currently
// sits under (spec.md §4.5).
func (c *Container) Layer() scene.Layer { return c.layer }

// SetLayer reparents the container's scene subtree to parent and
// records layer, implementing the ontop/above/below/normal container
// commands of spec.md §4.5. parent is the Output's scene node for that
// fixed layer (scene.Top/Above/Below/ToplevelLayer) — Output, not
// Container, owns the per-output subtree roots, since they're shared
// across every container on it. A nil parent or tree is a no-op on the
// scene graph but still records layer, so State-only callers (tests)
// aren't forced to fake a Tree.
func (c *Container) SetLayer(layer scene.Layer, parent scene.Node) {
	if c.tree != nil && c.root != nil && parent != nil {
		c.tree.Reparent(c.root, parent)
	}
	c.layer = layer
}

// Raise moves the container's scene subtree to the top of its parent
// layer.
func (c *Container) Raise() {
	if c.tree != nil && c.root != nil {
		c.tree.RaiseToTop(c.root)
		c.emitSignal("client::raised", c)
	}
}

// Lower moves the container's scene subtree to the bottom of its parent
// layer.
func (c *Container) Lower() {
	if c.tree != nil && c.root != nil {
		c.tree.LowerToBottom(c.root)
		c.emitSignal("client::lowered", c)
	}
}

// Visible reports the container's visibility predicate (spec.md §4.1):
// sticky, or (not minimized and (active workspace matches, or the
// active tag bitfield intersects the container's tag)).
func (c *Container) Visible(activeWorkspace int, activeTag tag.Bitfield) bool {
	if c.state.Has(Sticky) {
		return true
	}
	if c.state.Has(Minimized) {
		return false
	}
	if activeWorkspace == c.Workspace {
		return true
	}
	return activeTag != 0 && activeTag.Intersects(c.Tags)
}
