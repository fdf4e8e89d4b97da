// SPDX-License-Identifier: Unlicense OR MIT

// Package output implements the physical display sink: the Output type
// that owns per-workspace layout configuration, the focus stack, the
// minimized/containers/visible-hidden partitioning (spec.md §3), the
// layer-shell usable-area computation, and the name-keyed saved-state
// cache that survives a hot-unplug/replug cycle.
package output

import (
	"image"

	"golang.org/x/exp/slices"

	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/layout"
	"mosaicwm.dev/mosaic/scene"
	"mosaicwm.dev/mosaic/tag"
)

// Output is a physical display sink. It satisfies container.OutputBinding
// so every Container it owns can read back the view selectors and
// rectangles it needs without this package importing container's
// internals.
type Output struct {
	Name     string
	geometry image.Rectangle
	usable   image.Rectangle

	toplevels  []*container.Toplevel
	containers []*container.Container
	minimized  []*container.Container
	focus      *FocusStack

	activeTag           tag.Bitfield
	activeWorkspace     int
	maxGeneralWorkspace int

	views [tag.MaxTags]*layout.ViewInfo

	layerClients map[scene.Layer][]scene.LayerClient

	// layerNodes is the renderer-owned scene parent node for each fixed
	// layer a container can be reparented into via Ontop/Above/Below/
	// Normal (spec.md §4.5), keyed by scene.Layer. Populated by the
	// embedder through SetLayerNode; a layer with no registered node
	// makes the corresponding reparent a state-only update.
	layerNodes map[scene.Layer]scene.Node

	restored bool
}

// New returns an Output covering geometry, with workspace 1 active and
// every view defaulting to Master layout.
func New(name string, geometry image.Rectangle) *Output {
	o := &Output{
		Name:                name,
		geometry:            geometry,
		usable:              geometry,
		focus:               NewFocusStack(),
		activeWorkspace:     1,
		activeTag:           tag.Bit(1),
		maxGeneralWorkspace: tag.MaxTags,
		layerClients:        make(map[scene.Layer][]scene.LayerClient),
		layerNodes:          make(map[scene.Layer]scene.Node),
	}
	return o
}

// SetLayerNode registers the renderer-owned scene parent node a
// container is reparented under when moved to layer via
// Ontop/Above/Below/Normal. Pass scene.ToplevelLayer's node to make
// Normal restore containers to the ordinary stacking position.
func (o *Output) SetLayerNode(layer scene.Layer, node scene.Node) {
	o.layerNodes[layer] = node
}

// Ontop implements spec.md §4.5 ontop: reparents c's scene subtree to
// the Top layer, above ordinary toplevels and Above-layer containers.
func (o *Output) Ontop(c *container.Container) {
	c.SetLayer(scene.Top, o.layerNodes[scene.Top])
}

// Above implements spec.md §4.5 above: reparents c to the Above layer.
func (o *Output) Above(c *container.Container) {
	c.SetLayer(scene.Above, o.layerNodes[scene.Above])
}

// Below implements spec.md §4.5 below: reparents c to the Below layer.
func (o *Output) Below(c *container.Container) {
	c.SetLayer(scene.Below, o.layerNodes[scene.Below])
}

// Normal reparents c back to the ordinary toplevel layer, undoing a
// prior Ontop/Above/Below.
func (o *Output) Normal(c *container.Container) {
	c.SetLayer(scene.ToplevelLayer, o.layerNodes[scene.ToplevelLayer])
}

// ActiveWorkspace implements container.OutputBinding.
func (o *Output) ActiveWorkspace() int { return o.activeWorkspace }

// ActiveTag implements container.OutputBinding.
func (o *Output) ActiveTag() tag.Bitfield { return o.activeTag }

// Geometry implements container.OutputBinding.
func (o *Output) Geometry() image.Rectangle { return o.geometry }

// UsableArea implements container.OutputBinding.
func (o *Output) UsableArea() image.Rectangle { return o.usable }

// Restored reports whether this Output was rebound from a SavedState
// cache entry rather than created fresh.
func (o *Output) Restored() bool { return o.restored }

// MaxGeneralWorkspace returns the highest selectable workspace index.
func (o *Output) MaxGeneralWorkspace() int { return o.maxGeneralWorkspace }

// SetMaxGeneralWorkspace clamps n to [1, tag.MaxTags] and stores it.
func (o *Output) SetMaxGeneralWorkspace(n int) {
	if n < 1 {
		n = 1
	} else if n > tag.MaxTags {
		n = tag.MaxTags
	}
	o.maxGeneralWorkspace = n
}

// FocusStack returns the output's MRU focus list.
func (o *Output) FocusStack() *FocusStack { return o.focus }

// Containers returns the output's managed container list, read-only.
func (o *Output) Containers() []*container.Container { return o.containers }

// Minimized returns the output's minimized container list, read-only.
func (o *Output) Minimized() []*container.Container { return o.minimized }

// ViewInfo returns the ViewInfo for workspace w (1-based), lazily
// constructing one on first access. It returns nil for w == 0 (the
// spec's "view none" sentinel, spec.md §8 invariant 2) or any w outside
// [1, tag.MaxTags], rather than indexing out of bounds.
func (o *Output) ViewInfo(w int) *layout.ViewInfo {
	if w < 1 || w > tag.MaxTags {
		return nil
	}
	idx := w - 1
	if o.views[idx] == nil {
		o.views[idx] = layout.NewViewInfo()
	}
	return o.views[idx]
}

func (o *Output) currentView() *layout.ViewInfo {
	return o.ViewInfo(o.activeWorkspace)
}

// AddContainer registers c as belonging to this output: binds its
// OutputBinding back-reference and pushes it onto the focus stack
// (unless unmanaged).
func (o *Output) AddContainer(c *container.Container) {
	c.SetOutput(o)
	o.containers = append(o.containers, c)
	if !c.Unmanaged() {
		o.focus.Push(c)
	}
}

// RemoveContainer unregisters c: drops it from the containers list,
// the minimized list, and the focus stack.
func (o *Output) RemoveContainer(c *container.Container) {
	o.containers = removeContainer(o.containers, c)
	o.minimized = removeContainer(o.minimized, c)
	o.focus.Remove(c)
}

// removeContainer drops c from items by identity, using
// golang.org/x/exp/slices the way the teacher's own text/gotext.go and
// widget/icon.go lean on it for generic slice surgery ahead of stdlib
// "slices" (gio's go.mod still requires x/exp for exactly this).
func removeContainer(items []*container.Container, c *container.Container) []*container.Container {
	if i := slices.Index(items, c); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return items
}

// SetMinimized records c's minimized-list membership to match
// minimized, and forwards the request to the container's own
// set_minimized so scene visibility and state track together. setBspEnabled
// closes over this output's workspace BSP tree for c.
func (o *Output) SetMinimized(c *container.Container, minimized bool, setBspEnabled func(bool)) {
	c.SetMinimized(minimized, setBspEnabled)
	if minimized {
		if !containsContainer(o.minimized, c) {
			o.minimized = append(o.minimized, c)
		}
	} else {
		o.minimized = removeContainer(o.minimized, c)
	}
}

func containsContainer(items []*container.Container, c *container.Container) bool {
	return slices.Contains(items, c)
}

// Focus moves c to the head of the focus stack. It is the bookkeeping
// half of the focus policy in spec.md §4.4 step 3; the surrounding
// notification sequence lives in compositor.CompositorContext.Focus.
func (o *Output) Focus(c *container.Container) {
	o.focus.Push(c)
}

// ViewOnly implements spec.md §4.2 view_only(i): sets active_tag to the
// single bit for workspace i and active_workspace to i, then triggers a
// layout pass. i == 0 is the "view none" sentinel: active_tag becomes
// empty and UpdateTiling no-ops, leaving every non-sticky container
// invisible instead of panicking.
func (o *Output) ViewOnly(i int) {
	o.activeTag = tag.Bit(i)
	o.activeWorkspace = i
	o.UpdateTiling(i)
}

// ToggleTag implements spec.md §4.2 toggle_tag(i): XORs bit(i) into
// active_tag without touching active_workspace, then refreshes.
func (o *Output) ToggleTag(i int) {
	o.activeTag = o.activeTag.Toggle(i)
	o.UpdateTiling(o.activeWorkspace)
}

// SetLayoutMode implements spec.md §4.2 set_layout_mode(m): assigns m to
// the active workspace's ViewInfo. On transition to Bsp, every
// currently-tileable visible container on that workspace that holds no
// leaf yet is inserted into the tree; a container that kept its leaf
// from an earlier Bsp period keeps that leaf. On transition to
// Floating, every visible floating container has its saved floating
// rect restored.
func (o *Output) SetLayoutMode(workspace int, m layout.Kind) {
	v := o.ViewInfo(workspace)
	if v == nil {
		return
	}
	prev := v.Kind
	v.Kind = m
	if prev == m {
		return
	}
	switch m {
	case layout.Bsp:
		for _, c := range o.visibleTileable(workspace) {
			if c.BspLeaf != nil {
				continue
			}
			c.BspLeaf = v.Bsp.Insert(c)
		}
	case layout.Floating:
		for _, c := range o.containers {
			if c.Workspace == workspace && c.State().Has(container.Floating) && c.Visible(o.activeWorkspace, o.activeTag) {
				fb := c.FloatingBox
				c.SetPosition(fb.Min.X, fb.Min.Y)
				c.SetSize(fb.Dx(), fb.Dy())
			}
		}
	}
	o.UpdateTiling(workspace)
}

// isTileable reports whether c is a candidate for a BSP/Master leaf:
// managed, and not minimized/fullscreen/maximized/floating.
func isTileable(c *container.Container) bool {
	if c.Unmanaged() {
		return false
	}
	st := c.State()
	return !st.Has(container.Minimized) && !st.Has(container.Fullscreen) &&
		!st.Has(container.Maximized) && !st.Has(container.Floating)
}

// visibleTileable returns the containers on workspace that the Master
// and Bsp engines consider tileable: visible, not minimized, not
// fullscreen/maximized, not floating, not unmanaged.
func (o *Output) visibleTileable(workspace int) []*container.Container {
	var out []*container.Container
	for _, c := range o.containers {
		if c.Workspace != workspace || !isTileable(c) {
			continue
		}
		if !c.Visible(o.activeWorkspace, o.activeTag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MoveContainerToTag implements the orchestration half of spec.md §4.1
// move_to_tag(i): Container.MoveToTag only updates the workspace/tag
// fields (it cannot reach the BSP trees, which live on Output), so this
// method does the unbind-from-old/rebind-to-new BSP dance around it and
// triggers a layout pass on both workspaces.
func (o *Output) MoveContainerToTag(c *container.Container, i int) {
	old := c.Workspace
	if n, ok := c.BspLeaf.(*layout.Node); ok {
		if oldView := o.ViewInfo(old); oldView != nil {
			oldView.Bsp.Remove(n)
		}
		c.BspLeaf = nil
	}
	c.MoveToTag(i)
	if newView := o.ViewInfo(i); newView != nil && newView.Kind == layout.Bsp && isTileable(c) {
		c.BspLeaf = newView.Bsp.Insert(c)
	}
	o.UpdateTiling(old)
	o.UpdateTiling(i)
}

// SetStrategyIdx implements spec.md §4.2 set_strategy_idx(±k): advances
// the active workspace's Master strategy cursor by k and re-arranges.
// A no-op while active_workspace == 0 ("view none").
func (o *Output) SetStrategyIdx(k int) {
	v := o.currentView()
	if v == nil {
		return
	}
	v.Strategies().Advance(k)
	o.UpdateTiling(o.activeWorkspace)
}

// SetUselessGaps implements spec.md §4.2 set_useless_gaps(ws, w).
func (o *Output) SetUselessGaps(workspace, w int) {
	v := o.ViewInfo(workspace)
	if v == nil {
		return
	}
	v.SetGap(w)
	o.UpdateTiling(workspace)
}

// SetMwfact implements spec.md §4.2 set_mwfact(ws, f).
func (o *Output) SetMwfact(workspace int, f float64) {
	v := o.ViewInfo(workspace)
	if v == nil {
		return
	}
	v.SetMwfact(f)
	o.UpdateTiling(workspace)
}

// UpdateTiling implements spec.md §4.3.4 Output.update_tiling(workspace):
// dispatches to the engine named by the workspace's ViewInfo.Kind. It is
// a no-op for workspaces currently in Floating mode, since floating
// containers are positioned directly by the caller, not by a layout
// pass, and for workspace == 0 ("view none"), which has no ViewInfo.
func (o *Output) UpdateTiling(workspace int) {
	v := o.ViewInfo(workspace)
	if v == nil {
		return
	}
	switch v.Kind {
	case layout.Master:
		visible := o.visibleTileable(workspace)
		tileables := make([]layout.Tileable, len(visible))
		for i, c := range visible {
			tileables[i] = c
		}
		strat := v.Strategies().Current()
		if strat.Fn != nil {
			strat.Fn(tileables, o.usable, v.Gap, v.Master)
		}
	case layout.Bsp:
		v.Bsp.Arrange(o.usable, v.Gap)
	case layout.Floating:
	}
}

// BspInsertFor returns a bspInsert closure bound to workspace's BSP
// tree, suitable for container.Container.SetFloating: it inserts c as a
// new leaf and returns the resulting handle.
func (o *Output) BspInsertFor(workspace int, c *container.Container) func() container.BspNode {
	return func() container.BspNode {
		v := o.ViewInfo(workspace)
		if v == nil {
			return nil
		}
		return v.Bsp.Insert(c)
	}
}

// SetBspEnabledFor returns a setBspEnabled closure bound to workspace's
// BSP tree and c's existing leaf, suitable for container.Container's
// SetFloating/SetFullscreen/SetMaximized/SetMinimized. It is a no-op if
// c has no BSP leaf (e.g. it was never tiled under Bsp).
func (o *Output) SetBspEnabledFor(workspace int, c *container.Container) func(bool) {
	return func(enabled bool) {
		n, ok := c.BspLeaf.(*layout.Node)
		if !ok {
			return
		}
		v := o.ViewInfo(workspace)
		if v == nil {
			return
		}
		v.Bsp.SetEnabled(n, enabled, v.Gap)
	}
}

// Arrange re-runs the layer-shell exclusive-zone pass over the
// output's current layer clients (spec.md §4.5). If the resulting
// usable area differs from the previous one, it updates it and
// re-triggers tiling for every workspace, then re-applies maximized
// geometry to every maximized container (since maximized geometry
// tracks usable_area, not the full output rect).
func (o *Output) Arrange() {
	next := scene.Arrange(o.geometry, o.layerClients)
	if next == o.usable {
		return
	}
	o.usable = next
	for w := 1; w <= o.maxGeneralWorkspace; w++ {
		o.UpdateTiling(w)
	}
	for _, c := range o.containers {
		c.RefreshMaximizedGeometry()
	}
}

// AddLayerClient registers a layer-shell surface under layer and
// re-arranges.
func (o *Output) AddLayerClient(layerKind scene.Layer, c scene.LayerClient) {
	o.layerClients[layerKind] = append(o.layerClients[layerKind], c)
	o.Arrange()
}

// RemoveLayerClient unregisters a layer-shell surface and re-arranges.
func (o *Output) RemoveLayerClient(layerKind scene.Layer, c scene.LayerClient) {
	clients := o.layerClients[layerKind]
	for i, v := range clients {
		if v == c {
			o.layerClients[layerKind] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	o.Arrange()
}

// NewestFocusVisibleToplevel implements spec.md §4.2
// newest_focus_visible_toplevel: the first toplevel found walking the
// focus stack head-to-tail whose container is currently visible. The
// focus stack never holds unmanaged containers (invariant 3), so no
// separate skip is needed.
func (o *Output) NewestFocusVisibleToplevel() *container.Toplevel {
	var found *container.Toplevel
	o.focus.Each(func(c *container.Container) bool {
		if c.Visible(o.activeWorkspace, o.activeTag) {
			if front := c.Front(); front != nil {
				found = front
				return false
			}
		}
		return true
	})
	return found
}
