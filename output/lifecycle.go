// SPDX-License-Identifier: Unlicense OR MIT

package output

import (
	"image"

	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/scene"
	"mosaicwm.dev/mosaic/tag"
)

// MapConfig bundles the collaborators Map needs to create a Container
// for a newly-mapped toplevel: the scene tree and parent node it
// attaches under, the signal emitter, the border allocator, and the
// configured border width/thickness. Any field may be left zero; Map
// degrades gracefully (container.New already tolerates a nil tree and
// a nil emitter).
type MapConfig struct {
	Tree        scene.Tree
	Parent      scene.Node
	Emit        container.Emitter
	Allocator   container.Allocator
	BorderWidth int
}

// Map implements the mapped half of spec.md §4.8's Toplevel lifecycle:
//  1. insert into the output's toplevel list,
//  2. if insertMarked is non-nil and t is not unmanaged, insert t into
//     it; otherwise create a fresh Container with cfg.BorderWidth,
//  3. run the should-float heuristic: float+center, or defer to the
//     active workspace's layout,
//  4. apply t's already-requested fullscreen/maximized/minimized intent.
//
// Map emits no signal; client::map is emitted by its caller,
// compositor.CompositorContext.MapToplevel. Map returns the container t
// ended up in.
func (o *Output) Map(t *container.Toplevel, insertMarked *container.Container, cfg MapConfig) *container.Container {
	o.toplevels = append(o.toplevels, t)

	// Override-redirect legacy-X11 surfaces never reach Map: the X11
	// bridge (out of this module's scope per spec.md §6) constructs
	// them directly via container.NewUnmanaged instead.
	var c *container.Container
	if insertMarked != nil {
		c = insertMarked
		c.Insert(t)
	} else {
		c = container.New(cfg.Tree, cfg.Parent, cfg.Emit)
		c.Border.Thickness = cfg.BorderWidth
		c.Border.Enabled = true
		c.Workspace = o.activeWorkspace
		c.Tags = tag.Bit(o.activeWorkspace)
		c.Insert(t)
		o.AddContainer(c)
	}

	if t.ShouldFloat() {
		c.SetFloating(true, o.BspInsertFor(o.activeWorkspace, c), o.SetBspEnabledFor(o.activeWorkspace, c))
		o.centerOnOutput(c)
	} else {
		o.UpdateTiling(c.Workspace)
	}

	if t.Requested.Fullscreen {
		c.SetFullscreen(true, o.SetBspEnabledFor(c.Workspace, c))
	}
	if t.Requested.Maximized {
		c.SetMaximized(true, o.SetBspEnabledFor(c.Workspace, c))
	}
	if t.Requested.Minimized {
		o.SetMinimized(c, true, o.SetBspEnabledFor(c.Workspace, c))
	}

	if cfg.Allocator != nil {
		// Best-effort: a failed allocation leaves the border invalid but
		// the container stays fully usable (spec.md §7).
		c.Border.Allocate(cfg.Allocator, c.Rect.Dx(), c.Rect.Dy())
	}

	t.SetMapped(true)
	return c
}

// defaultFloatSize is the geometry a floated toplevel gets when it
// carries no prior floating_box and no layout-assigned rect yet.
var defaultFloatSize = image.Pt(640, 480)

func (o *Output) centerOnOutput(c *container.Container) {
	size := c.FloatingBox.Size()
	if size.X == 0 && size.Y == 0 {
		size = c.Rect.Size()
	}
	if size.X == 0 && size.Y == 0 {
		size = defaultFloatSize
	}
	cx := o.usable.Min.X + o.usable.Dx()/2 - size.X/2
	cy := o.usable.Min.Y + o.usable.Dy()/2 - size.Y/2
	c.FloatingBox = image.Rect(cx, cy, cx+size.X, cy+size.Y)
	c.SetPosition(cx, cy)
	c.SetSize(size.X, size.Y)
}

// Unmap implements the unmapped half of spec.md §4.8: detaches t from
// the output's toplevel list, removes it from its container
// (destroying the container if t was its last toplevel), and returns
// whether the container was destroyed.
func (o *Output) Unmap(t *container.Toplevel) (containerDestroyed bool) {
	for i, v := range o.toplevels {
		if v == t {
			o.toplevels = append(o.toplevels[:i], o.toplevels[i+1:]...)
			break
		}
	}
	c := t.Container()
	if c == nil {
		t.SetMapped(false)
		return false
	}
	destroyed := c.Remove(t, true)
	if destroyed {
		o.RemoveContainer(c)
	}
	t.SetMapped(false)
	return destroyed
}
