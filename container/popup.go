// SPDX-License-Identifier: Unlicense OR MIT

package container

import (
	"image"

	"mosaicwm.dev/mosaic/geom"
	"mosaicwm.dev/mosaic/scene"
)

// Popup is a transient child surface anchored to a parent Toplevel — an
// xdg-popup-style tooltip or context menu. It is the "popup
// parent-chain unconstraining" scope item of spec.md §1: Unconstrain
// keeps it fully inside the on-screen rectangle of the root ancestor in
// its parent's toplevel chain, sliding it back on screen rather than
// letting the renderer clip it.
type Popup struct {
	Parent *Toplevel
	Rect   image.Rectangle

	tree scene.Tree
	node scene.Node
}

// NewPopup constructs a Popup anchored to parent with initial geometry
// rect, attaching its scene node under c's popup subtree (above every
// ordinary toplevel the container holds). tree may be nil, in which
// case the popup tracks Rect without a backing scene node.
func (c *Container) NewPopup(parent *Toplevel, rect image.Rectangle) *Popup {
	p := &Popup{Parent: parent, Rect: rect, tree: c.tree}
	if c.tree != nil {
		p.node = c.tree.CreateNode(c.popupRoot)
		c.tree.SetPosition(p.node, rect.Min.X, rect.Min.Y)
	}
	return p
}

// Unconstrain slides p.Rect back inside the on-screen rectangle of the
// root ancestor found by walking Parent.Parent to the top of the
// toplevel chain, then re-applies the result to the backing scene node.
// It is a no-op if that root ancestor has no mapped container to
// constrain against.
func (p *Popup) Unconstrain() {
	root, ok := p.rootRect()
	if !ok {
		return
	}
	p.Rect = geom.Unconstrain(p.Rect, root)
	if p.tree != nil && p.node != nil {
		p.tree.SetPosition(p.node, p.Rect.Min.X, p.Rect.Min.Y)
	}
}

func (p *Popup) rootRect() (image.Rectangle, bool) {
	t := p.Parent
	for t != nil && t.Parent != nil {
		t = t.Parent
	}
	if t == nil || t.Container() == nil {
		return image.Rectangle{}, false
	}
	return t.Container().Rect, true
}
