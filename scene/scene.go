// SPDX-License-Identifier: Unlicense OR MIT

// Package scene defines the fixed back-to-front layer ordering of the
// compositor's scene graph and the minimal renderer collaborator
// interface (spec.md §6) that container and layer-shell arrangement
// code needs: create/reparent/position/enable/raise/lower on opaque
// scene nodes. Package scene never touches pixels; it only orders and
// positions node handles the renderer owns.
package scene

// Node is an opaque scene-tree node handle owned by the renderer.
// mosaicwm never dereferences it; equality and nil-ness are the only
// operations the core performs on it directly.
type Node interface{}

// Tree is the renderer's scene-graph surface (external collaborator,
// spec.md §6): node creation, reparenting, positioning, enable/disable,
// and raise/lower-to-edge.
type Tree interface {
	CreateNode(parent Node) Node
	Reparent(node, parent Node)
	SetPosition(node Node, x, y int)
	SetEnabled(node Node, enabled bool)
	RaiseToTop(node Node)
	LowerToBottom(node Node)
}

// Layer is one of the fixed back-to-front scene subtrees every mapped
// surface belongs to.
type Layer int

const (
	Background Layer = iota
	Bottom
	Below
	ToplevelLayer
	Above
	Top
	Overlay
	SessionLockLayer
)

// Layers is the back-to-front ordering, exported for callers (e.g. a
// renderer walking the tree for repaint) that need to iterate it.
var Layers = [...]Layer{Background, Bottom, Below, ToplevelLayer, Above, Top, Overlay, SessionLockLayer}

func (l Layer) String() string {
	switch l {
	case Background:
		return "background"
	case Bottom:
		return "bottom"
	case Below:
		return "below"
	case ToplevelLayer:
		return "toplevel"
	case Above:
		return "above"
	case Top:
		return "top"
	case Overlay:
		return "overlay"
	case SessionLockLayer:
		return "session_lock"
	default:
		return "unknown"
	}
}
