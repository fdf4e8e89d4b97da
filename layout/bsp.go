// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"

	"mosaicwm.dev/mosaic/geom"
)

// Tileable is the subset of container behavior the layout engines depend
// on. It lets this package arrange containers without importing the
// container package, keeping BspTree and the master/stack strategies
// ignorant of anything but geometry.
type Tileable interface {
	// SetSize resizes the tileable to w x h.
	SetSize(w, h int)
	// SetPositionGap moves the tileable's origin to (x, y) offset inward
	// by gap on every edge the layout engine has already accounted for.
	SetPositionGap(x, y, gap int)
	// ConfigureAllowed reports whether the tileable currently accepts a
	// layout-driven size/position change (false while fullscreen or
	// maximized).
	ConfigureAllowed() bool
}

// SplitKind is the orientation of a BSP internal node's split.
type SplitKind int

const (
	Vertical SplitKind = iota
	Horizontal
)

func (k SplitKind) toggled() SplitKind {
	if k == Vertical {
		return Horizontal
	}
	return Vertical
}

type nodeKind int

const (
	nodeLeaf nodeKind = iota
	nodeInternal
)

// Node is a BSP tree node: either an internal split or a leaf holding one
// container. A *Node returned by Insert is the "BSP leaf handle" a
// container stores per the data model; callers must not dereference its
// fields directly.
type Node struct {
	kind   nodeKind
	parent *Node
	rect   image.Rectangle
	enabled bool

	// internal fields
	split     SplitKind
	leftWfact float64
	left      *Node
	right     *Node

	// leaf fields
	container Tileable
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool { return n.kind == nodeLeaf }

// Enabled reports n's current enabled state.
func (n *Node) Enabled() bool { return n.enabled }

// Tree is a per-workspace binary space partition. The zero Tree is empty.
type Tree struct {
	root        *Node
	lastFocused *Node
}

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool { return t.root == nil }

// Insert adds c to the tree. If the tree is empty, c becomes the sole
// root leaf. Otherwise the sibling is the last-focused leaf: a new
// internal node is created, splitting vertically if the sibling is wider
// than (or as wide as) it is tall, horizontally otherwise, with
// left_wfact 0.5. The sibling becomes the left child, c the right.
func (t *Tree) Insert(c Tileable) *Node {
	leaf := &Node{kind: nodeLeaf, container: c, enabled: true}
	if t.root == nil {
		t.root = leaf
		t.lastFocused = leaf
		return leaf
	}
	sibling := t.lastFocused
	if sibling == nil {
		sibling = t.deepestLeaf(t.root)
	}
	split := Vertical
	if sibling.rect.Dx() < sibling.rect.Dy() {
		split = Horizontal
	}
	internal := &Node{
		kind:      nodeInternal,
		split:     split,
		leftWfact: 0.5,
		left:      sibling,
		right:     leaf,
		parent:    sibling.parent,
		enabled:   true,
	}
	oldParent := sibling.parent
	sibling.parent = internal
	leaf.parent = internal
	switch {
	case oldParent == nil:
		t.root = internal
	case oldParent.left == sibling:
		oldParent.left = internal
	default:
		oldParent.right = internal
	}
	t.lastFocused = leaf
	return leaf
}

func (t *Tree) deepestLeaf(n *Node) *Node {
	for n.kind == nodeInternal {
		n = n.left
	}
	return n
}

// Remove detaches leaf from the tree. The sibling of leaf is re-parented
// in leaf's parent's slot (or promoted to root), and leaf's parent node
// is discarded. If leaf was the last-focused node, last-focused becomes
// the leftmost leaf descending from the side the promoted sibling took.
func (t *Tree) Remove(leaf *Node) {
	if leaf == nil || leaf.kind != nodeLeaf {
		return
	}
	if leaf == t.root {
		t.root = nil
		if t.lastFocused == leaf {
			t.lastFocused = nil
		}
		return
	}
	parent := leaf.parent
	var sibling *Node
	if parent.left == leaf {
		sibling = parent.right
	} else {
		sibling = parent.left
	}
	grandparent := parent.parent
	sibling.parent = grandparent
	switch {
	case grandparent == nil:
		t.root = sibling
	case grandparent.left == parent:
		grandparent.left = sibling
	default:
		grandparent.right = sibling
	}
	if t.lastFocused == leaf {
		t.lastFocused = t.deepestLeaf(sibling)
	}
	bubbleEnabled(grandparent)
}

// ToggleSplit flips the split orientation of leaf's parent internal node
// and re-arranges beneath it.
func (t *Tree) ToggleSplit(leaf *Node, gap int) {
	if leaf == nil || leaf.parent == nil {
		return
	}
	p := leaf.parent
	p.split = p.split.toggled()
	updateNode(p, p.rect, gap)
}

// SetEnabled toggles leaf's enabled flag, bubbles the change up (a parent
// is enabled iff any descendant leaf is enabled), and re-arranges the
// nearest still-enabled ancestor.
func (t *Tree) SetEnabled(leaf *Node, enabled bool, gap int) {
	if leaf == nil {
		return
	}
	leaf.enabled = enabled
	bubbleEnabled(leaf.parent)
	anc := nearestEnabledAncestor(leaf)
	if anc != nil {
		updateNode(anc, anc.rect, gap)
	} else if t.root != nil && t.root.enabled {
		updateNode(t.root, t.root.rect, gap)
	}
}

func bubbleEnabled(n *Node) {
	for n != nil && n.kind == nodeInternal {
		next := n.left.enabled || n.right.enabled
		if n.enabled == next {
			return
		}
		n.enabled = next
		n = n.parent
	}
}

func nearestEnabledAncestor(n *Node) *Node {
	p := n.parent
	for p != nil && !p.enabled {
		p = p.parent
	}
	return p
}

// Arrange assigns area to the root and recursively splits rectangles down
// to each enabled leaf, invoking SetPositionGap+SetSize on leaves whose
// container currently allows layout-driven configuration.
func (t *Tree) Arrange(area image.Rectangle, gap int) {
	if t.root == nil {
		return
	}
	updateNode(t.root, area, gap)
}

func updateNode(n *Node, rect image.Rectangle, gap int) {
	n.rect = rect
	if n.kind == nodeLeaf {
		if !n.enabled || !n.container.ConfigureAllowed() {
			return
		}
		n.container.SetPositionGap(rect.Min.X, rect.Min.Y, gap)
		n.container.SetSize(rect.Dx(), rect.Dy())
		return
	}
	switch {
	case !n.left.enabled && !n.right.enabled:
		return
	case !n.left.enabled:
		updateNode(n.right, rect, gap)
	case !n.right.enabled:
		updateNode(n.left, rect, gap)
	default:
		var left, right image.Rectangle
		if n.split == Vertical {
			left, right = geom.SplitVertical(rect, n.leftWfact)
		} else {
			left, right = geom.SplitHorizontal(rect, n.leftWfact)
		}
		updateNode(n.left, left, gap)
		updateNode(n.right, right, gap)
	}
}
