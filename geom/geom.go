// SPDX-License-Identifier: Unlicense OR MIT

// Package geom provides the small set of geometry helpers the compositor
// needs on top of image.Rectangle: clamping to a minimum size, splitting a
// rectangle for tiling, and mapping a point to normalized device
// coordinates for interactive-resize edge inference. It follows the
// method-on-value style of gioui.org/f32, generalized to integer pixels
// and to a [-1,1] square centered at the rectangle's center.
package geom

import "image"

// MinDim is the minimum width/height a container rectangle may have.
const MinDim = 20

// Clamp returns r with its width and height raised to at least MinDim,
// anchored at r.Min.
func Clamp(r image.Rectangle) image.Rectangle {
	r = r.Canon()
	if dx := r.Dx(); dx < MinDim {
		r.Max.X = r.Min.X + MinDim
	}
	if dy := r.Dy(); dy < MinDim {
		r.Max.Y = r.Min.Y + MinDim
	}
	return r
}

// SplitVertical splits r into a left part of width floor(r.Dx()*frac) and a
// right part absorbing the remainder, so left.Dx()+right.Dx() == r.Dx().
func SplitVertical(r image.Rectangle, frac float64) (left, right image.Rectangle) {
	w := int(float64(r.Dx()) * frac)
	left = image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y)
	right = image.Rect(r.Min.X+w, r.Min.Y, r.Max.X, r.Max.Y)
	return left, right
}

// SplitHorizontal splits r into a top part of height floor(r.Dy()*frac) and
// a bottom part absorbing the remainder.
func SplitHorizontal(r image.Rectangle, frac float64) (top, bottom image.Rectangle) {
	h := int(float64(r.Dy()) * frac)
	top = image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+h)
	bottom = image.Rect(r.Min.X, r.Min.Y+h, r.Max.X, r.Max.Y)
	return top, bottom
}

// SplitRows lays n equal-height rows into r, the last absorbing any
// rounding remainder so the rows' heights sum to exactly r.Dy().
func SplitRows(r image.Rectangle, n int) []image.Rectangle {
	if n <= 0 {
		return nil
	}
	rows := make([]image.Rectangle, n)
	h := r.Dy() / n
	y := r.Min.Y
	for i := 0; i < n; i++ {
		rowH := h
		if i == n-1 {
			rowH = r.Max.Y - y
		}
		rows[i] = image.Rect(r.Min.X, y, r.Max.X, y+rowH)
		y += rowH
	}
	return rows
}

// Normalize maps p to normalized device coordinates within r: the result's
// components are in [-1,1], with (0,0) at r's center, +X right, +Y down.
// Normalize returns (0, 0) if r is empty.
func Normalize(r image.Rectangle, p image.Point) (x, y float64) {
	if r.Dx() == 0 || r.Dy() == 0 {
		return 0, 0
	}
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	x = (float64(p.X) - cx) / (float64(r.Dx()) / 2)
	y = (float64(p.Y) - cy) / (float64(r.Dy()) / 2)
	return x, y
}

// ClampPoint returns p moved into r if it falls outside, component-wise.
func ClampPoint(p image.Point, r image.Rectangle) image.Point {
	switch {
	case p.X < r.Min.X:
		p.X = r.Min.X
	case p.X >= r.Max.X:
		p.X = r.Max.X - 1
	}
	switch {
	case p.Y < r.Min.Y:
		p.Y = r.Min.Y
	case p.Y >= r.Max.Y:
		p.Y = r.Max.Y - 1
	}
	return p
}

// Unconstrain slides r so it lies fully within bound along whichever
// axes it currently overflows, preserving r's size; it anchors against
// bound's corresponding edge rather than centering. This is an
// xdg_positioner-style slide constraint without axis flipping, used to
// unconstrain a popup against an ancestor toplevel's on-screen
// rectangle.
func Unconstrain(r, bound image.Rectangle) image.Rectangle {
	var dx, dy int
	switch {
	case r.Min.X < bound.Min.X:
		dx = bound.Min.X - r.Min.X
	case r.Max.X > bound.Max.X:
		dx = bound.Max.X - r.Max.X
	}
	switch {
	case r.Min.Y < bound.Min.Y:
		dy = bound.Min.Y - r.Min.Y
	case r.Max.Y > bound.Max.Y:
		dy = bound.Max.Y - r.Max.Y
	}
	return r.Add(image.Pt(dx, dy))
}

// Clampf01 clamps v to [0,1].
func Clampf01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampMwfact clamps v to the master-factor range [0.1, 0.9].
func ClampMwfact(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	if v > 0.9 {
		return 0.9
	}
	return v
}
