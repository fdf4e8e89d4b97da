// SPDX-License-Identifier: Unlicense OR MIT

package scene

import "image"

// AnchorEdge is a bitmask of output edges a layer-shell surface is
// anchored to.
type AnchorEdge uint8

const (
	AnchorTop AnchorEdge = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// LayerClient is a layer-shell surface as seen by the arranger: its
// anchor, exclusive zone thickness (<=0 means non-exclusive), and
// desired size. SetGeometry delivers the computed placement back to the
// surface. ExclusiveKeyboard reports whether the surface currently
// requests exclusive keyboard-interactivity (spec.md §4.4 "Exclusive
// focus overrides"); only Top/Overlay-layer surfaces pin focus through
// it, per that section.
type LayerClient interface {
	Anchor() AnchorEdge
	ExclusiveZone() int
	DesiredSize() image.Point
	SetGeometry(rect image.Rectangle)
	ExclusiveKeyboard() bool
}

// arrangeOrder is the order layers are arranged in: overlay first so it
// can reserve space ahead of lower layers, as in spec.md §4.5.
var arrangeOrder = [...]Layer{Overlay, Top, Bottom, Background}

// Arrange positions every client in byLayer against full, in
// arrangeOrder, each layer in two passes (exclusive zones first, then
// non-exclusive), and returns the usable area remaining after every
// exclusive reservation.
func Arrange(full image.Rectangle, byLayer map[Layer][]LayerClient) image.Rectangle {
	usable := full
	for _, layer := range arrangeOrder {
		clients := byLayer[layer]
		for _, c := range clients {
			if c.ExclusiveZone() > 0 {
				c.SetGeometry(anchorRect(usable, c.Anchor(), c.DesiredSize()))
				usable = reserve(usable, c.Anchor(), c.ExclusiveZone())
			}
		}
		for _, c := range clients {
			if c.ExclusiveZone() <= 0 {
				c.SetGeometry(anchorRect(usable, c.Anchor(), c.DesiredSize()))
			}
		}
	}
	return usable
}

func anchorRect(usable image.Rectangle, a AnchorEdge, size image.Point) image.Rectangle {
	x0, y0, x1, y1 := usable.Min.X, usable.Min.Y, usable.Max.X, usable.Max.Y
	var rx0, rx1 int
	switch {
	case a&AnchorLeft != 0 && a&AnchorRight != 0:
		rx0, rx1 = x0, x1
	case a&AnchorLeft != 0:
		rx0, rx1 = x0, x0+size.X
	case a&AnchorRight != 0:
		rx0, rx1 = x1-size.X, x1
	default:
		cx := (x0 + x1) / 2
		rx0, rx1 = cx-size.X/2, cx-size.X/2+size.X
	}
	var ry0, ry1 int
	switch {
	case a&AnchorTop != 0 && a&AnchorBottom != 0:
		ry0, ry1 = y0, y1
	case a&AnchorTop != 0:
		ry0, ry1 = y0, y0+size.Y
	case a&AnchorBottom != 0:
		ry0, ry1 = y1-size.Y, y1
	default:
		cy := (y0 + y1) / 2
		ry0, ry1 = cy-size.Y/2, cy-size.Y/2+size.Y
	}
	return image.Rect(rx0, ry0, rx1, ry1)
}

func reserve(usable image.Rectangle, a AnchorEdge, zone int) image.Rectangle {
	switch {
	case a&AnchorTop != 0 && a&AnchorBottom == 0:
		usable.Min.Y += zone
	case a&AnchorBottom != 0 && a&AnchorTop == 0:
		usable.Max.Y -= zone
	case a&AnchorLeft != 0 && a&AnchorRight == 0:
		usable.Min.X += zone
	case a&AnchorRight != 0 && a&AnchorLeft == 0:
		usable.Max.X -= zone
	}
	return usable
}
