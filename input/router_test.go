// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"image"
	"testing"

	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/scene"
)

func newFloatingToplevel(rect image.Rectangle) (*container.Toplevel, *container.Container) {
	c := container.New(nil, nil, nil)
	top := container.NewToplevel(container.Native, nil, nil)
	c.Insert(top)
	c.SetFloating(true, func() container.BspNode { return nil }, func(bool) {})
	c.SetGeometry(rect)
	return top, c
}

func TestInferEdgesSingleEdgeBands(t *testing.T) {
	cases := []struct {
		x, y float64
		want Edges
	}{
		{0, -0.9, EdgeTop},
		{0, 0.9, EdgeBottom},
		{-0.9, 0, EdgeLeft},
		{0.9, 0, EdgeRight},
	}
	for _, c := range cases {
		if got := inferEdges(c.x, c.y); got != c.want {
			t.Errorf("inferEdges(%v,%v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestInferEdgesCorners(t *testing.T) {
	cases := []struct {
		x, y float64
		want Edges
	}{
		{-0.9, -0.9, EdgeLeft | EdgeTop},
		{0.9, -0.9, EdgeRight | EdgeTop},
		{-0.9, 0.9, EdgeLeft | EdgeBottom},
		{0.9, 0.9, EdgeRight | EdgeBottom},
	}
	for _, c := range cases {
		if got := inferEdges(c.x, c.y); got != c.want {
			t.Errorf("inferEdges(%v,%v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestStartInteractiveMoveRejectsTiled(t *testing.T) {
	r := NewRouter(60)
	c := container.New(nil, nil, nil)
	top := container.NewToplevel(container.Native, nil, nil)
	c.Insert(top)
	if r.StartInteractiveMove(top, image.Pt(10, 10)) {
		t.Error("StartInteractiveMove succeeded on a tiled (non-floating) container")
	}
	if r.State() != Normal {
		t.Errorf("State() = %v, want Normal", r.State())
	}
}

func TestStartInteractiveMoveAndMotionTranslatesContainer(t *testing.T) {
	r := NewRouter(60)
	top, c := newFloatingToplevel(image.Rect(100, 100, 300, 300))

	if !r.StartInteractiveMove(top, image.Pt(110, 110)) {
		t.Fatal("StartInteractiveMove failed on a floating container")
	}
	if r.State() != Move {
		t.Fatalf("State() = %v, want Move", r.State())
	}

	r.Motion(image.Pt(160, 160), nil, nil)
	want := image.Pt(150, 150)
	if c.Rect.Min != want {
		t.Errorf("Rect.Min = %v, want %v", c.Rect.Min, want)
	}

	r.StopInteractive()
	if r.State() != Normal {
		t.Errorf("State() = %v after StopInteractive, want Normal", r.State())
	}
}

func TestStartInteractiveResizeAndMotionGrowsFromBottomRight(t *testing.T) {
	r := NewRouter(60)
	top, c := newFloatingToplevel(image.Rect(0, 0, 200, 200))

	if !r.StartInteractiveResize(top, image.Pt(200, 200), EdgeRight|EdgeBottom) {
		t.Fatal("StartInteractiveResize failed on a floating container")
	}
	r.Motion(image.Pt(250, 220), nil, nil)

	want := image.Rect(0, 0, 250, 220)
	if c.Rect != want {
		t.Errorf("Rect = %v, want %v", c.Rect, want)
	}
}

func TestStopInteractiveFlushesPendingResize(t *testing.T) {
	r := NewRouter(1)
	clock := new(int64)
	r.scheduler.now = func() int64 { return *clock }
	top, c := newFloatingToplevel(image.Rect(0, 0, 200, 200))

	r.StartInteractiveResize(top, image.Pt(200, 200), EdgeRight|EdgeBottom)
	r.Motion(image.Pt(230, 230), nil, nil) // first motion commits at once
	r.Motion(image.Pt(260, 260), nil, nil)
	if c.Rect.Dx() == 260 {
		t.Fatal("setup invariant broken: resize committed before StopInteractive despite slow refresh rate")
	}

	r.StopInteractive()
	if c.Rect != image.Rect(0, 0, 260, 260) {
		t.Errorf("Rect after StopInteractive = %v, want flushed to %v", c.Rect, image.Rect(0, 0, 260, 260))
	}
}

func TestCandidateResizeRectEnforcesMinimumOnePixel(t *testing.T) {
	r := NewRouter(60)
	top, _ := newFloatingToplevel(image.Rect(0, 0, 200, 200))
	r.StartInteractiveResize(top, image.Pt(0, 0), EdgeRight)

	rect := r.candidateResizeRect(image.Pt(-500, 0))
	if rect.Dx() != 1 {
		t.Errorf("Dx() = %d, want clamped to 1", rect.Dx())
	}
}

func TestStartInteractiveRejectsWhileAlreadyGrabbed(t *testing.T) {
	r := NewRouter(60)
	top1, _ := newFloatingToplevel(image.Rect(0, 0, 100, 100))
	top2, _ := newFloatingToplevel(image.Rect(200, 200, 300, 300))

	r.StartInteractiveMove(top1, image.Pt(10, 10))
	if r.StartInteractiveMove(top2, image.Pt(210, 210)) {
		t.Error("second StartInteractiveMove succeeded while a grab was already active")
	}
	if r.StartInteractiveResize(top2, image.Pt(210, 210), EdgeRight) {
		t.Error("StartInteractiveResize succeeded while a Move grab was already active")
	}
}

type fakeSeat struct {
	motions  []image.Point
	cleared  bool
	cursorID string
}

func (f *fakeSeat) Motion(delta image.Point)   { f.motions = append(f.motions, delta) }
func (f *fakeSeat) SetCursorImage(name string) { f.cursorID = name }
func (f *fakeSeat) ClearPointerFocus()         { f.cleared = true }

func TestNormalMotionForwardsToSeatWhenHovered(t *testing.T) {
	r := NewRouter(60)
	seat := &fakeSeat{}
	hit := &constNode{node: "surface-1"}

	r.Motion(image.Pt(5, 5), hit, seat)
	r.Motion(image.Pt(8, 9), hit, seat)

	if len(seat.motions) != 2 {
		t.Fatalf("got %d Motion calls, want 2", len(seat.motions))
	}
	if seat.motions[1] != image.Pt(3, 4) {
		t.Errorf("second delta = %v, want %v", seat.motions[1], image.Pt(3, 4))
	}
}

func TestNormalMotionClearsFocusWhenNothingHovered(t *testing.T) {
	r := NewRouter(60)
	seat := &fakeSeat{}
	r.Motion(image.Pt(5, 5), &constNode{node: nil}, seat)
	if !seat.cleared {
		t.Error("ClearPointerFocus not called when hit-test returned nil")
	}
	if seat.cursorID != "default" {
		t.Errorf("cursor image = %q, want %q", seat.cursorID, "default")
	}
}

// constNode adapts a fixed scene.Node to the HitTester interface; a nil
// node exercises the no-hover path.
type constNode struct{ node scene.Node }

func (c *constNode) AtPoint(p image.Point) scene.Node { return c.node }

type fakeHoverNotifier struct{ changes int }

func (f *fakeHoverNotifier) HoverChanged(prev, next scene.Node) { f.changes++ }

func TestNormalMotionNotifiesHoverChange(t *testing.T) {
	r := NewRouter(60)
	hover := &fakeHoverNotifier{}
	r.SetHoverNotifier(hover)

	r.Motion(image.Pt(5, 5), &constNode{node: "a"}, nil)
	r.Motion(image.Pt(6, 6), &constNode{node: "a"}, nil)
	r.Motion(image.Pt(7, 7), &constNode{node: "b"}, nil)

	if hover.changes != 2 {
		t.Errorf("HoverChanged called %d times, want 2 (nil->a, a->b)", hover.changes)
	}
}

func TestSetSuppressHoverSkipsNotification(t *testing.T) {
	r := NewRouter(60)
	hover := &fakeHoverNotifier{}
	r.SetHoverNotifier(hover)
	r.SetSuppressHover(true)

	r.Motion(image.Pt(5, 5), &constNode{node: "a"}, nil)

	if hover.changes != 0 {
		t.Errorf("HoverChanged called %d times while suppressed, want 0", hover.changes)
	}
}

func TestRefreshHoverReEvaluatesWithoutMoving(t *testing.T) {
	r := NewRouter(60)
	hover := &fakeHoverNotifier{}
	r.Motion(image.Pt(5, 5), &constNode{node: "a"}, nil)
	r.SetHoverNotifier(hover)

	r.RefreshHover(&constNode{node: "b"})

	if hover.changes != 1 {
		t.Errorf("RefreshHover triggered %d hover changes, want 1", hover.changes)
	}
	if r.lastCursor != image.Pt(5, 5) {
		t.Errorf("lastCursor moved to %v, RefreshHover must not move the cursor", r.lastCursor)
	}
}

func TestPinFocusRecordsAndReleasesSurface(t *testing.T) {
	r := NewRouter(60)
	if r.Pinned() {
		t.Fatal("new Router reports Pinned")
	}
	r.PinFocus("lock-surface")
	if !r.Pinned() || r.PinnedSurface() != "lock-surface" {
		t.Errorf("Pinned()=%v PinnedSurface()=%v, want true/lock-surface", r.Pinned(), r.PinnedSurface())
	}
	r.UnpinFocus()
	if r.Pinned() {
		t.Error("UnpinFocus did not release the pin")
	}
}
