// SPDX-License-Identifier: Unlicense OR MIT

package output

import (
	"image"
	"testing"

	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/layout"
	"mosaicwm.dev/mosaic/scene"
	"mosaicwm.dev/mosaic/tag"
)

func newMappedContainer(o *Output, workspace int) (*container.Container, *container.Toplevel) {
	c := container.New(nil, nil, nil)
	c.Workspace = workspace
	c.Tags = tag.Bit(workspace)
	t := container.NewToplevel(container.Native, nil, nil)
	c.Insert(t)
	o.AddContainer(c)
	return c, t
}

func TestThreeContainersMasterLayoutScenario(t *testing.T) {
	// spec.md §8 scenario 1.
	o := New("eDP-1", image.Rect(0, 0, 1920, 1080))
	a, _ := newMappedContainer(o, 1)
	b, _ := newMappedContainer(o, 1)
	c, _ := newMappedContainer(o, 1)
	o.UpdateTiling(1)

	if a.Rect != image.Rect(0, 0, 960, 1080) {
		t.Errorf("A.Rect = %v, want (0,0,960,1080)", a.Rect)
	}
	if b.Rect != image.Rect(960, 0, 1920, 540) {
		t.Errorf("B.Rect = %v, want (960,0,1920,540)", b.Rect)
	}
	if c.Rect != image.Rect(960, 540, 1920, 1080) {
		t.Errorf("C.Rect = %v, want (960,540,1920,1080)", c.Rect)
	}

	o.SetMwfact(1, 0.6)
	if a.Rect.Dx() != 1152 {
		t.Errorf("after set_mwfact(0.6), A width = %d, want 1152", a.Rect.Dx())
	}
}

func TestViewOnlyAndToggleTag(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1920, 1080))
	o.ViewOnly(3)
	if o.ActiveWorkspace() != 3 || o.ActiveTag() != tag.Bit(3) {
		t.Fatalf("after ViewOnly(3): workspace=%d tag=%v, want 3/%v", o.ActiveWorkspace(), o.ActiveTag(), tag.Bit(3))
	}

	o.ToggleTag(5)
	if o.ActiveWorkspace() != 3 {
		t.Error("ToggleTag must not change active_workspace")
	}
	want := tag.Bit(3) | tag.Bit(5)
	if o.ActiveTag() != want {
		t.Errorf("ActiveTag = %v, want %v", o.ActiveTag(), want)
	}

	o.ToggleTag(5)
	if o.ActiveTag() != tag.Bit(3) {
		t.Error("ToggleTag twice should be identity (round-trip law, spec.md §8)")
	}
}

func TestViewOnlyZeroIsViewNoneAndDoesNotPanic(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1920, 1080))
	a, _ := newMappedContainer(o, 1)

	o.ViewOnly(0)

	if o.ActiveWorkspace() != 0 {
		t.Fatalf("ActiveWorkspace() = %d, want 0", o.ActiveWorkspace())
	}
	if o.ActiveTag() != 0 {
		t.Errorf("ActiveTag() = %v, want 0", o.ActiveTag())
	}
	if a.Visible(o.ActiveWorkspace(), o.ActiveTag()) {
		t.Error("a non-sticky container must not be visible while view none is active")
	}

	// Re-entering a real workspace afterward must still work.
	o.ViewOnly(1)
	if o.ActiveWorkspace() != 1 || o.ActiveTag() != tag.Bit(1) {
		t.Errorf("after ViewOnly(1): workspace=%d tag=%v", o.ActiveWorkspace(), o.ActiveTag())
	}
}

func TestOntopAboveBelowNormalSetLayer(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1920, 1080))
	c, _ := newMappedContainer(o, 1)

	o.Ontop(c)
	if c.Layer() != scene.Top {
		t.Errorf("Layer() = %v, want %v", c.Layer(), scene.Top)
	}
	o.Above(c)
	if c.Layer() != scene.Above {
		t.Errorf("Layer() = %v, want %v", c.Layer(), scene.Above)
	}
	o.Below(c)
	if c.Layer() != scene.Below {
		t.Errorf("Layer() = %v, want %v", c.Layer(), scene.Below)
	}
	o.Normal(c)
	if c.Layer() != scene.ToplevelLayer {
		t.Errorf("Layer() = %v, want %v", c.Layer(), scene.ToplevelLayer)
	}
}

func TestSetLayoutModeFloatingRestoresFloatingBox(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1000, 1000))
	c, _ := newMappedContainer(o, 1)
	c.SetFloating(true, nil, nil)
	c.FloatingBox = image.Rect(50, 50, 250, 250)

	o.SetLayoutMode(1, layout.Master)
	o.SetLayoutMode(1, layout.Floating)

	if c.Rect != c.FloatingBox {
		t.Errorf("Rect = %v, want restored FloatingBox %v", c.Rect, c.FloatingBox)
	}
}

func TestSetLayoutModeBspInsertsTileableContainers(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1600, 900))
	a, _ := newMappedContainer(o, 1)
	b, _ := newMappedContainer(o, 1)

	o.SetLayoutMode(1, layout.Bsp)

	if a.BspLeaf == nil || b.BspLeaf == nil {
		t.Fatal("transition to Bsp should insert every tileable container into the tree")
	}
	if a.Rect.Dx()+b.Rect.Dx() != 1600 {
		t.Errorf("a+b width = %d, want 1600 (split fills the output)", a.Rect.Dx()+b.Rect.Dx())
	}
}

func TestMoveContainerToTagRebindsBsp(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 1600, 900))
	o.ViewInfo(1).Kind = layout.Bsp
	o.ViewInfo(2).Kind = layout.Bsp
	a, _ := newMappedContainer(o, 1)
	o.UpdateTiling(1)
	a.BspLeaf = o.ViewInfo(1).Bsp.Insert(a)

	o.MoveContainerToTag(a, 2)

	if a.Workspace != 2 || a.Tags != tag.Bit(2) {
		t.Errorf("Workspace/Tags = %d/%v, want 2/%v", a.Workspace, a.Tags, tag.Bit(2))
	}
	if a.BspLeaf == nil {
		t.Error("MoveContainerToTag should insert the container into the new workspace's BSP tree")
	}
}

func TestNewestFocusVisibleToplevel(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 800, 600))
	hidden, _ := newMappedContainer(o, 2)
	visible, _ := newMappedContainer(o, 1)
	_ = hidden

	found := o.NewestFocusVisibleToplevel()
	if found == nil || found.Container() != visible {
		t.Errorf("NewestFocusVisibleToplevel should return the front toplevel of the most-recently-focused visible container")
	}
}

func TestSavedStateRoundTripsThroughHotUnplug(t *testing.T) {
	cache := NewCache()
	o := New("HDMI-A-1", image.Rect(0, 0, 1920, 1080))
	c, _ := newMappedContainer(o, 7)
	o.ViewInfo(7).SetGap(12)

	cache.Save(o)

	replacement := New("HDMI-A-1", image.Rect(0, 0, 1920, 1080))
	ok := cache.Restore(replacement, "HDMI-A-1")
	if !ok {
		t.Fatal("Restore should find the entry saved under the same name")
	}
	if !replacement.Restored() {
		t.Error("Restore should set the restored flag")
	}
	if c.Workspace != 7 {
		t.Error("containers keep their workspace across the hot-unplug round trip")
	}
	if len(replacement.Containers()) != 1 || replacement.Containers()[0] != c {
		t.Error("restored output should re-home the original container")
	}
	if replacement.ViewInfo(7).Gap != 12 {
		t.Error("restored output should carry over per-workspace view configuration")
	}
}

func TestUnmapDestroysEmptyContainer(t *testing.T) {
	o := New("eDP-1", image.Rect(0, 0, 800, 600))
	c, top := newMappedContainer(o, 1)

	destroyed := o.Unmap(top)
	if !destroyed {
		t.Fatal("Unmap of a container's last toplevel should report destroyed")
	}
	for _, cont := range o.Containers() {
		if cont == c {
			t.Error("destroyed container should be removed from the output's containers list")
		}
	}
}

func TestFocusStackPushMoveToFrontAndRemove(t *testing.T) {
	f := NewFocusStack()
	a := container.New(nil, nil, nil)
	b := container.New(nil, nil, nil)
	f.Push(a)
	f.Push(b)
	if f.Front() != b {
		t.Fatal("most recently pushed container should be at the front")
	}
	f.Push(a)
	if f.Front() != a {
		t.Error("re-pushing should move the container back to the front")
	}
	f.Remove(a)
	if f.Front() != b || f.Contains(a) {
		t.Error("Remove should drop the container entirely")
	}
}
