// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"
	"testing"
)

func TestTileStrategyThreeContainers(t *testing.T) {
	usable := image.Rect(0, 0, 1920, 1080)
	a := &fakeTileable{name: "A"}
	b := &fakeTileable{name: "B"}
	c := &fakeTileable{name: "C"}
	state := MasterState{MasterCount: 1, ColumnCount: 1, Mwfact: 0.5}

	TileStrategy([]Tileable{a, b, c}, usable, 0, state)

	want := map[string]image.Rectangle{
		"A": image.Rect(0, 0, 960, 1080),
		"B": image.Rect(960, 0, 1920, 540),
		"C": image.Rect(960, 540, 1920, 1080),
	}
	got := map[string]image.Rectangle{"A": a.rect, "B": b.rect, "C": c.rect}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s = %v, want %v", k, got[k], w)
		}
	}

	state.Mwfact = 0.6
	a2, b2, c2 := &fakeTileable{}, &fakeTileable{}, &fakeTileable{}
	TileStrategy([]Tileable{a2, b2, c2}, usable, 0, state)
	if a2.rect != image.Rect(0, 0, 1152, 1080) {
		t.Errorf("A(mwfact=0.6) = %v, want %v", a2.rect, image.Rect(0, 0, 1152, 1080))
	}
	if a2.rect.Dx()+b2.rect.Dx() != usable.Dx() {
		t.Errorf("master+stack width = %d, want %d", a2.rect.Dx()+b2.rect.Dx(), usable.Dx())
	}
}

func TestTileStrategySoleContainerFillsUsable(t *testing.T) {
	usable := image.Rect(0, 0, 800, 600)
	a := &fakeTileable{}
	TileStrategy([]Tileable{a}, usable, 0, NewMasterState())
	if a.rect != usable {
		t.Errorf("sole container = %v, want %v", a.rect, usable)
	}
}

func TestMonocleFillsEveryContainer(t *testing.T) {
	usable := image.Rect(0, 0, 800, 600)
	a, b := &fakeTileable{}, &fakeTileable{}
	MonocleStrategy([]Tileable{a, b}, usable, 0, NewMasterState())
	if a.rect != usable || b.rect != usable {
		t.Errorf("monocle: a=%v b=%v, want both %v", a.rect, b.rect, usable)
	}
}

func TestFullscreenStrategyIgnoresGap(t *testing.T) {
	output := image.Rect(0, 0, 1920, 1080)
	usable := image.Rect(0, 50, 1920, 1080) // e.g. reserved top bar
	strat := FullscreenStrategy(output)
	a := &fakeTileable{}
	strat.Fn([]Tileable{a}, usable, 8, NewMasterState())
	if a.rect != output {
		t.Errorf("fullscreen rect = %v, want output %v", a.rect, output)
	}
}

func TestRegistryAdvanceWraps(t *testing.T) {
	r := NewRegistry()
	r.Register(Strategy{Name: "fullscreen"})
	if r.Current().Name != "tile" {
		t.Fatalf("initial current = %q, want tile", r.Current().Name)
	}
	r.Advance(1)
	if r.Current().Name != "monocle" {
		t.Errorf("after Advance(1) = %q, want monocle", r.Current().Name)
	}
	r.Advance(1)
	if r.Current().Name != "fullscreen" {
		t.Errorf("after Advance(1) = %q, want fullscreen", r.Current().Name)
	}
	r.Advance(1)
	if r.Current().Name != "tile" {
		t.Errorf("wrap-around = %q, want tile", r.Current().Name)
	}
	r.Advance(-1)
	if r.Current().Name != "fullscreen" {
		t.Errorf("negative Advance = %q, want fullscreen", r.Current().Name)
	}
}
