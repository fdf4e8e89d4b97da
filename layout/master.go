// SPDX-License-Identifier: Unlicense OR MIT

package layout

import "image"

// MasterState holds the per-workspace Master-layout parameters.
type MasterState struct {
	MasterCount  int
	ColumnCount  int
	Mwfact       float64
	strategyIdx  int
}

// NewMasterState returns a MasterState with the defaults a freshly
// created workspace uses: one master, one column, mwfact 0.5.
func NewMasterState() MasterState {
	return MasterState{MasterCount: 1, ColumnCount: 1, Mwfact: 0.5}
}

// Strategy arranges the visible tileable containers of a workspace over
// usable; gap is the workspace gap, which the strategy applies itself
// where it uses one.
type Strategy struct {
	Name string
	Fn   func(containers []Tileable, usable image.Rectangle, gap int, state MasterState)
}

// Registry is an indexed vector of registered strategies plus a cursor,
// replacing the source's sentinel-free circular linked ring (flagged in
// spec.md §9 REDESIGN FLAGS as a crash-prone edge case when the current
// strategy is removed).
type Registry struct {
	strategies []Strategy
	cursor     int
}

// NewRegistry returns a Registry pre-populated with the tile and monocle
// built-ins, cursor on tile.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(Strategy{Name: "tile", Fn: TileStrategy})
	r.Register(Strategy{Name: "monocle", Fn: MonocleStrategy})
	return r
}

// Register appends s to the registry. If s is the first strategy
// registered, it becomes current.
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
}

// Current returns the strategy the cursor points at, or the zero
// Strategy if none are registered.
func (r *Registry) Current() Strategy {
	if len(r.strategies) == 0 {
		return Strategy{}
	}
	return r.strategies[r.cursor]
}

// Advance moves the cursor by k, wrapping circularly through the
// registered strategies (k may be negative).
func (r *Registry) Advance(k int) {
	n := len(r.strategies)
	if n == 0 {
		return
	}
	r.cursor = ((r.cursor+k)%n + n) % n
}

// ByName returns the strategy named name and whether it was found.
func (r *Registry) ByName(name string) (Strategy, bool) {
	for _, s := range r.strategies {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy{}, false
}

// TileStrategy is the default master/stack arrangement: a single
// container fills the usable area; otherwise T[0] becomes a master
// column of width floor(usable.w*mwfact) and T[1:] share the remaining
// width as equal-height rows, the last absorbing rounding remainder.
func TileStrategy(containers []Tileable, usable image.Rectangle, gap int, state MasterState) {
	n := len(containers)
	if n == 0 {
		return
	}
	if n == 1 {
		place(containers[0], usable, gap)
		return
	}
	masterW := int(float64(usable.Dx()) * state.Mwfact)
	master := image.Rect(usable.Min.X, usable.Min.Y, usable.Min.X+masterW, usable.Max.Y)
	stack := image.Rect(usable.Min.X+masterW, usable.Min.Y, usable.Max.X, usable.Max.Y)
	place(containers[0], master, gap)

	rest := containers[1:]
	rows := splitRowsAbsorbRemainder(stack, len(rest))
	for i, c := range rest {
		place(c, rows[i], gap)
	}
}

// MonocleStrategy makes every container fill the usable area.
func MonocleStrategy(containers []Tileable, usable image.Rectangle, gap int, state MasterState) {
	for _, c := range containers {
		place(c, usable, gap)
	}
}

// FullscreenStrategy is the spec's example plugin strategy: identical to
// monocle but ignores gaps and uses the output origin rather than the
// usable area, so exclusive layer-shell reservations are painted over.
func FullscreenStrategy(output image.Rectangle) Strategy {
	return Strategy{
		Name: "fullscreen",
		Fn: func(containers []Tileable, usable image.Rectangle, gap int, state MasterState) {
			for _, c := range containers {
				if !c.ConfigureAllowed() {
					continue
				}
				c.SetPositionGap(output.Min.X, output.Min.Y, 0)
				c.SetSize(output.Dx(), output.Dy())
			}
		},
	}
}

func place(c Tileable, rect image.Rectangle, gap int) {
	if !c.ConfigureAllowed() {
		return
	}
	c.SetPositionGap(rect.Min.X, rect.Min.Y, gap)
	c.SetSize(rect.Dx()-2*gap, rect.Dy()-2*gap)
}

func splitRowsAbsorbRemainder(r image.Rectangle, n int) []image.Rectangle {
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
