// SPDX-License-Identifier: Unlicense OR MIT

// Package layout implements the three workspace layout engines
// (Floating, Master/Stack, and Binary Space Partition) together with the
// per-workspace configuration (ViewInfo) that selects and parameterizes
// them. It depends only on the small Tileable interface, not on any
// concrete container type, so it can be unit tested in isolation and
// reused by any caller that can size and position a rectangle.
package layout

// Kind selects which engine governs a workspace.
type Kind int

const (
	Floating Kind = iota
	Master
	Bsp
)

func (k Kind) String() string {
	switch k {
	case Floating:
		return "floating"
	case Master:
		return "master"
	case Bsp:
		return "bsp"
	default:
		return "unknown"
	}
}

// ViewInfo is the per-workspace layout configuration: layout kind, gap
// width, master parameters, and the BSP tree for this workspace (used
// only when Kind == Bsp).
type ViewInfo struct {
	Kind   Kind
	Gap    int
	Master MasterState
	Bsp    Tree

	strategies *Registry
}

// NewViewInfo returns a ViewInfo defaulting to Master layout with the
// tile strategy current.
func NewViewInfo() *ViewInfo {
	return &ViewInfo{
		Kind:       Master,
		Gap:        0,
		Master:     NewMasterState(),
		strategies: NewRegistry(),
	}
}

// Strategies returns the workspace's strategy registry, lazily
// constructing one if the ViewInfo was built with the zero value.
func (v *ViewInfo) Strategies() *Registry {
	if v.strategies == nil {
		v.strategies = NewRegistry()
	}
	return v.strategies
}

// SetGap clamps w to >= 0 and stores it.
func (v *ViewInfo) SetGap(w int) {
	if w < 0 {
		w = 0
	}
	v.Gap = w
}

// SetMwfact clamps f to [0.1, 0.9] and stores it.
func (v *ViewInfo) SetMwfact(f float64) {
	if f < 0.1 {
		f = 0.1
	} else if f > 0.9 {
		f = 0.9
	}
	v.Master.Mwfact = f
}
