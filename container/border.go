// SPDX-License-Identifier: Unlicense OR MIT

package container

// Buffer is an opaque renderer-owned scene buffer handle. The core never
// interprets it; it only tracks whether one was successfully allocated.
type Buffer interface{}

// Pattern is an opaque gradient/cairo-pattern reference supplied by the
// renderer and reused unchanged across border re-allocation.
type Pattern interface{}

// Allocator is the renderer+allocator collaborator (external per
// spec.md §6) the border uses to obtain its four scene buffers.
type Allocator interface {
	// AllocateBorderBuffer returns a new scene buffer of size w x h, or
	// an error if the allocation failed (out of memory, device lost).
	AllocateBorderBuffer(w, h int) (Buffer, error)
}

// Border is the four scene buffers that form a rectangular frame around
// a container's surface area, plus the gradient pattern and thickness
// that produced them.
type Border struct {
	Top, Right, Bottom, Left Buffer
	Pattern                  Pattern
	Thickness                int
	Enabled                  bool

	valid bool
}

// Valid reports whether all four buffers are currently allocated. Each
// Allocate call sets it on success and clears it otherwise.
func (b *Border) Valid() bool {
	return b.valid
}

// Allocate (re)allocates the four frame buffers for a container of size
// w x h with the border's current Thickness, such that the four buffers
// form a rectangular frame of width w, height h, with an inner hole
// equal to the surface area (w-2*Thickness x h-2*Thickness).
//
// On allocation failure the border is left invalid and Allocate returns
// the error; the caller (Container) remains usable without a border, per
// the resource-allocation-failure recovery in spec.md §7.
func (b *Border) Allocate(alloc Allocator, w, h int) error {
	if alloc == nil || b.Thickness <= 0 {
		b.valid = false
		return nil
	}
	t := b.Thickness
	top, err := alloc.AllocateBorderBuffer(w, t)
	if err != nil {
		b.valid = false
		return err
	}
	bottom, err := alloc.AllocateBorderBuffer(w, t)
	if err != nil {
		b.valid = false
		return err
	}
	left, err := alloc.AllocateBorderBuffer(t, h-2*t)
	if err != nil {
		b.valid = false
		return err
	}
	right, err := alloc.AllocateBorderBuffer(t, h-2*t)
	if err != nil {
		b.valid = false
		return err
	}
	b.Top, b.Bottom, b.Left, b.Right = top, bottom, left, right
	b.valid = true
	return nil
}
