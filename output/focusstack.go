// SPDX-License-Identifier: Unlicense OR MIT

package output

import (
	"container/list"

	"mosaicwm.dev/mosaic/container"
)

// FocusStack is a per-output MRU order of managed containers (spec.md
// §3): most-recently-focused at the head. It is the one place in this
// package that reaches for a standard-library container instead of a
// pack dependency — none of the example repos carry a general-purpose
// linked-list library, and container/list is the idiomatic vehicle for
// exactly this shape (O(1) push-to-front and O(1) removal given the
// element handle).
type FocusStack struct {
	order *list.List
	elems map[*container.Container]*list.Element
}

// NewFocusStack returns an empty FocusStack.
func NewFocusStack() *FocusStack {
	return &FocusStack{
		order: list.New(),
		elems: make(map[*container.Container]*list.Element),
	}
}

// Push moves c to the head of the stack, inserting it if not already
// present.
func (f *FocusStack) Push(c *container.Container) {
	if c == nil {
		return
	}
	if e, ok := f.elems[c]; ok {
		f.order.MoveToFront(e)
		return
	}
	f.elems[c] = f.order.PushFront(c)
}

// Remove drops c from the stack. It is a no-op if c isn't present.
func (f *FocusStack) Remove(c *container.Container) {
	e, ok := f.elems[c]
	if !ok {
		return
	}
	f.order.Remove(e)
	delete(f.elems, c)
}

// Contains reports whether c is currently on the stack.
func (f *FocusStack) Contains(c *container.Container) bool {
	_, ok := f.elems[c]
	return ok
}

// Front returns the most-recently-focused container, or nil if the
// stack is empty.
func (f *FocusStack) Front() *container.Container {
	e := f.order.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*container.Container)
}

// Len returns the number of containers on the stack.
func (f *FocusStack) Len() int { return f.order.Len() }

// Each calls fn for every container head-to-tail, stopping early if fn
// returns false.
func (f *FocusStack) Each(fn func(*container.Container) bool) {
	for e := f.order.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*container.Container)) {
			return
		}
	}
}
