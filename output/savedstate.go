// SPDX-License-Identifier: Unlicense OR MIT

package output

import (
	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/layout"
	"mosaicwm.dev/mosaic/tag"
)

// SavedState is the in-memory snapshot of everything an Output owns
// (spec.md §6), parked under the output's name when the display is
// unplugged so a later reattach under the same name can resume exactly
// where it left off.
type SavedState struct {
	toplevels           []*container.Toplevel
	focus               *FocusStack
	containers          []*container.Container
	minimized           []*container.Container
	activeTag           tag.Bitfield
	activeWorkspace     int
	maxGeneralWorkspace int
	views               [tag.MaxTags]*layout.ViewInfo
}

// Cache is the name-keyed saved-state store (spec.md §4.2): it never
// evicts entries, since a display that was unplugged may reattach at
// any point in the session's lifetime.
type Cache struct {
	entries map[string]*SavedState
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*SavedState)}
}

// Save parks o's full state under o.Name. A subsequent Restore with the
// same name rebinds it onto a fresh Output.
func (c *Cache) Save(o *Output) {
	c.entries[o.Name] = &SavedState{
		toplevels:           o.toplevels,
		focus:               o.focus,
		containers:          o.containers,
		minimized:           o.minimized,
		activeTag:           o.activeTag,
		activeWorkspace:     o.activeWorkspace,
		maxGeneralWorkspace: o.maxGeneralWorkspace,
		views:               o.views,
	}
}

// Restore looks up name in the cache and, if found, rebinds its saved
// state onto o: every container that referenced the old Output is
// re-pointed at o (spec.md §3 "dangling references after hot-unplug"),
// and o.restored is set so downstream setup can detect the resume.
// Restore reports whether a matching entry was found.
func (c *Cache) Restore(o *Output, name string) bool {
	saved, ok := c.entries[name]
	if !ok {
		return false
	}
	o.toplevels = saved.toplevels
	o.focus = saved.focus
	o.containers = saved.containers
	o.minimized = saved.minimized
	o.activeTag = saved.activeTag
	o.activeWorkspace = saved.activeWorkspace
	o.maxGeneralWorkspace = saved.maxGeneralWorkspace
	o.views = saved.views
	for _, ct := range o.containers {
		ct.SetOutput(o)
	}
	o.restored = true
	return true
}
