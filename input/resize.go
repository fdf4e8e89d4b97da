// SPDX-License-Identifier: Unlicense OR MIT

// Package input implements the cursor state machine, interactive
// move/resize grabs, resize-coalescing scheduler, and keybinding
// dispatch described in spec.md §4.4. It depends only on the narrow
// container.Toplevel/Container surface, not on package output, so a
// router can be driven from any event source that can hand it a
// Toplevel and pointer coordinates.
package input

import (
	"image"

	"golang.org/x/sys/unix"
)

// monotonicMS reads CLOCK_MONOTONIC in milliseconds. It is grounded on
// the monotonic-clock discipline gio's wayland backend uses around its
// event-loop self-pipe (app/internal/window/os_wayland.go): a
// single-threaded cooperative loop still needs a source of time
// immune to wall-clock adjustment to rate-limit work.
func monotonicMS() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return ts.Sec*1000 + ts.Nsec/1e6
}

// ResizeScheduler coalesces interactive-resize candidate rectangles to
// at most one commit per refresh interval (spec.md §4.4 "resize
// scheduling"). The zero value is not usable; construct with
// NewResizeScheduler.
type ResizeScheduler struct {
	intervalMS   int64
	lastCommitMS int64
	pending      *image.Rectangle
	now          func() int64
}

// NewResizeScheduler returns a scheduler coalescing to one commit per
// 1000/hz milliseconds, or every 8ms if hz is unknown (<= 0).
func NewResizeScheduler(hz int) *ResizeScheduler {
	interval := int64(8)
	if hz > 0 {
		interval = int64(1000 / hz)
		if interval < 1 {
			interval = 1
		}
	}
	// lastCommitMS starts one interval back so the first Schedule commits
	// at once.
	return &ResizeScheduler{intervalMS: interval, lastCommitMS: -interval, now: monotonicMS}
}

// Schedule records rect as the pending candidate and, if at least one
// interval has elapsed since the last commit, immediately commits it.
func (s *ResizeScheduler) Schedule(rect image.Rectangle, commit func(image.Rectangle)) {
	r := rect
	s.pending = &r
	if s.now()-s.lastCommitMS >= s.intervalMS {
		s.Flush(commit)
	}
}

// Flush commits the pending rectangle, if any, regardless of elapsed
// time. stop_interactive calls this to guarantee the final rect lands.
func (s *ResizeScheduler) Flush(commit func(image.Rectangle)) {
	if s.pending == nil {
		return
	}
	commit(*s.pending)
	s.pending = nil
	s.lastCommitMS = s.now()
}

// Pending reports whether a rectangle is waiting to be committed.
func (s *ResizeScheduler) Pending() bool { return s.pending != nil }

// NextDeadline reports the monotonic-clock timestamp (milliseconds, same
// epoch as CLOCK_MONOTONIC) at which the event loop should next call
// Flush, and whether one is outstanding at all. A real event loop
// (external collaborator, spec.md §6) polls this instead of assuming
// any particular reactor or timer wheel.
func (s *ResizeScheduler) NextDeadline() (deadlineMS int64, ok bool) {
	if s.pending == nil {
		return 0, false
	}
	return s.lastCommitMS + s.intervalMS, true
}
