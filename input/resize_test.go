// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"image"
	"testing"
)

func newTestScheduler(hz int) (*ResizeScheduler, *int64) {
	s := NewResizeScheduler(hz)
	clock := new(int64)
	s.now = func() int64 { return *clock }
	return s, clock
}

func TestResizeSchedulerCoalescesWithinInterval(t *testing.T) {
	s, clock := newTestScheduler(60)
	var commits []image.Rectangle
	commit := func(r image.Rectangle) { commits = append(commits, r) }

	s.Schedule(image.Rect(0, 0, 10, 10), commit)
	if len(commits) != 1 {
		t.Fatalf("first Schedule: got %d commits, want 1 (interval elapsed from zero)", len(commits))
	}

	*clock += 1
	s.Schedule(image.Rect(0, 0, 20, 20), commit)
	if len(commits) != 1 {
		t.Fatalf("within-interval Schedule: got %d commits, want still 1", len(commits))
	}
	if !s.Pending() {
		t.Error("Pending() = false, want true after coalesced Schedule")
	}
}

func TestResizeSchedulerCommitsAfterInterval(t *testing.T) {
	s, clock := newTestScheduler(60)
	var commits []image.Rectangle
	commit := func(r image.Rectangle) { commits = append(commits, r) }

	s.Schedule(image.Rect(0, 0, 10, 10), commit)
	*clock += s.intervalMS
	s.Schedule(image.Rect(0, 0, 20, 20), commit)
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[1] != image.Rect(0, 0, 20, 20) {
		t.Errorf("second commit = %v, want %v", commits[1], image.Rect(0, 0, 20, 20))
	}
}

func TestResizeSchedulerFlushDeliversPending(t *testing.T) {
	s, clock := newTestScheduler(60)
	var commits []image.Rectangle
	commit := func(r image.Rectangle) { commits = append(commits, r) }

	s.Schedule(image.Rect(0, 0, 10, 10), commit)
	*clock += 1
	s.Schedule(image.Rect(0, 0, 30, 30), commit)
	if len(commits) != 1 {
		t.Fatalf("setup: got %d commits, want 1", len(commits))
	}

	s.Flush(commit)
	if len(commits) != 2 {
		t.Fatalf("after Flush: got %d commits, want 2", len(commits))
	}
	if commits[1] != image.Rect(0, 0, 30, 30) {
		t.Errorf("flushed commit = %v, want %v", commits[1], image.Rect(0, 0, 30, 30))
	}
	if s.Pending() {
		t.Error("Pending() = true after Flush, want false")
	}
}

func TestResizeSchedulerFlushNoopWhenEmpty(t *testing.T) {
	s, _ := newTestScheduler(60)
	called := false
	s.Flush(func(image.Rectangle) { called = true })
	if called {
		t.Error("Flush invoked commit with no pending rectangle")
	}
}

func TestNextDeadlineReportsAbsenceAndPresence(t *testing.T) {
	s, clock := newTestScheduler(60)
	if _, ok := s.NextDeadline(); ok {
		t.Error("NextDeadline reported a deadline with nothing scheduled")
	}

	*clock = 100
	s.Schedule(image.Rect(0, 0, 10, 10), func(image.Rectangle) {})
	*clock = 101
	s.Schedule(image.Rect(0, 0, 12, 12), func(image.Rectangle) {})

	deadline, ok := s.NextDeadline()
	if !ok {
		t.Fatal("NextDeadline reported no deadline with a pending rectangle")
	}
	if want := s.lastCommitMS + s.intervalMS; deadline != want {
		t.Errorf("NextDeadline() = %d, want %d", deadline, want)
	}
}

func TestNewResizeSchedulerDefaultsIntervalWhenHzUnknown(t *testing.T) {
	s := NewResizeScheduler(0)
	if s.intervalMS != 8 {
		t.Errorf("intervalMS = %d, want 8 for unknown hz", s.intervalMS)
	}
	s = NewResizeScheduler(60)
	if s.intervalMS != 16 {
		t.Errorf("intervalMS = %d, want 16 for 60hz", s.intervalMS)
	}
}
