// SPDX-License-Identifier: Unlicense OR MIT

package compositor

import (
	"log"
	"os"
)

// Logger is the injectable sink every diagnostic in this module writes
// through, generalizing the way gio's drivers report platform errors
// straight to os.Stderr: here the host process picks the destination
// by supplying its own Logger instead.
type Logger interface {
	Printf(format string, args ...interface{})
}

// stdLogger is the default Logger, wrapping the standard library's
// log package against os.Stderr.
type stdLogger struct{ l *log.Logger }

func newStdLogger() *stdLogger {
	return &stdLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *stdLogger) Printf(format string, args ...interface{}) { s.l.Printf(format, args...) }

// PanicOnAssert gates the Assert panic path. Production builds leave it
// false; a debug build (or a test that wants to catch an invariant
// violation immediately) sets it true before running.
var PanicOnAssert = false

// Assert is the core's "asserted" statement from spec.md §7: in a
// debug build it panics with msg, otherwise it logs through logger and
// returns, never altering control flow. Callers must treat it as a
// plain statement, not a branch.
func Assert(logger Logger, cond bool, msg string) {
	if cond {
		return
	}
	if PanicOnAssert {
		panic(msg)
	}
	if logger != nil {
		logger.Printf("assertion failed: %s", msg)
	}
}
