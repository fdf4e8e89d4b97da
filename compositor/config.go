// SPDX-License-Identifier: Unlicense OR MIT

package compositor

// Config is the mutable configuration surface of the core: border
// width, gap spacing, master factor, debug verbosity, cursor theme
// name/size, and the module search path. It mirrors gio's
// app.Config/Option pattern (app/window.go): a plain struct mutated
// only through validating functional Options, never written directly
// by a caller outside this package.
type Config struct {
	BorderWidth int
	UselessGaps int
	Mwfact      float64

	CursorTheme string
	CursorSize  int

	// LibraryPaths is the plugin/module search path, appended to by the
	// -l/--library CLI flag (spec.md §6). Entries are kept in the order
	// they were given; this package stores the path and does not search it.
	LibraryPaths []string

	// DebugLevel is clamped to [0,3] by the Debug Option, matching the
	// CLI's "-d (repeatable, clamped to 3)" rule (spec.md §6).
	DebugLevel int
}

// defaultConfig returns the Config a freshly started compositor has
// before any Option is applied.
func defaultConfig() Config {
	return Config{
		BorderWidth: 1,
		UselessGaps: 0,
		Mwfact:      0.5,
		CursorTheme: "default",
		CursorSize:  24,
	}
}

// Option configures a Config, the way app.Option configures
// app.Config: a function closing over validated arguments, applied in
// the order passed to New.
type Option func(*Config)

// BorderWidth sets the pixel width of a container's decorative border.
// Negative widths are clamped to 0.
func BorderWidth(px int) Option {
	if px < 0 {
		px = 0
	}
	return func(c *Config) { c.BorderWidth = px }
}

// UselessGaps sets the pixel gap the tiling layouts leave between
// containers and the screen edge. Negative widths are clamped to 0.
func UselessGaps(px int) Option {
	if px < 0 {
		px = 0
	}
	return func(c *Config) { c.UselessGaps = px }
}

// Mwfact sets the default master-area fraction for newly created
// workspaces, clamped to [0.1, 0.9] (the same range layout.ViewInfo
// enforces at assignment time).
func Mwfact(frac float64) Option {
	return func(c *Config) {
		switch {
		case frac < 0.1:
			frac = 0.1
		case frac > 0.9:
			frac = 0.9
		}
		c.Mwfact = frac
	}
}

// CursorTheme sets the named cursor theme passed to the cursor theme
// loader collaborator (spec.md §6). An empty name is ignored.
func CursorTheme(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.CursorTheme = name
		}
	}
}

// CursorSize sets XCURSOR_SIZE (spec.md §6 Environment). Non-positive
// sizes are ignored.
func CursorSize(px int) Option {
	return func(c *Config) {
		if px > 0 {
			c.CursorSize = px
		}
	}
}

// LibraryPath appends dir to the module search path (-l/--library,
// spec.md §6), which may be given more than once.
func LibraryPath(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.LibraryPaths = append(c.LibraryPaths, dir)
		}
	}
}

// Debug increases the debug verbosity by one level, clamped to 3
// (spec.md §6 "-d/--debug (repeatable, clamped to 3)").
func Debug() Option {
	return func(c *Config) {
		if c.DebugLevel < 3 {
			c.DebugLevel++
		}
	}
}
