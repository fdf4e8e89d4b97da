// SPDX-License-Identifier: Unlicense OR MIT

// Command mosaicwm wires a CompositorContext together from the CLI
// flags and environment in spec.md §6. It stops at construction: the
// wire-protocol server, renderer, cursor theme loader, and scripting
// host that actually drive an event loop around this context are
// external collaborators (spec.md §1 Non-goals), supplied by an
// embedding program, not by this command.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"mosaicwm.dev/mosaic/compositor"
)

const version = "0.1.0"

// debugLevel is a flag.Value so -d/--debug can be given more than
// once, each occurrence incrementing the level up to the clamp of 3
// (spec.md §6).
type debugLevel int

func (d *debugLevel) String() string { return fmt.Sprintf("%d", int(*d)) }

func (d *debugLevel) Set(string) error {
	if *d < 3 {
		*d++
	}
	return nil
}

// libraryPaths is a flag.Value accumulating -l/--library arguments,
// each possibly a ';'-separated list of directories, into one ordered
// slice that is appended to the module search path (spec.md §6
// "-l/--library <dir[;dir]*>").
type libraryPaths []string

func (l *libraryPaths) String() string { return strings.Join(*l, ";") }

func (l *libraryPaths) Set(v string) error {
	for _, dir := range strings.Split(v, ";") {
		if dir != "" {
			*l = append(*l, dir)
		}
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mosaicwm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		help       bool
		showVer    bool
		configPath string
		startup    string
		libs       libraryPaths
		debug      debugLevel
	)
	fs.BoolVar(&help, "h", false, "show this help message")
	fs.BoolVar(&help, "help", false, "show this help message")
	fs.BoolVar(&showVer, "v", false, "print the version and exit")
	fs.BoolVar(&showVer, "version", false, "print the version and exit")
	fs.StringVar(&configPath, "c", "", "path to the configuration file")
	fs.StringVar(&configPath, "config", "", "path to the configuration file")
	fs.StringVar(&startup, "s", "", "command to run once startup completes")
	fs.StringVar(&startup, "startup", "", "command to run once startup completes")
	fs.Var(&libs, "l", "directories to append to the module search path, ';'-separated")
	fs.Var(&libs, "library", "directories to append to the module search path, ';'-separated")
	fs.Var(&debug, "d", "increase debug verbosity (repeatable, clamped to 3)")
	fs.Var(&debug, "debug", "increase debug verbosity (repeatable, clamped to 3)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if help {
		fs.Usage()
		return 0
	}
	if showVer {
		fmt.Fprintf(os.Stdout, "mosaicwm %s\n", version)
		return 0
	}

	var opts []compositor.Option
	for i := 0; i < int(debug); i++ {
		opts = append(opts, compositor.Debug())
	}
	for _, dir := range libs {
		opts = append(opts, compositor.LibraryPath(dir))
	}
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mosaicwm: %v\n", err)
			return 1
		}
		opts = append(opts, cfg...)
	}

	setEnvironment()

	ctx := compositor.New(nil, nil, nil, opts...)
	if ctx == nil {
		fmt.Fprintln(os.Stderr, "mosaicwm: core initialization failed")
		return 1
	}

	if startup != "" {
		ctx.Logger.Printf("startup command configured: %s", startup)
	}

	// A real event loop would take ownership of ctx here and drive it
	// from the wire-protocol server's events; that collaborator is
	// external to this module (spec.md §1).
	return 0
}

// setEnvironment sets XCURSOR_SIZE to the fixed value 24, the default
// cursor size; it does not read the size from a Config. It does not set
// WAYLAND_DISPLAY or DISPLAY: the socket and Xwayland display names are
// allocated by the wire-protocol server (external).
func setEnvironment() {
	os.Setenv("XCURSOR_SIZE", "24")
}

// loadConfig is a placeholder parse step: config-file syntax itself is
// owned by the scripting host (spec.md §6), not this module. A real
// embedder supplies its own loader here; this stub only validates the
// path is readable so a typo in -c/--config fails fast with exit code
// 1 rather than silently running with defaults.
func loadConfig(path string) ([]compositor.Option, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config %q: %w", path, err)
	}
	f.Close()
	return nil, nil
}
