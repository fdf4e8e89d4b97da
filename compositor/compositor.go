// SPDX-License-Identifier: Unlicense OR MIT

// Package compositor wires together the package-level pieces — output,
// input, session, signal, container, layout — into the single
// CompositorContext a cmd/mosaicwm main loop drives. Per REDESIGN
// FLAGS (spec.md §9), the context is threaded explicitly through every
// call instead of living behind package-level globals, the way the
// source's single-process C globals (g_server, g_config) did.
package compositor

import (
	"mosaicwm.dev/mosaic/container"
	"mosaicwm.dev/mosaic/input"
	"mosaicwm.dev/mosaic/output"
	"mosaicwm.dev/mosaic/scene"
	"mosaicwm.dev/mosaic/session"
	"mosaicwm.dev/mosaic/signal"
)

// CompositorContext is the explicitly-threaded analogue of the
// source's global server state: every output, the input router, the
// keybinding registry, the session lock, the signal bus, and the
// current configuration, held as one value instead of scattered
// globals.
type CompositorContext struct {
	Config Config
	Logger Logger

	Bus      *signal.Bus
	Router   *input.Router
	Keybinds *input.Keybinds
	Lock     *session.Lock

	outputs       map[string]*output.Output
	focusedOutput *output.Output

	// insertMarked is the global insert-mark of spec.md §3/§9: a weak
	// reference to the container the next mapped toplevel should join.
	// It is cleared automatically when that container is destroyed (see
	// the container::destroy subscription installed in New), since Go
	// has no native weak pointer this package can rely on pre-1.24.
	insertMarked *container.Container

	// focusedTop is the toplevel Focus last activated, consulted to emit
	// client::unfocus on the next Focus call (spec.md §4.4 step 6).
	focusedTop *container.Toplevel
}

// dispatcherAdapter lets New wire session.Lock's keybinding-suspension
// side of the lock against this context's own Keybinds registry,
// without package session importing package input (session declares
// its own narrow Dispatcher interface; this is the one concrete type
// satisfying it).
type dispatcherAdapter struct{ keybinds *input.Keybinds }

func (d dispatcherAdapter) SetLocked(locked bool) { d.keybinds.SetLocked(locked) }

// New constructs a CompositorContext with opts applied over
// defaultConfig, a fresh signal bus, input router, and keybinding
// registry (with vt wired in as its VTSwitcher, or nil for none).
// keyboard is the wire-protocol seat's keyboard-focus interface
// (external collaborator, spec.md §6) the session lock pins focus
// through; it may be nil in tests that don't exercise locking.
// logger may be nil, in which case a stderr-backed default is used.
func New(logger Logger, vt input.VTSwitcher, keyboard session.KeyboardFocus, opts ...Option) *CompositorContext {
	if logger == nil {
		logger = newStdLogger()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	keybinds := input.NewKeybinds(vt)
	ctx := &CompositorContext{
		Config:   cfg,
		Logger:   logger,
		Bus:      signal.NewBus(logger),
		Router:   input.NewRouter(60),
		Keybinds: keybinds,
		outputs:  make(map[string]*output.Output),
	}
	ctx.Lock = session.New(keyboard, dispatcherAdapter{keybinds: keybinds})
	ctx.Bus.Connect("container::destroy", ctx.onContainerDestroy)
	return ctx
}

func (ctx *CompositorContext) onContainerDestroy(payload interface{}) {
	c, ok := payload.(*container.Container)
	if !ok {
		return
	}
	if ctx.insertMarked == c {
		ctx.insertMarked = nil
	}
}

// SetInsertMarked installs c as the insert mark. Passing nil clears it
// unconditionally.
func (ctx *CompositorContext) SetInsertMarked(c *container.Container) {
	ctx.insertMarked = c
}

// InsertMarked returns the current insert-mark target, or nil.
func (ctx *CompositorContext) InsertMarked() *container.Container {
	return ctx.insertMarked
}

// AddOutput registers a new Output under name, failing with
// ErrDuplicateOutput if the name is already in use. The first output
// added becomes the focused one.
func (ctx *CompositorContext) AddOutput(o *output.Output) error {
	if _, exists := ctx.outputs[o.Name]; exists {
		return ErrDuplicateOutput
	}
	ctx.outputs[o.Name] = o
	if ctx.focusedOutput == nil {
		ctx.focusedOutput = o
	}
	return nil
}

// RemoveOutput unregisters name. If it was the focused output, focus
// falls to an arbitrary remaining output, or none if this was the last.
func (ctx *CompositorContext) RemoveOutput(name string) {
	o, ok := ctx.outputs[name]
	if !ok {
		return
	}
	delete(ctx.outputs, name)
	if ctx.focusedOutput != o {
		return
	}
	ctx.focusedOutput = nil
	for _, remaining := range ctx.outputs {
		ctx.focusedOutput = remaining
		break
	}
}

// Output looks up a registered output by name.
func (ctx *CompositorContext) Output(name string) (*output.Output, bool) {
	o, ok := ctx.outputs[name]
	return o, ok
}

// Outputs returns every registered output in unspecified order.
func (ctx *CompositorContext) Outputs() []*output.Output {
	out := make([]*output.Output, 0, len(ctx.outputs))
	for _, o := range ctx.outputs {
		out = append(out, o)
	}
	return out
}

// FocusedOutput returns the output that currently has compositor focus
// (new toplevels map onto it), or nil if none are registered.
func (ctx *CompositorContext) FocusedOutput() *output.Output {
	return ctx.focusedOutput
}

// FocusOutput sets the focused output, if it is registered; otherwise
// it returns ErrUnknownOutput and leaves focus unchanged.
func (ctx *CompositorContext) FocusOutput(name string) error {
	o, ok := ctx.outputs[name]
	if !ok {
		return ErrUnknownOutput
	}
	ctx.focusedOutput = o
	return nil
}

// MapToplevel runs the mapped half of the Toplevel lifecycle
// (spec.md §4.8) on the focused output, consuming and clearing the
// insert mark if one is set, then emits client::map.
func (ctx *CompositorContext) MapToplevel(t *container.Toplevel, cfg output.MapConfig) (*container.Container, error) {
	o := ctx.focusedOutput
	if o == nil {
		return nil, ErrNoActiveOutput
	}
	marked := ctx.insertMarked
	ctx.insertMarked = nil
	c := o.Map(t, marked, cfg)
	ctx.Bus.Emit("client::map", t)
	return c, nil
}

// UnmapToplevel runs the unmapped half of the Toplevel lifecycle on
// whichever output currently owns t, clears an active interactive grab
// targeting t, and emits client::unmap.
func (ctx *CompositorContext) UnmapToplevel(o *output.Output, t *container.Toplevel) {
	if ctx.Router.State() != input.Normal && ctx.Router.GrabTarget() == t {
		ctx.Router.StopInteractive()
	}
	if ctx.focusedTop == t {
		ctx.focusedTop = nil
	}
	o.Unmap(t)
	ctx.Bus.Emit("client::unmap", t)
}

// focusable reports whether t is eligible for a client::focus/
// client::unfocus notification: mapped and belonging to a managed
// container (spec.md §4.4 step 6 "if mapped, managed").
func focusable(t *container.Toplevel) bool {
	if t == nil || !t.Mapped() {
		return false
	}
	c := t.Container()
	return c != nil && !c.Unmanaged()
}

// Focus implements the InputRouter's focus policy (spec.md §4.4,
// invoked by a client's Toplevel.focus request):
//  1. a nil top clears keyboard focus;
//  2. focusing the already-focused surface is a no-op;
//  3. the target's container moves to its output's focus_stack head;
//  4. the scene-motion focus-change signal is suppressed while
//     activating, so a stray in-flight pointer-motion hover update can't
//     race the activate;
//  5. the target is marked focused, one no-motion cursor update runs
//     (so hover signals fire against the new focus), the keyboard enter
//     is notified, and the container is raised if raise is set;
//  6. client::focus fires for the new target and client::unfocus for
//     the previous one, each only if still mapped and managed.
//
// Focus is a no-op while the SessionLock is locked or an
// exclusive-keyboard layer-shell surface holds the router's focus pin (spec.md §4.4
// "Exclusive focus overrides"). o is the output owning top (ignored if
// top is nil); keyboard and hit may be nil for callers that don't care
// about the corresponding side effect.
func (ctx *CompositorContext) Focus(top *container.Toplevel, o *output.Output, keyboard input.Keyboard, hit input.HitTester, raise bool) {
	if ctx.Lock.Locked() || ctx.Router.Pinned() {
		return
	}

	if top == nil {
		ctx.Router.SetFocusedSurface(nil)
		if keyboard != nil {
			keyboard.Leave()
		}
		ctx.focusedTop = nil
		return
	}
	if ctx.Router.FocusedSurface() == top.Surface {
		return
	}

	prevTop := ctx.focusedTop

	if c := top.Container(); c != nil && o != nil {
		o.Focus(c)
	}

	ctx.Router.SetSuppressHover(true)
	ctx.Router.SetFocusedSurface(top.Surface)
	ctx.focusedTop = top
	ctx.Router.RefreshHover(hit)
	ctx.Router.SetSuppressHover(false)

	if keyboard != nil {
		keyboard.Enter(top.Surface)
	}
	if raise {
		if c := top.Container(); c != nil {
			c.Raise()
		}
	}

	if focusable(top) {
		ctx.Bus.Emit("client::focus", top)
	}
	if focusable(prevTop) {
		ctx.Bus.Emit("client::unfocus", prevTop)
	}
}

// AddLayerClient registers c under layerKind on o, re-arranging the
// usable area, and — per spec.md §4.4 "Exclusive focus overrides" —
// pins keyboard focus to c if it is a Top/Overlay-layer surface
// requesting exclusive keyboard-interactivity.
func (ctx *CompositorContext) AddLayerClient(o *output.Output, layerKind scene.Layer, c scene.LayerClient, keyboard input.Keyboard) {
	o.AddLayerClient(layerKind, c)
	if (layerKind == scene.Top || layerKind == scene.Overlay) && c.ExclusiveKeyboard() {
		ctx.Router.PinFocus(c)
		if keyboard != nil {
			keyboard.Enter(c)
		}
	}
}

// RemoveLayerClient unregisters c from o, re-arranging, and — if c held
// the exclusive-keyboard focus pin — releases it and refocuses the
// output's newest visible toplevel (spec.md §4.4 "...until it maps
// away").
func (ctx *CompositorContext) RemoveLayerClient(o *output.Output, layerKind scene.Layer, c scene.LayerClient, keyboard input.Keyboard, hit input.HitTester) {
	o.RemoveLayerClient(layerKind, c)
	if !ctx.Router.Pinned() || ctx.Router.PinnedSurface() != scene.LayerClient(c) {
		return
	}
	ctx.Router.UnpinFocus()
	if keyboard != nil {
		keyboard.Leave()
	}
	if next := o.NewestFocusVisibleToplevel(); next != nil {
		ctx.Focus(next, o, keyboard, hit, false)
	}
}
