package lumen

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/lumen-gui/lumen/lumen/bridge"
	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/renderer"
	"github.com/lumen-gui/lumen/lumen/settings"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Config wires the orchestrator's collaborators. All of them are required
// except Now, which defaults to time.Now.
type Config struct {
	Window   platform.Window
	Vsync    platform.Vsync
	Surface  surface.Surface
	Renderer renderer.Renderer
	Sink     bridge.Sink
	Settings *settings.Store

	// Idle enables idle power mode: without it every cycle animates even
	// when nothing requested a redraw.
	Idle bool

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Orchestrator runs the per-wake sequence for a single window: prepare,
// decide, animate, render, and cooperates with vsync throttling. All
// methods must be called from the event-loop goroutine.
type Orchestrator struct {
	win      platform.Window
	vsync    platform.Vsync
	surface  surface.Surface
	renderer renderer.Renderer
	sink     bridge.Sink
	settings *settings.Store
	sched    *frame.Scheduler

	idle bool
	now  func() time.Time

	padding units.Padding
	st      State
}

// New validates the collaborators and creates an orchestrator. A missing
// collaborator is a construction error, not a crash at first use.
func New(cfg Config) (*Orchestrator, error) {
	switch {
	case cfg.Window == nil:
		return nil, errors.New("orchestrator requires a window")
	case cfg.Vsync == nil:
		return nil, errors.New("orchestrator requires a vsync source")
	case cfg.Surface == nil:
		return nil, errors.New("orchestrator requires a surface")
	case cfg.Renderer == nil:
		return nil, errors.New("orchestrator requires a renderer")
	case cfg.Sink == nil:
		return nil, errors.New("orchestrator requires an outbound sink")
	case cfg.Settings == nil:
		return nil, errors.New("orchestrator requires a settings store")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	o := &Orchestrator{
		win:      cfg.Window,
		vsync:    cfg.Vsync,
		surface:  cfg.Surface,
		renderer: cfg.Renderer,
		sink:     cfg.Sink,
		settings: cfg.Settings,
		idle:     cfg.Idle,
		now:      now,
	}
	o.sched = frame.NewScheduler(func() frame.Rates {
		w := o.settings.Window()
		return frame.Rates{Active: w.RefreshRate, Idle: w.RefreshRateIdle}
	})

	start := now()
	o.st = State{
		PreviousFrameStart: start,
		Focus:              frame.Unfocused,
		Clock:              frame.Clock{Start: start},
		SavedInnerSize:     cfg.Window.InnerSize(),
		MouseEnabled:       true,
	}
	return o, nil
}

// State returns the render state, for inspection.
func (o *Orchestrator) State() *State {
	return &o.st
}

// HandleEvent applies a single event delivered by the event loop. The wake
// deadline must be recomputed after every call, since any event may shift
// urgency.
func (o *Orchestrator) HandleEvent(ev events.Event) {
	st := &o.st
	switch e := ev.(type) {
	case events.RedrawRequested:
		o.redrawRequested()

	case events.Resized:
		o.surface.Resize(units.PixelSize{Width: e.Width, Height: e.Height})
		o.forceWhenShown()

	case events.CloseRequested:
		o.sink.Send(bridge.Quit{})
		o.forceWhenShown()

	case events.FocusChanged:
		if e.Focused {
			st.Focus = frame.Focused
			st.Minimized = false
			o.sink.Send(bridge.FocusGained{})
		} else {
			st.Focus = frame.UnfocusedNotDrawn
			o.sink.Send(bridge.FocusLost{})
		}
		o.forceWhenShown()

	case events.ScaleFactorChanged:
		scale := e.ScaleFactor * o.userScale()
		o.renderer.SetScaleFactor(scale)
		o.surface.Resize(o.win.InnerSize())
		st.FontChangedLastFrame = true
		o.forceWhenShown()

	case events.ThemeChanged:
		if o.settings.Window().Theme == "auto" {
			o.sink.Send(bridge.SetBackground{Theme: e.Theme})
		}
		o.forceWhenShown()

	case events.Moved:
		o.vsync.Update(o.win)
		o.forceWhenShown()

	case events.IMEStateChanged:
		st.IMEEnabled = e.Enabled
		o.forceWhenShown()

	case events.FileDropped:
		o.sink.Send(bridge.FileDropped{Path: e.Path})
		o.forceWhenShown()

	case events.CommandBatch:
		// A pending render has already locked in the next frame's
		// content; batches wait until right after it executes.
		if st.PendingRender {
			st.Buffered.Push(e.Commands)
		} else {
			o.applyBatch(e.Commands)
			st.Decision = frame.Decision{Kind: frame.Immediately}
		}

	case events.SetTitle:
		st.Title = e.Title
		o.win.SetTitle(e.Title)
		o.force()

	case events.Minimize:
		o.win.Minimize()
		st.Minimized = true
		o.force()

	case events.SetFullscreen:
		o.win.SetFullscreen(e.Enabled)
		o.force()

	case events.FullscreenSettingChanged:
		o.win.SetFullscreen(e.Enabled)
		o.force()

	case events.FocusWindow:
		o.win.Focus()
		o.force()

	case events.ListAvailableFonts:
		o.sink.Send(bridge.AvailableFonts{Names: o.renderer.FontNames()})
		o.force()

	case events.SetMouseEnabled:
		st.MouseEnabled = e.Enabled
		o.force()

	case events.ObservedColumnsChanged:
		st.RequestedColumns = e.Columns
		o.force()

	case events.ObservedLinesChanged:
		st.RequestedLines = e.Lines
		o.force()

	case events.IMESettingChanged:
		o.win.SetIMEAllowed(e.Enabled)
		o.force()

	case events.UserScaleChanged:
		w := o.settings.Window()
		w.UserScaleFactor = e.ScaleFactor
		o.settings.SetWindow(w)
		o.renderer.SetScaleFactor(o.win.ScaleFactor() * e.ScaleFactor)
		st.FontChangedLastFrame = true
		o.force()

	case events.TextGammaChanged, events.TextContrastChanged:
		st.FontChangedLastFrame = true
		o.force()

	case events.ConfigReloaded:
		o.settings.Apply(e.Config)
		st.FontChangedLastFrame = true
		o.force()
	}
}

// force raises the decision to Immediately.
func (o *Orchestrator) force() {
	o.st.Decision = frame.Decision{Kind: frame.Immediately}
}

// forceWhenShown raises the decision only once the first-paint milestone
// has been reached; before that, window events cannot produce a frame.
func (o *Orchestrator) forceWhenShown() {
	if o.st.UI >= UIFirstFrame {
		o.force()
	}
}

func (o *Orchestrator) userScale() float64 {
	s := o.settings.Window().UserScaleFactor
	if s <= 0 {
		return 1.0
	}
	return s
}

// PrepareAndAnimate runs the per-wake cycle after event handling: prepare,
// decide whether to animate, step the animation clock, and schedule or
// perform a render.
func (o *Orchestrator) PrepareAndAnimate() {
	st := &o.st
	now := o.now()

	skipped := st.PendingRender && now.After(st.Clock.Deadline())
	if st.PendingRender && !skipped {
		// The committed frame will arrive with the redraw callback;
		// nothing to do until then.
		return
	}

	st.Decision.Update(o.prepareFrame())

	skipped = st.PendingRender && o.now().After(st.Clock.Deadline())
	shouldAnimate := st.Decision.Kind == frame.Immediately || !o.idle || skipped

	if shouldAnimate {
		o.resetAnimationPeriod()
		o.animate()
		o.scheduleRender(skipped)
	} else {
		// Keep timing bookkeeping fresh so idle time does not distort
		// the next frame's delta.
		st.ConsecutiveRenders = 0
		st.LastDt = o.now().Sub(st.PreviousFrameStart).Seconds()
		st.PreviousFrameStart = o.now()
	}
}

// NextWake computes the next required wake time for the event loop.
func (o *Orchestrator) NextWake() time.Time {
	st := &o.st
	snap := frame.Snapshot{
		Focus:              st.Focus,
		PendingRender:      st.PendingRender,
		Decision:           st.Decision,
		PreviousFrameStart: st.PreviousFrameStart,
		AnimationDeadline:  st.Clock.Deadline(),
	}
	return o.sched.EventDeadline(snap, o.now())
}

// prepareFrame applies sizing changes and merges the renderer's readiness.
func (o *Orchestrator) prepareFrame() frame.Decision {
	st := &o.st
	decision := frame.Decision{Kind: frame.Wait}

	if st.UI == UIIniting {
		return decision
	}
	if st.UI == UIFirstFrame {
		decision = frame.Decision{Kind: frame.Immediately}
	}

	padding := o.currentPadding()
	paddingChanged := padding != o.padding

	if st.RequestedColumns != nil || st.RequestedLines != nil {
		// Explicit grid-size requests take priority over sizing from the
		// observed pixel size; the resulting resize is processed on a
		// following cycle.
		o.updateWindowSizeFromGrid(padding)
	} else if !o.win.IsMinimized() {
		// Minimized windows report degenerate sizes on some platforms;
		// never derive a grid from those.
		newSize := o.win.InnerSize()
		if st.SavedInnerSize != newSize || st.SavedGridSize == nil ||
			st.FontChangedLastFrame || paddingChanged {
			o.padding = padding
			st.SavedInnerSize = newSize
			o.surface.Resize(newSize)
			o.updateGridSizeFromWindow()
			decision = frame.Decision{Kind: frame.Immediately}
		}
	}

	decision.Update(o.renderer.Prepare())
	return decision
}

// resetAnimationPeriod re-anchors the animation clock when animation is
// starting from an idle state, so the idle gap is not treated as backlog.
func (o *Orchestrator) resetAnimationPeriod() {
	st := &o.st
	st.Decision = frame.Decision{Kind: frame.Wait}
	if st.ConsecutiveRenders == 0 {
		st.Clock.Reset(o.now())
	}
}

// animate advances the animation clock by one frame and records whether
// the content wants another one right away.
func (o *Orchestrator) animate() {
	st := &o.st

	rate := o.vsync.RefreshRate()
	if rate <= 0 {
		rate = o.sched.RefreshRate(st.Focus)
	}
	target := time.Duration(float64(time.Second) / rate)

	rect := o.gridRectFromWindow()
	animating := st.Clock.Step(o.now(), target, func(dt float64) bool {
		return o.renderer.Animate(rect, dt)
	})
	if animating {
		st.Decision = frame.Decision{Kind: frame.Immediately}
	}
}

// scheduleRender either renders now or, under vsync throttling, requests a
// redraw and leaves the render pending until the callback arrives.
func (o *Orchestrator) scheduleRender(skippedFrame bool) {
	if skippedFrame {
		// The compositor missed the slot; the animated frame will be
		// rendered at its own pace, re-requesting would only pile up.
		return
	}

	if o.vsync.UsesThrottling() {
		o.vsync.RequestRedraw(o.win)
		o.st.PendingRender = true
	} else {
		o.render()
	}
}

// render executes the committed frame.
func (o *Orchestrator) render() {
	st := &o.st
	st.PendingRender = false

	if st.FontChangedLastFrame {
		st.FontChangedLastFrame = false
		o.renderer.Relayout()
	}

	o.renderer.Draw(o.surface.Canvas(), st.LastDt)
	o.surface.Flush()
	o.surface.WaitForVsync()
	o.surface.SwapBuffers()

	if st.UI == UIFirstFrame {
		// Deferred visibility: showing only after the first paint avoids
		// a flash of an unpainted surface.
		o.win.SetVisible(true)
		st.UI = UIShowing
		slog.Info("Window shown after first frame")
	}

	st.ConsecutiveRenders++
	st.FramesRendered++
	st.LastDt = o.now().Sub(st.PreviousFrameStart).Seconds()
	st.PreviousFrameStart = o.now()

	if st.Focus == frame.UnfocusedNotDrawn {
		st.Focus = frame.Unfocused
	}
}

// redrawRequested handles the platform's redraw callback.
func (o *Orchestrator) redrawRequested() {
	st := &o.st
	if st.PendingRender {
		o.render()
		o.processBufferedBatches()
	} else {
		// An OS-initiated repaint: prepare on the next cycle instead of
		// rendering stale content synchronously.
		st.Decision = frame.Decision{Kind: frame.Immediately}
	}
}

// processBufferedBatches applies batches queued behind the render that just
// executed, in arrival order, exactly once.
func (o *Orchestrator) processBufferedBatches() {
	st := &o.st
	drained := st.Buffered.Drain()
	if len(drained) == 0 {
		return
	}
	for _, batch := range drained {
		o.applyBatch(batch)
	}
	st.Decision = frame.Decision{Kind: frame.Immediately}
}

func (o *Orchestrator) applyBatch(batch renderer.Batch) {
	st := &o.st
	outcome := o.renderer.HandleCommandBatch(batch)
	st.FontChangedLastFrame = st.FontChangedLastFrame || outcome.FontChanged
	if st.UI == UIIniting && outcome.ShouldShow {
		st.UI = UIFirstFrame
		slog.Info("Host ready, first frame pending")
	}
}

func (o *Orchestrator) currentPadding() units.Padding {
	w := o.settings.Window()
	return units.Padding{
		Top:    w.PaddingTop,
		Left:   w.PaddingLeft,
		Right:  w.PaddingRight,
		Bottom: w.PaddingBottom,
	}
}

func (o *Orchestrator) cellSize() units.CellSize {
	cell := o.renderer.CellSize()
	if cell.Width <= 0 {
		cell.Width = 1
	}
	if cell.Height <= 0 {
		cell.Height = 1
	}
	return cell
}

// gridSizeFromWindow derives the logical grid from the saved pixel size,
// padding and cell metrics.
func (o *Orchestrator) gridSizeFromWindow(min units.GridSize) units.GridSize {
	cell := o.cellSize()
	content := units.PixelSize{
		Width:  o.st.SavedInnerSize.Width - o.padding.Horizontal(),
		Height: o.st.SavedInnerSize.Height - o.padding.Vertical(),
	}
	grid := units.GridSize{
		Columns: int(math.Floor(float64(content.Width) / cell.Width)),
		Rows:    int(math.Floor(float64(content.Height) / cell.Height)),
	}
	return grid.Max(min)
}

// gridRectFromWindow is the animated area in fractional cell units.
func (o *Orchestrator) gridRectFromWindow() units.GridRect {
	cell := o.cellSize()
	size := o.gridSizeFromWindow(units.GridSize{})
	return units.GridRect{
		X:      float64(o.padding.Left) / cell.Width,
		Y:      float64(o.padding.Top) / cell.Height,
		Width:  float64(size.Columns),
		Height: float64(size.Rows),
	}
}

// updateGridSizeFromWindow recomputes the grid and notifies the host when
// it changed.
func (o *Orchestrator) updateGridSizeFromWindow() {
	st := &o.st
	grid := o.gridSizeFromWindow(units.MinGridSize)
	if st.SavedGridSize != nil && *st.SavedGridSize == grid {
		return
	}
	st.SavedGridSize = &grid
	o.renderer.Resize(grid)
	slog.Info("Resizing grid from window size",
		"columns", grid.Columns, "rows", grid.Rows,
		"width", st.SavedInnerSize.Width, "height", st.SavedInnerSize.Height)
	o.sink.Send(bridge.GridResize{Columns: grid.Columns, Rows: grid.Rows})
}

// updateWindowSizeFromGrid consumes explicit column/line requests and asks
// the platform for the matching pixel size.
func (o *Orchestrator) updateWindowSizeFromGrid(padding units.Padding) {
	st := &o.st

	saved := units.DefaultGridSize
	if st.SavedGridSize != nil {
		saved = *st.SavedGridSize
	}
	grid := saved
	if st.RequestedColumns != nil {
		grid.Columns = *st.RequestedColumns
		st.RequestedColumns = nil
	}
	if st.RequestedLines != nil {
		grid.Rows = *st.RequestedLines
		st.RequestedLines = nil
	}
	grid = grid.Clamped()

	cell := o.cellSize()
	size := units.PixelSize{
		Width:  int(math.Floor(float64(grid.Columns)*cell.Width)) + padding.Horizontal(),
		Height: int(math.Floor(float64(grid.Rows)*cell.Height)) + padding.Vertical(),
	}
	slog.Info("Resizing window from grid size",
		"columns", grid.Columns, "rows", grid.Rows,
		"width", size.Width, "height", size.Height)
	o.win.RequestInnerSize(size)
}
