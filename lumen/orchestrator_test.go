package lumen

import (
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-gui/lumen/lumen/bridge"
	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/platform/headless"
	"github.com/lumen-gui/lumen/lumen/renderer"
	"github.com/lumen-gui/lumen/lumen/settings"
	"github.com/lumen-gui/lumen/lumen/units"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeRenderer struct {
	prepare   frame.Decision
	animating bool
	cell      units.CellSize
	grid      units.GridSize

	animateDts []float64
	drawCalls  int
	relayouts  int
	batches    []renderer.Batch
	resizes    []units.GridSize
	scale      float64
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		cell: units.CellSize{Width: 8, Height: 16},
		grid: units.DefaultGridSize,
	}
}

func (r *fakeRenderer) Prepare() frame.Decision {
	d := r.prepare
	r.prepare = frame.Decision{}
	return d
}

func (r *fakeRenderer) Animate(rect units.GridRect, dt float64) bool {
	r.animateDts = append(r.animateDts, dt)
	return r.animating
}

func (r *fakeRenderer) Draw(canvas *gg.Context, dt float64) { r.drawCalls++ }

func (r *fakeRenderer) HandleCommandBatch(batch renderer.Batch) renderer.Outcome {
	r.batches = append(r.batches, batch)
	var out renderer.Outcome
	for _, cmd := range batch {
		switch cmd.(type) {
		case renderer.Ready:
			out.ShouldShow = true
		case renderer.SetFont:
			out.FontChanged = true
		}
	}
	return out
}

func (r *fakeRenderer) Relayout()                { r.relayouts++ }
func (r *fakeRenderer) CellSize() units.CellSize { return r.cell }
func (r *fakeRenderer) GridSize() units.GridSize { return r.grid }
func (r *fakeRenderer) SetScaleFactor(f float64) { r.scale = f }
func (r *fakeRenderer) FontNames() []string      { return []string{"monospace"} }

func (r *fakeRenderer) Resize(size units.GridSize) {
	r.resizes = append(r.resizes, size)
	r.grid = size
}

type fakeSurface struct {
	resizes []units.PixelSize
	flushes int
	vsyncs  int
	swaps   int
	visible bool
}

func (s *fakeSurface) Resize(size units.PixelSize) { s.resizes = append(s.resizes, size) }
func (s *fakeSurface) Canvas() *gg.Context         { return nil }
func (s *fakeSurface) Flush()                      { s.flushes++ }
func (s *fakeSurface) WaitForVsync()               { s.vsyncs++ }
func (s *fakeSurface) SwapBuffers()                { s.swaps++ }
func (s *fakeSurface) SetVisible(v bool)           { s.visible = v }

type orchFixture struct {
	orch  *Orchestrator
	win   *headless.Window
	vsync *headless.Vsync
	surf  *fakeSurface
	rend  *fakeRenderer
	sink  *bridge.Recorder
	store *settings.Store
	clock *fakeClock
}

func newOrchFixture(t *testing.T, throttling, idle bool) *orchFixture {
	t.Helper()

	f := &orchFixture{
		win:   headless.NewWindow(units.PixelSize{Width: 800, Height: 600}),
		vsync: &headless.Vsync{Throttling: throttling, Rate: 60},
		surf:  &fakeSurface{},
		rend:  newFakeRenderer(),
		sink:  &bridge.Recorder{},
		store: settings.NewStore(settings.DefaultConfig()),
		clock: newFakeClock(),
	}

	orch, err := New(Config{
		Window:   f.win,
		Vsync:    f.vsync,
		Surface:  f.surf,
		Renderer: f.rend,
		Sink:     f.sink,
		Settings: f.store,
		Idle:     idle,
		Now:      f.clock.now,
	})
	require.NoError(t, err)
	f.orch = orch
	return f
}

func (f *orchFixture) postBatch(cmds ...renderer.Command) {
	f.orch.HandleEvent(events.CommandBatch{Commands: renderer.Batch(cmds)})
}

// show drives the fixture through the first paint.
func (f *orchFixture) show(t *testing.T) {
	t.Helper()
	f.postBatch(renderer.Ready{})
	f.orch.PrepareAndAnimate()
	if f.vsync.Throttling {
		f.orch.HandleEvent(events.RedrawRequested{})
	}
	require.Equal(t, UIShowing, f.orch.State().UI)
	f.sink.Reset()
	f.rend.batches = nil
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorContains(t, err, "window")

	f := newOrchFixture(t, false, false)
	_, err = New(Config{
		Window:  f.win,
		Vsync:   f.vsync,
		Surface: f.surf,
		Sink:    f.sink,
	})
	assert.ErrorContains(t, err, "renderer")
}

func TestFirstPaintShowsWindow(t *testing.T) {
	f := newOrchFixture(t, false, true)

	// Nothing may render before the host is ready.
	f.orch.PrepareAndAnimate()
	assert.Equal(t, 0, f.rend.drawCalls)
	assert.False(t, f.win.Visible)

	f.postBatch(renderer.Ready{})
	assert.Equal(t, UIFirstFrame, f.orch.State().UI)
	assert.False(t, f.win.Visible, "visible before first paint")

	f.orch.PrepareAndAnimate()
	assert.Equal(t, UIShowing, f.orch.State().UI)
	assert.True(t, f.win.Visible)
	assert.Equal(t, 1, f.rend.drawCalls)
	assert.Equal(t, 1, f.surf.swaps)
	assert.Equal(t, 1, f.orch.State().FramesRendered)
}

func TestRenderPhaseOrder(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	assert.Equal(t, 1, f.surf.flushes)
	assert.Equal(t, 1, f.surf.vsyncs)
	assert.Equal(t, 1, f.surf.swaps)
}

func TestWindowEventsIgnoredBeforeFirstFrame(t *testing.T) {
	f := newOrchFixture(t, false, true)

	f.orch.HandleEvent(events.FocusChanged{Focused: true})
	f.orch.HandleEvent(events.Resized{Width: 640, Height: 480})
	assert.Equal(t, frame.Wait, f.orch.State().Decision.Kind)

	// Side effects still apply even though no frame is produced.
	assert.Equal(t, []bridge.Message{bridge.FocusGained{}}, f.sink.Messages())
}

func TestInitialGridSizeReported(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.postBatch(renderer.Ready{})
	f.orch.PrepareAndAnimate()

	// 800x600 window, 8x16 cells: 100 columns, 37 full rows.
	require.NotEmpty(t, f.rend.resizes)
	assert.Equal(t, units.GridSize{Columns: 100, Rows: 37}, f.rend.resizes[0])
	assert.Contains(t, f.sink.Messages(), bridge.GridResize{Columns: 100, Rows: 37})
}

func TestResizeRecomputesGrid(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)
	f.rend.resizes = nil

	f.win.SetInnerSize(units.PixelSize{Width: 640, Height: 320})
	f.orch.HandleEvent(events.Resized{Width: 640, Height: 320})
	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)

	f.orch.PrepareAndAnimate()
	require.NotEmpty(t, f.rend.resizes)
	assert.Equal(t, units.GridSize{Columns: 80, Rows: 20}, f.rend.resizes[0])
	assert.Contains(t, f.sink.Messages(), bridge.GridResize{Columns: 80, Rows: 20})
}

func TestRequestedGridSizeResizesWindow(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	cols := 120
	f.orch.HandleEvent(events.ObservedColumnsChanged{Columns: &cols})
	f.orch.PrepareAndAnimate()

	require.NotEmpty(t, f.win.ResizeRequests)
	// 120 columns x 8px, rows keep their saved value of 37 x 16px.
	assert.Equal(t, units.PixelSize{Width: 960, Height: 592}, f.win.ResizeRequests[0])
	assert.Nil(t, f.orch.State().RequestedColumns, "request not consumed")
}

func TestBatchesBufferedWhilePendingRender(t *testing.T) {
	f := newOrchFixture(t, true, true)
	f.show(t)

	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	f.orch.PrepareAndAnimate()
	require.True(t, f.orch.State().PendingRender)

	f.postBatch(renderer.SetLine{Row: 0, Text: "one"})
	f.postBatch(renderer.SetLine{Row: 1, Text: "two"})
	f.postBatch(renderer.SetLine{Row: 2, Text: "three"})
	assert.Empty(t, f.rend.batches, "batches applied while render pending")
	assert.Equal(t, 3, f.orch.State().Buffered.Len())

	draws := f.rend.drawCalls
	f.orch.HandleEvent(events.RedrawRequested{})
	assert.Equal(t, draws+1, f.rend.drawCalls)
	assert.False(t, f.orch.State().PendingRender)

	// All three, in arrival order, exactly once, after the render.
	require.Len(t, f.rend.batches, 3)
	assert.Equal(t, "one", f.rend.batches[0][0].(renderer.SetLine).Text)
	assert.Equal(t, "two", f.rend.batches[1][0].(renderer.SetLine).Text)
	assert.Equal(t, "three", f.rend.batches[2][0].(renderer.SetLine).Text)
	assert.Equal(t, 0, f.orch.State().Buffered.Len())
	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)
}

func TestBatchAppliedDirectlyWithoutPendingRender(t *testing.T) {
	f := newOrchFixture(t, true, true)
	f.show(t)

	f.postBatch(renderer.SetLine{Row: 0, Text: "hello"})
	require.Len(t, f.rend.batches, 1)
	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)
}

func TestEventDeadlineWhilePendingRender(t *testing.T) {
	f := newOrchFixture(t, true, true)
	f.show(t)

	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	f.orch.PrepareAndAnimate()
	require.True(t, f.orch.State().PendingRender)

	// Even an Immediately decision must not wake the loop before the
	// committed frame's deadline.
	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	assert.Equal(t, f.orch.State().Clock.Deadline(), f.orch.NextWake())
}

func TestSkippedFrameDoesNotReRequestRedraw(t *testing.T) {
	f := newOrchFixture(t, true, true)
	f.show(t)

	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	f.orch.PrepareAndAnimate()
	require.True(t, f.orch.State().PendingRender)
	requests := f.vsync.RedrawRequests

	// The redraw callback never arrived in time.
	f.clock.advance(200 * time.Millisecond)
	f.orch.PrepareAndAnimate()

	assert.Equal(t, requests, f.vsync.RedrawRequests)
	assert.True(t, f.orch.State().PendingRender)
	assert.NotEmpty(t, f.rend.animateDts, "skipped frame must still animate")
}

func TestRedrawRequestedWithoutPendingForcesPrepare(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)
	draws := f.rend.drawCalls

	f.orch.HandleEvent(events.RedrawRequested{})
	assert.Equal(t, draws, f.rend.drawCalls, "must not render stale content synchronously")
	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)
}

func TestFocusTransitions(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.FocusChanged{Focused: false})
	assert.Equal(t, frame.UnfocusedNotDrawn, f.orch.State().Focus)
	assert.Contains(t, f.sink.Messages(), bridge.FocusLost{})

	// One farewell frame at the active rate, then idle.
	f.orch.PrepareAndAnimate()
	assert.Equal(t, frame.Unfocused, f.orch.State().Focus)

	f.orch.HandleEvent(events.FocusChanged{Focused: true})
	assert.Equal(t, frame.Focused, f.orch.State().Focus)
	assert.Contains(t, f.sink.Messages(), bridge.FocusGained{})
}

func TestCloseRequestedSendsQuit(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.CloseRequested{})
	assert.Contains(t, f.sink.Messages(), bridge.Quit{})
}

func TestIdleSkipsAnimationOnWait(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)
	draws := f.rend.drawCalls
	f.rend.animateDts = nil

	f.clock.advance(16 * time.Millisecond)
	f.orch.PrepareAndAnimate()

	assert.Equal(t, draws, f.rend.drawCalls)
	assert.Empty(t, f.rend.animateDts)
	assert.Equal(t, 0, f.orch.State().ConsecutiveRenders)
	assert.Equal(t, f.clock.now(), f.orch.State().PreviousFrameStart)
}

func TestNonIdleAlwaysAnimates(t *testing.T) {
	f := newOrchFixture(t, false, false)
	f.show(t)
	f.rend.animateDts = nil

	f.clock.advance(16 * time.Millisecond)
	f.orch.PrepareAndAnimate()
	assert.NotEmpty(t, f.rend.animateDts)
}

func TestContinuedAnimationForcesNextFrame(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.rend.animating = true
	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	f.clock.advance(16 * time.Millisecond)
	f.orch.PrepareAndAnimate()

	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)
	assert.Equal(t, f.clock.now(), f.orch.NextWake())
}

func TestFontChangeTriggersRelayoutBeforeDraw(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.postBatch(renderer.SetFont{Family: "other.ttf", Size: 12})
	require.True(t, f.orch.State().FontChangedLastFrame)

	f.orch.PrepareAndAnimate()
	assert.Equal(t, 1, f.rend.relayouts)
	assert.False(t, f.orch.State().FontChangedLastFrame)
}

func TestConfigReloadAppliesSettings(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	cfg := settings.DefaultConfig()
	cfg.Window.RefreshRate = 120
	f.orch.HandleEvent(events.ConfigReloaded{Config: cfg})

	assert.Equal(t, 120.0, f.store.Window().RefreshRate)
	assert.Equal(t, frame.Immediately, f.orch.State().Decision.Kind)
}

func TestWindowCommands(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.SetTitle{Title: "lumen"})
	assert.Equal(t, "lumen", f.win.Title)

	f.orch.HandleEvent(events.Minimize{})
	assert.Equal(t, 1, f.win.MinimizeCalls)
	assert.True(t, f.orch.State().Minimized)

	f.orch.HandleEvent(events.FocusWindow{})
	assert.Equal(t, 1, f.win.FocusCalls)

	f.orch.HandleEvent(events.SetFullscreen{Enabled: true})
	assert.True(t, f.win.Fullscreen)

	f.orch.HandleEvent(events.ListAvailableFonts{})
	assert.Contains(t, f.sink.Messages(), bridge.AvailableFonts{Names: []string{"monospace"}})
}

func TestThemeChangeForwardedOnlyInAutoTheme(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.ThemeChanged{Theme: "dark"})
	assert.Contains(t, f.sink.Messages(), bridge.SetBackground{Theme: "dark"})

	w := f.store.Window()
	w.Theme = "light"
	f.store.SetWindow(w)
	f.sink.Reset()

	f.orch.HandleEvent(events.ThemeChanged{Theme: "dark"})
	assert.Empty(t, f.sink.Messages())
}

func TestScaleFactorChangeResizesAndRescales(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.ScaleFactorChanged{ScaleFactor: 2.0})
	assert.Equal(t, 2.0, f.rend.scale)
	assert.True(t, f.orch.State().FontChangedLastFrame)
}

func TestFileDroppedForwarded(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.FileDropped{Path: "/tmp/notes.txt"})
	assert.Contains(t, f.sink.Messages(), bridge.FileDropped{Path: "/tmp/notes.txt"})
}

func TestMinimizedWindowKeepsGrid(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)
	f.rend.resizes = nil

	f.win.SetMinimized(true)
	f.win.SetInnerSize(units.PixelSize{Width: 1, Height: 1})
	f.orch.State().Decision = frame.Decision{Kind: frame.Immediately}
	f.orch.PrepareAndAnimate()

	assert.Empty(t, f.rend.resizes, "grid resized from a minimized window")
}

func TestNextWakeUsesIdleRateWhenUnfocused(t *testing.T) {
	f := newOrchFixture(t, false, true)
	f.show(t)

	f.orch.HandleEvent(events.FocusChanged{Focused: false})
	f.orch.PrepareAndAnimate() // farewell frame, focus becomes Unfocused
	require.Equal(t, frame.Unfocused, f.orch.State().Focus)

	// Idle rate is 5 Hz by default: the wake is 200ms after the frame.
	wake := f.orch.NextWake()
	expected := f.orch.State().PreviousFrameStart.Add(200 * time.Millisecond)
	assert.Equal(t, expected, wake)
}
