// Package headless provides a scriptable platform backend with no output.
// It drives the frame core in tests and in batch runs.
package headless

import (
	"image"

	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Window is an in-memory platform window recording every call.
type Window struct {
	size        units.PixelSize
	scaleFactor float64
	minimized   bool

	Visible        bool
	Title          string
	Fullscreen     bool
	IMEAllowed     bool
	RedrawRequests int
	ResizeRequests []units.PixelSize
	FocusCalls     int
	MinimizeCalls  int
}

// NewWindow creates a headless window with the given inner size.
func NewWindow(size units.PixelSize) *Window {
	return &Window{size: size, scaleFactor: 1.0}
}

func (w *Window) RequestRedraw() { w.RedrawRequests++ }

func (w *Window) RequestInnerSize(size units.PixelSize) {
	w.ResizeRequests = append(w.ResizeRequests, size)
	// Headless windows grant resize requests immediately.
	w.size = size
}

func (w *Window) InnerSize() units.PixelSize { return w.size }
func (w *Window) ScaleFactor() float64       { return w.scaleFactor }
func (w *Window) IsMinimized() bool          { return w.minimized }
func (w *Window) SetVisible(v bool)          { w.Visible = v }
func (w *Window) SetTitle(t string)          { w.Title = t }
func (w *Window) Focus()                     { w.FocusCalls++ }

func (w *Window) Minimize() {
	w.MinimizeCalls++
	w.minimized = true
}

func (w *Window) SetFullscreen(enabled bool) { w.Fullscreen = enabled }
func (w *Window) SetIMEAllowed(allowed bool) { w.IMEAllowed = allowed }

func (w *Window) Has(cap platform.Capability) bool {
	return cap == platform.CapFullscreen
}

// SetInnerSize changes the reported inner size, simulating an OS resize.
func (w *Window) SetInnerSize(size units.PixelSize) { w.size = size }

// SetScaleFactor changes the reported scale factor.
func (w *Window) SetScaleFactor(f float64) { w.scaleFactor = f }

// SetMinimized changes the reported minimized state.
func (w *Window) SetMinimized(m bool) { w.minimized = m }

// Vsync is a configurable vsync model. With throttling enabled, redraw
// requests are recorded and the test (or batch driver) delivers the redraw
// callback by posting events.RedrawRequested itself.
type Vsync struct {
	Throttling     bool
	Rate           float64
	RedrawRequests int
	UpdateCalls    int
}

func (v *Vsync) UsesThrottling() bool { return v.Throttling }

func (v *Vsync) RequestRedraw(win platform.Window) {
	v.RedrawRequests++
	win.RequestRedraw()
}

func (v *Vsync) RefreshRate() float64 { return v.Rate }

func (v *Vsync) Update(win platform.Window) { v.UpdateCalls++ }

// Presenter counts presented frames and keeps the last one.
type Presenter struct {
	Presented int
	LastFrame image.Image
	Visible   bool
	Vsyncs    int
}

func (p *Presenter) Present(img image.Image) {
	p.Presented++
	p.LastFrame = img
}

func (p *Presenter) WaitForVsync() { p.Vsyncs++ }

func (p *Presenter) SetVisible(v bool) { p.Visible = v }

// Backend bundles the headless window, vsync and presenter.
type Backend struct {
	win       *Window
	vsync     *Vsync
	presenter *Presenter
}

// New creates a headless backend. Throttling selects the vsync model.
func New(throttling bool) *Backend {
	return &Backend{
		vsync: &Vsync{Throttling: throttling, Rate: 60},
	}
}

// Init implements platform.Backend.
func (b *Backend) Init(config platform.Config) error {
	size := config.InitialSize
	if size.Width == 0 || size.Height == 0 {
		size = units.PixelSize{Width: 800, Height: 600}
	}
	b.win = NewWindow(size)
	b.win.Title = config.Title
	b.presenter = &Presenter{}
	return nil
}

// Window implements platform.Backend.
func (b *Backend) Window() platform.Window { return b.win }

// HeadlessWindow returns the concrete window for test scripting.
func (b *Backend) HeadlessWindow() *Window { return b.win }

// Vsync implements platform.Backend.
func (b *Backend) Vsync() platform.Vsync { return b.vsync }

// HeadlessVsync returns the concrete vsync for test scripting.
func (b *Backend) HeadlessVsync() *Vsync { return b.vsync }

// Presenter implements platform.Backend.
func (b *Backend) Presenter() surface.Presenter { return b.presenter }

// HeadlessPresenter returns the concrete presenter for test scripting.
func (b *Backend) HeadlessPresenter() *Presenter { return b.presenter }

// Cleanup implements platform.Backend.
func (b *Backend) Cleanup() error { return nil }

var (
	_ platform.Backend = (*Backend)(nil)
	_ platform.Window  = (*Window)(nil)
	_ platform.Vsync   = (*Vsync)(nil)
)
