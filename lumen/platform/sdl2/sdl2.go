//go:build sdl2

// Package sdl2 provides a windowed platform backend using SDL2 bindings.
package sdl2

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Backend implements the platform backend on SDL2.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed backend, see build tags (sdl2)
type Backend struct {
	queue   *events.Queue
	win     *window
	vsync   *vsync
	present *presenter
}

// New creates a new SDL2 backend.
func New() *Backend {
	return &Backend{}
}

// Init initializes SDL2 and creates a hidden resizable window. The window
// stays hidden until the first frame has painted.
func (b *Backend) Init(config platform.Config) error {
	b.queue = config.Queue

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	size := config.InitialSize
	if size.Width == 0 || size.Height == 0 {
		size = units.PixelSize{Width: 800, Height: 600}
	}

	sdlWin, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(size.Width),
		int32(size.Height),
		sdl.WINDOW_HIDDEN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if config.Vsync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(sdlWin, -1, flags)
	if err != nil {
		sdlWin.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}

	b.win = &window{sdl: sdlWin, queue: config.Queue}
	b.vsync = &vsync{throttling: config.Vsync}
	b.vsync.update(sdlWin)
	b.present = &presenter{win: sdlWin, renderer: renderer}

	slog.Info("SDL2 backend initialized", "width", size.Width, "height", size.Height)
	return nil
}

// Window implements platform.Backend.
func (b *Backend) Window() platform.Window { return b.win }

// Vsync implements platform.Backend.
func (b *Backend) Vsync() platform.Vsync { return b.vsync }

// Presenter implements platform.Backend.
func (b *Backend) Presenter() surface.Presenter { return b.present }

// Cleanup releases SDL2 resources.
func (b *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if b.present != nil {
		b.present.destroy()
	}
	if b.win != nil && b.win.sdl != nil {
		b.win.sdl.Destroy()
	}
	sdl.Quit()
	return nil
}

// Pump translates pending SDL events into queue events. SDL requires event
// polling from the thread that created the window, so the event loop calls
// this instead of the backend owning a goroutine.
func (b *Backend) Pump() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		b.handleEvent(event)
	}
}

func (b *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		b.queue.Post(events.CloseRequested{})

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			b.queue.Post(events.Resized{Width: int(e.Data1), Height: int(e.Data2)})
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			b.queue.Post(events.FocusChanged{Focused: true})
		case sdl.WINDOWEVENT_FOCUS_LOST:
			b.queue.Post(events.FocusChanged{Focused: false})
		case sdl.WINDOWEVENT_MOVED:
			b.queue.Post(events.Moved{X: int(e.Data1), Y: int(e.Data2)})
		case sdl.WINDOWEVENT_EXPOSED:
			b.queue.Post(events.RedrawRequested{})
		}

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE {
			b.queue.Post(events.FileDropped{Path: e.File})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
			b.queue.Post(events.CloseRequested{})
		}
	}
}

// window adapts an SDL window to the platform window interface.
type window struct {
	sdl   *sdl.Window
	queue *events.Queue
}

func (w *window) RequestRedraw() {
	// SDL has no compositor redraw callback; the event loop delivers the
	// request on its next iteration instead.
	w.queue.Post(events.RedrawRequested{})
}

func (w *window) RequestInnerSize(size units.PixelSize) {
	w.sdl.SetSize(int32(size.Width), int32(size.Height))
}

func (w *window) InnerSize() units.PixelSize {
	width, height := w.sdl.GetSize()
	return units.PixelSize{Width: int(width), Height: int(height)}
}

func (w *window) ScaleFactor() float64 {
	index, err := w.sdl.GetDisplayIndex()
	if err != nil {
		return 1.0
	}
	_, dpi, _, err := sdl.GetDisplayDPI(index)
	if err != nil || dpi <= 0 {
		return 1.0
	}
	return float64(dpi) / 96.0
}

func (w *window) IsMinimized() bool {
	return w.sdl.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

func (w *window) SetVisible(visible bool) {
	if visible {
		w.sdl.Show()
	} else {
		w.sdl.Hide()
	}
}

func (w *window) SetTitle(title string) { w.sdl.SetTitle(title) }
func (w *window) Focus()                { w.sdl.Raise() }
func (w *window) Minimize()             { w.sdl.Minimize() }

func (w *window) SetFullscreen(enabled bool) {
	var flags uint32
	if enabled {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdl.SetFullscreen(flags); err != nil {
		slog.Warn("Failed to change fullscreen state", "error", err)
	}
}

func (w *window) SetIMEAllowed(allowed bool) {
	if allowed {
		sdl.StartTextInput()
	} else {
		sdl.StopTextInput()
	}
}

func (w *window) Has(cap platform.Capability) bool {
	switch cap {
	case platform.CapFullscreen, platform.CapIME:
		return true
	}
	return false
}

// vsync reads the display refresh rate and paces through redraw requests
// when the renderer was created with present-vsync.
type vsync struct {
	throttling bool
	rate       float64
}

func (v *vsync) UsesThrottling() bool { return v.throttling }

func (v *vsync) RequestRedraw(win platform.Window) { win.RequestRedraw() }

func (v *vsync) RefreshRate() float64 { return v.rate }

func (v *vsync) Update(win platform.Window) {
	w, ok := win.(*window)
	if !ok {
		return
	}
	v.update(w.sdl)
}

func (v *vsync) update(win *sdl.Window) {
	index, err := win.GetDisplayIndex()
	if err != nil {
		return
	}
	mode, err := sdl.GetCurrentDisplayMode(index)
	if err != nil || mode.RefreshRate <= 0 {
		return
	}
	v.rate = float64(mode.RefreshRate)
}

// presenter uploads finished frames into a streaming texture.
type presenter struct {
	win      *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texSize  units.PixelSize
}

func (p *presenter) Present(img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		bounds := img.Bounds()
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	}

	size := units.PixelSize{Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy()}
	if err := p.ensureTexture(size); err != nil {
		slog.Warn("Failed to create streaming texture", "error", err)
		return
	}

	// ABGR8888 matches RGBA byte order on little-endian machines, so the
	// pixmap uploads without a swizzle pass.
	p.texture.Update(nil, unsafe.Pointer(&rgba.Pix[0]), rgba.Stride)

	p.renderer.SetDrawColor(0, 0, 0, 255)
	p.renderer.Clear()
	p.renderer.Copy(p.texture, nil, nil)
	p.renderer.Present()
}

func (p *presenter) ensureTexture(size units.PixelSize) error {
	if p.texture != nil && p.texSize == size {
		return nil
	}
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
	texture, err := p.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(size.Width),
		int32(size.Height),
	)
	if err != nil {
		return err
	}
	p.texture = texture
	p.texSize = size
	return nil
}

// WaitForVsync is a no-op: with present-vsync the Present call blocks until
// the display refresh.
func (p *presenter) WaitForVsync() {}

func (p *presenter) SetVisible(visible bool) {
	if visible {
		p.win.Show()
	} else {
		p.win.Hide()
	}
}

func (p *presenter) destroy() {
	if p.texture != nil {
		p.texture.Destroy()
	}
	if p.renderer != nil {
		p.renderer.Destroy()
	}
}

var (
	_ platform.Backend = (*Backend)(nil)
	_ platform.Pumper  = (*Backend)(nil)
	_ platform.Window  = (*window)(nil)
	_ platform.Vsync   = (*vsync)(nil)
)
