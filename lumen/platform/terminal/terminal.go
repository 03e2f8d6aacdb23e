// Package terminal renders frames into a terminal with tcell, using
// half-block characters so each cell carries two vertical samples.
package terminal

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

// A terminal cell stands in for this many canvas pixels. The canvas keeps
// rendering with real font metrics; presentation downsamples.
const (
	cellPixelWidth  = 8
	cellPixelHeight = 16

	// Terminals repaint slowly; pace frames well below a display rate.
	refreshRate = 30.0
)

// Backend implements platform.Backend on a tcell screen.
type Backend struct {
	screen  tcell.Screen
	queue   *events.Queue
	win     *window
	vsync   *vsync
	present *presenter
}

// New creates a terminal backend.
func New() *Backend {
	return &Backend{}
}

// Init initializes the terminal and starts the event goroutine.
func (b *Backend) Init(config platform.Config) error {
	b.queue = config.Queue

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	b.screen = screen

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.EnableFocus()
	screen.Clear()
	if config.Title != "" {
		screen.SetTitle(config.Title)
	}

	b.win = &window{screen: screen, title: config.Title}
	b.vsync = &vsync{}
	b.present = &presenter{screen: screen}

	go b.pollEvents()
	go b.handleSignals()

	// The terminal is in the foreground when we take it over.
	b.queue.Post(events.FocusChanged{Focused: true})

	slog.Info("Terminal backend initialized")
	return nil
}

// Window implements platform.Backend.
func (b *Backend) Window() platform.Window { return b.win }

// Vsync implements platform.Backend.
func (b *Backend) Vsync() platform.Vsync { return b.vsync }

// Presenter implements platform.Backend.
func (b *Backend) Presenter() surface.Presenter { return b.present }

// Cleanup restores the terminal.
func (b *Backend) Cleanup() error {
	if b.screen != nil {
		slog.Info("Cleaning up terminal backend")
		b.screen.Fini()
	}
	return nil
}

func (b *Backend) pollEvents() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
				b.queue.Post(events.CloseRequested{})
			}
		case *tcell.EventResize:
			b.screen.Sync()
			cols, rows := e.Size()
			b.queue.Post(events.Resized{
				Width:  cols * cellPixelWidth,
				Height: rows * cellPixelHeight,
			})
		case *tcell.EventFocus:
			b.queue.Post(events.FocusChanged{Focused: e.Focused})
		}
	}
}

func (b *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-signals
	b.queue.Post(events.CloseRequested{})
}

// window adapts the terminal to the platform window interface. Most window
// operations have no terminal equivalent and are ignored.
type window struct {
	screen tcell.Screen
	title  string
}

func (w *window) RequestRedraw() {}

func (w *window) RequestInnerSize(size units.PixelSize) {
	slog.Debug("Terminal size is not controllable", "width", size.Width, "height", size.Height)
}

func (w *window) InnerSize() units.PixelSize {
	cols, rows := w.screen.Size()
	return units.PixelSize{
		Width:  cols * cellPixelWidth,
		Height: rows * cellPixelHeight,
	}
}

func (w *window) ScaleFactor() float64 { return 1.0 }
func (w *window) IsMinimized() bool    { return false }
func (w *window) SetVisible(bool)      {}

func (w *window) SetTitle(title string) {
	w.title = title
	w.screen.SetTitle(title)
}

func (w *window) Focus()             {}
func (w *window) Minimize()          {}
func (w *window) SetFullscreen(bool) {}
func (w *window) SetIMEAllowed(bool) {}

func (w *window) Has(cap platform.Capability) bool { return false }

// vsync for terminals: no redraw callbacks, render synchronously.
type vsync struct{}

func (v *vsync) UsesThrottling() bool          { return false }
func (v *vsync) RequestRedraw(platform.Window) {}
func (v *vsync) RefreshRate() float64          { return refreshRate }
func (v *vsync) Update(platform.Window)        {}

// presenter downsamples the frame to terminal cells. Each cell renders the
// upper half block with two sampled colors, doubling vertical resolution.
type presenter struct {
	screen tcell.Screen
	hidden bool
}

func (p *presenter) Present(img image.Image) {
	if p.hidden || img == nil {
		return
	}

	cols, rows := p.screen.Size()
	bounds := img.Bounds()
	samplesY := rows * 2

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := sample(img, bounds, col, row*2, cols, samplesY)
			bottom := sample(img, bounds, col, row*2+1, cols, samplesY)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			p.screen.SetContent(col, row, '▀', nil, style)
		}
	}
	p.screen.Show()
}

func (p *presenter) WaitForVsync() {}

func (p *presenter) SetVisible(visible bool) {
	p.hidden = !visible
	if !visible {
		p.screen.Clear()
		p.screen.Show()
	}
}

// sample picks the nearest source pixel for a terminal sample position.
func sample(img image.Image, bounds image.Rectangle, x, y, samplesX, samplesY int) tcell.Color {
	sx := bounds.Min.X + x*bounds.Dx()/samplesX
	sy := bounds.Min.Y + y*bounds.Dy()/samplesY
	if sx >= bounds.Max.X {
		sx = bounds.Max.X - 1
	}
	if sy >= bounds.Max.Y {
		sy = bounds.Max.Y - 1
	}
	r, g, b, _ := img.At(sx, sy).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

var (
	_ platform.Backend = (*Backend)(nil)
	_ platform.Window  = (*window)(nil)
	_ platform.Vsync   = (*vsync)(nil)
)
