// Package surface abstracts the drawing surface the content renderer paints
// onto, and how finished frames are presented by a platform backend.
package surface

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/lumen-gui/lumen/lumen/units"
)

// Surface is the drawing-surface collaborator. The orchestrator holds the
// only reference and hands the canvas to exactly one phase at a time; no
// collaborator retains it across calls.
type Surface interface {
	// Resize adjusts the surface to a new pixel size.
	Resize(size units.PixelSize)

	// Canvas returns the drawing context for the current frame.
	Canvas() *gg.Context

	// Flush completes any batched drawing work.
	Flush()

	// WaitForVsync blocks until the display is ready for the next frame.
	WaitForVsync()

	// SwapBuffers presents the finished frame.
	SwapBuffers()

	// SetVisible shows or hides the presented output.
	SetVisible(visible bool)
}

// Presenter is implemented by platform backends that can put pixels on a
// display (window texture, terminal cells).
type Presenter interface {
	// Present blits a finished frame.
	Present(img image.Image)

	// WaitForVsync blocks until the display refresh point, if the platform
	// exposes one; otherwise it returns immediately.
	WaitForVsync()

	// SetVisible shows or hides the output.
	SetVisible(visible bool)
}

// PixmapSurface rasterizes with gg into an RGBA pixmap and presents through
// a platform Presenter.
type PixmapSurface struct {
	ctx       *gg.Context
	presenter Presenter
	size      units.PixelSize
}

// NewPixmapSurface creates a surface of the given size.
func NewPixmapSurface(size units.PixelSize, presenter Presenter) *PixmapSurface {
	s := &PixmapSurface{presenter: presenter}
	s.Resize(size)
	return s
}

// Resize implements Surface. The canvas is recreated; previous frame
// content is discarded, the next draw repaints everything anyway.
func (s *PixmapSurface) Resize(size units.PixelSize) {
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	if s.ctx != nil && size == s.size {
		return
	}
	if s.ctx != nil {
		s.ctx.Close()
	}
	s.ctx = gg.NewContext(size.Width, size.Height)
	s.size = size
}

// Canvas implements Surface.
func (s *PixmapSurface) Canvas() *gg.Context {
	return s.ctx
}

// Size returns the current pixel size.
func (s *PixmapSurface) Size() units.PixelSize {
	return s.size
}

// Flush implements Surface. Software rasterization completes when the
// image is read, so there is no pending GPU work to wait for here.
func (s *PixmapSurface) Flush() {}

// WaitForVsync implements Surface.
func (s *PixmapSurface) WaitForVsync() {
	if s.presenter != nil {
		s.presenter.WaitForVsync()
	}
}

// SwapBuffers implements Surface.
func (s *PixmapSurface) SwapBuffers() {
	if s.presenter != nil {
		s.presenter.Present(s.ctx.Image())
	}
}

// SetVisible implements Surface.
func (s *PixmapSurface) SetVisible(visible bool) {
	if s.presenter != nil {
		s.presenter.SetVisible(visible)
	}
}

var _ Surface = (*PixmapSurface)(nil)
