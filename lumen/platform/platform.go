// Package platform abstracts the OS window and its vsync behavior. Each
// backend (SDL2 window, terminal, headless) provides a Window, a Vsync and
// a surface.Presenter, and feeds platform events into the shared queue.
package platform

import (
	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Capability identifies optional platform features. The core queries
// capabilities instead of branching on build targets.
type Capability int

const (
	// CapFullscreen indicates borderless fullscreen is supported.
	CapFullscreen Capability = iota
	// CapIME indicates IME positioning is supported.
	CapIME
	// CapExtendedTitlebar indicates extra titlebar padding applies.
	CapExtendedTitlebar
)

// Window is the platform window collaborator.
type Window interface {
	RequestRedraw()
	RequestInnerSize(size units.PixelSize)
	InnerSize() units.PixelSize
	ScaleFactor() float64
	IsMinimized() bool
	SetVisible(visible bool)
	SetTitle(title string)
	Focus()
	Minimize()
	SetFullscreen(enabled bool)
	SetIMEAllowed(allowed bool)
	Has(cap Capability) bool
}

// Vsync describes how redraws are paced on this platform.
type Vsync interface {
	// UsesThrottling reports whether redraws must be requested and are
	// executed only on the platform's redraw callback. When false, the
	// orchestrator renders synchronously.
	UsesThrottling() bool

	// RequestRedraw asks the platform to deliver a redraw callback.
	RequestRedraw(win Window)

	// RefreshRate returns the display refresh rate in Hz, or 0 when
	// unknown (the scheduler then falls back to the configured rate).
	RefreshRate() float64

	// Update re-reads display metadata after the window moved.
	Update(win Window)
}

// Config is passed to backends at initialization.
type Config struct {
	Title       string
	InitialSize units.PixelSize
	Queue       *events.Queue
	Vsync       bool
}

// Backend bundles everything a platform provides. Init must be called
// before any other method.
type Backend interface {
	Init(config Config) error
	Window() Window
	Vsync() Vsync
	Presenter() surface.Presenter
	Cleanup() error
}

// Pumper is implemented by backends whose OS events must be polled from the
// event-loop goroutine instead of arriving on their own goroutine.
type Pumper interface {
	Pump()
}
