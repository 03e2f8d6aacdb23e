//go:build !sdl2

// Package sdl2 provides a windowed platform backend using SDL2 bindings.
package sdl2

import (
	"fmt"

	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/surface"
)

// Backend stub for when SDL2 is not available.
type Backend struct{}

// New creates a stubbed SDL2 backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config platform.Config) error {
	return fmt.Errorf("SDL2 backend not available - compile with -tags sdl2 and install SDL2 development libraries")
}

func (b *Backend) Window() platform.Window { return nil }

func (b *Backend) Vsync() platform.Vsync { return nil }

func (b *Backend) Presenter() surface.Presenter { return nil }

func (b *Backend) Cleanup() error { return nil }

var _ platform.Backend = (*Backend)(nil)
