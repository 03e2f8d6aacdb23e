// Package lumen implements the per-window frame orchestrator and the event
// loop that drives it. It decides when to redraw, how much animation time
// to advance, and how to cooperate with the platform's vsync throttling.
package lumen

import (
	"time"

	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/renderer"
	"github.com/lumen-gui/lumen/lumen/units"
)

// UIState tracks the window lifecycle from startup to first paint.
type UIState uint8

const (
	// UIIniting: the host is still initializing; nothing is rendered.
	UIIniting UIState = iota
	// UIFirstFrame: the host is ready, the first frame has not painted yet.
	UIFirstFrame
	// UIShowing: the window is visible and painting normally.
	UIShowing
)

// State is the per-window render-state record. It has exactly one writer,
// the orchestrator running on the event-loop goroutine.
type State struct {
	// Frame timing, mutated only by the render step.
	PreviousFrameStart time.Time
	LastDt             float64

	Decision           frame.Decision
	ConsecutiveRenders int
	FramesRendered     int
	Focus              frame.FocusState

	// PendingRender is set while a render has been committed to the
	// platform but its redraw callback has not arrived yet.
	PendingRender bool
	Buffered      frame.Buffer[renderer.Batch]

	Clock frame.Clock

	UI                   UIState
	FontChangedLastFrame bool

	SavedInnerSize units.PixelSize
	SavedGridSize  *units.GridSize

	// Explicit size requests by grid dimensions; they take priority over
	// sizing from the observed pixel size.
	RequestedColumns *int
	RequestedLines   *int

	Minimized    bool
	MouseEnabled bool
	IMEEnabled   bool
	Title        string
}
