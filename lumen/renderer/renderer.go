// Package renderer defines the content-renderer collaborator consumed by
// the frame orchestrator, and a grid implementation drawing with gg.
package renderer

import (
	"github.com/gogpu/gg"

	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Command is a single content update from the host process.
type Command interface {
	isCommand()
}

// Batch is an ordered group of commands applied atomically between frames.
type Batch []Command

// SetLine replaces text on a grid row starting at a column.
type SetLine struct {
	Row  int
	Col  int
	Text string
}

// Clear empties the whole grid.
type Clear struct{}

// Scroll shifts rows in [Top, Bottom) by Rows (positive scrolls up).
type Scroll struct {
	Top    int
	Bottom int
	Rows   int
}

// CursorGoto moves the cursor target; the drawn cursor animates toward it.
type CursorGoto struct {
	Row int
	Col int
}

// SetFont switches the font. Family is a font file path; Size is in points.
type SetFont struct {
	Family string
	Size   float64
}

// SetDefaultColors sets the default foreground/background as hex strings.
type SetDefaultColors struct {
	Foreground string
	Background string
}

// Ready signals that the host UI has fully entered and the window may be
// shown once the first frame has painted.
type Ready struct{}

func (SetLine) isCommand()          {}
func (Clear) isCommand()            {}
func (Scroll) isCommand()           {}
func (CursorGoto) isCommand()       {}
func (SetFont) isCommand()          {}
func (SetDefaultColors) isCommand() {}
func (Ready) isCommand()            {}

// Outcome reports side effects of applying a command batch.
type Outcome struct {
	FontChanged bool
	ShouldShow  bool
}

// Renderer produces window content. The orchestrator decides when its
// methods run; implementations never schedule work themselves.
type Renderer interface {
	// Prepare performs pre-frame work and reports how urgently the content
	// wants a redraw.
	Prepare() frame.Decision

	// Animate advances content animation by dt seconds within the grid
	// rect, reporting whether any motion continues.
	Animate(rect units.GridRect, dt float64) bool

	// Draw paints the current content onto the canvas. dt is the wall time
	// since the previous completed render.
	Draw(canvas *gg.Context, dt float64)

	// HandleCommandBatch applies a content-update batch.
	HandleCommandBatch(batch Batch) Outcome

	// Relayout forces a full layout pass after a font-metric change.
	Relayout()

	// CellSize is the pixel footprint of one grid cell.
	CellSize() units.CellSize

	// GridSize is the current logical grid size.
	GridSize() units.GridSize

	// Resize adjusts the logical grid.
	Resize(size units.GridSize)

	// SetScaleFactor applies the combined OS and user scale factor.
	SetScaleFactor(scale float64)

	// FontNames lists fonts available to the renderer.
	FontNames() []string
}
