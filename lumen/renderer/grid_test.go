package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/settings"
	"github.com/lumen-gui/lumen/lumen/units"
)

func newTestRenderer() *GridRenderer {
	return NewGridRenderer(settings.RendererSettings{FontSize: 14})
}

func TestPrepareReportsDirtyOnce(t *testing.T) {
	r := newTestRenderer()

	// A fresh renderer is dirty from the initial resize.
	assert.Equal(t, frame.Immediately, r.Prepare().Kind)
	assert.Equal(t, frame.Wait, r.Prepare().Kind)

	r.HandleCommandBatch(Batch{SetLine{Row: 0, Col: 0, Text: "hello"}})
	assert.Equal(t, frame.Immediately, r.Prepare().Kind)
	assert.Equal(t, frame.Wait, r.Prepare().Kind)
}

func TestHandleCommandBatchOutcome(t *testing.T) {
	r := newTestRenderer()

	out := r.HandleCommandBatch(Batch{Ready{}})
	assert.True(t, out.ShouldShow)
	assert.False(t, out.FontChanged)

	out = r.HandleCommandBatch(Batch{SetLine{Row: 0, Col: 0, Text: "x"}})
	assert.False(t, out.ShouldShow)
}

func TestSetLineAndClear(t *testing.T) {
	r := newTestRenderer()
	r.Resize(units.GridSize{Columns: 20, Rows: 6})

	r.HandleCommandBatch(Batch{SetLine{Row: 2, Col: 3, Text: "abc"}})
	assert.Equal(t, 'a', r.cells[2][3])
	assert.Equal(t, 'c', r.cells[2][5])

	// Out-of-range rows and columns are ignored, not a panic.
	r.HandleCommandBatch(Batch{SetLine{Row: 99, Col: 0, Text: "zz"}})
	r.HandleCommandBatch(Batch{SetLine{Row: 0, Col: 19, Text: "zz"}})
	assert.Equal(t, 'z', r.cells[0][19])

	r.HandleCommandBatch(Batch{Clear{}})
	assert.Equal(t, ' ', r.cells[2][3])
}

func TestScrollUp(t *testing.T) {
	r := newTestRenderer()
	r.Resize(units.GridSize{Columns: 20, Rows: 6})
	r.HandleCommandBatch(Batch{
		SetLine{Row: 0, Col: 0, Text: "aaa"},
		SetLine{Row: 1, Col: 0, Text: "bbb"},
		SetLine{Row: 2, Col: 0, Text: "ccc"},
	})

	r.HandleCommandBatch(Batch{Scroll{Top: 0, Bottom: 3, Rows: 1}})

	assert.Equal(t, 'b', r.cells[0][0])
	assert.Equal(t, 'c', r.cells[1][0])
	assert.Equal(t, ' ', r.cells[2][0])
}

func TestCursorAnimationSettles(t *testing.T) {
	r := newTestRenderer()
	rect := units.GridRect{Width: float64(r.grid.Columns), Height: float64(r.grid.Rows)}

	r.HandleCommandBatch(Batch{CursorGoto{Row: 5, Col: 10}})

	moving := r.Animate(rect, 1.0/60.0)
	assert.True(t, moving, "cursor should be in flight right after a move")

	// After enough simulated time the cursor must settle.
	for i := 0; i < 600 && moving; i++ {
		moving = r.Animate(rect, 1.0/60.0)
	}
	assert.False(t, moving)
	assert.Equal(t, 10.0, r.cursorX)
	assert.Equal(t, 5.0, r.cursorY)
}

func TestResizePreservesContentAndClampsCursor(t *testing.T) {
	r := newTestRenderer()
	r.Resize(units.GridSize{Columns: 30, Rows: 10})
	r.HandleCommandBatch(Batch{
		SetLine{Row: 0, Col: 0, Text: "keep"},
		CursorGoto{Row: 9, Col: 29},
	})

	r.Resize(units.GridSize{Columns: 20, Rows: 8})

	assert.Equal(t, 'k', r.cells[0][0])
	assert.Equal(t, 7, r.cursorRow)
	assert.Equal(t, 19, r.cursorCol)
}

func TestResizeClampsToMinimum(t *testing.T) {
	r := newTestRenderer()
	r.Resize(units.GridSize{Columns: 1, Rows: 1})
	assert.Equal(t, units.MinGridSize, r.GridSize())
}

func TestCellSizeFallbackWithoutFont(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, defaultCellWidth, r.CellSize().Width)
	assert.Equal(t, defaultCellHeight, r.CellSize().Height)

	r.SetScaleFactor(2.0)
	assert.Equal(t, 2*defaultCellWidth, r.CellSize().Width)
}
