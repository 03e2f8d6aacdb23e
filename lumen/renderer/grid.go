package renderer

import (
	"log/slog"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/lumen-gui/lumen/lumen/frame"
	"github.com/lumen-gui/lumen/lumen/settings"
	"github.com/lumen-gui/lumen/lumen/units"
)

// Fallback cell metrics used before a font has been loaded.
const (
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0
)

// cursorStiffness controls how quickly the animated cursor approaches its
// target, in 1/seconds. Higher is snappier.
const cursorStiffness = 20.0

// cursorSettleDistance is the cell-unit distance below which the cursor is
// considered at rest.
const cursorSettleDistance = 0.01

// GridRenderer renders a rows-by-columns character grid with a smoothly
// animated cursor. It implements Renderer.
type GridRenderer struct {
	grid  units.GridSize
	cells [][]rune

	// Cursor target in cells and animated position in fractional cells.
	cursorRow, cursorCol int
	cursorX, cursorY     float64

	foreground string
	background string

	source *text.FontSource
	face   text.Face

	fontFamily string
	fontSize   float64
	scale      float64

	cell  units.CellSize
	dirty bool
}

// NewGridRenderer creates a grid renderer with the default grid size. The
// font from the renderer settings is loaded if available; without a font
// the renderer still works, drawing cell backgrounds and the cursor only.
func NewGridRenderer(rs settings.RendererSettings) *GridRenderer {
	r := &GridRenderer{
		foreground: "#e6e6e6",
		background: "#141414",
		fontFamily: rs.FontFamily,
		fontSize:   rs.FontSize,
		scale:      1.0,
	}
	r.Resize(units.DefaultGridSize)
	if rs.FontFamily != "" {
		if err := r.loadFont(rs.FontFamily, rs.FontSize); err != nil {
			slog.Warn("Failed to load font, falling back to block rendering",
				"family", rs.FontFamily, "error", err)
		}
	}
	r.updateCellSize()
	return r
}

func (r *GridRenderer) loadFont(family string, size float64) error {
	source, err := text.NewFontSourceFromFile(family)
	if err != nil {
		return err
	}
	if r.source != nil {
		r.source.Close()
	}
	r.source = source
	r.fontFamily = family
	if size > 0 {
		r.fontSize = size
	}
	r.face = source.Face(r.fontSize * r.scale)
	return nil
}

func (r *GridRenderer) updateCellSize() {
	if r.face == nil {
		r.cell = units.CellSize{
			Width:  defaultCellWidth * r.scale,
			Height: defaultCellHeight * r.scale,
		}
		return
	}
	m := r.face.Metrics()
	r.cell = units.CellSize{
		Width:  r.face.Advance("M"),
		Height: m.LineHeight(),
	}
}

// Prepare implements Renderer. Content changes applied since the last frame
// request an immediate redraw.
func (r *GridRenderer) Prepare() frame.Decision {
	if r.dirty {
		r.dirty = false
		return frame.Decision{Kind: frame.Immediately}
	}
	return frame.Decision{Kind: frame.Wait}
}

// Animate implements Renderer. The cursor moves toward its target with an
// exponential approach; motion continues until it settles.
func (r *GridRenderer) Animate(rect units.GridRect, dt float64) bool {
	targetX := float64(r.cursorCol)
	targetY := float64(r.cursorRow)

	// Keep the cursor inside the animated area when the grid shrank.
	if rect.Width > 0 && targetX > rect.X+rect.Width-1 {
		targetX = rect.X + rect.Width - 1
	}
	if rect.Height > 0 && targetY > rect.Y+rect.Height-1 {
		targetY = rect.Y + rect.Height - 1
	}

	blend := 1.0 - math.Exp(-dt*cursorStiffness)
	r.cursorX += (targetX - r.cursorX) * blend
	r.cursorY += (targetY - r.cursorY) * blend

	dx := targetX - r.cursorX
	dy := targetY - r.cursorY
	if math.Hypot(dx, dy) < cursorSettleDistance {
		r.cursorX = targetX
		r.cursorY = targetY
		return false
	}
	return true
}

// Draw implements Renderer.
func (r *GridRenderer) Draw(canvas *gg.Context, dt float64) {
	if canvas == nil {
		return
	}
	canvas.SetHexColor(r.background)
	canvas.DrawRectangle(0, 0, float64(canvas.Width()), float64(canvas.Height()))
	canvas.Fill()

	if r.face != nil {
		canvas.SetFont(r.face)
		canvas.SetHexColor(r.foreground)
		ascent := r.face.Metrics().Ascent
		for row, line := range r.cells {
			y := float64(row)*r.cell.Height + ascent
			canvas.DrawString(string(line), 0, y)
		}
	}

	// Cursor block at the animated position.
	canvas.SetHexColor(r.foreground)
	canvas.DrawRectangle(
		r.cursorX*r.cell.Width,
		r.cursorY*r.cell.Height,
		r.cell.Width,
		r.cell.Height,
	)
	canvas.Fill()
}

// HandleCommandBatch implements Renderer.
func (r *GridRenderer) HandleCommandBatch(batch Batch) Outcome {
	var out Outcome
	for _, cmd := range batch {
		switch c := cmd.(type) {
		case SetLine:
			r.setLine(c.Row, c.Col, c.Text)
		case Clear:
			r.clear()
		case Scroll:
			r.scroll(c.Top, c.Bottom, c.Rows)
		case CursorGoto:
			r.cursorRow = c.Row
			r.cursorCol = c.Col
		case SetFont:
			if err := r.loadFont(c.Family, c.Size); err != nil {
				slog.Warn("Failed to load font", "family", c.Family, "error", err)
				break
			}
			r.updateCellSize()
			out.FontChanged = true
		case SetDefaultColors:
			if c.Foreground != "" {
				r.foreground = c.Foreground
			}
			if c.Background != "" {
				r.background = c.Background
			}
		case Ready:
			out.ShouldShow = true
		}
	}
	if len(batch) > 0 {
		r.dirty = true
	}
	return out
}

func (r *GridRenderer) setLine(row, col int, s string) {
	if row < 0 || row >= r.grid.Rows {
		return
	}
	for i, ch := range []rune(s) {
		x := col + i
		if x < 0 || x >= r.grid.Columns {
			continue
		}
		r.cells[row][x] = ch
	}
}

func (r *GridRenderer) clear() {
	for _, line := range r.cells {
		for i := range line {
			line[i] = ' '
		}
	}
}

func (r *GridRenderer) scroll(top, bottom, rows int) {
	if top < 0 {
		top = 0
	}
	if bottom > r.grid.Rows {
		bottom = r.grid.Rows
	}
	if rows == 0 || top >= bottom {
		return
	}
	if rows > 0 {
		for y := top; y < bottom-rows; y++ {
			copy(r.cells[y], r.cells[y+rows])
		}
		for y := bottom - rows; y < bottom; y++ {
			if y >= top {
				blankLine(r.cells[y])
			}
		}
	} else {
		for y := bottom - 1; y >= top-rows; y-- {
			copy(r.cells[y], r.cells[y+rows])
		}
		for y := top; y < top-rows && y < bottom; y++ {
			blankLine(r.cells[y])
		}
	}
}

func blankLine(line []rune) {
	for i := range line {
		line[i] = ' '
	}
}

// Relayout implements Renderer. Cell metrics are recomputed from the
// current face before the next draw.
func (r *GridRenderer) Relayout() {
	if r.source != nil {
		r.face = r.source.Face(r.fontSize * r.scale)
	}
	r.updateCellSize()
	r.dirty = true
}

// CellSize implements Renderer.
func (r *GridRenderer) CellSize() units.CellSize {
	return r.cell
}

// GridSize implements Renderer.
func (r *GridRenderer) GridSize() units.GridSize {
	return r.grid
}

// Resize implements Renderer, preserving existing content where it fits.
func (r *GridRenderer) Resize(size units.GridSize) {
	size = size.Clamped()
	cells := make([][]rune, size.Rows)
	for y := range cells {
		cells[y] = make([]rune, size.Columns)
		blankLine(cells[y])
		if y < len(r.cells) {
			copy(cells[y], r.cells[y])
		}
	}
	r.cells = cells
	r.grid = size
	if r.cursorRow >= size.Rows {
		r.cursorRow = size.Rows - 1
	}
	if r.cursorCol >= size.Columns {
		r.cursorCol = size.Columns - 1
	}
	r.dirty = true
}

// SetScaleFactor implements Renderer.
func (r *GridRenderer) SetScaleFactor(scale float64) {
	if scale <= 0 {
		scale = 1.0
	}
	r.scale = scale
	r.Relayout()
}

// FontNames implements Renderer.
func (r *GridRenderer) FontNames() []string {
	if r.source == nil {
		return nil
	}
	return []string{r.source.Name()}
}

var _ Renderer = (*GridRenderer)(nil)
