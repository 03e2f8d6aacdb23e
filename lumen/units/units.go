package units

// PixelSize is a size in physical pixels.
type PixelSize struct {
	Width  int
	Height int
}

// GridSize is a logical size in grid cells (columns x rows).
type GridSize struct {
	Columns int
	Rows    int
}

// Default and minimum grid dimensions used when no size has been negotiated
// with the host process yet.
var (
	DefaultGridSize = GridSize{Columns: 100, Rows: 50}
	MinGridSize     = GridSize{Columns: 20, Rows: 6}
)

// Max returns a grid size with each dimension at least as large as min.
func (g GridSize) Max(min GridSize) GridSize {
	if g.Columns < min.Columns {
		g.Columns = min.Columns
	}
	if g.Rows < min.Rows {
		g.Rows = min.Rows
	}
	return g
}

// Clamped constrains the grid size to the supported range.
func (g GridSize) Clamped() GridSize {
	return g.Max(MinGridSize)
}

// CellSize is the pixel footprint of a single grid cell, derived from the
// active font metrics and scale factor.
type CellSize struct {
	Width  float64
	Height float64
}

// GridRect is a rectangle in fractional cell units. The content renderer
// animates within this area.
type GridRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Padding is the inner window padding in pixels.
type Padding struct {
	Top    int
	Left   int
	Right  int
	Bottom int
}

// Horizontal returns the total horizontal padding.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns the total vertical padding.
func (p Padding) Vertical() int { return p.Top + p.Bottom }
