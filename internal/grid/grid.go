package grid

import (
	"fmt"
	"image"
	"math"
)

// Tile subdivision of the overlay. These never change at runtime.
const (
	DefaultCols = 15
	DefaultRows = 11
)

// Bounds is the monitored overlay rectangle in screen pixels.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Layout is the column/row subdivision of the overlay.
type Layout struct {
	Cols int
	Rows int
}

// Tile is one cell of the overlay grid.
type Tile struct {
	Col int
	Row int
}

// DefaultBounds returns the overlay used when none is supplied on the command line.
func DefaultBounds() Bounds {
	return Bounds{X: 0, Y: 0, Width: 600, Height: 440}
}

// DefaultLayout returns the 15x11 grid drawn by the overlay.
func DefaultLayout() Layout {
	return Layout{Cols: DefaultCols, Rows: DefaultRows}
}

// Contains reports whether (x, y) lies on the overlay. Lower edges are
// inclusive, upper edges exclusive.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// Rect converts the bounds into an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

func (b Bounds) String() string {
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", b.X, b.Y, b.Width, b.Height)
}

// TileWidth returns the real-valued width of one column.
func (b Bounds) TileWidth(l Layout) float64 {
	return float64(b.Width) / float64(l.Cols)
}

// TileHeight returns the real-valued height of one row.
func (b Bounds) TileHeight(l Layout) float64 {
	return float64(b.Height) / float64(l.Rows)
}

// Map converts a screen point into the tile it falls on. ok is false when the
// point is outside the overlay or the layout is empty.
func Map(x, y int, b Bounds, l Layout) (tile Tile, ok bool) {
	if l.Cols <= 0 || l.Rows <= 0 || !b.Contains(x, y) {
		return Tile{}, false
	}

	relX := float64(x - b.X)
	relY := float64(y - b.Y)

	col := int(math.Floor(relX / b.TileWidth(l)))
	row := int(math.Floor(relY / b.TileHeight(l)))

	return Tile{
		Col: clampIndex(col, l.Cols),
		Row: clampIndex(row, l.Rows),
	}, true
}

// clampIndex keeps i inside [0, n-1]. Float rounding on the last pixel can
// push an index one past the end.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
