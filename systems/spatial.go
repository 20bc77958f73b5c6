package systems

import (
	"math"
	"sort"
)

// SpatialGrid buckets item indices by position on a torus centred on the origin.
// Cells are stretched so a whole number of them tiles each axis, keeping the
// wrap seam as wide as any other cell boundary.
type SpatialGrid struct {
	cellW  float64
	cellH  float64
	cols   int
	rows   int
	width  float64
	height float64
	cells  [][]int // flat grid of index lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	if width <= 0 || height <= 0 {
		width, height = cellSize, cellSize
	}
	cols := max(int(width/cellSize), 1)
	rows := max(int(height/cellSize), 1)

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellW:  width / float64(cols),
		cellH:  height / float64(rows),
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Clear removes all items from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item to the grid at the given position.
func (g *SpatialGrid) Insert(id int, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], id)
}

// Remove deletes an item previously inserted at the given position.
func (g *SpatialGrid) Remove(id int, x, y float64) {
	idx := g.cellIndex(x, y)
	cell := g.cells[idx]
	for i, v := range cell {
		if v == id {
			cell[i] = cell[len(cell)-1]
			g.cells[idx] = cell[:len(cell)-1]
			return
		}
	}
}

// QueryInto appends the ids in every cell that may hold a point within
// radius of (x, y), sorted ascending and without duplicates. Candidates are
// not distance-filtered. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, x, y, radius float64) []int {
	colRadius := int(radius/g.cellW) + 1
	rowRadius := int(radius/g.cellH) + 1
	centerCol, centerRow := g.cellCoords(x, y)

	// Never visit a column or row twice on small grids.
	spanCols := min(2*colRadius+1, g.cols)
	spanRows := min(2*rowRadius+1, g.rows)

	start := len(dst)
	for dc := 0; dc < spanCols; dc++ {
		col := ((centerCol-colRadius+dc)%g.cols + g.cols) % g.cols
		for dr := 0; dr < spanRows; dr++ {
			row := ((centerRow-rowRadius+dr)%g.rows + g.rows) % g.rows
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}

	sort.Ints(dst[start:])
	return dst
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float64) (col, row int) {
	col = int(math.Floor((x + g.width/2) / g.cellW))
	row = int(math.Floor((y + g.height/2) / g.cellH))

	// Clamp to valid range
	col = min(max(col, 0), g.cols-1)
	row = min(max(row, 0), g.rows-1)
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
