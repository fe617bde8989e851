package main

import "math"

// GridCell is a discrete cell address on the search grid. It is a distinct
// type from Point: cells never coerce to world coordinates implicitly.
type GridCell struct {
	Col int
	Row int
}

// WorldToGrid converts world coordinates to the containing grid cell by
// floor division
func (pf *Pathfinder) WorldToGrid(p Point) GridCell {
	return GridCell{
		Col: int(math.Floor(p.X / float64(pf.GridSize))),
		Row: int(math.Floor(p.Y / float64(pf.GridSize))),
	}
}

// GridToWorld converts a grid cell to world coordinates. The result is the
// cell's lower corner, not its center: search waypoints sit on gridSize
// multiples.
func (pf *Pathfinder) GridToWorld(c GridCell) Point {
	return Point{
		X: float64(c.Col * pf.GridSize),
		Y: float64(c.Row * pf.GridSize),
	}
}

// SnapToGrid snaps a world point onto the grid lattice
func (pf *Pathfinder) SnapToGrid(p Point) Point {
	return pf.GridToWorld(pf.WorldToGrid(p))
}

// IsValidCell checks whether the cell lies inside the grid
func (pf *Pathfinder) IsValidCell(c GridCell) bool {
	return c.Col >= 0 && c.Col < pf.GridWidth &&
		c.Row >= 0 && c.Row < pf.GridHeight
}

// setGridSize changes the grid resolution and recomputes the grid
// dimensions. The fallback ladder uses this transactionally: whoever
// changes the size restores it before returning.
func (pf *Pathfinder) setGridSize(size int) {
	pf.GridSize = size
	pf.GridWidth = pf.CanvasWidth / size
	pf.GridHeight = pf.CanvasHeight / size
}
