package main

import "math"

// coordTolerance is the per-axis tolerance for treating two world
// coordinates as equal. Repeated grid transforms accumulate floating
// error, so all Point comparisons go through this.
const coordTolerance = 0.001

// Point represents a position in world coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanDistance calculates the L1 distance between two points
func (p Point) ManhattanDistance(other Point) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// DiagonalDistance calculates the octile distance between two points,
// the true cost of 8-connected movement with unit step size
func (p Point) DiagonalDistance(other Point) float64 {
	dx := math.Abs(p.X - other.X)
	dy := math.Abs(p.Y - other.Y)
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// Equal reports whether two points coincide within coordTolerance on both axes
func (p Point) Equal(other Point) bool {
	return math.Abs(p.X-other.X) < coordTolerance && math.Abs(p.Y-other.Y) < coordTolerance
}

// pointKey is a map key for Points. Coordinates are rounded to the same
// tolerance Equal uses, so points that compare equal share a key.
type pointKey struct {
	X, Y int64
}

// Key returns the rounded map key for this point
func (p Point) Key() pointKey {
	return pointKey{
		X: int64(math.Round(p.X / coordTolerance)),
		Y: int64(math.Round(p.Y / coordTolerance)),
	}
}

// IsValid reports whether both coordinates are finite numbers
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// InBounds checks whether the point lies within a width×height canvas,
// keeping at least margin units away from every edge
func (p Point) InBounds(width, height, margin float64) bool {
	return p.X >= margin && p.X < width-margin &&
		p.Y >= margin && p.Y < height-margin
}

// Clamp returns the point clamped into the canvas with the given edge margin
func (p Point) Clamp(width, height, margin float64) Point {
	return Point{
		X: math.Max(margin, math.Min(width-margin, p.X)),
		Y: math.Max(margin, math.Min(height-margin, p.Y)),
	}
}

// PathLength calculates the total length of a polyline
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += path[i].Distance(path[i+1])
	}
	return total
}
