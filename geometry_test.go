package main

import (
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := a.ManhattanDistance(b); got != 7 {
		t.Errorf("ManhattanDistance = %v, want 7", got)
	}
}

func TestPointDiagonalDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 30, Y: 10}
	want := 30 + (math.Sqrt2-1)*10
	if got := a.DiagonalDistance(b); math.Abs(got-want) > 1e-9 {
		t.Errorf("DiagonalDistance = %v, want %v", got, want)
	}
}

func TestPointEqualTolerance(t *testing.T) {
	a := Point{X: 100, Y: 200}
	if !a.Equal(Point{X: 100.0004, Y: 199.9996}) {
		t.Error("points within tolerance should be equal")
	}
	if a.Equal(Point{X: 100.002, Y: 200}) {
		t.Error("points beyond tolerance should not be equal")
	}
}

func TestPointKeyConsistentWithEqual(t *testing.T) {
	a := Point{X: 50.0001, Y: 50.0001}
	b := Point{X: 50.0002, Y: 50.0002}
	if !a.Equal(b) {
		t.Fatal("test points should be equal under tolerance")
	}
	if a.Key() != b.Key() {
		t.Error("equal points should share a map key")
	}
	c := Point{X: 51, Y: 50}
	if a.Key() == c.Key() {
		t.Error("distinct points should have distinct keys")
	}
}

func TestPointIsValid(t *testing.T) {
	if !(Point{X: 1, Y: 2}).IsValid() {
		t.Error("finite point should be valid")
	}
	if (Point{X: math.NaN(), Y: 0}).IsValid() {
		t.Error("NaN coordinate should be invalid")
	}
	if (Point{X: 0, Y: math.Inf(1)}).IsValid() {
		t.Error("infinite coordinate should be invalid")
	}
}

func TestInBoundsAndClamp(t *testing.T) {
	p := Point{X: 10, Y: 10}
	if !p.InBounds(650, 600, 0) {
		t.Error("point inside canvas should be in bounds")
	}
	if p.InBounds(650, 600, 20) {
		t.Error("point inside the margin band should be out of bounds")
	}

	clamped := Point{X: -5, Y: 700}.Clamp(650, 600, 18)
	if clamped.X != 18 || clamped.Y != 582 {
		t.Errorf("Clamp = %+v, want (18, 582)", clamped)
	}
}

func TestPathLength(t *testing.T) {
	path := []Point{{0, 0}, {3, 4}, {3, 14}}
	if got := PathLength(path); got != 15 {
		t.Errorf("PathLength = %v, want 15", got)
	}
	if got := PathLength([]Point{{1, 1}}); got != 0 {
		t.Errorf("PathLength of single point = %v, want 0", got)
	}
}
