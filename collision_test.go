package main

import (
	"encoding/json"
	"math"
	"testing"
)

func testObstacles() []Obstacle {
	return []Obstacle{
		NewObstacle(100, 100, 25),
		NewObstacle(200, 200, 25),
		NewObstacle(300, 150, 25),
	}
}

func TestCollisionBoundaryIsExclusive(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacle := NewObstacle(100, 100, 24) // radius 12, threshold 18+12+10 = 40

	exactlyOnBoundary := Point{X: 140, Y: 100}
	if d.Collides(exactlyOnBoundary, obstacle) {
		t.Error("exact tangency must not collide")
	}

	justInside := Point{X: 139.9, Y: 100}
	if !d.Collides(justInside, obstacle) {
		t.Error("point inside the boundary must collide")
	}
}

func TestCollidesAny(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacles := testObstacles()

	if d.CollidesAny(Point{X: 50, Y: 50}, obstacles) {
		t.Error("distant position should be safe")
	}
	if !d.CollidesAny(Point{X: 105, Y: 105}, obstacles) {
		t.Error("position next to an obstacle center should collide")
	}
	if d.CollidesAny(Point{X: 105, Y: 105}, nil) {
		t.Error("no obstacles means no collision")
	}
}

func TestClearanceSign(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacle := NewObstacle(100, 100, 24)

	if c := d.Clearance(Point{X: 200, Y: 100}, obstacle); c != 60 {
		t.Errorf("Clearance = %v, want 60", c)
	}
	if c := d.Clearance(Point{X: 110, Y: 100}, obstacle); c >= 0 {
		t.Errorf("Clearance inside boundary = %v, want negative", c)
	}
}

func TestNearestObstacle(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacles := testObstacles()

	nearest, clearance := d.NearestObstacle(Point{X: 110, Y: 110}, obstacles)
	if nearest == nil {
		t.Fatal("expected a nearest obstacle")
	}
	if !nearest.Center.Equal(Point{X: 100, Y: 100}) {
		t.Errorf("nearest obstacle at %+v, want (100, 100)", nearest.Center)
	}
	if clearance >= 0 {
		t.Errorf("clearance = %v, want negative next to obstacle", clearance)
	}

	nearest, clearance = d.NearestObstacle(Point{X: 0, Y: 0}, nil)
	if nearest != nil || !math.IsInf(clearance, 1) {
		t.Errorf("empty set: got (%v, %v), want (nil, +Inf)", nearest, clearance)
	}
}

func TestUpdateSafetyMarginIdempotent(t *testing.T) {
	d := NewCollisionDetector(18, 10)

	d.UpdateSafetyMargin(3, 5)
	first := d.CurrentSafetyMargin
	d.UpdateSafetyMargin(3, 5)
	if d.CurrentSafetyMargin != first {
		t.Errorf("margin changed on repeat update: %v then %v", first, d.CurrentSafetyMargin)
	}
	if first != 25 {
		t.Errorf("CurrentSafetyMargin = %v, want 25", first)
	}
}

func TestRecordCollisionThenUpdateMargin(t *testing.T) {
	d := NewCollisionDetector(18, 10)

	d.RecordCollision(Point{X: 100, Y: 100})
	d.RecordCollision(Point{X: 120, Y: 100})
	d.RecordCollision(Point{X: 140, Y: 100})

	// Recording alone never moves the margin.
	if d.CurrentSafetyMargin != 10 {
		t.Errorf("margin moved on record: %v", d.CurrentSafetyMargin)
	}

	d.UpdateSafetyMargin(3, 5)
	if d.CurrentSafetyMargin != 25 {
		t.Errorf("CurrentSafetyMargin = %v, want 25", d.CurrentSafetyMargin)
	}

	history := d.CollisionHistory()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	// Events carry the margin in force at record time.
	if history[0].SafetyMargin != 10 {
		t.Errorf("event margin = %v, want 10", history[0].SafetyMargin)
	}
}

func TestResetRestoresBaseMargin(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	d.RecordCollision(Point{X: 1, Y: 1})
	d.UpdateSafetyMargin(4, 5)

	d.Reset()
	if d.CurrentSafetyMargin != 10 || d.CollisionCount != 0 || len(d.CollisionHistory()) != 0 {
		t.Errorf("Reset left state behind: margin=%v count=%d history=%d",
			d.CurrentSafetyMargin, d.CollisionCount, len(d.CollisionHistory()))
	}
}

func TestPathClear(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacles := testObstacles()

	if !d.PathClear(Point{X: 0, Y: 0}, Point{X: 50, Y: 50}, obstacles, 5) {
		t.Error("path far from obstacles should be clear")
	}
	if d.PathClear(Point{X: 90, Y: 90}, Point{X: 110, Y: 110}, obstacles, 5) {
		t.Error("path through an obstacle should be blocked")
	}
	if !d.PathClear(Point{X: 50, Y: 50}, Point{X: 50, Y: 50}, obstacles, 5) {
		t.Error("zero-length path is clear")
	}
}

func TestPredictCollisionAlongPath(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacles := testObstacles()

	clear := []Point{{0, 0}, {20, 20}, {40, 40}}
	if got := d.PredictCollisionAlongPath(clear, obstacles); got != -1 {
		t.Errorf("clear path predicted collision at %d", got)
	}

	blocked := []Point{{0, 0}, {100, 100}, {200, 0}}
	if got := d.PredictCollisionAlongPath(blocked, obstacles); got != 1 {
		t.Errorf("predicted index = %d, want 1", got)
	}
}

func TestSafePositionNear(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacles := testObstacles()

	safe := Point{X: 500, Y: 500}
	if got := d.SafePositionNear(safe, obstacles, 650, 600, 16); got != safe {
		t.Errorf("already-safe target moved to %+v", got)
	}

	blocked := Point{X: 105, Y: 105}
	got := d.SafePositionNear(blocked, obstacles, 650, 600, 16)
	if d.CollidesAny(got, obstacles) {
		t.Errorf("returned position %+v still collides", got)
	}
	if got.X < 0 || got.X >= 650 || got.Y < 0 || got.Y >= 600 {
		t.Errorf("returned position %+v outside canvas", got)
	}
}

func TestExpandedObstacles(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	expanded := d.ExpandedObstacles([]Obstacle{NewObstacle(100, 100, 25)})

	if len(expanded) != 1 {
		t.Fatalf("expanded length = %d, want 1", len(expanded))
	}
	// Inflation is 2*(robotRadius + currentMargin) = 56 on the diameter.
	if expanded[0].Size != 81 {
		t.Errorf("expanded size = %v, want 81", expanded[0].Size)
	}
	if expanded[0].Center != (Point{X: 100, Y: 100}) {
		t.Errorf("expansion moved the center to %+v", expanded[0].Center)
	}
}

func TestAvoidanceVector(t *testing.T) {
	d := NewCollisionDetector(18, 10)
	obstacle := NewObstacle(100, 100, 25)

	// Distance 10: magnitude min(100, 1000/100) = 10, direction +x.
	v := d.AvoidanceVector(Point{X: 110, Y: 100}, []Obstacle{obstacle}, 100)
	if math.Abs(v.X-10) > 1e-9 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("AvoidanceVector = %+v, want (10, 0)", v)
	}

	// Beyond range: no contribution.
	v = d.AvoidanceVector(Point{X: 300, Y: 100}, []Obstacle{obstacle}, 100)
	if v.X != 0 || v.Y != 0 {
		t.Errorf("out-of-range obstacle contributed %+v", v)
	}

	// Exactly at the center: skipped rather than dividing by zero.
	v = d.AvoidanceVector(Point{X: 100, Y: 100}, []Obstacle{obstacle}, 100)
	if v.X != 0 || v.Y != 0 {
		t.Errorf("zero-distance obstacle contributed %+v", v)
	}
}

func TestCollisionReport(t *testing.T) {
	d := NewCollisionDetector(18, 10)

	if report := d.CollisionReport(); report.TotalCollisions != 0 {
		t.Errorf("empty report total = %d", report.TotalCollisions)
	}

	d.RecordCollision(Point{X: 60, Y: 60})
	d.RecordCollision(Point{X: 70, Y: 70})
	d.RecordCollision(Point{X: 400, Y: 400})

	report := d.CollisionReport()
	if report.TotalCollisions != 3 {
		t.Errorf("total = %d, want 3", report.TotalCollisions)
	}
	if report.Hotspots["1,1"] != 2 {
		t.Errorf("hotspot 1,1 = %d, want 2", report.Hotspots["1,1"])
	}
	if report.RecommendedMargin != 19 {
		t.Errorf("recommended margin = %v, want 19", report.RecommendedMargin)
	}
}

func TestParseObstaclesSkipsMalformed(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"x": 100, "y": 100, "size": 30}`),
		json.RawMessage(`{"x": "not a number", "y": 50, "size": 30}`),
		json.RawMessage(`{"x": 200, "y": 200}`),
	}

	obstacles := ParseObstacles(records)
	if len(obstacles) != 2 {
		t.Fatalf("parsed %d obstacles, want 2", len(obstacles))
	}
	if obstacles[0].Size != 30 {
		t.Errorf("size = %v, want 30", obstacles[0].Size)
	}
	// Missing size falls back to the default.
	if obstacles[1].Size != defaultObstacleSize {
		t.Errorf("defaulted size = %v, want %v", obstacles[1].Size, defaultObstacleSize)
	}
}
