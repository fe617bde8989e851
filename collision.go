package main

import (
	"fmt"
	"log"
	"math"
)

// CollisionEvent is one entry in the append-only collision log.
type CollisionEvent struct {
	Position     Point   `json:"position"`
	SafetyMargin float64 `json:"safetyMargin"`
}

// CollisionAnalysis summarizes the collision history.
type CollisionAnalysis struct {
	TotalCollisions   int            `json:"totalCollisions"`
	Hotspots          map[string]int `json:"collisionHotspots"`
	CurrentMargin     float64        `json:"currentSafetyMargin"`
	RecommendedMargin float64        `json:"recommendedMargin"`
}

// CollisionDetector handles all collision detection logic. It owns the
// adaptive safety margin: the margin grows with the collision count the
// caller reports and never shrinks except through Reset.
type CollisionDetector struct {
	RobotRadius         float64
	BaseSafetyMargin    float64
	CurrentSafetyMargin float64
	CollisionCount      int

	history []CollisionEvent
}

// NewCollisionDetector creates a detector for a robot of the given radius
func NewCollisionDetector(robotRadius, safetyMargin float64) *CollisionDetector {
	return &CollisionDetector{
		RobotRadius:         robotRadius,
		BaseSafetyMargin:    safetyMargin,
		CurrentSafetyMargin: safetyMargin,
	}
}

// UpdateSafetyMargin recomputes the current margin from the collision count
// supplied by the caller. The margin is always base + count*increment, so
// repeated calls with the same count are idempotent.
func (d *CollisionDetector) UpdateSafetyMargin(collisionCount int, increment float64) {
	d.CollisionCount = collisionCount
	d.CurrentSafetyMargin = d.BaseSafetyMargin + float64(collisionCount)*increment
	log.Printf("🔧 Safety margin updated to %.1f after %d collisions", d.CurrentSafetyMargin, collisionCount)
}

// Reset restores the base margin and clears the collision state
func (d *CollisionDetector) Reset() {
	d.CollisionCount = 0
	d.CurrentSafetyMargin = d.BaseSafetyMargin
	d.history = nil
}

// Collides checks whether a robot at the given position overlaps the
// obstacle's collision boundary. Exact tangency does not collide.
func (d *CollisionDetector) Collides(pos Point, obstacle Obstacle) bool {
	distance := pos.Distance(obstacle.Center)
	return distance < d.RobotRadius+obstacle.Radius()+d.CurrentSafetyMargin
}

// CollidesAny checks the position against every obstacle, stopping at the
// first hit
func (d *CollisionDetector) CollidesAny(pos Point, obstacles []Obstacle) bool {
	for _, obstacle := range obstacles {
		if d.Collides(pos, obstacle) {
			return true
		}
	}
	return false
}

// Clearance returns the signed distance from the position to the
// obstacle's collision boundary; negative means inside it
func (d *CollisionDetector) Clearance(pos Point, obstacle Obstacle) float64 {
	return pos.Distance(obstacle.Center) - (obstacle.Radius() + d.RobotRadius + d.CurrentSafetyMargin)
}

// NearestObstacle returns the obstacle with minimum clearance from the
// position, along with that clearance. Returns (nil, +Inf) when the
// obstacle set is empty.
func (d *CollisionDetector) NearestObstacle(pos Point, obstacles []Obstacle) (*Obstacle, float64) {
	var nearest *Obstacle
	minClearance := math.Inf(1)
	for i := range obstacles {
		clearance := d.Clearance(pos, obstacles[i])
		if clearance < minClearance {
			minClearance = clearance
			nearest = &obstacles[i]
		}
	}
	return nearest, minClearance
}

// PathClear checks whether the straight segment between start and end is
// collision-free by sampling max(resolution, distance/resolution) equally
// spaced points, endpoints included. The check is discrete: an obstacle
// narrower than the sampling step can slip between samples undetected.
func (d *CollisionDetector) PathClear(start, end Point, obstacles []Obstacle, resolution int) bool {
	distance := start.Distance(end)
	if distance == 0 {
		return true
	}

	numChecks := int(distance) / resolution
	if numChecks < resolution {
		numChecks = resolution
	}

	for i := 0; i <= numChecks; i++ {
		t := float64(i) / float64(numChecks)
		check := Point{
			X: start.X + t*(end.X-start.X),
			Y: start.Y + t*(end.Y-start.Y),
		}
		if d.CollidesAny(check, obstacles) {
			return false
		}
	}
	return true
}

// PredictCollisionAlongPath returns the index of the first waypoint that
// collides, or of the waypoint whose incoming segment is blocked. Returns
// -1 when the whole path is clear.
func (d *CollisionDetector) PredictCollisionAlongPath(path []Point, obstacles []Obstacle) int {
	for i, waypoint := range path {
		if d.CollidesAny(waypoint, obstacles) {
			return i
		}
	}
	for i := 0; i < len(path)-1; i++ {
		if !d.PathClear(path[i], path[i+1], obstacles, pathSampleResolution) {
			return i + 1
		}
	}
	return -1
}

// SafePositionNear finds a collision-free position near the target. The
// target is returned unchanged if it is already safe; otherwise rings of
// candidates around it are scanned at 22° steps, the ring radius growing
// by the current margin each attempt. Falls back to clamping the target
// into the canvas. Best effort only: callers must re-validate the result.
func (d *CollisionDetector) SafePositionNear(target Point, obstacles []Obstacle, canvasWidth, canvasHeight float64, maxAttempts int) Point {
	if !d.CollidesAny(target, obstacles) {
		return target
	}

	searchRadius := d.CurrentSafetyMargin * 2

	for attempt := 0; attempt < maxAttempts; attempt++ {
		for angle := 0; angle < 360; angle += 22 {
			rad := float64(angle) * math.Pi / 180
			candidate := Point{
				X: target.X + searchRadius*math.Cos(rad),
				Y: target.Y + searchRadius*math.Sin(rad),
			}
			if candidate.X < 0 || candidate.X >= canvasWidth ||
				candidate.Y < 0 || candidate.Y >= canvasHeight {
				continue
			}
			if !d.CollidesAny(candidate, obstacles) {
				return candidate
			}
		}
		searchRadius += d.CurrentSafetyMargin
	}

	return target.Clamp(canvasWidth, canvasHeight, d.RobotRadius)
}

// ExpandedObstacles returns obstacles inflated by the robot radius and the
// current safety margin, for planners that treat the robot as a point
// against pre-grown geometry. The grid search does not use these; it
// inflates the collision threshold instead.
func (d *CollisionDetector) ExpandedObstacles(obstacles []Obstacle) []Obstacle {
	expansion := d.RobotRadius + d.CurrentSafetyMargin
	expanded := make([]Obstacle, 0, len(obstacles))
	for _, obs := range obstacles {
		expanded = append(expanded, Obstacle{
			Center: obs.Center,
			Size:   obs.Size + 2*expansion,
		})
	}
	return expanded
}

// AvoidanceVector sums repulsive forces from obstacles within maxDistance
// of the position, using an inverse-square potential field capped at 100.
// Obstacles beyond maxDistance, or exactly at the position, contribute
// nothing.
func (d *CollisionDetector) AvoidanceVector(pos Point, obstacles []Obstacle, maxDistance float64) Point {
	var avoidX, avoidY float64

	for _, obstacle := range obstacles {
		distance := pos.Distance(obstacle.Center)
		if distance > maxDistance || distance == 0 {
			continue
		}

		magnitude := math.Min(100.0, 1000.0/(distance*distance))
		avoidX += magnitude * (pos.X - obstacle.Center.X) / distance
		avoidY += magnitude * (pos.Y - obstacle.Center.Y) / distance
	}

	return Point{X: avoidX, Y: avoidY}
}

// RecordCollision appends a collision event to the history. Bookkeeping
// only: the margin changes when the caller invokes UpdateSafetyMargin.
func (d *CollisionDetector) RecordCollision(pos Point) {
	d.history = append(d.history, CollisionEvent{
		Position:     pos,
		SafetyMargin: d.CurrentSafetyMargin,
	})
	log.Printf("📝 Collision recorded at (%.1f, %.1f)", pos.X, pos.Y)
}

// CollisionHistory returns the recorded collision events, oldest first
func (d *CollisionDetector) CollisionHistory() []CollisionEvent {
	return d.history
}

// CollisionReport analyzes the collision history, grouping collisions into
// 50×50-unit regions to surface hotspots
func (d *CollisionDetector) CollisionReport() CollisionAnalysis {
	analysis := CollisionAnalysis{
		TotalCollisions: len(d.history),
		Hotspots:        make(map[string]int),
		CurrentMargin:   d.CurrentSafetyMargin,
	}
	if len(d.history) == 0 {
		return analysis
	}

	for _, event := range d.history {
		key := fmt.Sprintf("%d,%d", int(event.Position.X)/50, int(event.Position.Y)/50)
		analysis.Hotspots[key]++
	}

	analysis.RecommendedMargin = math.Min(50, d.BaseSafetyMargin+float64(len(d.history))*3)
	return analysis
}
