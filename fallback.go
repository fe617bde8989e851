package main

import (
	"fmt"
	"log"
	"math"
)

// Strategy names, recorded in the order they are attempted.
const (
	strategyStandard        = "standard_astar"
	strategyFineGrid        = "fine_grid"
	strategyIntermediate    = "intermediate_waypoint"
	strategySafeGoal        = "safe_goal"
	strategyHeuristicPrefix = "heuristic_"
)

// Planner wraps the pathfinder with a ladder of fallback strategies that
// convert recoverable search failures into alternate plans.
type Planner struct {
	*Pathfinder

	// FailedAttempts counts top-level calls whose primary search failed.
	FailedAttempts int
	// StrategiesUsed lists the strategies attempted by the last
	// FindPathWithFallbacks call, winner last on success.
	StrategiesUsed []string
}

// NewPlanner creates a planner over a fresh pathfinder
func NewPlanner(canvasWidth, canvasHeight, gridSize int, detector *CollisionDetector) *Planner {
	return &Planner{
		Pathfinder: NewPathfinder(canvasWidth, canvasHeight, gridSize, detector),
	}
}

// Plan runs a single A* attempt with the default heuristic. The result is
// the raw grid path; callers wanting fewer waypoints smooth it themselves
// or use FindPathWithFallbacks.
func (p *Planner) Plan(start, goal Point, obstacles []Obstacle) ([]Point, error) {
	return p.FindPath(start, goal, obstacles, HeuristicEuclidean)
}

// FindPathWithFallbacks tries the primary search and then an ordered
// ladder of fallback strategies, returning the first smoothed path found
// together with the name of the strategy that produced it. Grid size is
// always restored, on success and failure alike.
func (p *Planner) FindPathWithFallbacks(start, goal Point, obstacles []Obstacle) ([]Point, string, error) {
	p.StrategiesUsed = p.StrategiesUsed[:0]

	log.Println("🎯 Strategy 1: standard A* pathfinding")
	p.StrategiesUsed = append(p.StrategiesUsed, strategyStandard)
	if path, err := p.FindPath(start, goal, obstacles, HeuristicEuclidean); err == nil {
		return p.SmoothPath(path, obstacles), strategyStandard, nil
	}

	log.Println("🔄 A* failed, trying fallback strategies...")
	p.FailedAttempts++

	// Strategy 2: alternate heuristics.
	for _, heuristic := range []Heuristic{HeuristicManhattan, HeuristicDiagonal} {
		name := strategyHeuristicPrefix + string(heuristic)
		log.Printf("🔧 Strategy 2: trying %s heuristic", heuristic)
		p.StrategiesUsed = append(p.StrategiesUsed, name)
		if path, err := p.FindPath(start, goal, obstacles, heuristic); err == nil {
			return p.SmoothPath(path, obstacles), name, nil
		}
	}

	// Strategy 3: finer grid resolution, restored whatever happens.
	if p.GridSize > 5 {
		log.Println("🔧 Strategy 3: trying finer grid resolution")
		p.StrategiesUsed = append(p.StrategiesUsed, strategyFineGrid)

		originalGridSize := p.GridSize
		halved := originalGridSize / 2
		if halved < 5 {
			halved = 5
		}
		p.setGridSize(halved)
		path, err := p.FindPath(start, goal, obstacles, HeuristicEuclidean)
		p.setGridSize(originalGridSize)

		if err == nil {
			return p.SmoothPath(path, obstacles), strategyFineGrid, nil
		}
	}

	// Strategy 4: two-leg path through an intermediate waypoint.
	log.Println("🔧 Strategy 4: trying intermediate waypoint strategy")
	p.StrategiesUsed = append(p.StrategiesUsed, strategyIntermediate)
	if path := p.findPathViaIntermediate(start, goal, obstacles); path != nil {
		return path, strategyIntermediate, nil
	}

	// Strategy 5: displace the goal to a nearby safe position.
	log.Println("🔧 Strategy 5: trying safe goal position")
	p.StrategiesUsed = append(p.StrategiesUsed, strategySafeGoal)
	if p.Detector != nil {
		safeGoal := p.Detector.SafePositionNear(goal, obstacles,
			float64(p.CanvasWidth), float64(p.CanvasHeight), 16)
		if !safeGoal.Equal(goal) {
			if path, err := p.FindPath(start, safeGoal, obstacles, HeuristicEuclidean); err == nil {
				return p.SmoothPath(path, obstacles), strategySafeGoal, nil
			}
		}
	}

	log.Println("❌ All pathfinding strategies failed")
	return nil, "", ErrAllStrategiesFailed
}

// findPathViaIntermediate attempts start → candidate → goal as two
// independent searches, concatenating and smoothing on success
func (p *Planner) findPathViaIntermediate(start, goal Point, obstacles []Obstacle) []Point {
	for _, intermediate := range p.intermediateCandidates(start, goal) {
		if !p.isWorldPointSafe(intermediate, obstacles) {
			continue
		}

		first, err := p.FindPath(start, intermediate, obstacles, HeuristicEuclidean)
		if err != nil {
			continue
		}
		second, err := p.FindPath(intermediate, goal, obstacles, HeuristicEuclidean)
		if err != nil {
			continue
		}

		// Drop the duplicated shared waypoint before joining.
		combined := append(first, second[1:]...)
		log.Printf("✅ Path found via intermediate point (%.1f, %.1f)", intermediate.X, intermediate.Y)
		return p.SmoothPath(combined, obstacles)
	}
	return nil
}

// intermediateCandidates generates detour waypoints: rings of radius 30,
// 60 and 100 around the start–goal midpoint at 45° steps (kept 20 units
// inside the canvas), then the four canvas corners inset by 50
func (p *Planner) intermediateCandidates(start, goal Point) []Point {
	var candidates []Point

	midX := (start.X + goal.X) / 2
	midY := (start.Y + goal.Y) / 2
	width := float64(p.CanvasWidth)
	height := float64(p.CanvasHeight)

	for _, radius := range []float64{30, 60, 100} {
		for angle := 0; angle < 360; angle += 45 {
			rad := float64(angle) * math.Pi / 180
			candidate := Point{
				X: midX + radius*math.Cos(rad),
				Y: midY + radius*math.Sin(rad),
			}
			if candidate.InBounds(width, height, 20) {
				candidates = append(candidates, candidate)
			}
		}
	}

	const cornerInset = 50
	candidates = append(candidates,
		Point{X: cornerInset, Y: cornerInset},
		Point{X: width - cornerInset, Y: cornerInset},
		Point{X: cornerInset, Y: height - cornerInset},
		Point{X: width - cornerInset, Y: height - cornerInset},
	)

	return candidates
}

// PlannerReport is a diagnostic snapshot of the planner's recent activity.
type PlannerReport struct {
	SearchStats
	FailedAttempts int      `json:"failedAttempts"`
	StrategiesUsed []string `json:"strategiesUsed"`
	SuccessRate    string   `json:"successRate"`
}

// Report returns a diagnostic report covering the last search and the
// fallback history
func (p *Planner) Report() PlannerReport {
	rate := 100 - p.FailedAttempts*20
	if rate < 0 {
		rate = 0
	}
	return PlannerReport{
		SearchStats:    p.Stats(),
		FailedAttempts: p.FailedAttempts,
		StrategiesUsed: p.StrategiesUsed,
		SuccessRate:    fmt.Sprintf("%d.0%%", rate),
	}
}
