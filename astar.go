package main

import (
	"container/heap"
	"fmt"
	"log"
	"math"
	"time"
)

// Heuristic selects the A* cost-to-go estimate.
type Heuristic string

const (
	// HeuristicEuclidean is the default, admissible for 8-connected movement.
	HeuristicEuclidean Heuristic = "euclidean"
	// HeuristicManhattan overestimates diagonal movement. It is offered
	// only as a fallback variant, never the default.
	HeuristicManhattan Heuristic = "manhattan"
	// HeuristicDiagonal is the octile distance, the exact cost on an
	// empty 8-connected grid.
	HeuristicDiagonal Heuristic = "diagonal"
)

// searchNode is an open-set entry in the A* search. Seq is the monotonic
// insertion counter: entries that share an fScore are expanded in insertion
// order, which makes the search deterministic on symmetric inputs.
type searchNode struct {
	Cell  GridCell
	F     float64
	Seq   int
	Index int // Index in the heap
}

// searchQueue implements heap.Interface ordered by (fScore, insertion seq)
type searchQueue []*searchNode

func (sq searchQueue) Len() int { return len(sq) }

func (sq searchQueue) Less(i, j int) bool {
	if sq[i].F != sq[j].F {
		return sq[i].F < sq[j].F
	}
	return sq[i].Seq < sq[j].Seq
}

func (sq searchQueue) Swap(i, j int) {
	sq[i], sq[j] = sq[j], sq[i]
	sq[i].Index = i
	sq[j].Index = j
}

func (sq *searchQueue) Push(x interface{}) {
	n := len(*sq)
	node := x.(*searchNode)
	node.Index = n
	*sq = append(*sq, node)
}

func (sq *searchQueue) Pop() interface{} {
	old := *sq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*sq = old[0 : n-1]
	return node
}

// Pathfinder runs obstacle-aware A* over a uniform grid laid over the
// canvas. Obstacle snapshots are passed into every call; the pathfinder
// itself holds no obstacle state.
type Pathfinder struct {
	CanvasWidth  int
	CanvasHeight int
	GridSize     int
	GridWidth    int
	GridHeight   int

	Detector *CollisionDetector

	// Statistics from the most recent search, recorded on every outcome.
	LastIterations int
	LastSearchTime time.Duration
}

// NewPathfinder creates a pathfinder for a canvas discretized at gridSize
func NewPathfinder(canvasWidth, canvasHeight, gridSize int, detector *CollisionDetector) *Pathfinder {
	pf := &Pathfinder{
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		Detector:     detector,
	}
	pf.setGridSize(gridSize)
	log.Printf("🗺️  A* grid initialized: %dx%d (gridSize=%d)", pf.GridWidth, pf.GridHeight, gridSize)
	return pf
}

// heuristicValue estimates remaining cost between two world points
func (pf *Pathfinder) heuristicValue(current, goal Point, heuristic Heuristic) float64 {
	switch heuristic {
	case HeuristicManhattan:
		return current.ManhattanDistance(goal)
	case HeuristicDiagonal:
		return current.DiagonalDistance(goal)
	default:
		return current.Distance(goal)
	}
}

// movementCost returns the edge cost between two adjacent waypoints. The
// diagonal case is detected by comparing coordinate deltas to the grid
// size, so the cost does not depend on neighbor enumeration order.
func (pf *Pathfinder) movementCost(from, to Point) float64 {
	dx := math.Abs(from.X - to.X)
	dy := math.Abs(from.Y - to.Y)
	gs := float64(pf.GridSize)

	if dx == gs && dy == gs {
		return math.Sqrt2 * gs
	}
	return gs
}

// isWorldPointSafe checks a world position against the obstacle snapshot
func (pf *Pathfinder) isWorldPointSafe(p Point, obstacles []Obstacle) bool {
	if pf.Detector == nil {
		return true
	}
	return !pf.Detector.CollidesAny(p, obstacles)
}

// neighborDirections enumerates the 8-connected neighborhood.
var neighborDirections = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// validNeighbors returns the in-bounds, collision-free neighbors of a cell
func (pf *Pathfinder) validNeighbors(cell GridCell, obstacles []Obstacle) []GridCell {
	neighbors := make([]GridCell, 0, 8)
	for _, dir := range neighborDirections {
		next := GridCell{Col: cell.Col + dir[0], Row: cell.Row + dir[1]}
		if !pf.IsValidCell(next) {
			continue
		}
		if pf.isWorldPointSafe(pf.GridToWorld(next), obstacles) {
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// reconstructPath walks parent links from the goal cell back to the start
// and maps each cell to world coordinates
func (pf *Pathfinder) reconstructPath(cameFrom map[GridCell]GridCell, current GridCell) []Point {
	var path []Point
	for {
		path = append(path, pf.GridToWorld(current))
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath runs A* from start to goal against the obstacle snapshot and
// returns a path of world-coordinate waypoints. The first waypoint is the
// start snapped to the grid, not the original start point. Fails with
// ErrOutOfBounds or ErrStartOrGoalBlocked before searching, and with
// ErrNoPath or ErrIterationLimit when the search terminates empty-handed.
func (pf *Pathfinder) FindPath(start, goal Point, obstacles []Obstacle, heuristic Heuristic) ([]Point, error) {
	searchStart := time.Now()

	startCell := pf.WorldToGrid(start)
	goalCell := pf.WorldToGrid(goal)

	if !pf.IsValidCell(startCell) || !pf.IsValidCell(goalCell) {
		pf.LastIterations = 0
		pf.LastSearchTime = time.Since(searchStart)
		return nil, ErrOutOfBounds
	}

	if !pf.isWorldPointSafe(start, obstacles) || !pf.isWorldPointSafe(goal, obstacles) {
		pf.LastIterations = 0
		pf.LastSearchTime = time.Since(searchStart)
		return nil, ErrStartOrGoalBlocked
	}

	seq := 0
	openSet := &searchQueue{}
	heap.Init(openSet)
	openMembers := make(map[GridCell]bool)
	closedSet := make(map[GridCell]bool)
	cameFrom := make(map[GridCell]GridCell)
	gScore := map[GridCell]float64{startCell: 0}

	seq++
	heap.Push(openSet, &searchNode{
		Cell: startCell,
		F:    pf.heuristicValue(start, goal, heuristic),
		Seq:  seq,
	})
	openMembers[startCell] = true

	iterations := 0

	for openSet.Len() > 0 && iterations < maxSearchIterations {
		iterations++

		current := heap.Pop(openSet).(*searchNode)
		delete(openMembers, current.Cell)

		if current.Cell == goalCell {
			pf.LastIterations = iterations
			pf.LastSearchTime = time.Since(searchStart)
			log.Printf("✅ Path found in %d iterations (%.3fs)", iterations, pf.LastSearchTime.Seconds())
			return pf.reconstructPath(cameFrom, current.Cell), nil
		}

		closedSet[current.Cell] = true

		currentWorld := pf.GridToWorld(current.Cell)
		for _, neighbor := range pf.validNeighbors(current.Cell, obstacles) {
			if closedSet[neighbor] {
				continue
			}

			neighborWorld := pf.GridToWorld(neighbor)
			tentativeG := gScore[current.Cell] + pf.movementCost(currentWorld, neighborWorld)

			if known, ok := gScore[neighbor]; !ok || tentativeG < known {
				cameFrom[neighbor] = current.Cell
				gScore[neighbor] = tentativeG

				// A cheaper route to a cell already queued updates the
				// bookkeeping only; the queued entry keeps the fScore it
				// was inserted with.
				if !openMembers[neighbor] {
					seq++
					heap.Push(openSet, &searchNode{
						Cell: neighbor,
						F:    tentativeG + pf.heuristicValue(neighborWorld, goal, heuristic),
						Seq:  seq,
					})
					openMembers[neighbor] = true
				}
			}
		}
	}

	pf.LastIterations = iterations
	pf.LastSearchTime = time.Since(searchStart)

	if openSet.Len() > 0 {
		log.Printf("❌ No path found: iteration limit reached after %d expansions", iterations)
		return nil, ErrIterationLimit
	}
	log.Printf("❌ No path found after %d iterations (%.3fs)", iterations, pf.LastSearchTime.Seconds())
	return nil, ErrNoPath
}

// SearchStats describes the most recent search.
type SearchStats struct {
	Iterations     int           `json:"iterations"`
	SearchTime     time.Duration `json:"searchTime"`
	GridSize       int           `json:"gridSize"`
	GridDimensions string        `json:"gridDimensions"`
}

// Stats returns statistics from the last search
func (pf *Pathfinder) Stats() SearchStats {
	return SearchStats{
		Iterations:     pf.LastIterations,
		SearchTime:     pf.LastSearchTime,
		GridSize:       pf.GridSize,
		GridDimensions: fmt.Sprintf("%dx%d", pf.GridWidth, pf.GridHeight),
	}
}
