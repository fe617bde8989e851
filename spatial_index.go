package main

import (
	"github.com/dhconnelly/rtreego"
)

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	Obstacle Obstacle
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// ObstacleIndex answers spatial queries over one obstacle snapshot. The
// collision predicates stay linear scans over the full snapshot; the index
// serves surfaces that only care about nearby obstacles, like the
// potential-field avoidance vector.
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex builds an R-tree over an obstacle snapshot
func NewObstacleIndex(obstacles []Obstacle) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obstacle := range obstacles {
		radius := obstacle.Radius()
		bbox, err := rtreego.NewRect(
			rtreego.Point{obstacle.Center.X - radius, obstacle.Center.Y - radius},
			[]float64{obstacle.Size, obstacle.Size},
		)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{Obstacle: obstacle, BBox: bbox})
	}

	return &ObstacleIndex{tree: tree}
}

// QueryRegion returns obstacles whose bounding boxes intersect the given
// region
func (oi *ObstacleIndex) QueryRegion(minX, minY, maxX, maxY float64) []Obstacle {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return []Obstacle{}
	}

	results := oi.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))
	for _, item := range results {
		obstacles = append(obstacles, item.(*obstacleEntry).Obstacle)
	}
	return obstacles
}

// QueryNear returns obstacles whose centers lie within radius of the point
func (oi *ObstacleIndex) QueryNear(p Point, radius float64) []Obstacle {
	candidates := oi.QueryRegion(p.X-radius, p.Y-radius, p.X+radius, p.Y+radius)

	obstacles := make([]Obstacle, 0, len(candidates))
	for _, obstacle := range candidates {
		if p.Distance(obstacle.Center) <= radius {
			obstacles = append(obstacles, obstacle)
		}
	}
	return obstacles
}

// RouteBounds calculates the bounding box around a start–goal pair with
// margin on every side
func RouteBounds(start, goal Point, margin float64) (minX, minY, maxX, maxY float64) {
	minX = min(start.X, goal.X) - margin
	maxX = max(start.X, goal.X) + margin
	minY = min(start.Y, goal.Y) - margin
	maxY = max(start.Y, goal.Y) + margin
	return
}
