package main

import (
	"encoding/json"
	"log"
)

// Obstacle is a static circular obstacle in world coordinates. Square
// obstacles reported by the simulator are treated as circles of the same
// diameter for collision purposes.
type Obstacle struct {
	Center Point   `json:"center"`
	Size   float64 `json:"size"`
}

// NewObstacle creates an obstacle centered at (x, y) with the given diameter
func NewObstacle(x, y, size float64) Obstacle {
	return Obstacle{Center: Point{X: x, Y: y}, Size: size}
}

// Radius returns the obstacle's collision radius (half its diameter)
func (o Obstacle) Radius() float64 {
	return o.Size / 2
}

// obstacleRecord is the wire format obstacles arrive in: {x, y, size}.
type obstacleRecord struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// defaultObstacleSize is used when a record omits its size.
const defaultObstacleSize = 25.0

// ParseObstacles converts raw obstacle records from the transport into
// Obstacle values. Malformed records are skipped with a warning; one bad
// entry never rejects the whole set.
func ParseObstacles(records []json.RawMessage) []Obstacle {
	obstacles := make([]Obstacle, 0, len(records))
	for _, raw := range records {
		var rec obstacleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("⚠️  Invalid obstacle data %s: %v", raw, err)
			continue
		}
		center := Point{X: rec.X, Y: rec.Y}
		if !center.IsValid() {
			log.Printf("⚠️  Invalid obstacle coordinates %s", raw)
			continue
		}
		size := rec.Size
		if size <= 0 {
			size = defaultObstacleSize
		}
		obstacles = append(obstacles, Obstacle{Center: center, Size: size})
	}
	return obstacles
}
