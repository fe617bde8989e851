package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadObstaclesFromFile reads obstacles from a GeoJSON FeatureCollection.
// Each obstacle is a Point feature whose "size" property carries the
// diameter; features with other geometry or unusable properties are
// skipped with a warning rather than failing the whole file.
func LoadObstaclesFromFile(filename string) ([]Obstacle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	obstacles := make([]Obstacle, 0, len(fc.Features))
	for _, feature := range fc.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			log.Printf("⚠️  Skipping %s feature in %s: obstacles must be points",
				feature.Geometry.GeoJSONType(), filepath.Base(filename))
			continue
		}

		size := defaultObstacleSize
		if raw, exists := feature.Properties["size"]; exists {
			value, numeric := raw.(float64)
			if !numeric || value <= 0 {
				log.Printf("⚠️  Skipping obstacle with unusable size %v in %s",
					raw, filepath.Base(filename))
				continue
			}
			size = value
		}

		obstacles = append(obstacles, NewObstacle(point.X(), point.Y(), size))
	}

	log.Printf("✅ Loaded %d obstacles from %s", len(obstacles), filepath.Base(filename))
	return obstacles, nil
}
