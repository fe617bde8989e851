package main

import "log"

// SmoothPath removes redundant waypoints by string-pulling: from each kept
// waypoint it scans forward for the furthest waypoint reachable over a
// straight collision-free segment, stopping the scan at the first blocked
// one. The result is a subsequence of the input that keeps the first and
// last waypoints.
func (pf *Pathfinder) SmoothPath(path []Point, obstacles []Obstacle) []Point {
	if len(path) <= 2 {
		return path
	}

	smoothed := []Point{path[0]}
	i := 0

	for i < len(path)-1 {
		furthest := i + 1
		for j := i + 2; j < len(path); j++ {
			if pf.Detector != nil && pf.Detector.PathClear(path[i], path[j], obstacles, pathSampleResolution) {
				furthest = j
			} else {
				break
			}
		}
		smoothed = append(smoothed, path[furthest])
		i = furthest
	}

	log.Printf("🔧 Path smoothed: %d → %d waypoints", len(path), len(smoothed))
	return smoothed
}
