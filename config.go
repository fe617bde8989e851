package main

// Default environment and robot settings, matching the simulation canvas.
const (
	defaultCanvasWidth  = 650
	defaultCanvasHeight = 600

	defaultRobotRadius  = 18.0
	defaultSafetyMargin = 10.0

	// Grid resolution for the A* search, in world units.
	defaultGridSize = 10

	// Hard cap on node expansions per search.
	maxSearchIterations = 10000

	// Sampling step for straight-line clearance checks.
	pathSampleResolution = 5

	// Safety margin added per recorded collision.
	adaptiveMarginIncrement = 5.0

	// Potential-field repulsion range.
	avoidanceMaxDistance = 100.0

	listenAddr = ":8080"
)
