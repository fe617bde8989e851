package main

import "errors"

// Planning failure taxonomy. Every failure is a returned error, never a
// panic; the fallback ladder recovers from the recoverable ones.
var (
	// ErrOutOfBounds means the start or goal cell lies outside the grid.
	// No search is attempted.
	ErrOutOfBounds = errors.New("start or goal point is out of bounds")

	// ErrStartOrGoalBlocked means the start or goal world position is
	// already inside an obstacle's collision boundary. No search is
	// attempted.
	ErrStartOrGoalBlocked = errors.New("start or goal position is in collision with obstacles")

	// ErrNoPath means the open set emptied before reaching the goal.
	ErrNoPath = errors.New("no path found")

	// ErrIterationLimit means the search hit its expansion cap. Treated
	// like ErrNoPath by the fallback ladder but reported distinctly.
	ErrIterationLimit = errors.New("search iteration limit reached")

	// ErrAllStrategiesFailed means every fallback strategy was exhausted.
	ErrAllStrategiesFailed = errors.New("all pathfinding strategies failed")
)
