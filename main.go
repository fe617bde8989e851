package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// PlanRequest carries a planning call: start, goal, and an obstacle
// snapshot in wire format. When obstacles is omitted the server's world
// obstacles are used instead.
type PlanRequest struct {
	Start     Point             `json:"start"`
	Goal      Point             `json:"goal"`
	Obstacles []json.RawMessage `json:"obstacles,omitempty"`
}

// PlanResponse is the planning result returned to the caller.
type PlanResponse struct {
	Path           []Point `json:"path"`
	Success        bool    `json:"success"`
	Message        string  `json:"message,omitempty"`
	Strategy       string  `json:"strategy,omitempty"`
	PathLength     float64 `json:"pathLength,omitempty"`
	Iterations     int     `json:"iterations"`
	SearchTimeMS   float64 `json:"searchTimeMs"`
	FailedAttempts int     `json:"failedAttempts"`
}

// CollisionRequest reports a collision observed by the caller.
type CollisionRequest struct {
	Position Point `json:"position"`
}

// AvoidanceRequest asks for a potential-field steering vector.
type AvoidanceRequest struct {
	Position  Point             `json:"position"`
	Obstacles []json.RawMessage `json:"obstacles,omitempty"`
}

// Server exposes the planning engine over HTTP and streams events over
// websocket. The planner mutates grid size during fallback strategy 3, so
// every planner call runs under the mutex.
type Server struct {
	mu             sync.Mutex
	planner        *Planner
	detector       *CollisionDetector
	worldObstacles []Obstacle
	hub            *EventHub
	upgrader       websocket.Upgrader
}

// NewServer wires a planner, detector and event hub together
func NewServer(worldObstacles []Obstacle) *Server {
	detector := NewCollisionDetector(defaultRobotRadius, defaultSafetyMargin)
	planner := NewPlanner(defaultCanvasWidth, defaultCanvasHeight, defaultGridSize, detector)
	return &Server{
		planner:        planner,
		detector:       detector,
		worldObstacles: worldObstacles,
		hub:            NewEventHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// requestObstacles resolves the obstacle snapshot for a request, falling
// back to the world obstacles when the request carries none
func (s *Server) requestObstacles(records []json.RawMessage) []Obstacle {
	if records == nil {
		return s.worldObstacles
	}
	return ParseObstacles(records)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrOutOfBounds):
		return "start or goal point is out of bounds"
	case errors.Is(err, ErrStartOrGoalBlocked):
		return "start or goal position is in collision with obstacles"
	case errors.Is(err, ErrIterationLimit):
		return "search iteration limit reached"
	case errors.Is(err, ErrAllStrategiesFailed):
		return "all pathfinding strategies failed"
	default:
		return "no path found"
	}
}

// POST /plan - single A* attempt with the default heuristic
func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("📍 Plan request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles := s.requestObstacles(req.Obstacles)

	s.mu.Lock()
	path, err := s.planner.Plan(req.Start, req.Goal, obstacles)
	stats := s.planner.Stats()
	s.mu.Unlock()

	response := PlanResponse{
		Path:         path,
		Success:      err == nil,
		Iterations:   stats.Iterations,
		SearchTimeMS: float64(stats.SearchTime.Microseconds()) / 1000,
	}
	if err != nil {
		log.Printf("❌ Plan failed: %v", err)
		response.Message = failureMessage(err)
	} else {
		log.Printf("✅ Path found with %d waypoints", len(path))
		response.PathLength = PathLength(path)
	}

	s.hub.Broadcast(planEvent{
		Type:       "plan",
		Success:    response.Success,
		Waypoints:  len(path),
		PathLength: response.PathLength,
		DurationMS: response.SearchTimeMS,
	})

	writeJSON(w, response)
}

// POST /planWithFallbacks - full strategy ladder
func (s *Server) planWithFallbacksHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("📍 Plan-with-fallbacks request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles := s.requestObstacles(req.Obstacles)

	s.mu.Lock()
	path, strategy, err := s.planner.FindPathWithFallbacks(req.Start, req.Goal, obstacles)
	stats := s.planner.Stats()
	failed := s.planner.FailedAttempts
	s.mu.Unlock()

	response := PlanResponse{
		Path:           path,
		Success:        err == nil,
		Strategy:       strategy,
		Iterations:     stats.Iterations,
		SearchTimeMS:   float64(stats.SearchTime.Microseconds()) / 1000,
		FailedAttempts: failed,
	}
	if err != nil {
		log.Printf("❌ Planning failed: %v", err)
		response.Message = failureMessage(err)
	} else {
		log.Printf("✅ Path found via %s with %d waypoints", strategy, len(path))
		response.PathLength = PathLength(path)
	}

	s.hub.Broadcast(planEvent{
		Type:       "plan",
		Success:    response.Success,
		Strategy:   strategy,
		Waypoints:  len(path),
		PathLength: response.PathLength,
		DurationMS: response.SearchTimeMS,
	})

	writeJSON(w, response)
}

// POST /reportCollision - record a collision and grow the safety margin
func (s *Server) reportCollisionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CollisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.detector.RecordCollision(req.Position)
	count := s.detector.CollisionCount + 1
	s.detector.UpdateSafetyMargin(count, adaptiveMarginIncrement)
	margin := s.detector.CurrentSafetyMargin
	s.mu.Unlock()

	s.hub.Broadcast(collisionEvent{Type: "collision", Position: req.Position, Count: count})
	s.hub.Broadcast(marginEvent{Type: "safetyMargin", CurrentMargin: margin, CollisionCount: count})

	writeJSON(w, map[string]interface{}{
		"collisionCount": count,
		"currentMargin":  margin,
	})
}

// POST /avoidance - potential-field steering vector for a position
func (s *Server) avoidanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AvoidanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles := s.requestObstacles(req.Obstacles)

	// The repulsion field ignores obstacles beyond its range, so the
	// R-tree proximity query is a pure prefilter here.
	index := NewObstacleIndex(obstacles)
	nearby := index.QueryNear(req.Position, avoidanceMaxDistance)

	s.mu.Lock()
	vector := s.detector.AvoidanceVector(req.Position, nearby, avoidanceMaxDistance)
	nearest, clearance := s.detector.NearestObstacle(req.Position, obstacles)
	s.mu.Unlock()

	response := map[string]interface{}{
		"vector":    vector,
		"clearance": clearance,
	}
	if nearest != nil {
		response["nearestObstacle"] = nearest
	}
	writeJSON(w, response)
}

// GET /health - engine status and diagnostics
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.planner.Report()
	analysis := s.detector.CollisionReport()
	s.mu.Unlock()

	writeJSON(w, map[string]interface{}{
		"status":         "ready",
		"worldObstacles": len(s.worldObstacles),
		"subscribers":    s.hub.SubscriberCount(),
		"planner":        report,
		"collisions":     analysis,
	})
}

// GET /ws - subscribe to planning and collision events
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v", err)
		return
	}

	sub := s.hub.Subscribe(conn)

	// Observers never send application messages; the read loop only
	// notices the connection closing.
	go func() {
		defer s.hub.Unsubscribe(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Routes registers all handlers on a mux
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/plan", corsMiddleware(s.planHandler))
	mux.HandleFunc("/planWithFallbacks", corsMiddleware(s.planWithFallbacksHandler))
	mux.HandleFunc("/reportCollision", corsMiddleware(s.reportCollisionHandler))
	mux.HandleFunc("/avoidance", corsMiddleware(s.avoidanceHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.HandleFunc("/ws", s.wsHandler)
}

const worldObstacleFile = "obstacles.geojson"

func main() {
	log.Println("========================================")
	log.Println("🤖 Robot Navigator (grid A* planning engine)")
	log.Println("========================================")

	var worldObstacles []Obstacle
	if _, err := os.Stat(worldObstacleFile); err == nil {
		obstacles, err := LoadObstaclesFromFile(worldObstacleFile)
		if err != nil {
			log.Printf("⚠️  Failed to load %s: %v", worldObstacleFile, err)
		} else {
			worldObstacles = obstacles
		}
	} else {
		log.Println("ℹ️  No world obstacle file found; requests must carry obstacle snapshots")
	}

	server := NewServer(worldObstacles)
	mux := http.NewServeMux()
	server.Routes(mux)

	log.Printf("Server starting on %s", listenAddr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /plan               - Single A* attempt, default heuristic")
	log.Println("  POST /planWithFallbacks  - Full fallback strategy ladder")
	log.Println("  POST /reportCollision    - Record collision, grow safety margin")
	log.Println("  POST /avoidance          - Potential-field steering vector")
	log.Println("  GET  /health             - Engine status and diagnostics")
	log.Println("  GET  /ws                 - Event stream (websocket)")
	log.Println("")

	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		log.Fatal(err)
	}
}
