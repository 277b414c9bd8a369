package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/wricardo/roborally/game/config"
	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/render"
	"github.com/wricardo/roborally/game/service"
	"github.com/wricardo/roborally/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/robots", s.handleAddRobot).Methods("POST")
	api.HandleFunc("/sessions/{id}/robots/{name}/cards", s.handleProgramRobot).Methods("POST")
	api.HandleFunc("/sessions/{id}/run", s.handleRun).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleCreateScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every API call at debug level. WebSocket upgrades bypass
// the recorder so the connection can be hijacked.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrScenarioNotFound),
		errors.Is(err, service.ErrRobotNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRobot):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, config.ErrInvalidScenario),
		errors.Is(err, engine.ErrInvalidScenario),
		errors.Is(err, engine.ErrInvalidProgram),
		errors.Is(err, engine.ErrInvalidTurnOrder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) broadcast(sessionID, event string, state *engine.GameState, data interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, event, state, data)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.service.CreateSession(r.Context(), req.ScenarioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, websocket.EventSessionDeleted, nil, nil)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

// handleGetGameState returns the state as JSON, or as an ASCII board with
// ?format=text
func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		text, err := render.Text(state)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, text)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddRobot(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req service.RobotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.AddRobot(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, websocket.EventRobotAdded, state, map[string]string{"robot": req.Name})
	log.Info("Robot added", "session", sessionID, "robot", req.Name, "x", req.X, "y", req.Y)

	respondJSON(w, http.StatusCreated, state)
}

func (s *Server) handleProgramRobot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	robot := vars["name"]

	var req service.ProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.ProgramRobot(r.Context(), sessionID, robot, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, websocket.EventProgramUpdated, nil, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var opts service.RunOptions
	if err := decodeBody(r, &opts); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if order := r.URL.Query().Get("order"); order != "" {
		opts.TurnOrder = engine.TurnOrder(order)
	}

	result, err := s.service.Run(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, websocket.EventRunComplete, result.GameState, result.Report)

	rep := result.Report
	log.Info("Run complete", "session", sessionID, "run", rep.Run, "order", rep.TurnOrder,
		"cards", rep.CardsExecuted, "rounds", rep.Rounds, "steps", rep.Steps, "pushes", rep.Pushes)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, websocket.EventSessionReset, state, nil)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = min(l, service.MaxHistoryLimit)
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}
	opts.Robot = query.Get("robot")

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	scenario, err := s.service.LoadScenario(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

// handleCreateScenario stores a scenario. The id comes from ?id= and falls
// back to the scenario name.
func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var scenario engine.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		id = scenario.Name
	}
	if id == "" {
		respondError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}

	if err := s.service.SaveScenario(r.Context(), id, &scenario); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": id,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
