package service

import (
	"time"

	"github.com/wricardo/roborally/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ScenarioID     string            `json:"scenario_id"`
	ScenarioName   string            `json:"scenario_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// RobotRequest registers a robot in a session
type RobotRequest struct {
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading *int   `json:"heading,omitempty"` // defaults to north
	Program string `json:"program,omitempty"`
}

// ProgramRequest queues cards for a robot. Program text is queued before Cards.
type ProgramRequest struct {
	Program string        `json:"program,omitempty"`
	Cards   []engine.Card `json:"cards,omitempty"`
	Replace bool          `json:"replace,omitempty"` // drop already queued cards first
}

// ProgramResult reports a robot's queue after programming
type ProgramResult struct {
	Robot   string        `json:"robot"`
	Added   int           `json:"added"`
	Pending []engine.Card `json:"pending"`
	Program string        `json:"program"`
}

// RunOptions configures a turn execution
type RunOptions struct {
	TurnOrder engine.TurnOrder `json:"turn_order,omitempty"` // overrides the session's order for subsequent runs
}

// RunResult contains the outcome of a run
type RunResult struct {
	Report    *engine.RunReport `json:"report"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
	Robot string `json:"robot,omitempty"`
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []engine.Event `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ScenarioInfo provides information about a scenario
type ScenarioInfo struct {
	Filename    string `json:"filename"`
	ScenarioID  string `json:"scenario_id"` // The identifier to use for session creation
	Name        string `json:"name"`        // Display name
	Description string `json:"description"`
	TurnOrder   string `json:"turn_order"`
	Robots      int    `json:"robots"`
}
