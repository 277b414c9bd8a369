package service

import (
	"context"
	"time"

	"github.com/wricardo/roborally/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, scenarioID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robots and programs
	AddRobot(ctx context.Context, sessionID string, req RobotRequest) (*engine.GameState, error)
	ProgramRobot(ctx context.Context, sessionID, robot string, req ProgramRequest) (*ProgramResult, error)

	// Turns
	Run(ctx context.Context, sessionID string, opts RunOptions) (*RunResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, scenarioID string) (*engine.Scenario, error)
	SaveScenario(ctx context.Context, scenarioID string, scenario *engine.Scenario) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, scenarioID string, scenario *engine.Scenario) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, scenarioID string, scenario *engine.Scenario) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*engine.Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.Scenario
	SaveScenario(name string, scenario *engine.Scenario) error
}

// Session represents an active game session. Scenario is the starting board
// the session resets to.
type Session struct {
	ID             string
	ScenarioID     string
	Scenario       *engine.Scenario
	Engine         *engine.TurnEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
