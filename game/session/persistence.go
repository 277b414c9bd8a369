package session

//go:generate go tool mockgen -destination=./mocks/persistence_mock.go -package=mocks . SessionPersistence

import (
	"fmt"
	"time"

	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. The scenario is kept
// inline so a session can be reset even if its scenario file changes later.
type PersistedSessionData struct {
	ID             string            `json:"id"`
	ScenarioID     string            `json:"scenario_id"`
	Scenario       *engine.Scenario  `json:"scenario"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// toPersisted snapshots a session for storage
func toPersisted(session *service.Session) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if session.Engine == nil {
		return nil, fmt.Errorf("session %s has no engine", session.ID)
	}
	return &PersistedSessionData{
		ID:             session.ID,
		ScenarioID:     session.ScenarioID,
		Scenario:       session.Scenario,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.State(),
	}, nil
}

// fromPersisted rebuilds a session, restoring its engine from the saved state
func fromPersisted(data *PersistedSessionData) (*service.Session, error) {
	if data.GameState == nil {
		return nil, fmt.Errorf("session %s has no game state", data.ID)
	}
	eng, err := engine.Restore(data.GameState)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}
	return &service.Session{
		ID:             data.ID,
		ScenarioID:     data.ScenarioID,
		Scenario:       data.Scenario,
		Engine:         eng,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
