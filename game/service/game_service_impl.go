package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/wricardo/roborally/game/engine"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrRobotNotFound    = errors.New("robot not found")
	ErrDuplicateRobot   = errors.New("robot already exists")
	ErrInvalidRequest   = errors.New("invalid request")
)

const (
	// DefaultHistoryLimit is the page size used when HistoryOptions.Limit is unset
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps HistoryOptions.Limit
	MaxHistoryLimit = 500
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	mu        sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, scenarios ScenarioManager) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
	}
}

// CreateSession creates a new game session from a scenario. An empty id uses
// the default scenario.
func (s *gameServiceImpl) CreateSession(ctx context.Context, scenarioID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *engine.Scenario
	var err error
	if scenarioID != "" {
		scenario, err = s.scenarios.LoadScenario(scenarioID)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrScenarioNotFound) {
				available, listErr := s.scenarios.ListScenarios()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.ScenarioID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, scenarioID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/scenarios to list available scenarios", ErrScenarioNotFound, scenarioID)
			}
			return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioID, err)
		}
	} else {
		scenario = s.scenarios.GetDefault()
		scenarioID = s.getScenarioID(scenario)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", scenarioID, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("Session created", "session", sess.ID, "scenario", scenarioID, "robots", len(scenario.Robots))
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return wrapSessionErr(err)
	}
	return nil
}

// AddRobot registers a robot. Names address robots, so they must be unique
// within a session (case-insensitive).
func (s *gameServiceImpl) AddRobot(ctx context.Context, sessionID string, req RobotRequest) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: robot name is required", ErrInvalidRequest)
	}
	if sess.Engine.Robot(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRobot, name)
	}
	if len(sess.Engine.Robots()) >= engine.MaxRobots {
		return nil, fmt.Errorf("%w: at most %d robots per session", ErrInvalidRequest, engine.MaxRobots)
	}

	spec := engine.RobotSpec{Name: name, X: req.X, Y: req.Y, Heading: req.Heading, Program: req.Program}
	robot, err := spec.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if robot.Pending() > engine.MaxCardsPerRobot {
		return nil, fmt.Errorf("%w: at most %d cards per robot", ErrInvalidRequest, engine.MaxCardsPerRobot)
	}
	sess.Engine.AddRobot(robot)

	s.save(sessionID, "add robot")
	return sess.Engine.State(), nil
}

// ProgramRobot queues cards for a robot
func (s *gameServiceImpl) ProgramRobot(ctx context.Context, sessionID, name string, req ProgramRequest) (*ProgramResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	robot := sess.Engine.Robot(name)
	if robot == nil {
		return nil, fmt.Errorf("%w: %s", ErrRobotNotFound, name)
	}

	var cards []engine.Card
	if req.Program != "" {
		parsed, err := engine.ParseProgram(req.Program)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		cards = append(cards, parsed...)
	}
	cards = append(cards, req.Cards...)
	if len(cards) == 0 && !req.Replace {
		return nil, fmt.Errorf("%w: no cards given", ErrInvalidRequest)
	}

	pending := robot.Pending()
	if req.Replace {
		pending = 0
	}
	if pending+len(cards) > engine.MaxCardsPerRobot {
		return nil, fmt.Errorf("%w: at most %d cards per robot", ErrInvalidRequest, engine.MaxCardsPerRobot)
	}

	// Validate everything before touching the queue
	for i, c := range cards {
		if c.IsZero() {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidRequest, i+1, engine.ErrInvalidCommand)
		}
	}
	if req.Replace {
		robot.ClearCards()
	}
	if err := robot.AddCards(cards...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	s.save(sessionID, "program robot")

	queued := robot.Cards()
	return &ProgramResult{
		Robot:   robot.Name(),
		Added:   len(cards),
		Pending: queued,
		Program: engine.FormatProgram(queued),
	}, nil
}

// Run plays every queued card in the session
func (s *gameServiceImpl) Run(ctx context.Context, sessionID string, opts RunOptions) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	if opts.TurnOrder != "" {
		if err := sess.Engine.SetTurnOrder(opts.TurnOrder); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	report := sess.Engine.Run()
	s.save(sessionID, "run")

	log.Debug("Run finished", "session", sess.ID, "run", report.Run, "cards", report.CardsExecuted, "pushes", report.Pushes)

	return &RunResult{
		Report:    report,
		GameState: sess.Engine.State(),
		Message:   runMessage(report),
	}, nil
}

// Reset rebuilds the session's robots from its scenario. History and the run
// counter are kept.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	fresh, err := engine.NewEngineFromScenario(sess.Scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild scenario: %w", err)
	}
	old := sess.Engine.State()
	state := fresh.State()
	state.Runs = old.Runs
	state.History = old.History

	restored, err := engine.Restore(state)
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}
	sess.Engine = restored

	s.save(sessionID, "reset")
	return restored.State(), nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.State(), nil
}

// GetHistory returns a page of the session's event history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.History()
	if opts.Robot != "" {
		filtered := make([]engine.Event, 0, len(history))
		for _, ev := range history {
			if strings.EqualFold(ev.Robot, opts.Robot) || strings.EqualFold(ev.PushedBy, opts.Robot) {
				filtered = append(filtered, ev)
			}
		}
		history = filtered
	}

	return paginate(history, opts), nil
}

// ListScenarios returns available scenarios
func (s *gameServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a specific scenario
func (s *gameServiceImpl) LoadScenario(ctx context.Context, scenarioID string) (*engine.Scenario, error) {
	return s.scenarios.LoadScenario(scenarioID)
}

// SaveScenario saves a scenario to disk
func (s *gameServiceImpl) SaveScenario(ctx context.Context, scenarioID string, scenario *engine.Scenario) error {
	return s.scenarios.SaveScenario(scenarioID, scenario)
}

// get looks up a session and marks it accessed. Callers hold s.mu for writing
// because LastAccessedAt changes.
func (s *gameServiceImpl) get(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, wrapSessionErr(err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// save persists a session after a mutation. Failures are logged, not returned.
func (s *gameServiceImpl) save(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn("Failed to persist session", "session", sessionID, "after", op, "error", err)
	}
}

// getScenarioID returns the scenario id for a scenario, used for consistent API responses
func (s *gameServiceImpl) getScenarioID(scenario *engine.Scenario) string {
	if scenario == nil {
		return "default"
	}
	available, err := s.scenarios.ListScenarios()
	if err == nil {
		for _, info := range available {
			if info.Name == scenario.Name {
				return info.ScenarioID
			}
		}
	}
	return scenario.Name
}

func wrapSessionErr(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
}

func sessionInfo(sess *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		ScenarioID:     sess.ScenarioID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
	}
	if sess.Scenario != nil {
		info.ScenarioName = sess.Scenario.Name
	}
	return info
}

func runMessage(r *engine.RunReport) string {
	if r.CardsExecuted == 0 {
		return fmt.Sprintf("Run %d: no cards queued", r.Run)
	}
	return fmt.Sprintf("Run %d: %d cards in %d rounds, %d steps, %d pushes",
		r.Run, r.CardsExecuted, r.Rounds, r.Steps, r.Pushes)
}

func paginate(history []engine.Event, opts HistoryOptions) *HistoryResponse {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}

	total := len(history)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	// pages past the end stay empty
	start, end := total, total
	if opts.Page-1 < totalPages {
		start = (opts.Page - 1) * opts.Limit
		end = start + opts.Limit
		if end > total {
			end = total
		}
	}

	events := []engine.Event{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				events = append(events, history[i])
			}
		} else {
			events = append(events, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}
