package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/service"
)

var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = errors.New("invalid scenario file")
)

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	defaultScenario *engine.Scenario
	scenarios       map[string]*engine.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager
func NewManager(scenarioDir string) (*Manager, error) {
	// Ensure scenario directory exists
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		scenarios:   make(map[string]*engine.Scenario),
	}

	m.mu.Lock()
	m.loadDefaultScenario()
	m.mu.Unlock()

	return m, nil
}

// LoadScenario loads a scenario by name
func (m *Manager) LoadScenario(name string) (*engine.Scenario, error) {
	key := scenarioKey(name)

	m.mu.RLock()
	// Check cache first
	if s, exists := m.scenarios[key]; exists {
		m.mu.RUnlock()
		return s, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(key)
}

// loadLocked reads a scenario from disk into the cache. m.mu must be held.
func (m *Manager) loadLocked(key string) (*engine.Scenario, error) {
	// Double-check after acquiring write lock
	if s, exists := m.scenarios[key]; exists {
		return s, nil
	}
	if key == "" || strings.ContainsAny(key, `/\`) {
		return nil, ErrScenarioNotFound
	}

	data, err := os.ReadFile(filepath.Join(m.scenarioDir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s engine.Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: failed to parse scenario: %v", ErrInvalidScenario, err)
	}
	if err := engine.ValidateScenario(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	m.scenarios[key] = &s
	return &s, nil
}

// ListScenarios returns information about all valid scenarios, sorted by id
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

func (m *Manager) listLocked() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var infos []*service.ScenarioInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		s, err := m.loadLocked(id)
		if err != nil {
			// Skip invalid scenarios
			continue
		}

		infos = append(infos, &service.ScenarioInfo{
			Filename:    entry.Name(),
			ScenarioID:  id,
			Name:        s.Name,
			Description: s.Description,
			TurnOrder:   string(orDefault(s.TurnOrder)),
			Robots:      len(s.Robots),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ScenarioID < infos[j].ScenarioID })
	return infos, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	s, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = s
	return nil
}

// ReloadScenario drops a cached scenario and reads it again from disk
func (m *Manager) ReloadScenario(name string) error {
	key := scenarioKey(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scenarios, key)
	_, err := m.loadLocked(key)
	return err
}

// ValidateScenario checks a scenario without saving it
func (m *Manager) ValidateScenario(s *engine.Scenario) error {
	if err := engine.ValidateScenario(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

// RefreshCache reloads all cached scenarios from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scenarios = make(map[string]*engine.Scenario)
	m.loadDefaultScenario()
	return nil
}

// loadDefaultScenario picks classic.json, then the first valid scenario, then
// the built-in one. m.mu must be held.
func (m *Manager) loadDefaultScenario() {
	if s, err := m.loadLocked("classic"); err == nil {
		m.defaultScenario = s
		return
	}

	infos, err := m.listLocked()
	if err == nil && len(infos) > 0 {
		if s, err := m.loadLocked(infos[0].ScenarioID); err == nil {
			m.defaultScenario = s
			return
		}
	}

	m.defaultScenario = engine.DefaultScenario()
}

// SaveScenario validates a scenario and writes it to disk
func (m *Manager) SaveScenario(name string, s *engine.Scenario) error {
	if err := m.ValidateScenario(s); err != nil {
		return err
	}

	key := scenarioKey(name)
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: bad scenario id %q", ErrInvalidScenario, name)
	}

	// Marshal scenario to JSON with indentation
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.scenarioDir, key+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[key] = s
	m.mu.Unlock()

	return nil
}

func scenarioKey(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), ".json")
}

func orDefault(o engine.TurnOrder) engine.TurnOrder {
	if o == "" {
		return engine.Sequential
	}
	return o
}

// Count returns the number of cached scenarios
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scenarios)
}
