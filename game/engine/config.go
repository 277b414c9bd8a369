package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RobotSpec describes a robot's starting state inside a scenario
type RobotSpec struct {
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading *int   `json:"heading,omitempty"` // defaults to DefaultHeading
	Program string `json:"program,omitempty"`
	Cards   []Card `json:"cards,omitempty"`
}

// Scenario is a starting board loaded from JSON
type Scenario struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TurnOrder   TurnOrder   `json:"turn_order,omitempty"`
	Robots      []RobotSpec `json:"robots"`
}

// HeadingOrDefault returns the configured heading or DefaultHeading
func (rs RobotSpec) HeadingOrDefault() Heading {
	if rs.Heading == nil {
		return DefaultHeading
	}
	return Heading(*rs.Heading)
}

// Build creates the robot with its program and cards queued, program first
func (rs RobotSpec) Build() (*Robot, error) {
	r, err := NewRobot(rs.Name, rs.X, rs.Y, rs.HeadingOrDefault())
	if err != nil {
		return nil, err
	}
	if rs.Program != "" {
		cards, err := ParseProgram(rs.Program)
		if err != nil {
			return nil, err
		}
		if err := r.AddCards(cards...); err != nil {
			return nil, err
		}
	}
	if err := r.AddCards(rs.Cards...); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateScenario validates a scenario for correctness
func ValidateScenario(s *Scenario) error {
	if s == nil {
		return fmt.Errorf("%w: scenario cannot be nil", ErrInvalidScenario)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if _, err := ParseTurnOrder(string(s.TurnOrder)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if len(s.Robots) > MaxRobots {
		return fmt.Errorf("%w: at most %d robots allowed, got %d", ErrInvalidScenario, MaxRobots, len(s.Robots))
	}

	for i, rs := range s.Robots {
		if strings.TrimSpace(rs.Name) == "" {
			return fmt.Errorf("%w: robot %d: name is required", ErrInvalidScenario, i+1)
		}
		r, err := rs.Build()
		if err != nil {
			return fmt.Errorf("%w: robot %d (%s): %v", ErrInvalidScenario, i+1, rs.Name, err)
		}
		if r.Pending() > MaxCardsPerRobot {
			return fmt.Errorf("%w: robot %d (%s): at most %d cards allowed, got %d",
				ErrInvalidScenario, i+1, rs.Name, MaxCardsPerRobot, r.Pending())
		}
	}
	return nil
}

// NewEngineFromScenario builds an engine with the scenario's robots in order
func NewEngineFromScenario(s *Scenario) (*TurnEngine, error) {
	if err := ValidateScenario(s); err != nil {
		return nil, err
	}
	order, _ := ParseTurnOrder(string(s.TurnOrder))

	e := NewTurnEngine(WithTurnOrder(order))
	for _, rs := range s.Robots {
		r, err := rs.Build()
		if err != nil {
			return nil, err
		}
		e.AddRobot(r)
	}
	return e, nil
}

// LoadScenario loads and validates a scenario from a JSON file
func LoadScenario(filename string) (*Scenario, error) {
	// Support SCENARIO_DIR for relative "scenarios/" paths
	path := filename
	if dir := os.Getenv("SCENARIO_DIR"); dir != "" && strings.HasPrefix(filename, "scenarios/") {
		path = filepath.Join(dir, strings.TrimPrefix(filename, "scenarios/"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario '%s': %w", filename, err)
	}
	if err := ValidateScenario(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultScenario returns the built-in scenario used when none is configured
func DefaultScenario() *Scenario {
	north := int(North)
	east := int(East)
	return &Scenario{
		Name:        "default",
		Description: "Two robots on a collision course",
		TurnOrder:   Sequential,
		Robots: []RobotSpec{
			{Name: "Twonky", X: 0, Y: 0, Heading: &east, Program: "F2 L F1"},
			{Name: "Hammer", X: 2, Y: 0, Heading: &north, Program: "R F1"},
		},
	}
}
