package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func createTestScenario() *Scenario {
	return &Scenario{
		Name:        "push-chain",
		Description: "Three robots in a row",
		Robots: []RobotSpec{
			{Name: "A", X: 0, Y: 0, Heading: intPtr(0), Program: "F1"},
			{Name: "B", X: 1, Y: 0},
			{Name: "C", X: 2, Y: 0, Cards: []Card{LeftCard(0)}},
		},
	}
}

func TestValidateScenario_Valid(t *testing.T) {
	if err := ValidateScenario(createTestScenario()); err != nil {
		t.Errorf("Expected valid scenario, got %v", err)
	}
	if err := ValidateScenario(DefaultScenario()); err != nil {
		t.Errorf("Expected default scenario to be valid, got %v", err)
	}
}

func TestValidateScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		errText string
	}{
		{"missing name", func(s *Scenario) { s.Name = " " }, "name is required"},
		{"bad turn order", func(s *Scenario) { s.TurnOrder = "chaos" }, "invalid turn order"},
		{"robot without name", func(s *Scenario) { s.Robots[1].Name = "" }, "robot 2: name is required"},
		{"bad heading", func(s *Scenario) { s.Robots[0].Heading = intPtr(45) }, "invalid heading"},
		{"bad program", func(s *Scenario) { s.Robots[0].Program = "F1 JUMP" }, "invalid program"},
		{"distance too large", func(s *Scenario) { s.Robots[0].Program = "F2000000000" }, "invalid distance"},
		{"too many robots", func(s *Scenario) {
			for i := 0; i <= MaxRobots; i++ {
				s.Robots = append(s.Robots, RobotSpec{Name: "X"})
			}
		}, "at most"},
		{"too many cards", func(s *Scenario) {
			s.Robots[0].Program = strings.Repeat("L ", MaxCardsPerRobot+1)
		}, "cards allowed"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := createTestScenario()
			test.mutate(s)
			err := ValidateScenario(s)
			if !errors.Is(err, ErrInvalidScenario) {
				t.Fatalf("Expected ErrInvalidScenario, got %v", err)
			}
			if !strings.Contains(err.Error(), test.errText) {
				t.Errorf("Expected error containing %q, got %q", test.errText, err.Error())
			}
		})
	}
}

func TestNewEngineFromScenario(t *testing.T) {
	e, err := NewEngineFromScenario(createTestScenario())
	if err != nil {
		t.Fatalf("NewEngineFromScenario: %v", err)
	}

	robots := e.Robots()
	if len(robots) != 3 {
		t.Fatalf("Expected 3 robots, got %d", len(robots))
	}
	if robots[1].Heading() != DefaultHeading {
		t.Errorf("Expected default heading for B, got %d", robots[1].Heading())
	}

	e.Run()
	assertPosition(t, robots[0], 1, 0)
	assertPosition(t, robots[1], 2, 0)
	assertPosition(t, robots[2], 3, 0)
	if robots[2].Heading() != West {
		t.Errorf("Expected C to turn left to %d, got %d", West, robots[2].Heading())
	}
}

func TestRobotSpecBuild_ProgramBeforeCards(t *testing.T) {
	rs := RobotSpec{Name: "A", Program: "L", Cards: []Card{MustForwardCard(0, 2)}}
	r, err := rs.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cards := r.Cards()
	if len(cards) != 2 || cards[0].Command() != TurnLeft || cards[1].Command() != Forward {
		t.Errorf("Expected program cards before explicit cards, got %v", cards)
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "duel.json")
	content := `{
		"name": "duel",
		"description": "Head to head",
		"turn_order": "priority",
		"robots": [
			{"name": "A", "x": 0, "y": 0, "heading": 0, "program": "F2@200"},
			{"name": "B", "x": 3, "y": 0, "heading": 180, "cards": [{"priority": 100, "command": "FORWARD", "distance": 1}]}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.TurnOrder != Priority {
		t.Errorf("Expected priority turn order, got %q", s.TurnOrder)
	}

	e, err := NewEngineFromScenario(s)
	if err != nil {
		t.Fatalf("NewEngineFromScenario: %v", err)
	}
	e.Run()
	// A (200) moves first: (1,0), (2,0). B then moves west onto A and pushes it west.
	robots := e.Robots()
	assertPosition(t, robots[0], 1, 0)
	assertPosition(t, robots[1], 2, 0)
}

func TestLoadScenario_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadScenario(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{not json`), 0644)
	if _, err := LoadScenario(bad); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"name": "x", "robots": [{"name": "A", "heading": 10}]}`), 0644)
	if _, err := LoadScenario(invalid); err == nil {
		t.Error("Expected validation error for bad heading")
	}
}

func TestLoadScenario_ScenarioDirEnv(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "solo.json"), []byte(`{"name": "solo", "robots": [{"name": "A"}]}`), 0644)
	t.Setenv("SCENARIO_DIR", dir)

	s, err := LoadScenario("scenarios/solo.json")
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "solo" {
		t.Errorf("Expected scenario 'solo', got %q", s.Name)
	}
}
