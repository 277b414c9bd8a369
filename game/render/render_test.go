package render

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/roborally/game/engine"
)

func stateOf(robots ...engine.RobotState) *engine.GameState {
	return &engine.GameState{Robots: robots, TurnOrder: engine.Sequential}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		state    *engine.GameState
		expected []string
	}{
		{
			name:     "no robots",
			state:    stateOf(),
			expected: []string{},
		},
		{
			name:  "single robot",
			state: stateOf(engine.RobotState{Name: "A", Heading: engine.East}),
			expected: []string{
				"...",
				".>.",
				"...",
			},
		},
		{
			name: "north is up",
			state: stateOf(
				engine.RobotState{Name: "A", Position: engine.Position{X: 0, Y: 0}, Heading: engine.North},
				engine.RobotState{Name: "B", Position: engine.Position{X: 2, Y: 1}, Heading: engine.South},
				engine.RobotState{Name: "C", Position: engine.Position{X: -1, Y: 0}, Heading: engine.West},
			),
			expected: []string{
				"......",
				"....v.",
				".<^...",
				"......",
			},
		},
		{
			name: "overlap",
			state: stateOf(
				engine.RobotState{Name: "A", Position: engine.Position{X: 3, Y: -2}, Heading: engine.North},
				engine.RobotState{Name: "B", Position: engine.Position{X: 3, Y: -2}, Heading: engine.East},
			),
			expected: []string{
				"...",
				".*.",
				"...",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lines, err := Lines(test.state)
			if err != nil {
				t.Fatalf("Lines: %v", err)
			}
			if !reflect.DeepEqual(lines, test.expected) {
				t.Errorf("Expected\n%s\ngot\n%s", strings.Join(test.expected, "\n"), strings.Join(lines, "\n"))
			}
		})
	}
}

func TestBuild_Origin(t *testing.T) {
	b, err := Build(stateOf(engine.RobotState{Name: "A", Position: engine.Position{X: 5, Y: 7}}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Origin != (engine.Position{X: 4, Y: 8}) || b.Width != 3 || b.Height != 3 {
		t.Errorf("Unexpected board geometry %+v", b)
	}
	if b.Owners[1][1] != 0 || b.Owners[0][0] != -1 {
		t.Errorf("Unexpected owners %v", b.Owners)
	}
}

func TestLines_TooLarge(t *testing.T) {
	state := stateOf(
		engine.RobotState{Name: "A"},
		engine.RobotState{Name: "B", Position: engine.Position{X: MaxBoardSize, Y: 0}},
	)
	if _, err := Lines(state); !errors.Is(err, ErrBoardTooLarge) {
		t.Errorf("Expected ErrBoardTooLarge, got %v", err)
	}
}

func TestBuild_ExtremeCoordinates(t *testing.T) {
	far := []*engine.GameState{
		stateOf(
			engine.RobotState{Name: "A", Position: engine.Position{X: math.MinInt, Y: 0}},
			engine.RobotState{Name: "B", Position: engine.Position{X: math.MaxInt, Y: 0}},
		),
		stateOf(
			engine.RobotState{Name: "A", Position: engine.Position{X: 0, Y: math.MinInt + 1}},
			engine.RobotState{Name: "B", Position: engine.Position{X: 0, Y: math.MaxInt - 1}},
		),
	}
	for _, state := range far {
		if _, err := Build(state); !errors.Is(err, ErrBoardTooLarge) {
			t.Errorf("Expected ErrBoardTooLarge, got %v", err)
		}
	}

	b, err := Build(stateOf(
		engine.RobotState{Name: "A", Position: engine.Position{X: math.MaxInt, Y: math.MinInt}},
	))
	if err != nil {
		t.Fatalf("Build at the int edge: %v", err)
	}
	if b.Width != 2 || b.Height != 2 || b.Origin != (engine.Position{X: math.MaxInt - 1, Y: math.MinInt + 1}) {
		t.Errorf("Unexpected board geometry %+v", b)
	}
	if b.Owners[1][1] != 0 {
		t.Errorf("Expected robot in the bottom-right cell, got %v", b.Owners)
	}
}

func TestLegendAndText(t *testing.T) {
	state := stateOf(engine.RobotState{
		Name:     "Twonky",
		Position: engine.Position{X: 1, Y: 2},
		Heading:  engine.West,
		Pending:  []engine.Card{engine.LeftCard(0)},
	})

	legend := Legend(state)
	if len(legend) != 1 || legend[0] != "< Twonky (1,2) facing west, 1 pending" {
		t.Errorf("Unexpected legend %q", legend)
	}

	text, err := Text(state)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "...\n.<.\n...\n\n< Twonky (1,2) facing west, 1 pending\n"
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestStyled(t *testing.T) {
	state := stateOf(
		engine.RobotState{Name: "Twonky", Heading: engine.East},
		engine.RobotState{Name: "Hammer", Heading: engine.North},
	)
	out, err := Styled(state)
	if err != nil {
		t.Fatalf("Styled: %v", err)
	}
	for _, want := range []string{"Twonky", "Hammer", "shared by Twonky, Hammer", "sequential"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in styled output:\n%s", want, out)
		}
	}

	empty, err := Styled(stateOf())
	if err != nil || !strings.Contains(empty, "no robots") {
		t.Errorf("Expected empty board message, got %q, %v", empty, err)
	}
}
