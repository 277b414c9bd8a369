package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCommand   = errors.New("invalid command")
	ErrInvalidDistance  = errors.New("invalid distance")
	ErrInvalidHeading   = errors.New("invalid heading")
	ErrInvalidProgram   = errors.New("invalid program")
	ErrInvalidTurnOrder = errors.New("invalid turn order")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// Heading is a cardinal direction in degrees
type Heading int

const (
	East  Heading = 0
	North Heading = 90
	West  Heading = 180
	South Heading = 270

	// DefaultHeading is used when a robot is created without one
	DefaultHeading = North

	// Validation constants
	MaxRobots        = 64
	MaxCardsPerRobot = 128
	MaxDistance      = 100
)

// ParseHeading validates a raw degree value
func ParseHeading(degrees int) (Heading, error) {
	switch h := Heading(degrees); h {
	case East, North, West, South:
		return h, nil
	}
	return 0, fmt.Errorf("%w: %d (must be one of 0, 90, 180, 270)", ErrInvalidHeading, degrees)
}

// Left rotates the heading 90 degrees counter-clockwise
func (h Heading) Left() Heading {
	return (h + 90) % 360
}

// Right rotates the heading 90 degrees clockwise
func (h Heading) Right() Heading {
	return (h + 270) % 360
}

// Delta returns the unit displacement for one step in this heading
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case East:
		return 1, 0
	case North:
		return 0, 1
	case West:
		return -1, 0
	case South:
		return 0, -1
	}
	return 0, 0
}

// Arrow returns a single-character glyph pointing along the heading
func (h Heading) Arrow() string {
	switch h {
	case East:
		return ">"
	case North:
		return "^"
	case West:
		return "<"
	case South:
		return "v"
	}
	return "?"
}

func (h Heading) String() string {
	switch h {
	case East:
		return "east"
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	}
	return fmt.Sprintf("heading(%d)", int(h))
}

// Command is the action encoded on a card
type Command string

const (
	Forward   Command = "FORWARD"
	TurnLeft  Command = "TURN_LEFT"
	TurnRight Command = "TURN_RIGHT"
)

// ParseCommand accepts the canonical names and the short F/L/R forms, case-insensitively
func ParseCommand(s string) (Command, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FORWARD":
		return Forward, nil
	case "L", "TURN_LEFT", "LEFT":
		return TurnLeft, nil
	case "R", "TURN_RIGHT", "RIGHT":
		return TurnRight, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCommand, s)
}

// Short returns the one-letter program form of the command
func (c Command) Short() string {
	switch c {
	case Forward:
		return "F"
	case TurnLeft:
		return "L"
	case TurnRight:
		return "R"
	}
	return "?"
}

// TurnOrder selects how cards from different robots are interleaved during Run
type TurnOrder string

const (
	// Sequential drains each robot's queue completely before the next robot acts
	Sequential TurnOrder = "sequential"
	// Priority plays one card per robot per round, highest priority first
	Priority TurnOrder = "priority"
)

// ParseTurnOrder validates a turn order name; the empty string means Sequential
func ParseTurnOrder(s string) (TurnOrder, error) {
	switch TurnOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sequential:
		return Sequential, nil
	case Priority:
		return Priority, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTurnOrder, s)
}

// Position represents x,y coordinates on the unbounded grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position one cell along the heading
func (p Position) Step(h Heading) Position {
	dx, dy := h.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// EventKind classifies history entries
type EventKind string

const (
	EventTurn EventKind = "turn"
	EventStep EventKind = "step"
	EventPush EventKind = "push"
)

// Event records one elementary change made by the engine
type Event struct {
	Seq           int       `json:"seq"`
	Run           int       `json:"run"`
	Round         int       `json:"round"`
	Kind          EventKind `json:"kind"`
	Robot         string    `json:"robot"`
	Card          *Card     `json:"card,omitempty"`
	From          Position  `json:"from"`
	To            Position  `json:"to"`
	HeadingBefore Heading   `json:"heading_before"`
	HeadingAfter  Heading   `json:"heading_after"`
	PushedBy      string    `json:"pushed_by,omitempty"`
}

// RunReport summarises a single call to Run
type RunReport struct {
	ID            string    `json:"id"`
	Run           int       `json:"run"`
	TurnOrder     TurnOrder `json:"turn_order"`
	Rounds        int       `json:"rounds"`
	CardsExecuted int       `json:"cards_executed"`
	Steps         int       `json:"steps"`
	Pushes        int       `json:"pushes"`
	Events        []Event   `json:"events"`
}
