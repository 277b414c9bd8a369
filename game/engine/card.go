package engine

import (
	"encoding/json"
	"fmt"
)

// Card is an immutable robot instruction. The zero value is not a valid card;
// build cards with NewCard or the helper constructors.
type Card struct {
	priority int
	command  Command
	distance int
}

// NewCard validates and creates a card. Distance is ignored for turn commands.
func NewCard(priority int, command Command, distance int) (Card, error) {
	switch command {
	case Forward:
		if distance < 0 || distance > MaxDistance {
			return Card{}, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidDistance, distance, MaxDistance)
		}
	case TurnLeft, TurnRight:
		distance = 0
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCommand, string(command))
	}
	return Card{priority: priority, command: command, distance: distance}, nil
}

// MustForwardCard returns a FORWARD card and panics if the distance is out of
// range. Meant for fixtures and tests; use NewCard for input.
func MustForwardCard(priority, distance int) Card {
	c, err := NewCard(priority, Forward, distance)
	if err != nil {
		panic(err)
	}
	return c
}

// LeftCard returns a TURN_LEFT card
func LeftCard(priority int) Card {
	return Card{priority: priority, command: TurnLeft}
}

// RightCard returns a TURN_RIGHT card
func RightCard(priority int) Card {
	return Card{priority: priority, command: TurnRight}
}

func (c Card) Priority() int    { return c.priority }
func (c Card) Command() Command { return c.command }
func (c Card) Distance() int    { return c.distance }

// IsZero reports whether the card was never initialised
func (c Card) IsZero() bool { return c.command == "" }

func (c Card) String() string {
	if c.command == Forward {
		return fmt.Sprintf("%s%d@%d", c.command.Short(), c.distance, c.priority)
	}
	return fmt.Sprintf("%s@%d", c.command.Short(), c.priority)
}

type cardJSON struct {
	Priority int    `json:"priority"`
	Command  string `json:"command"`
	Distance int    `json:"distance,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Priority: c.priority, Command: string(c.command), Distance: c.distance})
}

// UnmarshalJSON implements json.Unmarshaler and validates the decoded card
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cmd, err := ParseCommand(raw.Command)
	if err != nil {
		return err
	}
	card, err := NewCard(raw.Priority, cmd, raw.Distance)
	if err != nil {
		return err
	}
	*c = card
	return nil
}
