package engine

import "fmt"

// RobotState is the serialisable view of a robot
type RobotState struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Heading  Heading  `json:"heading"`
	Pending  []Card   `json:"pending"`
}

// GameState is a snapshot of an engine, used for persistence and transport
type GameState struct {
	Robots    []RobotState `json:"robots"`
	TurnOrder TurnOrder    `json:"turn_order"`
	Runs      int          `json:"runs"`
	History   []Event      `json:"history"`
}

// State returns a snapshot of the engine. The snapshot shares no mutable
// data with the engine except the history entries, which are never modified.
func (e *TurnEngine) State() *GameState {
	robots := make([]RobotState, len(e.robots))
	for i, r := range e.robots {
		robots[i] = RobotState{
			Name:     r.name,
			Position: r.pos,
			Heading:  r.heading,
			Pending:  r.registers.Cards(),
		}
	}
	history := e.history
	if history == nil {
		history = []Event{}
	}
	return &GameState{
		Robots:    robots,
		TurnOrder: e.order,
		Runs:      e.runs,
		History:   history,
	}
}

// Restore rebuilds an engine from a snapshot
func Restore(state *GameState) (*TurnEngine, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	order, err := ParseTurnOrder(string(state.TurnOrder))
	if err != nil {
		return nil, err
	}

	e := NewTurnEngine(WithTurnOrder(order))
	for i, rs := range state.Robots {
		r, err := NewRobot(rs.Name, rs.Position.X, rs.Position.Y, rs.Heading)
		if err != nil {
			return nil, fmt.Errorf("robot %d (%s): %w", i+1, rs.Name, err)
		}
		if err := r.AddCards(rs.Pending...); err != nil {
			return nil, fmt.Errorf("robot %d (%s): %w", i+1, rs.Name, err)
		}
		e.AddRobot(r)
	}

	e.runs = state.Runs
	e.history = append([]Event(nil), state.History...)
	if n := len(e.history); n > 0 {
		e.seq = e.history[n-1].Seq
	}
	return e, nil
}
