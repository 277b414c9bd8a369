// Package engine provides the turn resolution rules for the RoboRally game.
//
// The engine package implements:
//   - Robots with a position, a heading and a FIFO queue of programmed cards
//   - Cards carrying FORWARD, TURN_LEFT and TURN_RIGHT commands
//   - Turn execution with push resolution between robots
//   - A text program format for card decks
//   - Scenario loading and validation
//
// Core Types:
//
// TurnEngine owns the robots of a game in turn order. Robot and Card are the
// data the engine acts on; Card is immutable once built. GameState is a
// serialisable snapshot of an engine and Scenario describes a starting board
// loaded from JSON.
//
// Usage:
//
//	a, _ := engine.NewRobot("A", 0, 0, engine.East)
//	b := engine.NewRobotDefault("B", 1, 0)
//	a.AddCard(engine.MustForwardCard(100, 1))
//
//	e := engine.NewTurnEngine()
//	e.AddRobot(a)
//	e.AddRobot(b)
//	report := e.Run()
//
// Rules:
//
// The grid is unbounded. Headings are 0 (east, +x), 90 (north, +y), 180
// (west, -x) and 270 (south, -y). A FORWARD card moves one cell at a time;
// after every step any robot on the mover's cell is pushed one cell in the
// mover's direction, and pushed robots push whatever they land on in turn.
// By default each robot plays its whole queue before the next robot acts;
// the Priority turn order instead plays one card per robot per round,
// highest priority first.
package engine
