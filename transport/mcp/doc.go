// Package mcp exposes the RoboRally turn server to AI agents over the Model
// Context Protocol.
//
// Client holds no game state. Every tool call becomes one or more REST calls
// against a running API server, and the JSON answers are turned into plain
// text with the same ASCII board the API serves at ?format=text.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - list_scenarios
//   - game_state: board, legend and queued programs
//   - add_robot: place a robot (name, x, y, heading, program)
//   - program_robot: queue cards from program text such as "F2 L R@200"
//   - run_turn: execute every queued card, optionally switching turn order
//   - reset_game: rebuild robots from the scenario; history is kept
//   - turn_history: paginated events, filterable by robot
//   - game_rules: movement, push and turn order rules
//
// API errors come back as tool results with IsError set, never as Go errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
