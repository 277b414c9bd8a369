package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/render"
	"github.com/wricardo/roborally/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"RoboRally Turn Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`RoboRally Turn Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Robots stand on an unbounded grid. Each robot holds a queue of program cards
(F<n> forward, L turn left, R turn right). run_turn plays every queued card;
a robot moving into another pushes it, and pushes chain.

AVAILABLE TOOLS:
- create_session, list_sessions, get_session: manage sessions
- list_scenarios: starting boards to create sessions from
- game_state: board and robots of a session
- add_robot: place a new robot
- program_robot: queue cards, e.g. "F2 L F1"
- run_turn: execute every queued card
- reset_game: back to the scenario's starting board (history is kept)
- turn_history: past events with pagination
- game_rules: full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a scenario",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to start from (optional, defaults to the server's default scenario)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board and every robot's position, heading and queued cards",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_robot",
		Description: "Place a new robot on the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique robot name",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (east is positive)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (north is positive)",
				},
				"heading": map[string]interface{}{
					"type":        "integer",
					"enum":        []int{0, 90, 180, 270},
					"description": "Heading in degrees: 0 east, 90 north, 180 west, 270 south (default 90)",
				},
				"program": map[string]interface{}{
					"type":        "string",
					"description": "Cards to queue, e.g. \"F2 L F1\" (optional)",
				},
			},
			Required: []string{"session_id", "name", "x", "y"},
		},
	}, c.handleAddRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "program_robot",
		Description: "Queue program cards for a robot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"robot": map[string]interface{}{
					"type":        "string",
					"description": "Robot name",
				},
				"program": map[string]interface{}{
					"type":        "string",
					"description": "Cards separated by spaces or commas: F<n> forward n steps, L left, R right. An optional @<priority> suffix sets the card priority, e.g. F2@500",
				},
				"replace": map[string]interface{}{
					"type":        "boolean",
					"description": "Discard already queued cards first",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of what this program should achieve",
				},
			},
			Required: []string{"session_id", "robot", "program"},
		},
	}, c.handleProgramRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_turn",
		Description: "Execute every queued card in the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"turn_order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.Sequential), string(engine.Priority)},
					"description": "Change the session's turn order before running (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRunTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset robots to the scenario's starting board. History is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "View past turn, step and push events",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Events per page (default 20, max 500)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc, newest first)",
				},
				"robot": map[string]interface{}{
					"type":        "string",
					"description": "Only events involving this robot",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if scenarioID := request.GetString("scenario_id", ""); scenarioID != "" {
		body["scenario_id"] = scenarioID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nScenario: %s\n\n%s", session.ID, session.ScenarioID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		robots, runs := 0, 0
		if s.GameState != nil {
			robots, runs = len(s.GameState.Robots), s.GameState.Runs
		}
		fmt.Fprintf(&b, "- %s (Scenario: %s, Robots: %d, Runs: %d, Created: %s)\n",
			s.ID, s.ScenarioID, robots, runs, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Scenarios:\n\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Robots: %d, Turn order: %s\n\n",
			s.ScenarioID, s.Name, s.Description, s.Robots, s.TurnOrder)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAddRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.RobotRequest{
		Name:    name,
		X:       request.GetInt("x", 0),
		Y:       request.GetInt("y", 0),
		Program: request.GetString("program", ""),
	}
	if _, ok := request.GetArguments()["heading"]; ok {
		heading := request.GetInt("heading", 0)
		req.Heading = &heading
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "robots"), req, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Added robot %s at (%d,%d)\n\n%s", name, req.X, req.Y, formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleProgramRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	robot, err := request.RequireString("robot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// intent is only there to make the caller state a plan
	req := service.ProgramRequest{
		Program: request.GetString("program", ""),
		Replace: request.GetBool("replace", false),
	}

	var result service.ProgramResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "robots", robot, "cards"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProgramResult(&result)), nil
}

func (c *Client) handleRunTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := service.RunOptions{TurnOrder: engine.TurnOrder(request.GetString("turn_order", ""))}

	var result service.RunResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "run"), opts, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	if robot := request.GetString("robot", ""); robot != "" {
		params.Set("robot", robot)
	}

	path := sessionPath(sessionID, "history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

const gameRules = `RoboRally Turn Server - Rules

BOARD:
• The grid is unbounded; coordinates may be negative
• X grows to the east, Y grows to the north
• Headings are degrees: 0 east, 90 north, 180 west, 270 south
• New robots face north unless a heading is given

CARDS:
• F<n>  move forward n steps, n up to 100 (F alone is F1, F0 does nothing)
• L     turn 90 degrees left
• R     turn 90 degrees right
• Cards carry a priority (default 0). Write F2@500 to set it.
• Programs are space or comma separated: "F2 L F1, R"

RUNNING A TURN:
• run_turn plays every queued card and empties the queues
• sequential order: robots act in the order they were added, each playing
  its whole queue before the next robot starts
• priority order: one card per robot per round, highest priority first;
  equal priorities keep robot order; rounds repeat until all queues are empty

PUSHING:
• Each forward step moves one square
• A robot stepping onto an occupied square pushes the occupant one square
  in the same direction; pushes chain through lines of robots
• Pushed robots keep their heading
• Pushing works in every direction and nothing blocks a push

HISTORY:
• Every turn, step and push is recorded with its run and round
• reset_game restores the scenario's robots but keeps history and run count

TIPS:
• Use game_state after run_turn to see the board (north is up)
• '*' on the board marks two robots on one square`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nScenario: %s (%s)\nCreated: %s\n\n%s",
		session.ID, session.ScenarioID, session.ScenarioName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatGameState draws the board followed by one legend line per robot. Very
// spread out boards are described by the legend alone.
func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Robots: %d | Runs: %d | Turn order: %s\n\n", len(state.Robots), state.Runs, state.TurnOrder)

	if len(state.Robots) == 0 {
		b.WriteString("No robots yet. Use add_robot to place one.")
		return b.String()
	}

	text, err := render.Text(state)
	if err != nil {
		b.WriteString("(board too large to draw)\n")
		for _, line := range render.Legend(state) {
			b.WriteString(line + "\n")
		}
	} else {
		b.WriteString(text)
	}

	for _, r := range state.Robots {
		if len(r.Pending) > 0 {
			fmt.Fprintf(&b, "%s queue: %s\n", r.Name, engine.FormatProgram(r.Pending))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatProgramResult(result *service.ProgramResult) string {
	if len(result.Pending) == 0 {
		return fmt.Sprintf("%s has no queued cards", result.Robot)
	}
	return fmt.Sprintf("Queued %d cards for %s\nQueue (%d): %s",
		result.Added, result.Robot, len(result.Pending), result.Program)
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder
	b.WriteString(result.Message + "\n")

	if result.Report != nil {
		for _, ev := range result.Report.Events {
			b.WriteString(formatEvent(ev) + "\n")
		}
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatEvent(ev engine.Event) string {
	prefix := fmt.Sprintf("#%d r%d.%d", ev.Seq, ev.Run, ev.Round)
	switch ev.Kind {
	case engine.EventTurn:
		return fmt.Sprintf("%s %s turns %s -> %s", prefix, ev.Robot, ev.HeadingBefore, ev.HeadingAfter)
	case engine.EventStep:
		return fmt.Sprintf("%s %s moves %s -> %s", prefix, ev.Robot, ev.From, ev.To)
	case engine.EventPush:
		return fmt.Sprintf("%s %s pushed by %s %s -> %s", prefix, ev.Robot, ev.PushedBy, ev.From, ev.To)
	}
	return fmt.Sprintf("%s %s %s", prefix, ev.Kind, ev.Robot)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	if len(history.Events) == 0 {
		b.WriteString("(no events)")
		return b.String()
	}
	for _, ev := range history.Events {
		b.WriteString(formatEvent(ev) + "\n")
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore events on page %d", history.Page+1)
	}
	return strings.TrimRight(b.String(), "\n")
}
