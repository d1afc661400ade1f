package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/service"
)

// Server exposes a GameService as MCP tools
type Server struct {
	game      service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by game
func NewServer(game service.GameService) *Server {
	s := &Server{game: game}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Ricochet Robots",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Ricochet Robots - MCP Interface

GAME OBJECTIVE:
Bring a robot of the goal's color onto the goal cell. Robots slide until a wall,
an obstacle or another robot stops them. Diagonal barriers deflect robots of
other colors by 90 degrees; a robot passes through barriers of its own color.
The goal robot must change direction at least once on its way (a barrier
bounce counts), and its arrival must be the last move of the sequence.

AVAILABLE TOOLS:
- list_maps: List the available maps
- create_session: Start a new game on a map
- get_session: Board, robots, goal and score of a session
- next_goal: Draw the next goal
- cancel_goal: Put the active goal back into the pool
- submit_moves: Validate (and optionally commit) a sequence like "red:north,blue:west"
- hint: Shortest legal solution found for the active goal
- explore: Count the configurations reachable from the current robots`),
	)

	s.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List the available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListMaps)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional map selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_name": map[string]interface{}{
					"type":        "string",
					"description": "Map to play on (optional, defaults to classic)",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "Seed for robot placement and goal order (optional)",
				},
				"use_silver": map[string]interface{}{
					"type":        "boolean",
					"description": "Place the fifth, silver robot",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get the board and round state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleGetSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "next_goal",
		Description: "Draw the next goal at random from the remaining pool",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleNextGoal)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_goal",
		Description: "Return the active goal to the pool",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleCancelGoal)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_moves",
		Description: "Validate a move sequence against the active goal, and apply it when commit is true and it is legal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": `Moves as "color:direction", e.g. ["red:north", "blue:west"]`,
				},
				"commit": map[string]interface{}{
					"type":        "boolean",
					"description": "Apply the sequence when legal (default false: validate only)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the plan behind this sequence",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, s.handleSubmitMoves)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Search for a legal solution of the active goal without changing the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"max_depth": map[string]interface{}{
					"type":        "number",
					"description": "Longest sequence to search for (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleHint)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "explore",
		Description: "Enumerate the robot configurations reachable from the current one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"strategy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"bfs", "dfs"},
					"description": "Traversal order (default bfs)",
				},
				"max_depth": map[string]interface{}{
					"type":        "number",
					"description": "Depth limit (optional)",
				},
				"max_states": map[string]interface{}{
					"type":        "number",
					"description": "State limit (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleExplore)
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin and stdout until the client leaves
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Tool handlers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func (s *Server) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maps, err := s.game.ListMaps(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Maps:\n\n")
	for _, m := range maps {
		fmt.Fprintf(&result, "• %s (%s)\n  %s\n  Board: %dx%d, Goals: %d, Barriers: %d\n\n",
			m.MapID, m.Name, m.Description, m.Width, m.Height, m.Goals, m.Barriers)
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapName, _ := args["map_name"].(string)
	useSilver, _ := args["use_silver"].(bool)

	info, err := s.game.CreateSession(ctx, service.CreateOptions{
		MapName:   mapName,
		Seed:      int64(intArg(args, "seed")),
		UseSilver: useSilver,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMap: %s\nSeed: %d\n\n%s",
		info.ID, info.MapName, info.Seed, formatBoard(info))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	info, err := s.game.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(info)), nil
}

func (s *Server) handleNextGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	info, err := s.game.NextGoal(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(info)), nil
}

func (s *Server) handleCancelGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	info, err := s.game.CancelGoal(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Goal returned to the pool.\n\n" + formatBoard(info)), nil
}

func (s *Server) handleSubmitMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	commit, _ := args["commit"].(bool)
	movesRaw, _ := args["moves"].([]interface{})

	// intent is for the caller's benefit only
	if intent, _ := args["intent"].(string); intent != "" {
		log.WithFields(log.Fields{"session": sessionID, "intent": intent}).Debug("submit intent")
	}

	raw := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			raw = append(raw, move)
		}
	}
	moves, err := engine.ParseMoves(strings.Join(raw, ","))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.game.SubmitMoves(ctx, sessionID, moves, commit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSubmitResult(result)), nil
}

func (s *Server) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	hint, err := s.game.Hint(ctx, sessionID, intArg(args, "max_depth"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := fmt.Sprintf("Goal: %s\nSolution (%d moves): %s\nSearched %d states",
		hint.Goal, len(hint.Moves), strings.Join(hint.Moves, ", "), hint.Stats.States)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleExplore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	strategy, _ := args["strategy"].(string)

	res, err := s.game.Explore(ctx, sessionID, service.ExploreOptions{
		Strategy:  strategy,
		MaxDepth:  intArg(args, "max_depth"),
		MaxStates: intArg(args, "max_states"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Strategy: %s\nStates: %d\nTransitions: %d\nMax depth: %d\nTruncated: %v\nElapsed: %s",
		res.Strategy, res.Stats.States, res.Stats.Transitions, res.Stats.MaxDepth, res.Stats.Truncated, res.Elapsed)
	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

// formatBoard renders the session header, the board and the robots
func formatBoard(info *service.SessionInfo) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Session: %s | Map: %s | State: %s | Score: %d | Moves: %d | Goals left: %d\n",
		info.ID, info.MapName, info.State, info.Score, info.Moves, info.Remaining)
	if info.CurrentGoal != nil {
		fmt.Fprintf(&result, "Current goal: %s\n", info.CurrentGoal)
	} else {
		result.WriteString("Current goal: none (call next_goal)\n")
	}

	result.WriteString("Robots:")
	for _, c := range engine.RobotColors {
		if p, ok := info.Robots[c.String()]; ok {
			fmt.Fprintf(&result, " %s%s", c, p)
		}
	}
	result.WriteString("\n\n")

	if info.Board != "" {
		result.WriteString(info.Board)
		result.WriteString("\nLegend: R G B Y S robots, r g b y s * goals, / \\ barriers, # blocked, | - walls\n")
	}
	return result.String()
}

func formatSubmitResult(result *service.SubmitResult) string {
	var out strings.Builder
	switch {
	case !result.Valid:
		fmt.Fprintf(&out, "❌ Rejected (%s): %s\n", result.ReasonCode, result.Reason)
	case result.Committed:
		fmt.Fprintf(&out, "✅ Goal completed by %s!\n", result.Robot)
	default:
		fmt.Fprintf(&out, "✔ Valid solution by %s (not committed)\n", result.Robot)
	}

	for i, tr := range result.Traces {
		fmt.Fprintf(&out, "  %d. %s %s -> %s", i+1, tr.Color, tr.From, tr.To)
		if tr.Bounces > 0 {
			fmt.Fprintf(&out, " (%d bounce(s), left heading %s)", tr.Bounces, tr.Last)
		}
		out.WriteString("\n")
	}

	if info := result.Session; info != nil {
		fmt.Fprintf(&out, "\nScore: %d | Moves: %d | State: %s\n", info.Score, info.Moves, info.State)
	}
	return out.String()
}
