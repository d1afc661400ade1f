// Command ricochet plays and analyzes Ricochet Robots boards.
//
// Commands:
//  1. "play" – interactive game on a map in the terminal
//  2. "explore" – reachability statistics from a random placement
//  3. "validate" – checks every map description in the maps directory
//  4. "maps" – lists the available maps
//  5. "mcp" – serves the game as MCP tools over stdio
//
// Flags and RICOCHET_* environment variables (a .env file is honored)
// control the maps directory, the seed and debug logging.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/ricochet-robots/game/config"
	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/service"
	"github.com/wricardo/ricochet-robots/game/session"
	"github.com/wricardo/ricochet-robots/transport/mcp"
	"github.com/wricardo/ricochet-robots/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ricochet Robots"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "ricochet",
		Usage:   "play and analyze Ricochet Robots boards",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "maps",
				Usage:   "directory containing map descriptions",
				Sources: cli.EnvVars("RICOCHET_MAPS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("RICOCHET_DEBUG"),
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			playCommand(),
			exploreCommand(),
			validateCommand(),
			mapsCommand(),
			mcpCommand(),
		},
	}
}

// setupLogging mirrors the -debug switch: debug level plus caller info
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
	return ctx, nil
}

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "map", Usage: "map to play on (default: classic or the first map)"},
		&cli.Int64Flag{Name: "seed", Usage: "seed for robot placement and goal order (0: random)", Sources: cli.EnvVars("RICOCHET_SEED")},
		&cli.BoolFlag{Name: "silver", Usage: "place the fifth, silver robot"},
	}
}

func sessionOptions(cmd *cli.Command) service.CreateOptions {
	return service.CreateOptions{
		MapName:   cmd.String("map"),
		Seed:      cmd.Int64("seed"),
		UseSilver: cmd.Bool("silver"),
	}
}

// initializeServices wires the map manager, the session manager and the game
// service. An empty sessionsDir keeps sessions in memory only.
func initializeServices(mapsDir, sessionsDir string) (service.GameService, *session.Manager, error) {
	mapManager, err := config.NewManager(mapsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create map manager: %w", err)
	}

	sessionManager := session.NewManager()
	if sessionsDir != "" {
		persistence, err := session.NewFilePersistence(sessionsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		sessionManager = session.NewManagerWithPersistence(persistence)
		if err := sessionManager.LoadPersistedSessions(); err != nil {
			log.WithError(err).Warn("failed to load persisted sessions")
		}
	}

	return service.NewGameService(sessionManager, mapManager), sessionManager, nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func input(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate every map description in the maps directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			results, err := validate.ValidateDir(cmd.String("maps-dir"))
			if err != nil {
				return err
			}
			if !validate.Report(output(cmd), results) {
				return cli.Exit("some maps have errors", 1)
			}
			return nil
		},
	}
}

func mapsCommand() *cli.Command {
	return &cli.Command{
		Name:  "maps",
		Usage: "list the available maps",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			game, _, err := initializeServices(cmd.String("maps-dir"), "")
			if err != nil {
				return err
			}
			maps, err := game.ListMaps(ctx)
			if err != nil {
				return err
			}
			w := output(cmd)
			for _, m := range maps {
				fmt.Fprintf(w, "%-16s %-24s %2dx%-2d goals=%-2d barriers=%d\n",
					m.MapID, m.Name, m.Width, m.Height, m.Goals, m.Barriers)
			}
			return nil
		},
	}
}

func exploreCommand() *cli.Command {
	flags := append(sessionFlags(),
		&cli.StringFlag{Name: "strategy", Value: "bfs", Usage: "bfs or dfs"},
		&cli.IntFlag{Name: "max-depth", Value: service.DefaultExploreDepth, Usage: "depth limit"},
		&cli.IntFlag{Name: "max-states", Value: service.DefaultExploreStates, Usage: "state limit"},
		&cli.StringFlag{Name: "export", Usage: "write the discovered states to this Parquet file"},
	)
	return &cli.Command{
		Name:  "explore",
		Usage: "count the robot configurations reachable from a random placement",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			game, _, err := initializeServices(cmd.String("maps-dir"), "")
			if err != nil {
				return err
			}
			info, err := game.CreateSession(ctx, sessionOptions(cmd))
			if err != nil {
				return err
			}

			w := output(cmd)
			fmt.Fprintf(w, "Map: %s  Seed: %d\n%s\n", info.MapName, info.Seed, info.Board)

			res, err := game.Explore(ctx, info.ID, service.ExploreOptions{
				Strategy:  cmd.String("strategy"),
				MaxDepth:  cmd.Int("max-depth"),
				MaxStates: cmd.Int("max-states"),
				Export:    cmd.String("export"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Strategy:    %s\nStates:      %d\nTransitions: %d\nMax depth:   %d\nTruncated:   %v\nElapsed:     %s\n",
				res.Strategy, res.Stats.States, res.Stats.Transitions, res.Stats.MaxDepth,
				res.Stats.Truncated, res.Elapsed.Round(time.Millisecond))
			if res.Exported > 0 {
				fmt.Fprintf(w, "Exported:    %d states to %s\n", res.Exported, cmd.String("export"))
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the game as MCP tools over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory for persisted sessions (empty: memory only)",
				Sources: cli.EnvVars("RICOCHET_SESSIONS_DIR"),
			},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "drop sessions idle for longer than this"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			game, sessions, err := initializeServices(cmd.String("maps-dir"), cmd.String("sessions-dir"))
			if err != nil {
				return err
			}
			go sessionCleanupRoutine(ctx, sessions, cmd.Duration("session-ttl"))

			log.WithField("version", Version).Info("starting MCP stdio server")
			return mcp.NewServer(game).ServeStdio()
		},
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.WithField("removed", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a round in the terminal",
		Flags: sessionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			game, _, err := initializeServices(cmd.String("maps-dir"), "")
			if err != nil {
				return err
			}
			info, err := game.CreateSession(ctx, sessionOptions(cmd))
			if err != nil {
				return err
			}
			return play(ctx, game, info, input(cmd), output(cmd))
		},
	}
}

const playHelp = `Commands:
  goal             draw the next goal
  cancel           put the active goal back
  check MOVES      validate a sequence without applying it
  MOVES            submit a sequence, e.g. "red:north blue:w"
  hint             search for a solution
  show             print the board
  quit             leave
`

// play runs the interactive loop until quit, end of input or the last goal
func play(ctx context.Context, game service.GameService, info *service.SessionInfo, in io.Reader, w io.Writer) error {
	fmt.Fprintf(w, "%s v%s  map=%s seed=%d\n%s\n%s", AppName, Version, info.MapName, info.Seed, info.Board, playHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, rest, _ := strings.Cut(line, " ")
		var (
			next *service.SessionInfo
			err  error
		)
		switch strings.ToLower(word) {
		case "quit", "exit", "q":
			fmt.Fprintf(w, "Final score: %d goals in %d moves\n", info.Score, info.Moves)
			return nil
		case "help", "?":
			fmt.Fprint(w, playHelp)
		case "show":
			if next, err = game.GetSession(ctx, info.ID); err == nil {
				printStatus(w, next)
			}
		case "goal", "next":
			if next, err = game.NextGoal(ctx, info.ID); err == nil {
				printStatus(w, next)
			}
		case "cancel":
			if next, err = game.CancelGoal(ctx, info.ID); err == nil {
				fmt.Fprintln(w, "Goal returned to the pool.")
			}
		case "hint":
			var hint *service.HintResult
			hint, err = game.Hint(ctx, info.ID, 0)
			if err == nil {
				fmt.Fprintf(w, "Hint (%d moves, %d states searched): %s\n",
					len(hint.Moves), hint.Stats.States, strings.Join(hint.Moves, " "))
			}
		case "check":
			err = submit(ctx, game, &info, rest, false, w)
		default:
			err = submit(ctx, game, &info, line, true, w)
			if err == nil && info.State == "done" {
				fmt.Fprintf(w, "All goals completed! Final score: %d goals in %d moves\n", info.Score, info.Moves)
				return nil
			}
		}
		if next != nil {
			info = next
		}
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}

func submit(ctx context.Context, game service.GameService, info **service.SessionInfo, text string, commit bool, w io.Writer) error {
	moves, err := engine.ParseMoves(text)
	if err != nil {
		return err
	}
	res, err := game.SubmitMoves(ctx, (*info).ID, moves, commit)
	if err != nil {
		return err
	}
	*info = res.Session

	switch {
	case !res.Valid:
		fmt.Fprintf(w, "Rejected (%s): %s\n", res.ReasonCode, res.Reason)
	case res.Committed:
		fmt.Fprintf(w, "Goal completed by %s! Score: %d\n", res.Robot, res.Session.Score)
		printStatus(w, res.Session)
	default:
		fmt.Fprintf(w, "Valid solution by %s.\n", res.Robot)
	}
	return nil
}

func printStatus(w io.Writer, info *service.SessionInfo) {
	goal := "none"
	if info.CurrentGoal != nil {
		goal = info.CurrentGoal.String()
	}
	fmt.Fprintf(w, "%s\nGoal: %s | Score: %d | Moves: %d | Goals left: %d\n",
		info.Board, goal, info.Score, info.Moves, info.Remaining)
}
