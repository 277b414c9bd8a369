// Command roborally runs the RoboRally turn server.
//
// Subcommands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     updates and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server, reusing a running API or starting an
//     internal one
//  3. "simulate" plays a scenario file offline and prints the board
//  4. "validate" checks scenario files
//
// Flags fall back to environment variables, which may also come from a .env
// file. ngrok tunneling is available for external access during development.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "RoboRally Turn Server"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Error loading .env file", "error", err)
		}
	} else {
		log.Debug("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal("Command failed", "error", err)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:           "roborally",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "scenario-dir",
				Usage:   "Directory containing scenario JSON files",
				Value:   "scenarios",
				Sources: cli.EnvVars("SCENARIO_DIR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			simulateCommand(),
			validateCommand(),
		},
	}
}

// setupLogging configures the package-level logger. Logs go to stderr so the
// MCP stdio transport keeps stdout to itself.
func setupLogging(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
}
