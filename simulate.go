package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/render"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Aliases:   []string{"analyze"},
		Usage:     "Run a scenario file offline and print the boards and events",
		ArgsUsage: "<scenario.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "order",
				Usage: "Override the scenario turn order (sequential or priority)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print boards without colors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("simulate expects exactly one scenario file", 2)
			}
			return simulate(cmd.Root().Writer, cmd.Args().First(), cmd.String("order"), cmd.Bool("plain"))
		},
	}
}

// simulate loads a scenario, runs every queued card and reports the result
func simulate(w io.Writer, file, order string, plain bool) error {
	scenario, err := engine.LoadScenario(file)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	eng, err := engine.NewEngineFromScenario(scenario)
	if err != nil {
		return err
	}
	if order != "" {
		if err := eng.SetTurnOrder(engine.TurnOrder(order)); err != nil {
			return err
		}
	}

	draw := render.Styled
	if plain {
		draw = render.Text
	}

	initial := eng.State()
	log.Debug("Simulating scenario", "name", scenario.Name, "robots", len(initial.Robots), "cards", eng.PendingCards())

	fmt.Fprintf(w, "=== %s ===\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Fprintln(w, scenario.Description)
	}
	fmt.Fprintf(w, "Turn order: %s\n\n", eng.TurnOrder())

	board, err := draw(initial)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Initial board:")
	fmt.Fprintln(w, board)

	report := eng.Run()

	fmt.Fprintf(w, "Events (%d cards, %d steps, %d pushes):\n", report.CardsExecuted, report.Steps, report.Pushes)
	for _, ev := range report.Events {
		fmt.Fprintln(w, "  "+describeEvent(ev))
	}

	final := eng.State()
	board, err = draw(final)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nFinal board:")
	fmt.Fprintln(w, board)

	writeSummary(w, initial, final)
	return nil
}

// describeEvent renders one history entry as a single line
func describeEvent(ev engine.Event) string {
	prefix := fmt.Sprintf("#%d", ev.Seq)
	if ev.Round > 0 {
		prefix += fmt.Sprintf(" r%d", ev.Round)
	}
	card := ""
	if ev.Card != nil {
		card = " [" + ev.Card.String() + "]"
	}

	switch ev.Kind {
	case engine.EventTurn:
		return fmt.Sprintf("%s %s turns %s -> %s%s", prefix, ev.Robot, ev.HeadingBefore, ev.HeadingAfter, card)
	case engine.EventPush:
		return fmt.Sprintf("%s %s pushed by %s %s -> %s", prefix, ev.Robot, ev.PushedBy, ev.From, ev.To)
	default:
		return fmt.Sprintf("%s %s moves %s -> %s%s", prefix, ev.Robot, ev.From, ev.To, card)
	}
}

func writeSummary(w io.Writer, initial, final *engine.GameState) {
	if min, max, ok := engine.BoundingBox(final); ok {
		fmt.Fprintf(w, "Bounding box: %s to %s\n", min, max)
	}

	start := make(map[string]engine.Position, len(initial.Robots))
	for _, r := range initial.Robots {
		start[r.Name] = r.Position
	}
	for _, r := range final.Robots {
		fmt.Fprintf(w, "  %s at %s facing %s, travelled %d\n",
			r.Name, r.Position, r.Heading, engine.ManhattanDistance(start[r.Name], r.Position))
	}

	collisions := engine.Collisions(final)
	if len(collisions) == 0 {
		fmt.Fprintln(w, "✅ No robots share a cell")
		return
	}

	positions := make([]engine.Position, 0, len(collisions))
	for pos := range collisions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	fmt.Fprintf(w, "⚠️  %d shared cells\n", len(collisions))
	for _, pos := range positions {
		fmt.Fprintf(w, "   %s: %v\n", pos, collisions[pos])
	}
}
