package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/roborally/game/engine"
)

// ValidationResult captures the outcome of validating a single scenario file.
// When Valid is true, Errors holds informational and warning lines.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate scenario files (defaults to every *.json in --scenario-dir)",
		ArgsUsage: "[scenario.json...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = filepath.Glob(filepath.Join(cmd.String("scenario-dir"), "*.json"))
				if err != nil {
					return fmt.Errorf("failed to find scenario files: %w", err)
				}
			}
			if len(files) == 0 {
				return cli.Exit("no scenario files found", 1)
			}

			if !reportValidation(cmd.Root().Writer, files) {
				return cli.Exit("some scenarios have errors", 1)
			}
			return nil
		},
	}
}

// reportValidation validates every file and prints a report. It returns true
// when all files are valid.
func reportValidation(w io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateScenarioFile(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All scenarios are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some scenarios have errors")
	}
	return allValid
}

// validateScenarioFile loads one scenario strictly, checks it, and dry-runs it
func validateScenarioFile(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}
	fail := func(format string, args ...interface{}) ValidationResult {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("Failed to read file: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var scenario engine.Scenario
	if err := dec.Decode(&scenario); err != nil {
		return fail("Invalid JSON: %v", err)
	}

	if err := engine.ValidateScenario(&scenario); err != nil {
		return fail("%v", err)
	}

	// Names must be unique for cards and history to address robots
	seen := make(map[string]bool)
	for _, rs := range scenario.Robots {
		key := strings.ToLower(rs.Name)
		if seen[key] {
			fail("Duplicate robot name: %s", rs.Name)
		}
		seen[key] = true
	}
	if !result.Valid {
		return result
	}

	starts := make(map[engine.Position][]string)
	for _, rs := range scenario.Robots {
		pos := engine.Position{X: rs.X, Y: rs.Y}
		starts[pos] = append(starts[pos], rs.Name)
	}
	for pos, names := range starts {
		if len(names) > 1 {
			result.Errors = append(result.Errors, fmt.Sprintf("⚠ Robots %s start on the same cell %s", strings.Join(names, ", "), pos))
		}
	}

	eng, err := engine.NewEngineFromScenario(&scenario)
	if err != nil {
		return fail("%v", err)
	}
	cards := eng.PendingCards()
	report := eng.Run()

	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", scenario.Name),
		fmt.Sprintf("✓ Turn order: %s", eng.TurnOrder()),
		fmt.Sprintf("✓ Robots: %d", len(scenario.Robots)),
		fmt.Sprintf("✓ Cards: %d", cards),
		fmt.Sprintf("✓ Dry run: %d steps, %d pushes", report.Steps, report.Pushes),
	)
	return result
}
