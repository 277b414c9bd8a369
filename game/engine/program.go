package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Programs are a compact text form of a card deck:
//
//	F3 L R@200 F1, TURN_LEFT; FORWARD 2@50
//
// Each instruction is a command, an optional distance and an optional
// "@priority". Forward without a distance moves one cell.

var programLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Command", Pattern: `(?i:FORWARD|TURN_LEFT|TURN_RIGHT|LEFT|RIGHT|F|L|R)`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "At", Pattern: `@`},
	{Name: "Sep", Pattern: `[,;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type programAST struct {
	Instructions []*instructionAST `parser:"@@*"`
}

type instructionAST struct {
	Pos      lexer.Position
	Command  string `parser:"@Command"`
	Distance *int   `parser:"@Int?"`
	Priority *int   `parser:"(At @Int)?"`
}

var programParser = participle.MustBuild[programAST](
	participle.Lexer(programLexer),
	participle.Elide("Whitespace", "Sep"),
)

// ParseProgram turns program text into cards in execution order
func ParseProgram(src string) ([]Card, error) {
	ast, err := programParser.ParseString("program", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}

	cards := make([]Card, 0, len(ast.Instructions))
	for i, in := range ast.Instructions {
		cmd, err := ParseCommand(in.Command)
		if err != nil {
			return nil, fmt.Errorf("instruction %d at %s: %w", i+1, in.Pos, err)
		}

		distance := 0
		if cmd == Forward {
			distance = 1
		}
		if in.Distance != nil {
			distance = *in.Distance
		}
		priority := 0
		if in.Priority != nil {
			priority = *in.Priority
		}

		card, err := NewCard(priority, cmd, distance)
		if err != nil {
			return nil, fmt.Errorf("instruction %d at %s: %w", i+1, in.Pos, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// FormatProgram renders cards in the text form accepted by ParseProgram
func FormatProgram(cards []Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		var b strings.Builder
		b.WriteString(c.command.Short())
		if c.command == Forward {
			b.WriteString(strconv.Itoa(c.distance))
		}
		if c.priority != 0 {
			b.WriteString("@")
			b.WriteString(strconv.Itoa(c.priority))
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " ")
}
