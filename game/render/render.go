// Package render draws a turn engine's board as text.
//
// The board is the bounding box of all robots padded by one cell, with north
// at the top. A robot shows as the arrow of its heading (> ^ < v), cells with
// more than one robot as *, and empty cells as a dot.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wricardo/roborally/game/engine"
)

// MaxBoardSize caps the rendered width and height in cells
const MaxBoardSize = 120

var ErrBoardTooLarge = errors.New("board too large to render")

const (
	emptyCell   = "."
	overlapCell = "*"
)

// Board is a rendered grid. Origin is the world position of the top-left cell.
type Board struct {
	Origin engine.Position
	Width  int
	Height int
	Cells  [][]string // Cells[row][col], row 0 is the northernmost row
	Owners [][]int    // robot index per cell, -1 for empty, -2 for overlap
}

// Build lays the robots of state out on a Board
func Build(state *engine.GameState) (*Board, error) {
	min, max, ok := engine.BoundingBox(state)
	if !ok {
		return &Board{}, nil
	}
	minX, maxX, width, okX := padded(min.X, max.X)
	minY, maxY, height, okY := padded(min.Y, max.Y)
	if !okX || !okY {
		return nil, fmt.Errorf("%w: robots span %s to %s (limit %d cells)", ErrBoardTooLarge, min, max, MaxBoardSize)
	}
	min = engine.Position{X: minX, Y: minY}
	max = engine.Position{X: maxX, Y: maxY}

	b := &Board{
		Origin: engine.Position{X: min.X, Y: max.Y},
		Width:  width,
		Height: height,
		Cells:  make([][]string, height),
		Owners: make([][]int, height),
	}
	for row := range b.Cells {
		b.Cells[row] = make([]string, width)
		b.Owners[row] = make([]int, width)
		for col := range b.Cells[row] {
			b.Cells[row][col] = emptyCell
			b.Owners[row][col] = -1
		}
	}

	for i, r := range state.Robots {
		row := max.Y - r.Position.Y
		col := r.Position.X - min.X
		if b.Owners[row][col] == -1 {
			b.Cells[row][col] = r.Heading.Arrow()
			b.Owners[row][col] = i
		} else {
			b.Cells[row][col] = overlapCell
			b.Owners[row][col] = -2
		}
	}
	return b, nil
}

// padded widens [lo, hi] by one cell on each side where the int range allows
// and returns the cell count. ok is false above MaxBoardSize.
func padded(lo, hi int) (plo, phi, cells int, ok bool) {
	if lo > math.MinInt {
		lo--
	}
	if hi < math.MaxInt {
		hi++
	}
	// exact for any lo <= hi, even when hi-lo overflows int
	span := uint64(hi) - uint64(lo)
	if span >= MaxBoardSize {
		return 0, 0, 0, false
	}
	return lo, hi, int(span) + 1, true
}

// Lines renders the board as plain text rows, north first
func Lines(state *engine.GameState) ([]string, error) {
	b, err := Build(state)
	if err != nil {
		return nil, err
	}
	lines := make([]string, b.Height)
	for row, cells := range b.Cells {
		lines[row] = strings.Join(cells, "")
	}
	return lines, nil
}

// Legend describes each robot on one line
func Legend(state *engine.GameState) []string {
	legend := make([]string, 0, len(state.Robots))
	for _, r := range state.Robots {
		legend = append(legend, fmt.Sprintf("%s %s %s facing %s, %d pending",
			r.Heading.Arrow(), r.Name, r.Position, r.Heading, len(r.Pending)))
	}
	return legend
}

// Text renders the plain board followed by the legend
func Text(state *engine.GameState) (string, error) {
	lines, err := Lines(state)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if len(lines) > 0 {
		sb.WriteByte('\n')
	}
	for _, l := range Legend(state) {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
