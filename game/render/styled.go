package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/roborally/game/engine"
)

var (
	robotColors = []lipgloss.Color{"39", "208", "42", "205", "226", "141", "45", "203"}

	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	overlapStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	legendStyle = lipgloss.NewStyle().PaddingLeft(2)
)

func robotStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(robotColors[i%len(robotColors)])
}

// Styled renders the board with a border and one color per robot, the legend
// to its right
func Styled(state *engine.GameState) (string, error) {
	b, err := Build(state)
	if err != nil {
		return "", err
	}

	rows := make([]string, b.Height)
	for row := range b.Cells {
		var sb strings.Builder
		for col, cell := range b.Cells[row] {
			if col > 0 {
				sb.WriteByte(' ')
			}
			switch owner := b.Owners[row][col]; {
			case owner == -1:
				sb.WriteString(emptyStyle.Render(cell))
			case owner == -2:
				sb.WriteString(overlapStyle.Render(cell))
			default:
				sb.WriteString(robotStyle(owner).Render(cell))
			}
		}
		rows[row] = sb.String()
	}

	title := titleStyle.Render(fmt.Sprintf("Run %d · %s", state.Runs, state.TurnOrder))
	board := boardStyle.Render(strings.Join(rows, "\n"))
	if b.Height == 0 {
		board = boardStyle.Render(emptyStyle.Render("no robots"))
	}

	legend := make([]string, 0, len(state.Robots))
	for i, line := range Legend(state) {
		legend = append(legend, robotStyle(i).Render(line))
	}
	collisions := engine.Collisions(state)
	shared := make([]engine.Position, 0, len(collisions))
	for pos := range collisions {
		shared = append(shared, pos)
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Y != shared[j].Y {
			return shared[i].Y > shared[j].Y
		}
		return shared[i].X < shared[j].X
	})
	for _, pos := range shared {
		legend = append(legend, overlapStyle.Render(fmt.Sprintf("* %s shared by %s", pos, strings.Join(collisions[pos], ", "))))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, board, legendStyle.Render(strings.Join(legend, "\n")))
	return lipgloss.JoinVertical(lipgloss.Left, title, body), nil
}
