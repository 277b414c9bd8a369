package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// BoundingBox returns the smallest rectangle containing every robot in the state.
// ok is false when there are no robots.
func BoundingBox(state *GameState) (min, max Position, ok bool) {
	if state == nil || len(state.Robots) == 0 {
		return Position{}, Position{}, false
	}
	min = state.Robots[0].Position
	max = min
	for _, r := range state.Robots[1:] {
		p := r.Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, true
}

// Collisions returns the positions shared by more than one robot, mapped to the robot names
func Collisions(state *GameState) map[Position][]string {
	byPos := make(map[Position][]string)
	for _, r := range state.Robots {
		byPos[r.Position] = append(byPos[r.Position], r.Name)
	}
	for pos, names := range byPos {
		if len(names) < 2 {
			delete(byPos, pos)
		}
	}
	return byPos
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
