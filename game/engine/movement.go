package engine

// pushRecord describes one robot displaced by a push chain
type pushRecord struct {
	robot *Robot
	by    string
	from  Position
	to    Position
}

// resolvePush displaces every robot sharing the mover's cell one cell along dir,
// then repeats for robots on the cell they landed on, and so on. A robot moves
// at most once per chain, so the candidate set shrinks on every pass and the
// loop ends when a cell is free or no candidates remain. The direction is always
// the mover's heading, never the pushed robot's own.
func (e *TurnEngine) resolvePush(mover *Robot, dir Heading) []pushRecord {
	candidates := make([]*Robot, 0, len(e.robots))
	for _, r := range e.robots {
		if r != mover {
			candidates = append(candidates, r)
		}
	}

	var pushed []pushRecord
	cell := mover.pos
	pusher := mover.name

	for len(candidates) > 0 {
		var moved []*Robot
		remaining := candidates[:0]
		for _, r := range candidates {
			if r.pos == cell {
				moved = append(moved, r)
			} else {
				remaining = append(remaining, r)
			}
		}
		if len(moved) == 0 {
			break
		}

		next := cell.Step(dir)
		for _, r := range moved {
			pushed = append(pushed, pushRecord{robot: r, by: pusher, from: r.pos, to: next})
			r.pos = next
		}

		candidates = remaining
		cell = next
		pusher = moved[0].name
	}

	return pushed
}

// Occupants returns the robots standing on pos, in turn order
func (e *TurnEngine) Occupants(pos Position) []*Robot {
	var out []*Robot
	for _, r := range e.robots {
		if r.pos == pos {
			out = append(out, r)
		}
	}
	return out
}
