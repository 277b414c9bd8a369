package engine

import "fmt"

// Robot has a position, a heading and a queue of programmed cards ("registers")
type Robot struct {
	name      string
	pos       Position
	heading   Heading
	registers CardQueue
}

// NewRobot creates a robot at (x, y) facing heading
func NewRobot(name string, x, y int, heading Heading) (*Robot, error) {
	h, err := ParseHeading(int(heading))
	if err != nil {
		return nil, err
	}
	return &Robot{name: name, pos: Position{X: x, Y: y}, heading: h}, nil
}

// NewRobotDefault creates a robot facing DefaultHeading
func NewRobotDefault(name string, x, y int) *Robot {
	return &Robot{name: name, pos: Position{X: x, Y: y}, heading: DefaultHeading}
}

// AddCard queues a card; cards run in the order they were added
func (r *Robot) AddCard(c Card) error {
	if c.IsZero() {
		return fmt.Errorf("%w: uninitialised card", ErrInvalidCommand)
	}
	r.registers.Push(c)
	return nil
}

// AddCards queues several cards in order, stopping at the first invalid one
func (r *Robot) AddCards(cards ...Card) error {
	for i, c := range cards {
		if err := r.AddCard(c); err != nil {
			return fmt.Errorf("card %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Robot) Name() string       { return r.name }
func (r *Robot) X() int             { return r.pos.X }
func (r *Robot) Y() int             { return r.pos.Y }
func (r *Robot) Position() Position { return r.pos }
func (r *Robot) Heading() Heading   { return r.heading }

// Pending returns the number of queued cards
func (r *Robot) Pending() int {
	return r.registers.Len()
}

// Cards returns the queued cards in execution order
func (r *Robot) Cards() []Card {
	return r.registers.Cards()
}

func (r *Robot) String() string {
	return fmt.Sprintf("<Robot name:%s, x:%d, y:%d, heading:%d>", r.name, r.pos.X, r.pos.Y, int(r.heading))
}

// ClearCards drops every queued card
func (r *Robot) ClearCards() {
	r.registers.Clear()
}
