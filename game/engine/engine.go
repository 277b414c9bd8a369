package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// TurnEngine owns the robots of one game and resolves their programmed cards
type TurnEngine struct {
	robots  []*Robot
	order   TurnOrder
	history []Event
	runs    int
	seq     int
}

// Option configures a TurnEngine
type Option func(*TurnEngine)

// WithTurnOrder selects how cards are interleaved across robots
func WithTurnOrder(order TurnOrder) Option {
	return func(e *TurnEngine) {
		e.order = order
	}
}

// NewTurnEngine creates an engine with no robots using sequential turn order
func NewTurnEngine(opts ...Option) *TurnEngine {
	e := &TurnEngine{order: Sequential}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRobot appends a robot to the turn order. Duplicate names and shared
// starting cells are allowed.
func (e *TurnEngine) AddRobot(r *Robot) {
	if r == nil {
		return
	}
	e.robots = append(e.robots, r)
}

// Robots returns the robots in turn order
func (e *TurnEngine) Robots() []*Robot {
	out := make([]*Robot, len(e.robots))
	copy(out, e.robots)
	return out
}

// Robot returns the first robot with the given name (case-insensitive), or nil
func (e *TurnEngine) Robot(name string) *Robot {
	for _, r := range e.robots {
		if strings.EqualFold(r.name, name) {
			return r
		}
	}
	return nil
}

// TurnOrder returns the active turn order
func (e *TurnEngine) TurnOrder() TurnOrder {
	return e.order
}

// SetTurnOrder changes the turn order used by subsequent runs
func (e *TurnEngine) SetTurnOrder(order TurnOrder) error {
	o, err := ParseTurnOrder(string(order))
	if err != nil {
		return err
	}
	e.order = o
	return nil
}

// History returns every event recorded since the engine was created
func (e *TurnEngine) History() []Event {
	return e.history
}

// Runs returns how many times Run has been called
func (e *TurnEngine) Runs() int {
	return e.runs
}

// PendingCards returns the total number of queued cards across all robots
func (e *TurnEngine) PendingCards() int {
	n := 0
	for _, r := range e.robots {
		n += r.registers.Len()
	}
	return n
}

// Run plays every queued card. When it returns, all queues are empty and every
// robot is at its final position. Calling Run again without new cards is a no-op
// apart from the run counter.
func (e *TurnEngine) Run() *RunReport {
	e.runs++
	report := &RunReport{
		ID:        uuid.NewString(),
		Run:       e.runs,
		TurnOrder: e.order,
	}
	start := len(e.history)

	switch e.order {
	case Priority:
		e.runPriority(report)
	default:
		e.runSequential(report)
	}

	report.Events = make([]Event, len(e.history)-start)
	copy(report.Events, e.history[start:])
	return report
}

// runSequential drains each robot's queue in turn order. The round number of
// an event is the card's register index within its robot's program.
func (e *TurnEngine) runSequential(report *RunReport) {
	for _, r := range e.robots {
		round := 0
		for {
			card, ok := r.registers.Pop()
			if !ok {
				break
			}
			round++
			e.execute(report, r, card, round)
		}
		if round > report.Rounds {
			report.Rounds = round
		}
	}
}

type play struct {
	robot *Robot
	card  Card
}

// runPriority plays one card from every robot per round. Within a round the
// highest priority goes first; equal priorities keep turn order.
func (e *TurnEngine) runPriority(report *RunReport) {
	for round := 1; ; round++ {
		plays := make([]play, 0, len(e.robots))
		for _, r := range e.robots {
			if card, ok := r.registers.Pop(); ok {
				plays = append(plays, play{robot: r, card: card})
			}
		}
		if len(plays) == 0 {
			return
		}

		sort.SliceStable(plays, func(i, j int) bool {
			return plays[i].card.priority > plays[j].card.priority
		})
		for _, p := range plays {
			e.execute(report, p.robot, p.card, round)
		}
		report.Rounds = round
	}
}

// execute applies a single card to a robot
func (e *TurnEngine) execute(report *RunReport, r *Robot, card Card, round int) {
	report.CardsExecuted++

	switch card.command {
	case TurnLeft, TurnRight:
		before := r.heading
		if card.command == TurnLeft {
			r.heading = r.heading.Left()
		} else {
			r.heading = r.heading.Right()
		}
		e.record(Event{
			Round:         round,
			Kind:          EventTurn,
			Robot:         r.name,
			Card:          cardRef(card),
			From:          r.pos,
			To:            r.pos,
			HeadingBefore: before,
			HeadingAfter:  r.heading,
		})

	case Forward:
		for i := 0; i < card.distance; i++ {
			from := r.pos
			r.pos = r.pos.Step(r.heading)
			report.Steps++
			e.record(Event{
				Round:         round,
				Kind:          EventStep,
				Robot:         r.name,
				Card:          cardRef(card),
				From:          from,
				To:            r.pos,
				HeadingBefore: r.heading,
				HeadingAfter:  r.heading,
			})

			for _, p := range e.resolvePush(r, r.heading) {
				report.Pushes++
				e.record(Event{
					Round:         round,
					Kind:          EventPush,
					Robot:         p.robot.name,
					From:          p.from,
					To:            p.to,
					HeadingBefore: p.robot.heading,
					HeadingAfter:  p.robot.heading,
					PushedBy:      p.by,
				})
			}
		}
	}
}

// record stamps an event with its sequence and run numbers and appends it to history
func (e *TurnEngine) record(ev Event) {
	e.seq++
	ev.Seq = e.seq
	ev.Run = e.runs
	e.history = append(e.history, ev)
}

func cardRef(c Card) *Card {
	return &c
}

func (e *TurnEngine) String() string {
	names := make([]string, len(e.robots))
	for i, r := range e.robots {
		names[i] = r.String()
	}
	return fmt.Sprintf("<TurnEngine order:%s robots:[%s]>", e.order, strings.Join(names, " "))
}
