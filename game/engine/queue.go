package engine

// CardQueue is a FIFO of cards: Pop returns the oldest pushed card
type CardQueue struct {
	cards []Card
	head  int
}

// Push appends a card to the back of the queue
func (q *CardQueue) Push(c Card) {
	q.cards = append(q.cards, c)
}

// Pop removes and returns the oldest card
func (q *CardQueue) Pop() (Card, bool) {
	if q.head >= len(q.cards) {
		return Card{}, false
	}
	c := q.cards[q.head]
	q.cards[q.head] = Card{}
	q.head++

	// Reclaim the backing array once it is drained
	if q.head == len(q.cards) {
		q.cards = q.cards[:0]
		q.head = 0
	}
	return c, true
}

// Peek returns the oldest card without removing it
func (q *CardQueue) Peek() (Card, bool) {
	if q.head >= len(q.cards) {
		return Card{}, false
	}
	return q.cards[q.head], true
}

// Len returns the number of pending cards
func (q *CardQueue) Len() int {
	return len(q.cards) - q.head
}

// Cards returns a copy of the pending cards in execution order
func (q *CardQueue) Cards() []Card {
	out := make([]Card, q.Len())
	copy(out, q.cards[q.head:])
	return out
}

// Clear drops all pending cards
func (q *CardQueue) Clear() {
	q.cards = nil
	q.head = 0
}
