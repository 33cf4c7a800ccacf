package domain

// Side is the face of a card currently shown.
type Side int

// Card faces. SideFront is the zero value.
const (
	SideFront Side = iota
	SideBack
)

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == SideBack {
		return "back"
	}
	return "front"
}

// CardState pairs a card with the face currently shown during a study session.
// It is transient and never persisted.
type CardState struct {
	Card *Card
	Side Side
}

// NewCardState wraps card, showing its front.
func NewCardState(card *Card) CardState {
	return CardState{Card: card, Side: SideFront}
}

// Flip returns the state with the other face shown. The card is untouched.
func (s CardState) Flip() CardState {
	if s.Side == SideFront {
		s.Side = SideBack
	} else {
		s.Side = SideFront
	}
	return s
}
