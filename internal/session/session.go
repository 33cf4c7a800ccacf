// Package session implements navigation over the cards due in a study session.
//
// A Session holds a cursor over due cards in store order. Each card is shown
// front first; a rating can only be submitted after flipping to the back.
// Submitting a rating does not move the cursor or change the card: it yields
// a ReviewRequest for the caller to persist, after which the caller may
// Refresh the session with the store's current cards.
//
// Sessions are not safe for concurrent use.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
)

var (
	// ErrNothingToReview is returned by operations that need a current card
	// when no cards are due. An empty session is a normal state.
	ErrNothingToReview = errors.New("nothing to review")

	// ErrAlreadyFlipped is returned by Flip when the back is already shown.
	ErrAlreadyFlipped = errors.New("card is already showing its back")

	// ErrNotFlipped is returned by SubmitReview while the front is shown.
	ErrNotFlipped = errors.New("card must be flipped before it can be reviewed")
)

// DueFunc decides whether a card belongs in the session at now.
type DueFunc func(card *domain.Card, now time.Time) bool

// ReviewRequest asks the store to apply a rating to a card.
type ReviewRequest struct {
	CardID uuid.UUID
	Rating domain.ReviewRating
}

// Session is a cursor over the due cards of one study session.
type Session struct {
	states []domain.CardState
	cursor int
	isDue  DueFunc
}

// New creates a session over the cards for which isDue reports true at now,
// keeping their order.
func New(cards []*domain.Card, now time.Time, isDue DueFunc) *Session {
	s := &Session{isDue: isDue}
	s.states = s.filter(cards, now, nil)
	return s
}

// Len returns the number of cards in the session.
func (s *Session) Len() int {
	return len(s.states)
}

// Empty reports whether there is nothing to review.
func (s *Session) Empty() bool {
	return len(s.states) == 0
}

// Cursor returns the index of the current card. It is 0 for an empty session.
func (s *Session) Cursor() int {
	return s.cursor
}

// Current returns the current card state.
func (s *Session) Current() (domain.CardState, error) {
	if s.Empty() {
		return domain.CardState{}, ErrNothingToReview
	}
	return s.states[s.cursor], nil
}

// Next moves to the following card, stopping at the last one.
func (s *Session) Next() {
	if s.cursor < len(s.states)-1 {
		s.cursor++
	}
}

// Prev moves to the preceding card, stopping at the first one.
func (s *Session) Prev() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Flip shows the back of the current card.
func (s *Session) Flip() (domain.CardState, error) {
	if s.Empty() {
		return domain.CardState{}, ErrNothingToReview
	}

	current := s.states[s.cursor]
	if current.Side != domain.SideFront {
		return current, ErrAlreadyFlipped
	}

	s.states[s.cursor] = current.Flip()
	return s.states[s.cursor], nil
}

// SubmitReview returns the review request for the current card. The back
// must be showing. The session itself is left unchanged.
func (s *Session) SubmitReview(rating domain.ReviewRating) (ReviewRequest, error) {
	if s.Empty() {
		return ReviewRequest{}, ErrNothingToReview
	}
	if !rating.Valid() {
		return ReviewRequest{}, domain.ErrInvalidReviewRating
	}

	current := s.states[s.cursor]
	if current.Side != domain.SideBack {
		return ReviewRequest{}, ErrNotFlipped
	}

	return ReviewRequest{CardID: current.Card.ID, Rating: rating}, nil
}

// Refresh replaces the session's cards with the due subset of cards.
//
// Cards that were already in the session keep the side they were showing.
// The cursor stays on the same index, clamped to the new bounds.
func (s *Session) Refresh(cards []*domain.Card, now time.Time) {
	sides := make(map[uuid.UUID]domain.Side, len(s.states))
	for _, st := range s.states {
		sides[st.Card.ID] = st.Side
	}

	s.states = s.filter(cards, now, sides)

	if s.cursor > len(s.states)-1 {
		s.cursor = len(s.states) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *Session) filter(cards []*domain.Card, now time.Time, sides map[uuid.UUID]domain.Side) []domain.CardState {
	states := make([]domain.CardState, 0, len(cards))
	for _, card := range cards {
		if card == nil || (s.isDue != nil && !s.isDue(card, now)) {
			continue
		}
		st := domain.NewCardState(card)
		if side, ok := sides[card.ID]; ok {
			st.Side = side
		}
		states = append(states, st)
	}
	return states
}
