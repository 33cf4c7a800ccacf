package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func dueCard(front string) *domain.Card {
	return &domain.Card{
		ID:         uuid.New(),
		Front:      front,
		Back:       front + " back",
		EaseFactor: 2.5,
		Interval:   1,
		NextReview: domain.FormatTimestamp(now.Add(-time.Hour)),
	}
}

func futureCard(front string) *domain.Card {
	c := dueCard(front)
	c.NextReview = domain.FormatTimestamp(now.Add(time.Hour))
	return c
}

func fronts(s *Session) []string {
	out := make([]string, 0, s.Len())
	for _, st := range s.states {
		out = append(out, st.Card.Front)
	}
	return out
}

func TestNew_FiltersDueCardsInStoreOrder(t *testing.T) {
	t.Parallel()
	stranded := dueCard("stranded")
	stranded.NextReview = "garbage"

	cards := []*domain.Card{dueCard("a"), futureCard("b"), stranded, dueCard("c"), nil}
	s := New(cards, now, srs.IsDue)

	if diff := cmp.Diff([]string{"a", "c"}, fronts(s)); diff != "" {
		t.Errorf("due cards mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, s.Cursor())

	for _, st := range s.states {
		assert.Equal(t, domain.SideFront, st.Side, "cards enter the session front side up")
	}
}

func TestEmptySession(t *testing.T) {
	t.Parallel()
	s := New([]*domain.Card{futureCard("later")}, now, srs.IsDue)

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())

	s.Next()
	s.Prev()
	assert.Equal(t, 0, s.Cursor())

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNothingToReview)
	_, err = s.Flip()
	assert.ErrorIs(t, err, ErrNothingToReview)
	_, err = s.SubmitReview(domain.ReviewRatingEasy)
	assert.ErrorIs(t, err, ErrNothingToReview)
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	t.Run("three cards with cursor at the end", func(t *testing.T) {
		t.Parallel()
		s := New([]*domain.Card{dueCard("a"), dueCard("b"), dueCard("c")}, now, srs.IsDue)
		s.Next()
		s.Next()
		require.Equal(t, 2, s.Cursor())

		s.Next()
		assert.Equal(t, 2, s.Cursor(), "next saturates at len-1")

		s.Prev()
		assert.Equal(t, 1, s.Cursor())
	})

	t.Run("prev saturates at zero", func(t *testing.T) {
		t.Parallel()
		s := New([]*domain.Card{dueCard("a"), dueCard("b")}, now, srs.IsDue)
		s.Prev()
		assert.Equal(t, 0, s.Cursor())
	})

	t.Run("single card is a no-op both ways", func(t *testing.T) {
		t.Parallel()
		s := New([]*domain.Card{dueCard("only")}, now, srs.IsDue)
		s.Next()
		assert.Equal(t, 0, s.Cursor())
		s.Prev()
		assert.Equal(t, 0, s.Cursor())
	})
}

func TestFlipAndSubmitReview(t *testing.T) {
	t.Parallel()
	card := dueCard("q")
	s := New([]*domain.Card{card}, now, srs.IsDue)

	_, err := s.SubmitReview(domain.ReviewRatingEasy)
	assert.ErrorIs(t, err, ErrNotFlipped, "rating from the front is rejected")

	st, err := s.Flip()
	require.NoError(t, err)
	assert.Equal(t, domain.SideBack, st.Side)

	_, err = s.Flip()
	assert.ErrorIs(t, err, ErrAlreadyFlipped)

	_, err = s.SubmitReview(domain.ReviewRating("Again"))
	assert.ErrorIs(t, err, domain.ErrInvalidReviewRating)

	req, err := s.SubmitReview(domain.ReviewRatingHard)
	require.NoError(t, err)
	assert.Equal(t, ReviewRequest{CardID: card.ID, Rating: domain.ReviewRatingHard}, req)

	// Submitting neither advances nor resets anything
	assert.Equal(t, 0, s.Cursor())
	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.SideBack, current.Side)
	assert.Equal(t, 1.0, card.Interval, "the session never reschedules cards itself")
}

func TestFlipOnlyAffectsCurrentCard(t *testing.T) {
	t.Parallel()
	s := New([]*domain.Card{dueCard("a"), dueCard("b")}, now, srs.IsDue)

	_, err := s.Flip()
	require.NoError(t, err)
	s.Next()

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.SideFront, current.Side)

	s.Prev()
	current, err = s.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.SideBack, current.Side, "side is remembered per card")
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	a, b, c := dueCard("a"), dueCard("b"), dueCard("c")
	s := New([]*domain.Card{a, b, c}, now, srs.IsDue)
	s.Next()
	s.Next()
	_, err := s.Flip()
	require.NoError(t, err)

	// c was reviewed elsewhere and is no longer due
	reviewed := c.Clone()
	reviewed.NextReview = domain.FormatTimestamp(now.AddDate(0, 0, 3))
	s.Refresh([]*domain.Card{a, b, reviewed}, now)

	assert.Equal(t, []string{"a", "b"}, fronts(s))
	assert.Equal(t, 1, s.Cursor(), "cursor is clamped to the new last index")

	// b keeps its side when it survives a refresh
	_, err = s.Flip()
	require.NoError(t, err)
	s.Refresh([]*domain.Card{a, b}, now)
	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.SideBack, current.Side)

	// Reviewing the remaining cards empties the session
	s.Refresh(nil, now)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Cursor())
	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNothingToReview)
}
