package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
)

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		ef       float64
		rating   domain.ReviewRating
		expected float64
	}{
		{
			name:     "Easy multiplies interval by ease factor",
			current:  4,
			ef:       2.5,
			rating:   domain.ReviewRatingEasy,
			expected: 10, // 4 * 2.5 = 10
		},
		{
			name:     "Easy on a new card",
			current:  1,
			ef:       2.5,
			rating:   domain.ReviewRatingEasy,
			expected: 2.5,
		},
		{
			name:     "Medium keeps a fractional interval below one day",
			current:  0.5,
			ef:       2.5,
			rating:   domain.ReviewRatingMedium,
			expected: 0.5,
		},
		{
			name:     "Medium keeps more than two decimals",
			current:  3.3325,
			ef:       2.5,
			rating:   domain.ReviewRatingMedium,
			expected: 3.3325,
		},
		{
			name:     "Medium keeps interval",
			current:  4,
			ef:       2.5,
			rating:   domain.ReviewRatingMedium,
			expected: 4,
		},
		{
			name:     "Hard resets interval",
			current:  120,
			ef:       4.5,
			rating:   domain.ReviewRatingHard,
			expected: 1,
		},
		{
			name:     "Medium on a zero interval is lifted to the minimum",
			current:  0,
			ef:       2.5,
			rating:   domain.ReviewRatingMedium,
			expected: 1,
		},
		{
			name:     "Easy is capped at the maximum interval",
			current:  30000,
			ef:       5,
			rating:   domain.ReviewRatingEasy,
			expected: params.MaxInterval,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewInterval(tc.current, tc.ef, tc.rating, params)
			if result != tc.expected {
				t.Errorf("Expected interval %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		rating   domain.ReviewRating
		expected float64
	}{
		{"Easy increases ease factor", 2.5, domain.ReviewRatingEasy, 3.0},
		{"Medium increases ease factor", 2.5, domain.ReviewRatingMedium, 3.0},
		{"Hard decreases ease factor", 2.5, domain.ReviewRatingHard, 2.0},
		{"Easy is capped at maximum", 4.8, domain.ReviewRatingEasy, 5.0},
		{"Medium at maximum stays at maximum", 5.0, domain.ReviewRatingMedium, 5.0},
		{"Hard is floored at minimum", 1.2, domain.ReviewRatingHard, 1.0},
		{"Hard at minimum stays at minimum", 1.0, domain.ReviewRatingHard, 1.0},
		{"Out of range input is pulled back into bounds", 7.0, domain.ReviewRatingHard, 5.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewEaseFactor(tc.current, tc.rating, params)
			if result != tc.expected {
				t.Errorf("Expected ease factor %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestCalculateNextReviewDate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		interval float64
		expected time.Time
	}{
		{1, now.Add(24 * time.Hour)},
		{10, now.Add(240 * time.Hour)},
		{2.5, now.Add(60 * time.Hour)},
	}

	for _, tc := range testCases {
		result := calculateNextReviewDate(tc.interval, now)
		if !result.Equal(tc.expected) {
			t.Errorf("interval %v: expected %v, got %v", tc.interval, tc.expected, result)
		}
	}
}

func TestCalculateNextCard(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reviewed := created.AddDate(0, 0, 30) // reviewed long after it was due

	card := &domain.Card{
		Front:      "front",
		Back:       "back",
		EaseFactor: 2.5,
		Interval:   4,
		NextReview: domain.FormatTimestamp(created.AddDate(0, 0, 4)),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	original := *card

	next := calculateNextCard(card, domain.ReviewRatingEasy, reviewed, params)

	if *card != original {
		t.Error("Expected the input card to be left unchanged")
	}
	if next.Interval != 10 || next.EaseFactor != 3.0 {
		t.Errorf("Expected interval 10 and ease 3.0, got %v and %v", next.Interval, next.EaseFactor)
	}

	// Rescheduled from the review instant, not from the previous due date
	want := domain.FormatTimestamp(reviewed.AddDate(0, 0, 10))
	if next.NextReview != want {
		t.Errorf("Expected next review %s, got %s", want, next.NextReview)
	}
	if !next.UpdatedAt.Equal(reviewed) {
		t.Errorf("Expected UpdatedAt %v, got %v", reviewed, next.UpdatedAt)
	}
	if !next.CreatedAt.Equal(created) {
		t.Error("Expected CreatedAt to be preserved")
	}
}
