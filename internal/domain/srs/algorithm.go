package srs

import (
	"math"
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
)

// day is the length of one interval unit.
const day = 24 * time.Hour

// calculateNewEaseFactor determines the new ease factor based on the review rating.
//
// Easy and Medium raise the ease factor by params.EaseFactorStep, Hard lowers
// it by the same step. The result is clamped to
// [params.MinEaseFactor, params.MaxEaseFactor]; no rounding is applied.
func calculateNewEaseFactor(
	currentEF float64,
	rating domain.ReviewRating,
	params *Params,
) float64 {
	newEF := currentEF
	switch rating {
	case domain.ReviewRatingEasy, domain.ReviewRatingMedium:
		newEF += params.EaseFactorStep
	case domain.ReviewRatingHard:
		newEF -= params.EaseFactorStep
	}

	return clamp(newEF, params.MinEaseFactor, params.MaxEaseFactor)
}

// calculateNewInterval determines the new interval in days.
//
// The easeFactor argument is the ease factor before this review is applied.
//
// Algorithm behavior:
//   - Easy: the interval is multiplied by the ease factor
//   - Medium: the interval is kept
//   - Hard: the interval restarts at params.HardInterval
//
// The result is not rounded. An interval too short to move the next review
// past now at timestamp precision (a zero interval, in practice) is replaced
// by params.MinInterval, and the result is capped at params.MaxInterval.
func calculateNewInterval(
	currentInterval float64,
	easeFactor float64,
	rating domain.ReviewRating,
	params *Params,
) float64 {
	var newInterval float64
	switch rating {
	case domain.ReviewRatingEasy:
		newInterval = currentInterval * easeFactor
	case domain.ReviewRatingMedium:
		newInterval = currentInterval
	default:
		newInterval = params.HardInterval
	}

	// Stored timestamps carry microseconds.
	if time.Duration(newInterval*float64(day)) < time.Microsecond {
		newInterval = params.MinInterval
	}
	return math.Min(newInterval, params.MaxInterval)
}

// calculateNextReviewDate returns now plus interval days.
// Scheduling is always relative to the review instant, never to the previous due date.
func calculateNextReviewDate(interval float64, now time.Time) time.Time {
	return now.Add(time.Duration(interval * float64(day)))
}

// calculateNextCard returns a copy of card with the scheduling fields updated
// for rating. The input card is not modified.
func calculateNextCard(
	card *domain.Card,
	rating domain.ReviewRating,
	now time.Time,
	params *Params,
) *domain.Card {
	next := card.Clone()

	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, rating, params)
	next.Interval = calculateNewInterval(card.Interval, card.EaseFactor, rating, params)
	next.NextReview = domain.FormatTimestamp(calculateNextReviewDate(next.Interval, now))
	next.UpdatedAt = now.UTC()

	return next
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
