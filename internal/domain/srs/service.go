package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
)

// Common errors
var (
	ErrNilCard       = errors.New("card cannot be nil")
	ErrInvalidRating = domain.ErrInvalidReviewRating
	ErrInvalidDays   = fmt.Errorf("%w: postpone days must be at least 1", domain.ErrValidation)
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Review applies a rating to card and returns the rescheduled copy.
	// The next review is computed from now, not from the previous due date.
	Review(card *domain.Card, rating domain.ReviewRating, now time.Time) (*domain.Card, error)

	// Postpone pushes the next review forward by a number of days
	Postpone(card *domain.Card, days int, now time.Time) (*domain.Card, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &defaultService{
		params: params,
	}, nil
}

// Review implements the Service interface
func (s *defaultService) Review(
	card *domain.Card,
	rating domain.ReviewRating,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !rating.Valid() {
		return nil, ErrInvalidRating
	}

	return calculateNextCard(card, rating, now, s.params), nil
}

// Postpone implements the Service interface.
//
// The delay counts from the later of the current due date and now. A card
// whose next review cannot be parsed is postponed from now, which puts it
// back on a valid schedule.
func (s *defaultService) Postpone(
	card *domain.Card,
	days int,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	base := now.UTC()
	if due, err := domain.ParseTimestamp(card.NextReview); err == nil && due.After(base) {
		base = due
	}

	next := card.Clone()
	next.NextReview = domain.FormatTimestamp(base.AddDate(0, 0, days))
	next.UpdatedAt = now.UTC()

	return next, nil
}
