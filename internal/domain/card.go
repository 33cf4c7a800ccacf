package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default scheduling values for a newly created card.
const (
	DefaultEaseFactor = 2.5
	DefaultInterval   = 1.0

	// MinEaseFactor and MaxEaseFactor bound the ease factor of every valid card.
	MinEaseFactor = 1.0
	MaxEaseFactor = 5.0

	// MaxInterval is the longest interval in days a valid card may carry.
	MaxInterval = 36500.0
)

// Card-specific validation errors
var (
	// ErrCardFrontEmpty is returned when a card's front text is blank.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when a card's back text is blank.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrInvalidEaseFactor is returned when the ease factor is outside [MinEaseFactor, MaxEaseFactor].
	ErrInvalidEaseFactor = fmt.Errorf("%w: ease factor must be between 1.0 and 5.0", ErrValidation)

	// ErrInvalidInterval is returned when the interval is outside [0, MaxInterval].
	ErrInvalidInterval = fmt.Errorf("%w: interval must be between 0 and 36500 days", ErrValidation)
)

// Card is a flashcard together with its review metadata.
//
// NextReview is kept in TimestampLayout rather than as a time.Time: it is the
// stored, denormalized due date, and a value that fails to parse must remain
// representable so the due filter can exclude and report it.
type Card struct {
	ID         uuid.UUID `json:"id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	EaseFactor float64   `json:"ease_factor"`
	Interval   float64   `json:"interval"`
	NextReview string    `json:"next_review"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCard creates a card with default scheduling values. NextReview is the
// creation instant, so the card is due as soon as time moves past it.
// The ID is assigned by the store on creation.
func NewCard(front, back string, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		Front:      front,
		Back:       back,
		EaseFactor: DefaultEaseFactor,
		Interval:   DefaultInterval,
		NextReview: FormatTimestamp(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// A malformed NextReview is not a validation failure: it is tolerated and
// treated as not due.
func (c *Card) Validate() error {
	if err := ValidateContent(c.Front, c.Back); err != nil {
		return err
	}

	if c.EaseFactor < MinEaseFactor || c.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}

	if c.Interval < 0 || c.Interval > MaxInterval {
		return ErrInvalidInterval
	}

	return nil
}

// ValidateContent checks that both faces of a card carry text.
func ValidateContent(front, back string) error {
	if strings.TrimSpace(front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(back) == "" {
		return ErrCardBackEmpty
	}
	return nil
}

// UpdateContent replaces the card's front and back text. Scheduling fields
// are not touched. Returns an error and leaves the card unchanged if the new
// content is invalid.
func (c *Card) UpdateContent(front, back string, now time.Time) error {
	if err := ValidateContent(front, back); err != nil {
		return err
	}

	c.Front = front
	c.Back = back
	c.UpdatedAt = now.UTC()
	return nil
}

// SameIdentity reports whether c and other are the same entity.
// Only the ID matters; content and scheduling differences are ignored.
func (c *Card) SameIdentity(other *Card) bool {
	if c == nil || other == nil {
		return false
	}
	return c.ID == other.ID
}

// Clone returns a copy of the card.
func (c *Card) Clone() *Card {
	clone := *c
	return &clone
}
