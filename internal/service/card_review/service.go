// Package card_review applies review ratings and postponements to stored
// cards and selects the cards that are due for study.
package card_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/store"
)

// CardReviewService provides methods for reviewing flashcards
// using a spaced repetition algorithm.
type CardReviewService interface {
	// SubmitReview applies rating to the card and persists the new schedule.
	//
	// The read, the scheduling computation and the write happen in one
	// transaction holding a lock on the card row, so two concurrent reviews
	// of the same card are applied one after the other and neither is lost.
	// The next review is computed from the instant the review is processed.
	//
	// Returns:
	//   - (*domain.Card, nil): the card with its new ease factor, interval and next review
	//   - (nil, ErrCardNotFound): if the card does not exist
	//   - (nil, ErrInvalidRating): if rating is not Easy, Medium or Hard
	//   - (nil, *ServiceError): any other failure, typically from the database
	SubmitReview(ctx context.Context, cardID uuid.UUID, rating domain.ReviewRating) (*domain.Card, error)

	// ListDue returns every card due at now, in insertion order.
	ListDue(ctx context.Context, now time.Time) ([]*domain.Card, error)

	// GetNextCard returns the first card due at now.
	// Returns ErrNoCardsDue when nothing is due.
	GetNextCard(ctx context.Context, now time.Time) (*domain.Card, error)

	// Postpone pushes a card's next review forward by days (at least 1).
	// It also repairs a card whose next review is malformed.
	Postpone(ctx context.Context, cardID uuid.UUID, days int) (*domain.Card, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that no card is due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = store.ErrCardNotFound

	// ErrInvalidRating indicates a rating other than Easy, Medium or Hard.
	ErrInvalidRating = domain.ErrInvalidReviewRating

	// ErrInvalidDays indicates a postponement of less than one day.
	ErrInvalidDays = srs.ErrInvalidDays
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review", "postpone")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a new ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewListDueError returns a new ServiceError for the list_due operation.
func NewListDueError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list_due", Message: message, Err: err}
}

// NewPostponeError returns a new ServiceError for the postpone operation.
func NewPostponeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "postpone", Message: message, Err: err}
}
