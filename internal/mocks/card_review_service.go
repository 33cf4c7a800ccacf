package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/service/card_review"
)

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	// Custom behavior functions
	SubmitReviewFn func(ctx context.Context, cardID uuid.UUID, rating domain.ReviewRating) (*domain.Card, error)
	ListDueFn      func(ctx context.Context, now time.Time) ([]*domain.Card, error)
	GetNextCardFn  func(ctx context.Context, now time.Time) (*domain.Card, error)
	PostponeFn     func(ctx context.Context, cardID uuid.UUID, days int) (*domain.Card, error)

	// Default response values
	Card     *domain.Card
	DueCards []*domain.Card
	Err      error

	// Call tracking for verification
	SubmitReviewCalls struct {
		mu      sync.Mutex
		Count   int
		CardIDs []uuid.UUID
		Ratings []domain.ReviewRating
	}

	PostponeCalls struct {
		mu      sync.Mutex
		Count   int
		CardIDs []uuid.UUID
		Days    []int
	}
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// SubmitReview implements the card_review.CardReviewService interface
func (m *MockCardReviewService) SubmitReview(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.ReviewRating,
) (*domain.Card, error) {
	m.SubmitReviewCalls.mu.Lock()
	m.SubmitReviewCalls.Count++
	m.SubmitReviewCalls.CardIDs = append(m.SubmitReviewCalls.CardIDs, cardID)
	m.SubmitReviewCalls.Ratings = append(m.SubmitReviewCalls.Ratings, rating)
	m.SubmitReviewCalls.mu.Unlock()

	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, cardID, rating)
	}
	return m.Card, m.Err
}

// ListDue implements the card_review.CardReviewService interface
func (m *MockCardReviewService) ListDue(ctx context.Context, now time.Time) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, now)
	}
	return m.DueCards, m.Err
}

// GetNextCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) GetNextCard(ctx context.Context, now time.Time) (*domain.Card, error) {
	if m.GetNextCardFn != nil {
		return m.GetNextCardFn(ctx, now)
	}
	return m.Card, m.Err
}

// Postpone implements the card_review.CardReviewService interface
func (m *MockCardReviewService) Postpone(ctx context.Context, cardID uuid.UUID, days int) (*domain.Card, error) {
	m.PostponeCalls.mu.Lock()
	m.PostponeCalls.Count++
	m.PostponeCalls.CardIDs = append(m.PostponeCalls.CardIDs, cardID)
	m.PostponeCalls.Days = append(m.PostponeCalls.Days, days)
	m.PostponeCalls.mu.Unlock()

	if m.PostponeFn != nil {
		return m.PostponeFn(ctx, cardID, days)
	}
	return m.Card, m.Err
}

// SubmitReviewCount returns how many times SubmitReview was called.
func (m *MockCardReviewService) SubmitReviewCount() int {
	m.SubmitReviewCalls.mu.Lock()
	defer m.SubmitReviewCalls.mu.Unlock()
	return m.SubmitReviewCalls.Count
}

// Reset resets the call tracking state
func (m *MockCardReviewService) Reset() {
	m.SubmitReviewCalls.mu.Lock()
	m.SubmitReviewCalls.Count = 0
	m.SubmitReviewCalls.CardIDs = nil
	m.SubmitReviewCalls.Ratings = nil
	m.SubmitReviewCalls.mu.Unlock()

	m.PostponeCalls.mu.Lock()
	m.PostponeCalls.Count = 0
	m.PostponeCalls.CardIDs = nil
	m.PostponeCalls.Days = nil
	m.PostponeCalls.mu.Unlock()
}

// Functional option pattern for configuring mock

// MockOption is a function type that configures a MockCardReviewService
type MockOption func(*MockCardReviewService)

// WithCard sets the default card returned by SubmitReview, GetNextCard and Postpone
func WithCard(card *domain.Card) MockOption {
	return func(m *MockCardReviewService) {
		m.Card = card
	}
}

// WithDueCards sets the default result of ListDue
func WithDueCards(cards []*domain.Card) MockOption {
	return func(m *MockCardReviewService) {
		m.DueCards = cards
	}
}

// WithError sets the default error to return from every method
func WithError(err error) MockOption {
	return func(m *MockCardReviewService) {
		m.Err = err
	}
}

// WithSubmitReviewFn sets a custom function for SubmitReview
func WithSubmitReviewFn(
	fn func(ctx context.Context, cardID uuid.UUID, rating domain.ReviewRating) (*domain.Card, error),
) MockOption {
	return func(m *MockCardReviewService) {
		m.SubmitReviewFn = fn
	}
}

// NewMockCardReviewService creates a new MockCardReviewService with the given options
func NewMockCardReviewService(opts ...MockOption) *MockCardReviewService {
	mock := &MockCardReviewService{}
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// NewMockCardReviewServiceWithNoCardsDue returns a mock that simulates no cards due for review
func NewMockCardReviewServiceWithNoCardsDue() *MockCardReviewService {
	return NewMockCardReviewService(WithError(card_review.ErrNoCardsDue))
}

// NewMockCardReviewServiceWithCardNotFound returns a mock that simulates card not found
func NewMockCardReviewServiceWithCardNotFound() *MockCardReviewService {
	return NewMockCardReviewService(WithError(card_review.ErrCardNotFound))
}
