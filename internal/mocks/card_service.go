package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/service"
	"github.com/phrazzld/flashcards/internal/store"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	CreateCardFn    func(ctx context.Context, front, back string) (*domain.Card, error)
	GetCardFn       func(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	ListCardsFn     func(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)
	UpdateCardFn    func(ctx context.Context, card *domain.Card) (*domain.Card, error)
	UpdateContentFn func(ctx context.Context, cardID uuid.UUID, front, back string) (*domain.Card, error)
	DeleteCardFn    func(ctx context.Context, cardID uuid.UUID) error

	// Default return values
	Card         *domain.Card
	Cards        []*domain.Card
	DefaultError error
}

var _ service.CardService = (*MockCardService)(nil)

// CreateCard implements the CardService.CreateCard method
func (m *MockCardService) CreateCard(ctx context.Context, front, back string) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, front, back)
	}
	return m.Card, m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return m.Card, m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, filter)
	}
	return m.Cards, m.DefaultError
}

// UpdateCard implements the CardService.UpdateCard method
func (m *MockCardService) UpdateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, card)
	}
	return m.Card, m.DefaultError
}

// UpdateContent implements the CardService.UpdateContent method
func (m *MockCardService) UpdateContent(ctx context.Context, cardID uuid.UUID, front, back string) (*domain.Card, error) {
	if m.UpdateContentFn != nil {
		return m.UpdateContentFn(ctx, cardID, front, back)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, cardID)
	}
	return m.DefaultError
}
