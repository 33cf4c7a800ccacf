package card_review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/store"
)

// CardRepository defines the interface for repositories that can provide
// card data and support transactions.
type CardRepository interface {
	// GetForUpdate retrieves a card and locks it for the rest of the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List returns cards in insertion order, optionally filtered.
	List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)

	// UpdateSchedule persists ease factor, interval and next review together.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

// GetForUpdate implements CardRepository.GetForUpdate
func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetForUpdate(ctx, id)
}

// List implements CardRepository.List
func (a *cardRepositoryAdapter) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	return a.cardStore.List(ctx, filter)
}

// UpdateSchedule implements CardRepository.UpdateSchedule
func (a *cardRepositoryAdapter) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	return a.cardStore.UpdateSchedule(ctx, card)
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}
