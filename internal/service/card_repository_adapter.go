package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/store"
)

// CardRepository is the slice of card persistence the card service needs,
// plus access to the connection pool for opening transactions.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection
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

func (a *cardRepositoryAdapter) Create(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Create(ctx, card)
}

func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetByID(ctx, id)
}

func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetForUpdate(ctx, id)
}

func (a *cardRepositoryAdapter) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	return a.cardStore.List(ctx, filter)
}

func (a *cardRepositoryAdapter) Update(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Update(ctx, card)
}

func (a *cardRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.cardStore.Delete(ctx, id)
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
