package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
)

// CardFilter narrows the result of CardStore.List.
type CardFilter struct {
	// DueBefore, when set, keeps only cards whose next review instant lies
	// strictly before it. Cards with a malformed next review are never included.
	DueBefore *time.Time
}

// DueBefore returns a filter selecting the cards due at t.
func DueBefore(t time.Time) CardFilter {
	return CardFilter{DueBefore: &t}
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card. A nil ID is replaced with a freshly generated
	// one, which is written back into card.
	// Returns validation errors if the card is invalid and ErrDuplicate if
	// the ID is already taken.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card and locks it until the surrounding
	// transaction ends. It must be called on a store returned by WithTx.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List returns cards in insertion order, optionally restricted by filter.
	List(ctx context.Context, filter CardFilter) ([]*domain.Card, error)

	// Update replaces every mutable field of an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// UpdateSchedule writes ease factor, interval and next review together in
	// a single statement. They are never persisted independently.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       txStore := cardStore.WithTx(tx)
	//       card, err := txStore.GetForUpdate(ctx, id)
	//       ...
	//       return txStore.UpdateSchedule(ctx, card)
	//   })
	WithTx(tx *sql.Tx) CardStore
}
