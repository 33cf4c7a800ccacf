package card_review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/store"
)

// stubRepository serves one card and can be told to fail writes.
type stubRepository struct {
	db        *sql.DB
	card      *domain.Card
	updateErr error
}

func (r *stubRepository) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	if r.card == nil || r.card.ID != id {
		return nil, store.ErrCardNotFound
	}
	return r.card.Clone(), nil
}

func (r *stubRepository) List(context.Context, store.CardFilter) ([]*domain.Card, error) {
	if r.card == nil {
		return nil, nil
	}
	return []*domain.Card{r.card.Clone()}, nil
}

func (r *stubRepository) UpdateSchedule(_ context.Context, card *domain.Card) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.card = card.Clone()
	return nil
}

func (r *stubRepository) WithTx(*sql.Tx) CardRepository { return r }

func (r *stubRepository) DB() *sql.DB { return r.db }
