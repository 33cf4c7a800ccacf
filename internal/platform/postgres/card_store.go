package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/store"
)

const cardColumns = `id, front, back, ease_factor, interval_days, next_review, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
	due    *srs.DueFilter
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store"), slog.String("driver", "postgres")),
		due:    srs.NewDueFilter(logger),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = card.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		card.ID,
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, "card", "cards_pkey", store.ErrCardExists)
		}
		s.logger.ErrorContext(ctx, "failed to insert card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "create", "insert failed", MapError(err))
	}

	s.logger.DebugContext(ctx, "card created", slog.String("card_id", card.ID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)
}

// GetForUpdate implements store.CardStore.GetForUpdate with a row lock that
// serializes concurrent reviews of the same card.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresCardStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}
	return card, nil
}

// List implements store.CardStore.List.
//
// The due filter runs in SQL on the fixed-width text column and is then
// re-checked row by row, so malformed timestamps never leak through and are
// reported the same way the client-side filter reports them.
func (s *PostgresCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards`
	var args []any
	if filter.DueBefore != nil {
		// <= keeps cards that only differ below microsecond precision.
		query += ` WHERE next_review <= $1`
		args = append(args, domain.FormatTimestamp(*filter.DueBefore))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("card", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list", "scan failed", MapError(err))
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list", "iteration failed", MapError(err))
	}

	if filter.DueBefore != nil {
		cards = s.due.Filter(ctx, cards, *filter.DueBefore)
	}
	return cards, nil
}

// Update implements store.CardStore.Update.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET front = $1, back = $2, ease_factor = $3, interval_days = $4, next_review = $5, updated_at = $6
		WHERE id = $7`,
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return store.NewStoreError("card", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, "card"); err != nil {
		return mapRowsAffected(err)
	}
	return nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule.
func (s *PostgresCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	if card.EaseFactor < domain.MinEaseFactor || card.EaseFactor > domain.MaxEaseFactor {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidEaseFactor)
	}
	if card.Interval < 0 || card.Interval > domain.MaxInterval {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidInterval)
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET ease_factor = $1, interval_days = $2, next_review = $3, updated_at = $4
		WHERE id = $5`,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return store.NewStoreError("card", "update_schedule", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, "card"); err != nil {
		return mapRowsAffected(err)
	}
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("card", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, "card"); err != nil {
		return mapRowsAffected(err)
	}
	s.logger.DebugContext(ctx, "card deleted", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
		due:    s.due,
	}
}

// mapRowsAffected turns the generic not-found from CheckRowsAffected into the
// card-specific sentinel and leaves other failures as store errors.
func mapRowsAffected(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrCardNotFound
	}
	return store.NewStoreError("card", "rows_affected", "could not confirm write", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.ID,
		&card.Front,
		&card.Back,
		&card.EaseFactor,
		&card.Interval,
		&card.NextReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
