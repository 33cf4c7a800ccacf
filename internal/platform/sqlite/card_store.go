package sqlite

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

// SQLiteCardStore implements the store.CardStore interface on an embedded
// SQLite database. Timestamps are kept as fixed-width UTC text.
type SQLiteCardStore struct {
	db     store.DBTX
	logger *slog.Logger
	due    *srs.DueFilter
}

// NewSQLiteCardStore creates a SQLite implementation of the CardStore interface.
// db should come from Open so that writes are serialized.
// If logger is nil, a default logger will be used.
func NewSQLiteCardStore(db store.DBTX, logger *slog.Logger) *SQLiteCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store"), slog.String("driver", "sqlite")),
		due:    srs.NewDueFilter(logger),
	}
}

var _ store.CardStore = (*SQLiteCardStore)(nil)

// Create implements store.CardStore.Create.
func (s *SQLiteCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = card.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID.String(),
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		domain.FormatTimestamp(card.CreatedAt),
		domain.FormatTimestamp(card.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrCardExists, err)
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
func (s *SQLiteCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}
	return card, nil
}

// GetForUpdate implements store.CardStore.GetForUpdate. SQLite has no row
// locks; the single-connection pool from Open serializes transactions instead.
func (s *SQLiteCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.GetByID(ctx, id)
}

// List implements store.CardStore.List. The due filter is applied in SQL
// and then re-checked row by row.
func (s *SQLiteCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards`
	var args []any
	if filter.DueBefore != nil {
		query += ` WHERE next_review <= ?`
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
func (s *SQLiteCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET front = ?, back = ?, ease_factor = ?, interval_days = ?, next_review = ?, updated_at = ?
		WHERE id = ?`,
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		domain.FormatTimestamp(card.UpdatedAt),
		card.ID.String(),
	)
	if err != nil {
		return store.NewStoreError("card", "update", "update failed", MapError(err))
	}
	return checkRowsAffected(result)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule.
func (s *SQLiteCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
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
		SET ease_factor = ?, interval_days = ?, next_review = ?, updated_at = ?
		WHERE id = ?`,
		card.EaseFactor,
		card.Interval,
		card.NextReview,
		domain.FormatTimestamp(card.UpdatedAt),
		card.ID.String(),
	)
	if err != nil {
		return store.NewStoreError("card", "update_schedule", "update failed", MapError(err))
	}
	return checkRowsAffected(result)
}

// Delete implements store.CardStore.Delete.
func (s *SQLiteCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id.String())
	if err != nil {
		return store.NewStoreError("card", "delete", "delete failed", MapError(err))
	}
	if err := checkRowsAffected(result); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "card deleted", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx.
func (s *SQLiteCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &SQLiteCardStore{
		db:     tx,
		logger: s.logger,
		due:    s.due,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card                 domain.Card
		id                   string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id,
		&card.Front,
		&card.Back,
		&card.EaseFactor,
		&card.Interval,
		&card.NextReview,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if card.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid card id %q: %w", id, err)
	}
	// Bookkeeping timestamps are written by this store; a bad value is
	// reported as a zero time rather than hiding the card.
	card.CreatedAt, _ = domain.ParseTimestamp(createdAt)
	card.UpdatedAt, _ = domain.ParseTimestamp(updatedAt)
	return &card, nil
}
