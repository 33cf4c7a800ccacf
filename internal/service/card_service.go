package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/events"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/store"
)

// CardService provides card-related operations
type CardService interface {
	// CreateCard creates a card with default scheduling, due immediately.
	CreateCard(ctx context.Context, front, back string) (*domain.Card, error)

	// GetCard retrieves a card by its ID
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns cards in insertion order, optionally filtered.
	ListCards(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)

	// UpdateCard replaces every mutable field of an existing card.
	// CreatedAt is preserved from the stored card.
	UpdateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)

	// UpdateContent changes only the front and back text.
	UpdateContent(ctx context.Context, cardID uuid.UUID, front, back string) (*domain.Card, error)

	// DeleteCard removes a card.
	DeleteCard(ctx context.Context, cardID uuid.UUID) error
}

// CardServiceOption customizes the card service.
type CardServiceOption func(*cardServiceImpl)

// WithEventEmitter publishes card lifecycle events to emitter after each
// committed change.
func WithEventEmitter(emitter events.EventEmitter) CardServiceOption {
	return func(s *cardServiceImpl) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CardServiceOption {
	return func(s *cardServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cardRepo CardRepository
	emitter  events.EventEmitter
	now      func() time.Time
	logger   *slog.Logger
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cardRepo CardRepository,
	logger *slog.Logger,
	opts ...CardServiceOption,
) (CardService, error) {
	if cardRepo == nil {
		return nil, fmt.Errorf("%w: cardRepo", ErrNilDependency)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardServiceImpl{
		cardRepo: cardRepo,
		emitter:  events.NopEmitter{},
		now:      time.Now,
		logger:   logger.With(slog.String("component", "card_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(ctx context.Context, front, back string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(front, back, s.now())
	if err != nil {
		log.Debug("rejected invalid card", slog.String("error", err.Error()))
		return nil, NewCardServiceError("create_card", "invalid card", err)
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		log.Error("failed to create card", slog.String("error", err.Error()))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("created card", slog.String("card_id", card.ID.String()))
	s.emit(ctx, events.CardCreated, card.ID, nil)
	return card, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving card", slog.String("card_id", cardID.String()))

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", cardID.String()))
			return nil, NewCardServiceError("get_card", "card not found", store.ErrCardNotFound)
		}

		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}

	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}

	log.Debug("listed cards",
		slog.Int("count", len(cards)),
		slog.Bool("due_filter", filter.DueBefore != nil))
	return cards, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if card == nil {
		return nil, NewCardServiceError("update_card", "invalid card", ErrNilCard)
	}
	if err := card.Validate(); err != nil {
		log.Debug("rejected invalid card update",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewCardServiceError("update_card", "invalid card", err)
	}
	if card.NextReview != "" {
		if _, err := domain.ParseTimestamp(card.NextReview); err != nil {
			return nil, NewCardServiceError("update_card", "invalid next review", err)
		}
	}

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.cardRepo.WithTx(tx)

		existing, err := txRepo.GetForUpdate(ctx, card.ID)
		if err != nil {
			return err
		}

		next := card.Clone()
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = s.now().UTC()
		if next.NextReview == "" {
			next.NextReview = existing.NextReview
		}

		if err := txRepo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(log, "update_card", card.ID, err)
	}

	log.Info("updated card", slog.String("card_id", updated.ID.String()))
	s.emit(ctx, events.CardUpdated, updated.ID, nil)
	return updated, nil
}

// UpdateContent implements CardService.UpdateContent
func (s *cardServiceImpl) UpdateContent(
	ctx context.Context,
	cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateContent(front, back); err != nil {
		return nil, NewCardServiceError("update_content", "invalid content", err)
	}

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.cardRepo.WithTx(tx)

		card, err := txRepo.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}
		if err := card.UpdateContent(front, back, s.now()); err != nil {
			return err
		}
		if err := txRepo.Update(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(log, "update_content", cardID, err)
	}

	log.Info("updated card content", slog.String("card_id", cardID.String()))
	s.emit(ctx, events.CardUpdated, cardID, nil)
	return updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return s.wrapWriteError(log, "delete_card", cardID, err)
	}

	log.Info("deleted card", slog.String("card_id", cardID.String()))
	s.emit(ctx, events.CardDeleted, cardID, nil)
	return nil
}

func (s *cardServiceImpl) wrapWriteError(log *slog.Logger, op string, cardID uuid.UUID, err error) error {
	switch {
	case store.IsNotFoundError(err):
		log.Debug("card not found", slog.String("card_id", cardID.String()))
		return NewCardServiceError(op, "card not found", store.ErrCardNotFound)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return NewCardServiceError(op, "invalid card", err)
	}

	log.Error("card write failed",
		slog.String("operation", op),
		slog.String("card_id", cardID.String()),
		slog.String("error", err.Error()))
	return NewCardServiceError(op, "failed to save card", err)
}

// emit publishes an event for a committed change. Handler failures are logged;
// the change itself has already been persisted.
func (s *cardServiceImpl) emit(ctx context.Context, eventType string, cardID uuid.UUID, payload interface{}) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewCardEvent(eventType, cardID, payload, s.now())
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed",
			slog.String("event_type", eventType),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
	}
}
