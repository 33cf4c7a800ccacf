package card_review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/events"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// Option customizes the review service.
type Option func(*cardReviewServiceImpl)

// WithEventEmitter publishes card.reviewed and card.postponed events after commit.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *cardReviewServiceImpl) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithClock replaces time.Now as the source of review instants.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardRepo   CardRepository
	srsService srs.Service
	due        *srs.DueFilter
	emitter    events.EventEmitter
	now        func() time.Time
	logger     *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	cardRepo CardRepository,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		cardRepo:   cardRepo,
		srsService: srsService,
		due:        srs.NewDueFilter(logger),
		emitter:    events.NopEmitter{},
		now:        time.Now,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitReview implements CardReviewService.SubmitReview.
func (s *cardReviewServiceImpl) SubmitReview(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.ReviewRating,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()))

	if !rating.Valid() {
		log.Warn("invalid review rating",
			slog.String("card_id", cardID.String()),
			slog.String("rating", rating.String()))
		return nil, ErrInvalidRating
	}

	var reviewed *domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, repo CardRepository) error {
		card, err := repo.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		next, err := s.srsService.Review(card, rating, s.now())
		if err != nil {
			return err
		}

		if err := repo.UpdateSchedule(ctx, next); err != nil {
			return err
		}
		reviewed = next
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("card not found for review", slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewSubmitReviewError("failed to apply review", err)
	}

	log.Info("review applied",
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()),
		slog.Float64("ease_factor", reviewed.EaseFactor),
		slog.Float64("interval", reviewed.Interval),
		slog.String("next_review", reviewed.NextReview))

	s.emit(ctx, events.CardReviewed, reviewed, events.ScheduleChange{
		Rating:     rating.String(),
		EaseFactor: reviewed.EaseFactor,
		Interval:   reviewed.Interval,
		NextReview: reviewed.NextReview,
	})
	return reviewed, nil
}

// ListDue implements CardReviewService.ListDue.
func (s *cardReviewServiceImpl) ListDue(ctx context.Context, now time.Time) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.List(ctx, store.DueBefore(now))
	if err != nil {
		log.Error("failed to list due cards", slog.String("error", err.Error()))
		return nil, NewListDueError("failed to list due cards", err)
	}

	// The store already filters; this keeps the result exact for any
	// CardRepository, including ones that only prefilter.
	cards = s.due.Filter(ctx, cards, now)

	log.Debug("listed due cards", slog.Int("count", len(cards)))
	return cards, nil
}

// GetNextCard implements CardReviewService.GetNextCard.
func (s *cardReviewServiceImpl) GetNextCard(ctx context.Context, now time.Time) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		log.Debug("no cards due for review")
		return nil, ErrNoCardsDue
	}

	log.Debug("next review card", slog.String("card_id", cards[0].ID.String()))
	return cards[0], nil
}

// Postpone implements CardReviewService.Postpone.
func (s *cardReviewServiceImpl) Postpone(ctx context.Context, cardID uuid.UUID, days int) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, ErrInvalidDays
	}

	var postponed *domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, repo CardRepository) error {
		card, err := repo.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		next, err := s.srsService.Postpone(card, days, s.now())
		if err != nil {
			return err
		}

		if err := repo.UpdateSchedule(ctx, next); err != nil {
			return err
		}
		postponed = next
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCardNotFound
		}

		log.Error("failed to postpone card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewPostponeError("failed to postpone card", err)
	}

	log.Info("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.String("next_review", postponed.NextReview))

	s.emit(ctx, events.CardPostponed, postponed, events.ScheduleChange{
		Days:       days,
		EaseFactor: postponed.EaseFactor,
		Interval:   postponed.Interval,
		NextReview: postponed.NextReview,
	})
	return postponed, nil
}

// runInTransaction runs fn with a repository bound to a fresh transaction.
func (s *cardReviewServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(ctx context.Context, repo CardRepository) error,
) error {
	return store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.cardRepo.WithTx(tx))
	})
}

func (s *cardReviewServiceImpl) emit(ctx context.Context, eventType string, card *domain.Card, change events.ScheduleChange) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewCardEvent(eventType, card.ID, change, card.UpdatedAt)
	if err != nil {
		log.Error("failed to build event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed",
			slog.String("event_type", eventType),
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
	}
}
