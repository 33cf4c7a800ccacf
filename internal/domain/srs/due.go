package srs

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
)

// CheckDue reports whether card is due at now, together with the parse error
// for a malformed or empty next review. A card that cannot be parsed is never due.
func CheckDue(card *domain.Card, now time.Time) (bool, error) {
	if card == nil {
		return false, ErrNilCard
	}

	due, err := domain.ParseTimestamp(card.NextReview)
	if err != nil {
		return false, err
	}

	return due.Before(now), nil
}

// IsDue reports whether the card's next review lies strictly before now.
// It fails closed: unset or malformed timestamps are not due.
func IsDue(card *domain.Card, now time.Time) bool {
	due, _ := CheckDue(card, now)
	return due
}

// DueFilter selects due cards and logs every card excluded because its next
// review timestamp is malformed.
type DueFilter struct {
	logger *slog.Logger
}

// NewDueFilter creates a DueFilter. If logger is nil, the default logger is used.
func NewDueFilter(logger *slog.Logger) *DueFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueFilter{logger: logger.With(slog.String("component", "due_filter"))}
}

// IsDue is IsDue with malformed timestamps logged as a data integrity warning.
func (f *DueFilter) IsDue(ctx context.Context, card *domain.Card, now time.Time) bool {
	due, err := CheckDue(card, now)
	if err != nil && card != nil {
		f.logger.WarnContext(ctx, "card excluded from review: malformed next_review",
			slog.String("card_id", card.ID.String()),
			slog.String("next_review", card.NextReview),
			slog.String("error", err.Error()))
	}
	return due
}

// Filter returns the due cards in their original order.
func (f *DueFilter) Filter(ctx context.Context, cards []*domain.Card, now time.Time) []*domain.Card {
	due := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if f.IsDue(ctx, card, now) {
			due = append(due, card)
		}
	}
	return due
}
