package api

import (
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
)

// CreateCardRequest is the body of POST /api/cards.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// UpdateContentRequest is the body of PATCH /api/cards/{id}.
type UpdateContentRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// ReplaceCardRequest is the body of PUT /api/cards/{id}. Pointers tell an
// explicit zero apart from a missing field.
type ReplaceCardRequest struct {
	Front      string   `json:"front"       validate:"required"`
	Back       string   `json:"back"        validate:"required"`
	EaseFactor *float64 `json:"ease_factor" validate:"required,gte=1,lte=5"`
	Interval   *float64 `json:"interval"    validate:"required,gte=0,lte=36500"`
	NextReview string   `json:"next_review"`
}

// ReviewRequest is the body of POST /api/cards/{id}/review.
type ReviewRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

// PostponeRequest is the body of POST /api/cards/{id}/postpone.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// CardResponse is the serialized form of a card.
type CardResponse struct {
	ID         string    `json:"id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	EaseFactor float64   `json:"ease_factor"`
	Interval   float64   `json:"interval"`
	NextReview string    `json:"next_review"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID.String(),
		Front:      card.Front,
		Back:       card.Back,
		EaseFactor: card.EaseFactor,
		Interval:   card.Interval,
		NextReview: card.NextReview,
		CreatedAt:  card.CreatedAt,
		UpdatedAt:  card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}
