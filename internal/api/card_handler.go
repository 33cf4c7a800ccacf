package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashcards/internal/api/shared"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/service"
	"github.com/phrazzld/flashcards/internal/service/card_review"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService       service.CardService
	cardReviewService card_review.CardReviewService
	now               func() time.Time
	logger            *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(
	cardService service.CardService,
	cardReviewService card_review.CardReviewService,
	logger *slog.Logger,
) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	if cardService == nil || cardReviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card services cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService:       cardService,
		cardReviewService: cardReviewService,
		now:               time.Now,
		logger:            logger.With(slog.String("component", "card_handler")),
	}
}

// RegisterRoutes mounts the card endpoints on r. Static segments are
// registered before {id} so /cards/due and /cards/next are not read as IDs.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/due", h.ListDueCards)
	r.Get("/cards/next", h.GetNextReviewCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Put("/cards/{id}", h.ReplaceCard)
	r.Patch("/cards/{id}", h.UpdateCardContent)
	r.Delete("/cards/{id}", h.DeleteCard)
	r.Post("/cards/{id}/review", h.SubmitReview)
	r.Post("/cards/{id}/postpone", h.PostponeCard)
}

// ListCards handles GET /cards requests, with an optional due_before filter.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCardFilter(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Invalid due_before: expected an RFC 3339 timestamp", err)
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// CreateCard handles POST /cards requests
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id} requests
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ReplaceCard handles PUT /cards/{id} requests. Every mutable field is replaced.
func (h *CardHandler) ReplaceCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReplaceCardRequest
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), &domain.Card{
		ID:         cardID,
		Front:      req.Front,
		Back:       req.Back,
		EaseFactor: *req.EaseFactor,
		Interval:   *req.Interval,
		NextReview: req.NextReview,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCardContent handles PATCH /cards/{id} requests
func (h *CardHandler) UpdateCardContent(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateContentRequest
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cardService.UpdateContent(r.Context(), cardID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDueCards handles GET /cards/due requests
func (h *CardHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardReviewService.ListDue(r.Context(), h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// GetNextReviewCard handles GET /cards/next requests.
// It responds 204 No Content when nothing is due.
func (h *CardHandler) GetNextReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	card, err := h.cardReviewService.GetNextCard(r.Context(), h.now())
	if errors.Is(err, card_review.ErrNoCardsDue) {
		log.Debug("no cards due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitReview handles POST /cards/{id}/review requests
// It applies a difficulty rating and returns the rescheduled card.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	rating, err := domain.ParseReviewRating(req.Difficulty)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardReviewService.SubmitReview(r.Context(), cardID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PostponeCard handles POST /cards/{id}/postpone requests
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req PostponeRequest
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cardReviewService.Postpone(r.Context(), cardID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// decode reads and validates a JSON body, writing a 400 response on failure.
func (h *CardHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleValidationError(w, r, err)
		return false
	}
	return true
}
