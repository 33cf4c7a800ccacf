package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/flashcards/internal/api/shared"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/service"
	"github.com/phrazzld/flashcards/internal/service/card_review"
	"github.com/phrazzld/flashcards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"wrapped not found", service.NewCardServiceError("get_card", "card not found", store.ErrCardNotFound), http.StatusNotFound},
		{"review not found", card_review.ErrCardNotFound, http.StatusNotFound},
		{"duplicate", store.ErrCardExists, http.StatusConflict},
		{"invalid rating", card_review.ErrInvalidRating, http.StatusBadRequest},
		{"invalid days", card_review.ErrInvalidDays, http.StatusBadRequest},
		{"empty front", domain.ErrCardFrontEmpty, http.StatusBadRequest},
		{"invalid entity", fmt.Errorf("%w: check", store.ErrInvalidEntity), http.StatusBadRequest},
		{"bad id", domain.ErrInvalidID, http.StatusBadRequest},
		{"malformed timestamp", domain.ErrInvalidTimestamp, http.StatusBadRequest},
		{"no cards due", card_review.ErrNoCardsDue, http.StatusNoContent},
		{"transaction failure", store.ErrTransactionFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"not found", store.ErrCardNotFound, "Card not found"},
		{"invalid rating", card_review.ErrInvalidRating, "Invalid difficulty: must be Easy, Medium or Hard"},
		{"review failure", card_review.NewSubmitReviewError("failed", errors.New("pq: deadlock")), "Failed to submit review"},
		{"postpone failure", card_review.NewPostponeError("failed", errors.New("x")), "Failed to postpone card"},
		{"raw error never leaks", errors.New("postgres://admin:hunter2@db/cards"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&ReviewRequest{Difficulty: "Trivial"})
	assert.Equal(t, "Invalid difficulty: invalid value", SanitizeValidationError(err))

	err = shared.ValidateRequest(&PostponeRequest{})
	assert.Equal(t, "Invalid days: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestJSONFieldName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ease_factor", jsonFieldName("EaseFactor"))
	assert.Equal(t, "next_review", jsonFieldName("NextReview"))
	assert.Equal(t, "days", jsonFieldName("Days"))
}

func TestHandleAPIErrorElevatesStoreRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"store rejection", fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidInterval), "WARN"},
		{"domain validation", domain.ErrInvalidInterval, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.NewTestLogger()
			req := httptest.NewRequest(http.MethodPut, "/api/cards/x", nil)
			req = req.WithContext(logger.WithContext(req.Context(), log))
			rr := httptest.NewRecorder()

			HandleAPIError(rr, req, tt.err, "")

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
		})
	}
}
