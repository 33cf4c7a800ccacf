package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/store"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and an error wrapping domain.ErrInvalidID
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// parseCardFilter reads the optional due_before query parameter. Both RFC 3339
// and the stored timestamp format are accepted.
func parseCardFilter(r *http.Request) (store.CardFilter, error) {
	raw := r.URL.Query().Get("due_before")
	if raw == "" {
		return store.CardFilter{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		if t, err = domain.ParseTimestamp(raw); err != nil {
			return store.CardFilter{}, fmt.Errorf("%w: due_before", domain.ErrInvalidTimestamp)
		}
	}
	return store.DueBefore(t.UTC()), nil
}
