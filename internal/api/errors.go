package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/flashcards/internal/api/shared"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/service"
	"github.com/phrazzld/flashcards/internal/service/card_review"
	"github.com/phrazzld/flashcards/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNilCard):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, card_review.ErrNoCardsDue):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"

	// Domain validation messages are fixed strings without user data.
	case errors.Is(err, domain.ErrInvalidReviewRating):
		return "Invalid difficulty: must be Easy, Medium or Hard"
	case errors.Is(err, card_review.ErrInvalidDays):
		return "Invalid days: must be at least 1"
	case errors.Is(err, domain.ErrCardFrontEmpty):
		return "Invalid front: required field"
	case errors.Is(err, domain.ErrCardBackEmpty):
		return "Invalid back: required field"
	case errors.Is(err, domain.ErrInvalidEaseFactor):
		return "Invalid ease_factor: must be between 1.0 and 5.0"
	case errors.Is(err, domain.ErrInvalidInterval):
		return "Invalid interval: must be between 0 and 36500"
	case errors.Is(err, domain.ErrInvalidTimestamp):
		return "Invalid next_review: expected YYYY-MM-DDTHH:MM:SS.ffffffZ"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNilCard):
		return "Invalid card data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid card ID"

	default:
		var reviewErr *card_review.ServiceError
		if errors.As(err, &reviewErr) {
			switch reviewErr.Operation {
			case "submit_review":
				return "Failed to submit review"
			case "postpone":
				return "Failed to postpone card"
			case "list_due":
				return "Failed to list due cards"
			}
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		field := jsonFieldName(fe.Field())
		if tag := fe.Tag(); tag != "" {
			return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
		}
		return fmt.Sprintf("Invalid %s", field)
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// jsonFieldName converts a Go field name such as EaseFactor to ease_factor.
func jsonFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. defaultMsg replaces the
// generic message for unexpected errors when it is not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}

	// The store rejecting a value the request validation accepted points at
	// drift between the two layers.
	var opts []shared.ResponseOption
	if errors.Is(err, store.ErrInvalidEntity) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}

// HandleValidationError writes a 400 response for a request that failed to
// decode or validate.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}
