// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = fmt.Errorf("%w: content cannot be empty", ErrValidation)

	// ErrInvalidReviewRating is returned when a review rating is not one of
	// Easy, Medium or Hard.
	ErrInvalidReviewRating = fmt.Errorf("%w: invalid review rating", ErrValidation)

	// ErrInvalidTimestamp is returned when a timestamp does not match the
	// fixed timestamp profile.
	ErrInvalidTimestamp = fmt.Errorf("%w: invalid timestamp", ErrInvalidFormat)
)
