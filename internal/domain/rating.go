package domain

import (
	"encoding/json"
	"fmt"
)

// ReviewRating is the difficulty a user reports after viewing the back of a card.
type ReviewRating string

// Possible review rating values
const (
	ReviewRatingEasy   ReviewRating = "Easy"
	ReviewRatingMedium ReviewRating = "Medium"
	ReviewRatingHard   ReviewRating = "Hard"
)

// ReviewRatings lists every valid rating in ascending difficulty.
var ReviewRatings = []ReviewRating{ReviewRatingEasy, ReviewRatingMedium, ReviewRatingHard}

// ParseReviewRating converts s into a ReviewRating.
// Returns ErrInvalidReviewRating for anything outside the enumeration.
func ParseReviewRating(s string) (ReviewRating, error) {
	r := ReviewRating(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReviewRating, s)
	}
	return r, nil
}

// Valid reports whether r is one of the three known ratings.
func (r ReviewRating) Valid() bool {
	switch r {
	case ReviewRatingEasy, ReviewRatingMedium, ReviewRatingHard:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r ReviewRating) String() string {
	return string(r)
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown ratings.
func (r *ReviewRating) UnmarshalText(text []byte) error {
	parsed, err := ParseReviewRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler and rejects unknown ratings.
func (r *ReviewRating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: rating must be a string", ErrInvalidReviewRating)
	}
	return r.UnmarshalText([]byte(s))
}
