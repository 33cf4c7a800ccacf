package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the only textual format used for next review timestamps.
// It is RFC 3339 in UTC with fixed microsecond precision, so every value has
// the same width and lexicographic order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value produced by FormatTimestamp.
//
// Values in any other RFC 3339 variant (offsets, other precisions) are
// rejected with ErrInvalidTimestamp rather than reinterpreted.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	// Only accept the canonical rendering.
	if t.Format(TimestampLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidTimestamp, s)
	}

	return t.UTC(), nil
}
