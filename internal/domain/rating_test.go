package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ReviewRating
		wantErr bool
	}{
		{"Easy", ReviewRatingEasy, false},
		{"Medium", ReviewRatingMedium, false},
		{"Hard", ReviewRatingHard, false},
		{"easy", "", true},
		{"Again", "", true},
		{"", "", true},
		{" Hard", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseReviewRating(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidReviewRating)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestReviewRatingUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var req struct {
		Difficulty ReviewRating `json:"difficulty"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"difficulty":"Medium"}`), &req))
	assert.Equal(t, ReviewRatingMedium, req.Difficulty)

	err := json.Unmarshal([]byte(`{"difficulty":"Impossible"}`), &req)
	assert.ErrorIs(t, err, ErrInvalidReviewRating)

	err = json.Unmarshal([]byte(`{"difficulty":3}`), &req)
	assert.ErrorIs(t, err, ErrInvalidReviewRating)

	out, err := json.Marshal(ReviewRatingHard)
	require.NoError(t, err)
	assert.JSONEq(t, `"Hard"`, string(out))
}
