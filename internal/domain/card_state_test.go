package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCardStateFlip(t *testing.T) {
	t.Parallel()
	card := &Card{ID: uuid.New(), Front: "f", Back: "b", EaseFactor: 2.5, Interval: 1}
	snapshot := *card

	state := NewCardState(card)
	assert.Equal(t, SideFront, state.Side)

	flipped := state.Flip()
	assert.Equal(t, SideBack, flipped.Side)
	assert.Equal(t, SideFront, state.Side, "Flip returns a new value")

	assert.Equal(t, state, flipped.Flip(), "two flips restore the original side")
	assert.Equal(t, snapshot, *card, "flipping never touches the card")
	assert.Same(t, card, flipped.Card)
}

func TestSideString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "front", SideFront.String())
	assert.Equal(t, "back", SideBack.String())
}
