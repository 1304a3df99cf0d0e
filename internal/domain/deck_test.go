package domain

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardDeck(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 50; seed++ {
		deck, err := NewStandardDeck(rand.New(rand.NewPCG(seed, seed+1)))
		require.NoError(t, err)
		require.Len(t, deck, 16)
		assert.Equal(t, 8, deck.PairCount())
		require.NoError(t, deck.Validate())

		perStage := make(map[string]int)
		for i, card := range deck {
			assert.Equal(t, i, card.Position, "position must follow shuffled order")
			perStage[card.StageID()]++
		}
		assert.Len(t, perStage, 8)
		for id, n := range perStage {
			assert.Equal(t, 2, n, "stage %s", id)
		}
	}
}

func TestNewDeckInstanceIDs(t *testing.T) {
	t.Parallel()

	deck, err := NewStandardDeck(rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	// Instance IDs come from the pre-shuffle index: evaporacao is first.
	_, err = deck.Find("evaporacao-0")
	assert.NoError(t, err)
	_, err = deck.Find("evaporacao-1")
	assert.NoError(t, err)
	_, err = deck.Find("sol-15")
	assert.NoError(t, err)

	_, err = deck.Find("sol-16")
	assert.True(t, errors.Is(err, ErrCardNotFound))
}

func TestNewDeckDefaultShuffler(t *testing.T) {
	t.Parallel()

	deck, err := NewStandardDeck(nil)
	require.NoError(t, err)
	assert.NoError(t, deck.Validate())
}

// fixedShuffler always picks the same index, which makes the permutation
// predictable.
type fixedShuffler struct{}

func (fixedShuffler) IntN(n int) int { return n - 1 }

func TestShuffleIdentity(t *testing.T) {
	t.Parallel()

	// j == i on every step leaves the paired list untouched.
	deck, err := NewStandardDeck(fixedShuffler{})
	require.NoError(t, err)
	assert.Equal(t, "evaporacao-0", deck[0].UID)
	assert.Equal(t, "sol-15", deck[15].UID)
}

func TestDeckValidate(t *testing.T) {
	t.Parallel()

	sol, _ := StageByID("sol")
	a, _ := NewCard(sol, 0)
	b, _ := NewCard(sol, 1)

	assert.NoError(t, Deck{a, b}.Validate())
	assert.True(t, errors.Is(Deck{a}.Validate(), ErrInvalidDeck))
	assert.True(t, errors.Is(Deck{a, a}.Validate(), ErrInvalidDeck))
}
