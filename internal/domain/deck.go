package domain

import (
	"fmt"
	"math/rand/v2"
)

// Shuffler is the source of randomness for deck shuffling.
// *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

type globalShuffler struct{}

func (globalShuffler) IntN(n int) int { return rand.IntN(n) }

// DefaultShuffler uses the process-wide generator.
var DefaultShuffler Shuffler = globalShuffler{}

// Deck is the ordered sequence of cards a session plays with.
type Deck []*Card

// NewDeck duplicates every stage into a pair, tags each instance with its
// index in the paired list and shuffles the result with Fisher-Yates.
// Positions reflect the shuffled order.
func NewDeck(stageList []Stage, shuffler Shuffler) (Deck, error) {
	if shuffler == nil {
		shuffler = DefaultShuffler
	}

	deck := make(Deck, 0, len(stageList)*2)
	for _, s := range stageList {
		for copyIdx := 0; copyIdx < 2; copyIdx++ {
			card, err := NewCard(s, len(deck))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			deck = append(deck, card)
		}
	}

	shuffle(deck, shuffler)

	for i, card := range deck {
		card.Position = i
	}

	return deck, nil
}

// NewStandardDeck builds a deck from the fixed lesson stages.
func NewStandardDeck(shuffler Shuffler) (Deck, error) {
	return NewDeck(stages, shuffler)
}

func shuffle(deck Deck, shuffler Shuffler) {
	for i := len(deck) - 1; i > 0; i-- {
		j := shuffler.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Find returns the index of the card with the given instance ID.
func (d Deck) Find(uid string) (int, error) {
	for i, card := range d {
		if card.UID == uid {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrCardNotFound, uid)
}

// Validate checks that every stage present has exactly two distinct
// instances and that instance IDs are unique.
func (d Deck) Validate() error {
	perStage := make(map[string]int)
	seen := make(map[string]bool, len(d))

	for _, card := range d {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
		}
		if seen[card.UID] {
			return fmt.Errorf("%w: duplicate card %q", ErrInvalidDeck, card.UID)
		}
		seen[card.UID] = true
		perStage[card.StageID()]++
	}

	for stageID, n := range perStage {
		if n != 2 {
			return fmt.Errorf("%w: stage %q has %d cards", ErrInvalidDeck, stageID, n)
		}
	}

	return nil
}

// PairCount returns the number of pairs in the deck.
func (d Deck) PairCount() int {
	return len(d) / 2
}
