package domain

import (
	"errors"
	"fmt"
)

// Card-specific validation errors
var (
	// ErrCardUIDEmpty is returned when a card's instance ID is empty.
	ErrCardUIDEmpty = errors.New("card instance ID cannot be empty")

	// ErrCardStageEmpty is returned when a card does not reference a stage.
	ErrCardStageEmpty = errors.New("card stage cannot be empty")
)

// Card is one physical instance of a Stage within a deck. Every stage has
// exactly two cards; UID tells the two copies apart.
type Card struct {
	UID      string `json:"uid"`
	Stage    Stage  `json:"stage"`
	Position int    `json:"position"`
}

// NewCard creates the card instance of a stage with the given pre-shuffle
// index. The instance ID has the form "<stage-id>-<index>".
func NewCard(stage Stage, index int) (*Card, error) {
	card := &Card{
		UID:   fmt.Sprintf("%s-%d", stage.ID, index),
		Stage: stage,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.UID == "" {
		return ErrCardUIDEmpty
	}

	if c.Stage.ID == "" {
		return ErrCardStageEmpty
	}

	return nil
}

// StageID returns the ID of the stage the card was derived from.
func (c *Card) StageID() string {
	return c.Stage.ID
}

// SameCard reports whether a and b are the same physical card.
func SameCard(a, b *Card) bool {
	return a.UID == b.UID
}

// Pairs reports whether a and b form a pair: same stage, distinct instances.
// A card never pairs with itself.
func Pairs(a, b *Card) bool {
	return a.StageID() == b.StageID() && !SameCard(a, b)
}
