package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrStageNotFound is returned when a stage ID does not name one of the
	// fixed water cycle stages.
	ErrStageNotFound = errors.New("stage not found")

	// ErrCardNotFound is returned when a card instance ID is not part of a deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidDeck is returned when a deck does not hold exactly two
	// instances of every stage.
	ErrInvalidDeck = errors.New("invalid deck")
)
