package service

import (
	"errors"
	"fmt"
)

// ErrGameEnded is returned when a game is operated on after it was ended
// or evicted. API layer should map this to HTTP 404 Not Found.
var ErrGameEnded = errors.New("game has ended")

// GameServiceError wraps errors from the game service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type GameServiceError struct {
	// Operation is the operation that failed (e.g., "new_game", "flip")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GameServiceError.
func (e *GameServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("game service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("game service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GameServiceError) Unwrap() error {
	return e.Err
}

// NewGameServiceError creates a new GameServiceError.
func NewGameServiceError(operation, message string, err error) *GameServiceError {
	return &GameServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
