package game

import "errors"

var (
	// ErrSessionClosed is returned by operations on a session that has been closed.
	ErrSessionClosed = errors.New("session closed")
)
