package app

import "errors"

var (
	// ErrUnknownRoom rejects a join that references a room outside the catalog.
	ErrUnknownRoom = errors.New("unknown room")
	// ErrNotFound means no active session exists for the connection.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidStatus means the status is outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNotJoinedToRoom rejects a call join from a connection without a session.
	ErrNotJoinedToRoom = errors.New("not joined to a room")
	// ErrNotInCall rejects a call-state update without a call record.
	ErrNotInCall = errors.New("not in call")
)
