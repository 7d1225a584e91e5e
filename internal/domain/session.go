// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"time"
)

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// ConnID is the transport-assigned identifier of one live connection.
type ConnID string

type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}

// Session is the server-side identity of one live connection. It is owned
// by the registry; rooms and call rosters reference it by ConnID only.
type Session struct {
	ID       ConnID    `json:"id"`
	Username string    `json:"username"`
	Room     RoomID    `json:"room"`
	Status   Status    `json:"status"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewSession is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewSession(id ConnID, username string, room RoomID, color string) (*Session, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	return &Session{
		ID:       id,
		Username: username,
		Room:     room,
		Status:   StatusOnline,
		Color:    color,
		JoinedAt: time.Now(),
	}, nil
}

func (s *Session) SetUsername(username string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	s.Username = username
	return nil
}

// ValidateUsername checks a display name before any state is touched, so a
// rejected join leaves no trace.
func ValidateUsername(username string) error {
	return validateUsername(username)
}

func validateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
