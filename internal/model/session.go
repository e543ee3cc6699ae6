package model

import "github.com/google/uuid"

// Session identifies the caller for the duration of one request. It is
// resolved by the identity middleware from headers set by the upstream
// identity gate: authenticated traffic carries a user id, everything
// else gets a guest session id.
type Session struct {
	UserID  *uuid.UUID
	GuestID string

	// Optional profile fields forwarded by the identity gate, used to
	// prefill checkout shipping details.
	Name  string
	Email string
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.UserID != nil
}

// Key returns the stable key identifying this session's cart.
func (s Session) Key() string {
	if s.UserID != nil {
		return "user:" + s.UserID.String()
	}
	return "guest:" + s.GuestID
}
