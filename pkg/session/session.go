// Package session holds the credentials of the logged-in console user: the
// access/refresh token pair and a denormalised copy of the user record.
//
// A session is all-or-nothing. Stores never expose a token pair without a
// user (or the reverse); SetSession rejects anything incomplete and Clear
// removes every slot.
package session

import (
	"context"
	"errors"
)

// DefaultNamespace prefixes every slot name unless a store is configured
// otherwise.
const DefaultNamespace = "healthcare"

var (
	ErrIncompleteSession = errors.New("session: token pair and user must be set together")
	ErrCorruptUser       = errors.New("session: stored user is not valid JSON")
)

// User is the cached copy of the authenticated staff member.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the unit written by login and removed by logout or a 401.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Validate reports ErrIncompleteSession when any half of the session is
// missing.
func (s Session) Validate() error {
	if s.AccessToken == "" || s.RefreshToken == "" || s.User == nil {
		return ErrIncompleteSession
	}
	return nil
}

// Store is the durable client-side credential store. Implementations must be
// safe for concurrent use; concurrent writes are last-write-wins.
type Store interface {
	// SetSession overwrites all three slots atomically.
	SetSession(ctx context.Context, s Session) error

	// AccessToken returns "" when no session exists.
	AccessToken(ctx context.Context) (string, error)

	// RefreshToken returns "" when no session exists.
	RefreshToken(ctx context.Context) (string, error)

	// User returns nil when no session exists.
	User(ctx context.Context) (*User, error)

	// Clear removes all three slots. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Slots names the three storage slots under a namespace.
type Slots struct {
	AccessToken  string
	RefreshToken string
	User         string
}

// SlotsFor returns the slot names for ns, falling back to DefaultNamespace.
func SlotsFor(ns string) Slots {
	if ns == "" {
		ns = DefaultNamespace
	}
	return Slots{
		AccessToken:  ns + "_access_token",
		RefreshToken: ns + "_refresh_token",
		User:         ns + "_user",
	}
}

// All returns the slot names in a stable order.
func (s Slots) All() []string {
	return []string{s.AccessToken, s.RefreshToken, s.User}
}

// IsAuthenticated reports whether st currently holds an access token.
func IsAuthenticated(ctx context.Context, st Store) bool {
	tok, err := st.AccessToken(ctx)
	return err == nil && tok != ""
}
