package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // argon2 encoded
	Role         string
	CreatedAt    time.Time
}

// RefreshToken is an issued refresh token. Only the fingerprint is kept.
type RefreshToken struct {
	Fingerprint string
	UserID      int64
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         User
}
