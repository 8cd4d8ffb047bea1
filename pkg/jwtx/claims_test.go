package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewAccessClaims(42, "ada@example.com", "Ada", "admin", time.Hour, "clinic-devserver", now)

	require.Equal(t, "42", c.Subject)
	require.Equal(t, int64(42), c.UserID)
	require.Equal(t, "admin", c.Role)
	require.NotEmpty(t, c.ID)
	require.WithinDuration(t, now.Add(time.Hour), c.ExpiresAt.Time, time.Second)

	other := jwtx.NewAccessClaims(42, "ada@example.com", "Ada", "admin", time.Hour, "clinic-devserver", now)
	require.NotEqual(t, c.ID, other.ID)
}

func TestClaimsValidate(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	valid := jwtx.NewAccessClaims(7, "nurse@clinic.test", "Joy", "staff", 15*time.Minute, "clinic-devserver", now)

	tests := []struct {
		name    string
		mutate  func(c *jwtx.Claims)
		issuer  string
		leeway  time.Duration
		at      time.Time
		wantErr error
	}{
		{name: "valid", issuer: "clinic-devserver", at: now.Add(time.Minute)},
		{name: "any issuer when none expected", mutate: func(c *jwtx.Claims) { c.Issuer = "elsewhere" }, at: now},
		{name: "issuer mismatch", mutate: func(c *jwtx.Claims) { c.Issuer = "elsewhere" }, issuer: "clinic-devserver", at: now, wantErr: jwtx.ErrIssuer},
		{name: "expired", at: now.Add(16 * time.Minute), wantErr: jwtx.ErrExpired},
		{name: "expired within leeway", at: now.Add(15*time.Minute + 10*time.Second), leeway: 30 * time.Second},
		{name: "not yet valid", at: now.Add(-time.Minute), wantErr: jwtx.ErrNotYetValid},
		{name: "missing user", mutate: func(c *jwtx.Claims) { c.UserID = 0 }, at: now, wantErr: jwtx.ErrInvalidClaim},
		{name: "subject disagrees with user", mutate: func(c *jwtx.Claims) { c.Subject = "8" }, at: now, wantErr: jwtx.ErrInvalidClaim},
		{name: "no window", mutate: func(c *jwtx.Claims) { c.ExpiresAt, c.NotBefore = nil, nil }, at: now.Add(24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			c.RegisteredClaims = jwt.RegisteredClaims{
				Issuer:    valid.Issuer,
				Subject:   valid.Subject,
				ExpiresAt: valid.ExpiresAt,
				NotBefore: valid.NotBefore,
			}
			if tt.mutate != nil {
				tt.mutate(&c)
			}

			err := c.Validate(tt.issuer, tt.leeway, tt.at)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
