package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/service"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/cryptox"
	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *jwtx.HS256, *store.Memory) {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte(strings.Repeat("s", jwtx.MinSecretLen)), "clinic-devserver")
	require.NoError(t, err)

	st := store.NewMemory()
	return &service.AuthService{
		Store:      st,
		Hasher:     cryptox.NewHasher("pepper"),
		Signer:     signer,
		Issuer:     "clinic-devserver",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, signer, st
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, verifier, st := newAuthService(t)

	u, err := svc.Register(ctx, " Ada Lovelace ", "Ada@Example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, domain.RoleStaff, u.Role)
	require.Equal(t, "ada@example.com", u.Email)
	require.NotContains(t, u.PasswordHash, "correct horse")

	pair, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, u.ID, pair.User.ID)

	claims, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, domain.RoleStaff, claims.Role)

	stored, err := st.RefreshTokens().GetRefreshToken(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ada again", "ADA@example.com", "password2")
	require.ErrorIs(t, err, service.ErrEmailTaken)
}
