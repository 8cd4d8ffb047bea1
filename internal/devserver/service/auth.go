package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/store"
	"github.com/aussiebroadwan/clinic/pkg/cryptox"
	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
)

type AuthService struct {
	Store      store.Store
	Hasher     *cryptox.Hasher
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks the password and issues an access token plus an opaque refresh
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.Hasher.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash unreadable", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user domain.User) (*domain.TokenPair, error) {
	now := s.now()

	access, err := s.Signer.Sign(jwtx.NewAccessClaims(
		user.ID, user.Email, user.Name, user.Role, s.AccessTTL, s.Issuer, now,
	))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := cryptox.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	err = s.Store.RefreshTokens().SaveRefreshToken(ctx, domain.RefreshToken{
		Fingerprint: refresh.Fingerprint,
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.RefreshTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh.Value, User: user}, nil
}

// Register creates a staff account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return s.CreateUser(ctx, name, email, password, domain.RoleStaff)
}

// CreateUser hashes password and stores a user with role.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, role string) (domain.User, error) {
	hash, err := s.Hasher.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.Store.Users().CreateUser(ctx, domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", slog.Int64("user_id", u.ID), slog.String("role", role))
	return u, nil
}
