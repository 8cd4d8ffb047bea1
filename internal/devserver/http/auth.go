package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/service"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/httpx"
	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
)

const (
	detailBadCredentials = "No active account found with the given credentials"
	msgEmailTaken        = "user with this email already exists."
	msgRegistered        = "User registered successfully"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

func sessionUser(u domain.User) *session.User {
	return &session.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// HandleLogin handles POST /api/auth/login/
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req clinicsdk.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			slogx.FromContext(r.Context()).Info("login rejected", "email", req.Email)
			httpx.WriteDetail(w, http.StatusUnauthorized, detailBadCredentials)
			return
		}
		writeServerError(w, r, "login failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clinicsdk.LoginResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
		User:    sessionUser(pair.User),
	})
}

// HandleRegister handles POST /api/auth/register/
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req clinicsdk.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeFieldError(w, "email", msgEmailTaken)
			return
		}
		writeServerError(w, r, "register failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, clinicsdk.RegisterResponse{
		Message: msgRegistered,
		User:    sessionUser(u),
	})
}
