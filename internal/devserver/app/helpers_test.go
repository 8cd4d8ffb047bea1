package app_test

import "github.com/aussiebroadwan/clinic/pkg/session"

func sessionWithToken(u *session.User, token string) session.Session {
	return session.Session{AccessToken: token, RefreshToken: "r", User: u}
}
