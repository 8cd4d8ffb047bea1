/*
Package clinicsdk provides a client SDK for the clinic REST API.

# Overview

Every call goes through a single authenticated request pipeline, Client.Send.
Before a request leaves, the stored access token (if any) is attached as a
bearer credential. When the API answers 401 the stored session is cleared and
the user is sent to the login route. The failed call is returned to the
caller unchanged; it is never resent and no refresh exchange is attempted.

	store, _ := sqlite.NewStore("session.db", session.DefaultNamespace)
	router := clinicsdk.NewRouter("/dashboard")

	client := clinicsdk.NewClient("http://127.0.0.1:8000/api",
		clinicsdk.WithSessionStore(store),
		clinicsdk.WithNavigator(router),
	)

	user, err := client.Login(ctx, clinicsdk.LoginRequest{Email: email, Password: pw})

	patients, err := client.ListPatients(ctx)

# Errors

Failures are returned as *APIError with a Kind:

  - KindUnauthorized: 401, the session has already been torn down
  - KindForbidden: 403
  - KindNotFound: 404
  - KindServer: 5xx
  - KindNetwork: no response was received
  - KindValidation: 4xx with per-field messages in Fields
  - KindClient: any other 4xx

The sentinels ErrUnauthorized, ErrForbidden, ErrNotFound, ErrServer,
ErrNetwork and ErrValidation match with errors.Is. Create, update, register
and login validate their input first and return a *validate.ValidationError
without touching the network; it also matches ErrValidation.

APIError.Notice returns the message to show the user.

# Concurrency

A Client may be shared between goroutines. Concurrent 401s clear the session
at most once per request and produce a single navigation to the login route.
*/
package clinicsdk
