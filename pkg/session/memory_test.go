package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/stretchr/testify/require"
)

func sampleSession(n int) session.Session {
	return session.Session{
		AccessToken:  fmt.Sprintf("access-%d", n),
		RefreshToken: fmt.Sprintf("refresh-%d", n),
		User:         &session.User{ID: int64(n), Name: "Dr Who", Email: "who@example.com"},
	}
}

func TestSlotsFor(t *testing.T) {
	t.Parallel()

	s := session.SlotsFor("")
	require.Equal(t, "healthcare_access_token", s.AccessToken)
	require.Equal(t, "healthcare_refresh_token", s.RefreshToken)
	require.Equal(t, "healthcare_user", s.User)

	require.Equal(t, "ward_user", session.SlotsFor("ward").User)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty store reads as absent", func(t *testing.T) {
		st := session.NewMemoryStore("")

		tok, err := st.AccessToken(ctx)
		require.NoError(t, err)
		require.Empty(t, tok)

		u, err := st.User(ctx)
		require.NoError(t, err)
		require.Nil(t, u)
		require.False(t, session.IsAuthenticated(ctx, st))
	})

	t.Run("set then read", func(t *testing.T) {
		st := session.NewMemoryStore("")
		require.NoError(t, st.SetSession(ctx, sampleSession(1)))

		tok, _ := st.AccessToken(ctx)
		require.Equal(t, "access-1", tok)
		ref, _ := st.RefreshToken(ctx)
		require.Equal(t, "refresh-1", ref)
		u, err := st.User(ctx)
		require.NoError(t, err)
		require.Equal(t, "who@example.com", u.Email)
		require.True(t, session.IsAuthenticated(ctx, st))

		raw, ok := st.Raw("healthcare_user")
		require.True(t, ok)
		require.JSONEq(t, `{"id":1,"name":"Dr Who","email":"who@example.com"}`, raw)
	})

	t.Run("incomplete sessions are rejected", func(t *testing.T) {
		st := session.NewMemoryStore("")

		cases := []session.Session{
			{AccessToken: "a", RefreshToken: "r"},
			{AccessToken: "a", User: &session.User{ID: 1}},
			{RefreshToken: "r", User: &session.User{ID: 1}},
		}
		for _, c := range cases {
			require.ErrorIs(t, st.SetSession(ctx, c), session.ErrIncompleteSession)
		}

		tok, _ := st.AccessToken(ctx)
		require.Empty(t, tok)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		st := session.NewMemoryStore("")
		require.NoError(t, st.SetSession(ctx, sampleSession(2)))

		require.NoError(t, st.Clear(ctx))
		require.NoError(t, st.Clear(ctx))

		for _, slot := range st.Slots().All() {
			_, ok := st.Raw(slot)
			require.False(t, ok, slot)
		}
	})
}

func TestMemoryStoreConcurrentWritesNeverTear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := session.NewMemoryStore("")

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = st.SetSession(ctx, sampleSession(n))
			if n%7 == 0 {
				_ = st.Clear(ctx)
			}
		}(i)
	}
	wg.Wait()

	tok, _ := st.AccessToken(ctx)
	u, _ := st.User(ctx)
	if tok == "" {
		require.Nil(t, u)
		return
	}
	require.NotNil(t, u)
}

func TestDecodeUserRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := session.DecodeUser("{not json")
	require.ErrorIs(t, err, session.ErrCorruptUser)
}
