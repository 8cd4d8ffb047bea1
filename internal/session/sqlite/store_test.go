package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/clinic/internal/session/sqlite"
	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "session.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sample() session.Session {
	return session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &session.User{ID: 7, Name: "Ada", Email: "ada@example.com", Role: "admin"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	tok, err := st.AccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, st.SetSession(ctx, sample()))

	tok, err = st.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "access", tok)

	ref, err := st.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "refresh", ref)

	u, err := st.User(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, "admin", u.Role)
}

func TestStoreRejectsIncompleteSession(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	err := st.SetSession(ctx, session.Session{AccessToken: "a", RefreshToken: "r"})
	require.ErrorIs(t, err, session.ErrIncompleteSession)

	tok, err := st.AccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	require.NoError(t, st.Clear(ctx))
	require.NoError(t, st.SetSession(ctx, sample()))
	require.NoError(t, st.Clear(ctx))
	require.NoError(t, st.Clear(ctx))

	u, err := st.User(ctx)
	require.NoError(t, err)
	require.Nil(t, u)
	require.False(t, session.IsAuthenticated(ctx, st))
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	st, err := sqlite.NewStore(path, "ward")
	require.NoError(t, err)
	require.NoError(t, st.SetSession(ctx, sample()))
	require.NoError(t, st.Close())

	reopened, err := sqlite.NewStore(path, "ward")
	require.NoError(t, err)
	defer reopened.Close()

	tok, err := reopened.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "access", tok)

	// A different namespace sees nothing
	other, err := sqlite.NewStore(path, "other")
	require.NoError(t, err)
	defer other.Close()

	tok, err = other.AccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%3 == 0 {
				assert.NoError(t, st.Clear(ctx))
				return
			}
			assert.NoError(t, st.SetSession(ctx, sample()))
		}(i)
	}
	wg.Wait()

	tok, err := st.AccessToken(ctx)
	require.NoError(t, err)
	u, err := st.User(ctx)
	require.NoError(t, err)
	require.Equal(t, tok == "", u == nil)
}
