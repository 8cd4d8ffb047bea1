package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	require.Len(t, a.Value, 43, "32 bytes base64url")
	require.Equal(t, FingerprintToken(a.Value), a.Fingerprint)
	require.NotEqual(t, a.Value, a.Fingerprint)

	b, err := NewOpaqueToken()
	require.NoError(t, err)
	require.NotEqual(t, a.Value, b.Value)
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(24)
	require.NoError(t, err)
	require.Len(t, s, 32)

	for _, n := range []int{0, -1} {
		s, err := RandomString(n)
		require.Error(t, err)
		require.Empty(t, s)
	}
}

func TestFingerprintToken(t *testing.T) {
	require.Equal(t, FingerprintToken("refresh-1"), FingerprintToken("refresh-1"))
	require.NotEqual(t, FingerprintToken("refresh-1"), FingerprintToken("refresh-2"))
	require.Len(t, FingerprintToken("refresh-1"), 43)
}
