package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 32

// OpaqueToken is a bearer value handed to a client together with the
// fingerprint the server stores in its place.
type OpaqueToken struct {
	Value       string
	Fingerprint string
}

// NewOpaqueToken returns a random 256-bit token and its fingerprint.
func NewOpaqueToken() (OpaqueToken, error) {
	v, err := RandomString(refreshTokenBytes)
	if err != nil {
		return OpaqueToken{}, err
	}
	return OpaqueToken{Value: v, Fingerprint: FingerprintToken(v)}, nil
}

// RandomString returns n random bytes, base64url-encoded without padding.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: random length must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the SHA-256 of token, base64url-encoded. Stored tokens
// are looked up by fingerprint.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
