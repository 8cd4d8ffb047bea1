package clinicsdk

import (
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    ErrorKind
		message string
		fields  map[string][]string
	}{
		{"detail", 404, `{"detail":"Not found."}`, KindNotFound, "Not found.", nil},
		{"error wins", 400, `{"error":"Bad things","detail":"ignored"}`, KindClient, "Bad things", nil},
		{"nested non field", 400, `{"details":{"non_field_errors":["Invalid credentials"]}}`, KindClient, "Invalid credentials", nil},
		{"top non field", 400, `{"non_field_errors":["Unable to log in"]}`, KindClient, "Unable to log in", nil},
		{"fields", 400, `{"name":["This field is required."],"phone_number":"Invalid"}`, KindValidation, "",
			map[string][]string{"name": {"This field is required."}, "phone_number": {"Invalid"}}},
		{"nested fields", 400, `{"error":"Registration failed","details":{"email":["taken"]}}`, KindValidation, "Registration failed",
			map[string][]string{"email": {"taken"}}},
		{"not json", 502, `<html>bad gateway</html>`, KindServer, "", nil},
		{"conflict", 409, `{"detail":"Already assigned"}`, KindClient, "Already assigned", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseErrorResponse(tt.status, []byte(tt.body))
			require.Equal(t, tt.kind, got.Kind)
			require.Equal(t, tt.message, got.Message)
			require.Equal(t, tt.fields, got.Fields)
		})
	}
}

func TestAPIErrorMatchesOnlyItsSentinel(t *testing.T) {
	t.Parallel()

	err := error(&APIError{Kind: KindForbidden, StatusCode: 403})
	require.True(t, errors.Is(err, ErrForbidden))
	require.False(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrUnauthorized))
	require.Equal(t, "clinicsdk: 403 Forbidden", err.Error())
}

func TestRetryTrackerForgetsOldIDs(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tr := newRetryTracker(time.Minute)
	tr.now = func() time.Time { return now }

	first := idx.NewAt(now)
	require.True(t, tr.mark(first))
	require.False(t, tr.mark(first))

	now = now.Add(2 * time.Minute)
	second := idx.NewAt(now)
	require.True(t, tr.mark(second))

	// first was pruned on the last mark, so it counts as new again
	require.True(t, tr.mark(first))
}

func TestRetryTrackerAgesByMarkTime(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tr := newRetryTracker(time.Minute)
	tr.now = func() time.Time { return now }

	// A caller-supplied ID can carry any timestamp; only when it was marked
	// counts.
	backdated := idx.NewAt(now.Add(-24 * time.Hour))
	require.True(t, tr.mark(backdated))
	require.True(t, tr.mark(idx.NewAt(now)))
	require.False(t, tr.mark(backdated))
}
