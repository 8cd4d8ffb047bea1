package clinicsdk_test

import (
	"testing"

	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/stretchr/testify/require"
)

func TestIsPublicRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		route string
		want  bool
	}{
		{"/login", true},
		{"/register", true},
		{"/login/", true},
		{"/login?next=/patients", true},
		{"/register/#form", true},
		{"/patients", false},
		{"/patients?search=login", false},
		{"/login/extra", false},
		{"/", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			require.Equal(t, tt.want, clinicsdk.IsPublicRoute(tt.route))
		})
	}
}

func TestRouterRecordsHistory(t *testing.T) {
	t.Parallel()

	r := clinicsdk.NewRouter("/patients")
	var moves [][2]string
	r.OnNavigate = func(from, to string) { moves = append(moves, [2]string{from, to}) }

	r.Navigate(clinicsdk.LoginRoute)

	require.Equal(t, clinicsdk.LoginRoute, r.Location())
	require.Equal(t, []string{clinicsdk.LoginRoute}, r.History())
	require.Equal(t, [][2]string{{"/patients", clinicsdk.LoginRoute}}, moves)
}
