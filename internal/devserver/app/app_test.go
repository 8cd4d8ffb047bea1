package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/clinic/internal/devserver/app"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
	"github.com/aussiebroadwan/clinic/pkg/validate"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@clinic.test"
	adminPassword = "admin-password"
)

func newServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()

	a, err := app.New(app.Config{
		Issuer:        "clinic-test",
		JWTSecret:     strings.Repeat("x", jwtx.MinSecretLen),
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		Seed:          seed,
		Env:           "test",
		LogOutput:     io.Discard,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server, nav clinicsdk.Navigator) *clinicsdk.Client {
	return clinicsdk.NewClient(srv.URL+"/api",
		clinicsdk.WithLogger(slogx.Discard()),
		clinicsdk.WithNavigator(nav),
	)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, false)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRegisterLoginAndCRUD(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, false)
	nav := clinicsdk.NewRouter(clinicsdk.LoginRoute)
	c := newClient(srv, nav)

	_, err := c.Register(ctx, clinicsdk.RegisterRequest{
		Name: "Nurse Joy", Email: "joy@clinic.test", Password: "pokemon-center", Password2: "pokemon-center",
	})
	require.NoError(t, err)

	u, err := c.Login(ctx, clinicsdk.LoginRequest{Email: "joy@clinic.test", Password: "pokemon-center"})
	require.NoError(t, err)
	require.Equal(t, "staff", u.Role)
	require.True(t, c.IsAuthenticated(ctx))
	nav.Navigate("/patients")

	p, err := c.CreatePatient(ctx, clinicsdk.PatientInput{
		Name: "Ash Ketchum", Email: "ash@example.com", PhoneNumber: "+14155550123", BloodGroup: "O+",
	})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	name := "Ash K."
	patched, err := c.PatchPatient(ctx, p.ID, clinicsdk.PatientPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ash K.", patched.Name)
	require.Equal(t, "O+", patched.BloodGroup)

	d, err := c.CreateDoctor(ctx, clinicsdk.DoctorInput{
		Name: "Dr. Oak", Email: "oak@clinic.test", PhoneNumber: "+14155550199",
		Specialization: "General Physician", Qualification: "PhD", ExperienceYears: 30,
		LicenseNumber: "OAK-1", ClinicAddress: "Pallet Town", ConsultationFee: 50, IsAvailable: true,
	})
	require.NoError(t, err)
	require.Equal(t, clinicsdk.Money(50), d.ConsultationFee)

	m, err := c.CreateMapping(ctx, clinicsdk.MappingInput{Patient: p.ID, Doctor: d.ID, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "Ash K.", m.PatientName)
	require.Equal(t, "General Physician", m.DoctorSpecialization)

	t.Run("duplicate mapping", func(t *testing.T) {
		_, err := c.CreateMapping(ctx, clinicsdk.MappingInput{Patient: p.ID, Doctor: d.ID})
		require.ErrorIs(t, err, clinicsdk.ErrClient)
		require.Contains(t, clinicsdk.Notice(err), "already assigned")
	})

	t.Run("mapping to missing doctor", func(t *testing.T) {
		_, err := c.CreateMapping(ctx, clinicsdk.MappingInput{Patient: p.ID, Doctor: 999})
		require.ErrorIs(t, err, clinicsdk.ErrValidation)

		var apiErr *clinicsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Contains(t, apiErr.FieldError("doctor"), "does not exist")
	})

	t.Run("patient doctors", func(t *testing.T) {
		got, err := c.ListPatientDoctors(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, d.ID, got[0].Doctor)
	})

	t.Run("staff cannot delete doctors", func(t *testing.T) {
		err := c.DeleteDoctor(ctx, d.ID)
		require.ErrorIs(t, err, clinicsdk.ErrForbidden)
		// A 403 leaves the session alone
		require.True(t, c.IsAuthenticated(ctx))
		require.Equal(t, "/patients", nav.Location())
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := c.GetPatient(ctx, 4242)
		require.ErrorIs(t, err, clinicsdk.ErrNotFound)
	})

	require.NoError(t, c.DeleteMapping(ctx, m.ID))
	require.NoError(t, c.DeletePatient(ctx, p.ID))

	patients, err := c.ListPatients(ctx)
	require.NoError(t, err)
	require.Empty(t, patients)
}

func TestAdminCanDeleteDoctor(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, true)
	c := newClient(srv, clinicsdk.NewRouter(clinicsdk.LoginRoute))

	u, err := c.Login(ctx, clinicsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	require.Equal(t, "admin", u.Role)

	doctors, err := c.ListDoctors(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, doctors)

	require.NoError(t, c.DeleteDoctor(ctx, doctors[0].ID))

	_, err = c.GetDoctor(ctx, doctors[0].ID)
	require.ErrorIs(t, err, clinicsdk.ErrNotFound)
}

func TestServerSideValidation(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, false)
	c := newClient(srv, clinicsdk.NewRouter(clinicsdk.LoginRoute))

	_, err := c.Login(ctx, clinicsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	// Bypass the client-side checks to reach the server's
	_, err = c.Send(ctx, &clinicsdk.Request{
		Method: http.MethodPost,
		Path:   clinicsdk.PathPatients,
		Body:   map[string]string{"name": "X", "email": "nope"},
	})
	require.ErrorIs(t, err, validate.ErrInvalid)

	var apiErr *clinicsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Name must be at least 2 characters", apiErr.FieldError("name"))
	require.Equal(t, "Invalid email address", apiErr.FieldError("email"))
}

func TestBadCredentials(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, false)
	nav := clinicsdk.NewRouter(clinicsdk.LoginRoute)
	c := newClient(srv, nav)

	_, err := c.Login(ctx, clinicsdk.LoginRequest{Email: adminEmail, Password: "wrong-password"})
	require.ErrorIs(t, err, clinicsdk.ErrUnauthorized)
	require.False(t, c.IsAuthenticated(ctx))

	// Already on the login page so nothing moves
	require.Empty(t, nav.History())
}

func TestExpiredTokenLogsOut(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, false)
	nav := clinicsdk.NewRouter(clinicsdk.LoginRoute)
	c := newClient(srv, nav)

	_, err := c.Login(ctx, clinicsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	nav.Navigate("/doctors")

	// Swap in a token the server did not issue
	u, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Sessions().Clear(ctx))
	require.NoError(t, c.Sessions().SetSession(ctx, sessionWithToken(u, "not-a-jwt")))

	_, err = c.ListDoctors(ctx)
	require.ErrorIs(t, err, clinicsdk.ErrUnauthorized)
	require.False(t, c.IsAuthenticated(ctx))
	require.Equal(t, clinicsdk.LoginRoute, nav.Location())
}
