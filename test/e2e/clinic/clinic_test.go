//go:build e2e

package clinic_test

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/session"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL := setupContainer(t)
	root := strings.TrimSuffix(baseURL, "/api")

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(root + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

// TestSeededRecords verifies the seeded data is reachable through the SDK.
func TestSeededRecords(t *testing.T) {
	baseURL := setupContainer(t)
	c, _, nav := newClient(t, baseURL, clinicsdk.LoginRoute)
	loginAdmin(t, c, nav, "/dashboard")

	patients, err := c.ListPatients(t.Context())
	require.NoError(t, err)
	require.Len(t, patients, 4)

	doctors, err := c.ListDoctors(t.Context())
	require.NoError(t, err)
	require.Len(t, doctors, 4)

	mappings, err := c.ListMappings(t.Context())
	require.NoError(t, err)
	require.Len(t, mappings, 4)
	for _, m := range mappings {
		require.NotEmpty(t, m.PatientName)
		require.NotEmpty(t, m.DoctorName)
	}
}

// TestRecordLifecycle creates, updates and deletes one of each record type.
func TestRecordLifecycle(t *testing.T) {
	baseURL := setupContainer(t)
	c, _, nav := newClient(t, baseURL, clinicsdk.LoginRoute)
	loginAdmin(t, c, nav, "/patients")
	ctx := t.Context()

	p, err := c.CreatePatient(ctx, clinicsdk.PatientInput{
		Name: "Grace Hopper", Email: "grace@example.com", DateOfBirth: "1906-12-09", BloodGroup: "B+",
	})
	require.NoError(t, err)

	history := "Compiler fatigue"
	p, err = c.PatchPatient(ctx, p.ID, clinicsdk.PatientPatch{MedicalHistory: &history})
	require.NoError(t, err)
	require.Equal(t, history, p.MedicalHistory)
	require.Equal(t, "B+", p.BloodGroup)

	d, err := c.CreateDoctor(ctx, clinicsdk.DoctorInput{
		Name: "Dr. Alan Turing", Email: "alan@clinic.test", PhoneNumber: "+441234567890",
		Specialization: "Neurologist", Qualification: "PhD", ExperienceYears: 20,
		LicenseNumber: "MED-9000", ClinicAddress: "Bletchley Park", ConsultationFee: 300, IsAvailable: true,
	})
	require.NoError(t, err)

	m, err := c.CreateMapping(ctx, clinicsdk.MappingInput{Patient: p.ID, Doctor: d.ID, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", m.PatientName)
	require.Equal(t, "Neurologist", m.DoctorSpecialization)

	_, err = c.CreateMapping(ctx, clinicsdk.MappingInput{Patient: p.ID, Doctor: d.ID, IsActive: true})
	require.ErrorIs(t, err, clinicsdk.ErrClient)

	require.NoError(t, c.DeleteMapping(ctx, m.ID))
	require.NoError(t, c.DeleteDoctor(ctx, d.ID))
	require.NoError(t, c.DeletePatient(ctx, p.ID))

	_, err = c.GetPatient(ctx, p.ID)
	require.ErrorIs(t, err, clinicsdk.ErrNotFound)
	require.True(t, c.IsAuthenticated(ctx), "a 404 leaves the session alone")
}

// TestServerValidationErrors sends bodies the client would normally reject
// and checks the field-shaped errors come back intact.
func TestServerValidationErrors(t *testing.T) {
	baseURL := setupContainer(t)
	c, _, nav := newClient(t, baseURL, clinicsdk.LoginRoute)
	loginAdmin(t, c, nav, "/patients/new")

	_, err := c.Send(t.Context(), &clinicsdk.Request{
		Method: http.MethodPost,
		Path:   clinicsdk.PathPatients,
		Body:   map[string]any{"name": "X", "email": "nope"},
	})
	require.ErrorIs(t, err, clinicsdk.ErrValidation)

	var apiErr *clinicsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Name must be at least 2 characters", apiErr.FieldError("name"))
	require.Equal(t, "Invalid email address", apiErr.FieldError("email"))
}

// TestRejectedTokenLogsOut forges the stored access token and checks the
// next call tears the session down and navigates to login.
func TestRejectedTokenLogsOut(t *testing.T) {
	baseURL := setupContainer(t)
	c, st, nav := newClient(t, baseURL, clinicsdk.LoginRoute)
	loginAdmin(t, c, nav, "/patients")
	ctx := t.Context()

	user, err := st.User(ctx)
	require.NoError(t, err)
	require.NoError(t, st.SetSession(ctx, session.Session{AccessToken: "forged", RefreshToken: "r", User: user}))

	_, err = c.ListPatients(ctx)
	require.ErrorIs(t, err, clinicsdk.ErrUnauthorized)
	require.Equal(t, clinicsdk.NoticeSessionExpired, clinicsdk.Notice(err))

	assertSessionCleared(t, st)
	require.Equal(t, clinicsdk.LoginRoute, nav.Location())
}

// TestConcurrentUnauthorizedNavigatesOnce fires parallel requests with a
// forged token; every caller sees the 401 but login is visited once.
func TestConcurrentUnauthorizedNavigatesOnce(t *testing.T) {
	baseURL := setupContainer(t)
	c, st, nav := newClient(t, baseURL, clinicsdk.LoginRoute)
	loginAdmin(t, c, nav, "/dashboard")
	ctx := t.Context()

	user, err := st.User(ctx)
	require.NoError(t, err)
	require.NoError(t, st.SetSession(ctx, session.Session{AccessToken: "forged", RefreshToken: "r", User: user}))

	before := len(nav.History())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListDoctors(ctx)
			assert.ErrorIs(t, err, clinicsdk.ErrUnauthorized)
		}()
	}
	wg.Wait()

	history := nav.History()
	require.Len(t, history, before+1)
	require.Equal(t, clinicsdk.LoginRoute, history[len(history)-1])
	assertSessionCleared(t, st)
}

// TestStaffForbiddenKeepsSession checks a 403 is surfaced without logging
// the user out.
func TestStaffForbiddenKeepsSession(t *testing.T) {
	baseURL := setupContainer(t)
	c, _, nav := newClient(t, baseURL, clinicsdk.RegisterRoute)
	ctx := t.Context()

	_, err := c.Register(ctx, clinicsdk.RegisterRequest{
		Name: "Nurse Joy", Email: "joy@clinic.test", Password: "pokemon-center", Password2: "pokemon-center",
	})
	require.NoError(t, err)

	_, err = c.Login(ctx, clinicsdk.LoginRequest{Email: "joy@clinic.test", Password: "pokemon-center"})
	require.NoError(t, err)
	nav.Navigate("/doctors")

	err = c.DeleteDoctor(ctx, 1)
	require.ErrorIs(t, err, clinicsdk.ErrForbidden)
	require.Equal(t, clinicsdk.NoticeForbidden, clinicsdk.Notice(err))
	require.True(t, c.IsAuthenticated(ctx))
	require.Equal(t, "/doctors", nav.Location())
}

// TestLoginRateLimit uses the production limits: the sixth failed login
// within a minute is throttled.
func TestLoginRateLimit(t *testing.T) {
	baseURL := setupContainerWithDefaultRateLimits(t)
	c, _, _ := newClient(t, baseURL, clinicsdk.LoginRoute)

	var last error
	for range 6 {
		_, last = c.Login(t.Context(), clinicsdk.LoginRequest{Email: adminEmail, Password: "wrong-password"})
	}

	var apiErr *clinicsdk.APIError
	require.True(t, errors.As(last, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
