package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
)

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	patients := []clinicsdk.Patient{
		{ID: 1, Name: "Old", BloodGroup: "O+", CreatedAt: now.Add(-72 * time.Hour)},
		{ID: 2, Name: "Newest", BloodGroup: "A-", CreatedAt: now},
		{ID: 3, Name: "Middle", CreatedAt: now.Add(-time.Hour)},
	}
	doctors := []clinicsdk.Doctor{
		{ID: 1, Specialization: "Surgeon", IsAvailable: true},
		{ID: 2, Specialization: "Surgeon"},
		{ID: 3, Specialization: "Dentist", IsAvailable: true},
	}
	mappings := []clinicsdk.Mapping{
		{ID: 1, IsActive: true},
		{ID: 2},
	}

	stats := BuildDashboard(patients, doctors, mappings, now)

	require.Equal(t, 3, stats.TotalPatients)
	require.Equal(t, 3, stats.TotalDoctors)
	require.Equal(t, 2, stats.AvailableDoctors)
	require.Equal(t, 1, stats.ActiveMappings)
	require.Equal(t, map[string]int{"Surgeon": 2, "Dentist": 1}, stats.BySpecialization)
	require.Equal(t, map[string]int{"O+": 1, "A-": 1}, stats.ByBloodGroup)
	require.Equal(t, []string{"Newest", "Middle", "Old"}, stats.RecentPatients)
	require.Equal(t, now, stats.GeneratedAt)
}

func TestChartOrdering(t *testing.T) {
	bars := specializationBars(map[string]int{"Dentist": 1, "Surgeon": 3, "Cardiologist": 1})
	require.Equal(t, []output.Bar{
		{Label: "Surgeon", Value: 3},
		{Label: "Cardiologist", Value: 1},
		{Label: "Dentist", Value: 1},
	}, bars)

	groups := bloodGroupBars(map[string]int{"AB-": 2, "A+": 1, "O-": 0})
	require.Equal(t, []output.Bar{
		{Label: "A+", Value: 1},
		{Label: "AB-", Value: 2},
	}, groups)
}
