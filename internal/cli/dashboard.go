package cli

import (
	"cmp"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/validate"
)

const chartWidth = 30

// DashboardStats summarises the clinic records.
type DashboardStats struct {
	TotalPatients    int            `json:"total_patients"`
	TotalDoctors     int            `json:"total_doctors"`
	AvailableDoctors int            `json:"available_doctors"`
	ActiveMappings   int            `json:"active_mappings"`
	BySpecialization map[string]int `json:"doctors_by_specialization"`
	ByBloodGroup     map[string]int `json:"patients_by_blood_group"`
	RecentPatients   []string       `json:"recent_patients"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

const recentPatients = 5

// BuildDashboard aggregates fetched records into dashboard figures.
func BuildDashboard(patients []clinicsdk.Patient, doctors []clinicsdk.Doctor, mappings []clinicsdk.Mapping, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalPatients:    len(patients),
		TotalDoctors:     len(doctors),
		BySpecialization: map[string]int{},
		ByBloodGroup:     map[string]int{},
		GeneratedAt:      now,
	}

	for _, d := range doctors {
		stats.BySpecialization[d.Specialization]++
		if d.IsAvailable {
			stats.AvailableDoctors++
		}
	}
	for _, p := range patients {
		if p.BloodGroup != "" {
			stats.ByBloodGroup[p.BloodGroup]++
		}
	}
	for _, m := range mappings {
		if m.IsActive {
			stats.ActiveMappings++
		}
	}

	recent := slices.Clone(patients)
	slices.SortFunc(recent, func(a, b clinicsdk.Patient) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	for _, p := range recent[:min(recentPatients, len(recent))] {
		stats.RecentPatients = append(stats.RecentPatients, p.Name)
	}
	return stats
}

// specializationBars orders bars by count, largest first.
func specializationBars(counts map[string]int) []output.Bar {
	bars := make([]output.Bar, 0, len(counts))
	for label, n := range counts {
		bars = append(bars, output.Bar{Label: label, Value: n})
	}
	slices.SortFunc(bars, func(a, b output.Bar) int {
		return cmp.Or(cmp.Compare(b.Value, a.Value), cmp.Compare(a.Label, b.Label))
	})
	return bars
}

// bloodGroupBars keeps the conventional blood group order.
func bloodGroupBars(counts map[string]int) []output.Bar {
	var bars []output.Bar
	for _, g := range validate.BloodGroups {
		if n := counts[g]; n > 0 {
			bars = append(bars, output.Bar{Label: g, Value: n})
		}
	}
	return bars
}

func (c *CLI) newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "dashboard",
		Short:       "Show clinic totals and charts",
		Annotations: route("/dashboard"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			var (
				patients []clinicsdk.Patient
				doctors  []clinicsdk.Doctor
				mappings []clinicsdk.Mapping
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				patients, err = c.client.ListPatients(ctx)
				return err
			})
			g.Go(func() (err error) {
				doctors, err = c.client.ListDoctors(ctx)
				return err
			})
			g.Go(func() (err error) {
				mappings, err = c.client.ListMappings(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			stats := BuildDashboard(patients, doctors, mappings, time.Now())
			if jsonOutput(cmd) {
				return c.writeJSON(stats)
			}

			if user, _ := c.client.CurrentUser(cmd.Context()); user != nil {
				c.printer.Print("Welcome back, %s", c.printer.Bold(user.Name))
			}

			c.printer.Header("Overview")
			c.printer.Field("Total patients", formatID(int64(stats.TotalPatients)))
			c.printer.Field("Total doctors", formatID(int64(stats.TotalDoctors)))
			c.printer.Field("Available doctors", formatID(int64(stats.AvailableDoctors)))
			c.printer.Field("Active assignments", formatID(int64(stats.ActiveMappings)))

			c.printer.Header("Doctors by Specialization")
			output.BarChart(c.printer.Out(), specializationBars(stats.BySpecialization), chartWidth)

			c.printer.Header("Patients by Blood Group")
			output.BarChart(c.printer.Out(), bloodGroupBars(stats.ByBloodGroup), chartWidth)

			if len(stats.RecentPatients) > 0 {
				c.printer.Header("Recent Patients")
				for _, name := range stats.RecentPatients {
					c.printer.Print("  %s  %s", c.printer.Dim(output.Initials(name)), name)
				}
			}
			return nil
		}),
	}
	addJSONFlag(cmd)
	return cmd
}
