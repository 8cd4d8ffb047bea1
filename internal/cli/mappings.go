package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
)

func (c *CLI) newMappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mappings",
		Aliases: []string{"mapping", "assignments"},
		Short:   "Assign doctors to patients",
		Long: `List, create and remove patient-doctor assignments.

Examples:
  clinicctl mappings list --active
  clinicctl mappings patient 3
  clinicctl mappings assign --patient 3 --doctor 2 --notes "Follow-up in 2 weeks"
  clinicctl mappings remove 7 --yes`,
	}

	cmd.AddCommand(
		c.newMappingsListCmd(),
		c.newMappingsPatientCmd(),
		c.newMappingsAssignCmd(),
		c.newMappingsRemoveCmd(),
	)
	return cmd
}

func (c *CLI) newMappingsListCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List all assignments",
		Annotations: route("/mappings"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			mappings, err := c.client.ListMappings(cmd.Context())
			if err != nil {
				return err
			}

			filtered := make([]clinicsdk.Mapping, 0, len(mappings))
			for _, m := range mappings {
				if !activeOnly || m.IsActive {
					filtered = append(filtered, m)
				}
			}

			if jsonOutput(cmd) {
				return c.writeJSON(filtered)
			}
			if len(filtered) == 0 {
				c.printer.Info("No assignments found")
				return nil
			}

			c.printer.Header("Assignments")
			c.renderMappings(filtered)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active assignments")
	addJSONFlag(cmd)
	return cmd
}

func (c *CLI) newMappingsPatientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "patient <patient-id>",
		Short:       "List the doctors assigned to a patient",
		Annotations: route("/mappings"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}

			mappings, err := c.client.ListPatientDoctors(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return c.writeJSON(mappings)
			}
			if len(mappings) == 0 {
				c.printer.Info("No doctors assigned to patient %d", id)
				return nil
			}

			c.printer.Header("Doctors for " + mappings[0].PatientName)
			c.renderMappings(mappings)
			return nil
		}),
	}
	addJSONFlag(cmd)
	return cmd
}

func (c *CLI) renderMappings(mappings []clinicsdk.Mapping) {
	table := output.NewTable(c.printer.Out(), []string{"ID", "PATIENT", "DOCTOR", "SPECIALIZATION", "STATUS", "ASSIGNED", "NOTES"})
	for _, m := range mappings {
		table.AddRow(
			formatID(m.ID),
			m.PatientName,
			m.DoctorName,
			m.DoctorSpecialization,
			c.printer.StatusBadge(m.IsActive, "Active", "Inactive"),
			output.FormatDate(m.AssignedDate),
			orDash(output.Truncate(m.Notes, output.DefaultTruncate)),
		)
	}
	table.Render()
}

func (c *CLI) newMappingsAssignCmd() *cobra.Command {
	var (
		patientID, doctorID int64
		notes               string
		inactive            bool
	)

	cmd := &cobra.Command{
		Use:         "assign",
		Short:       "Assign a doctor to a patient",
		Annotations: route("/mappings/new"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			m, err := c.client.CreateMapping(cmd.Context(), clinicsdk.MappingInput{
				Patient:  patientID,
				Doctor:   doctorID,
				Notes:    notes,
				IsActive: !inactive,
			})
			if err != nil {
				return err
			}
			c.printer.Success("Assigned %s to %s (mapping %d)", m.DoctorName, m.PatientName, m.ID)
			return nil
		}),
	}

	cmd.Flags().Int64Var(&patientID, "patient", 0, "patient ID")
	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "doctor ID")
	cmd.Flags().StringVar(&notes, "notes", "", "assignment notes")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the assignment as inactive")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("doctor")
	return cmd
}

func (c *CLI) newMappingsRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "remove <mapping-id>",
		Aliases:     []string{"rm", "delete"},
		Short:       "Remove an assignment",
		Annotations: route("/mappings"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("mapping", args[0])
			if err != nil {
				return err
			}

			ok, err := c.confirm("Remove assignment "+args[0]+"?", yes)
			if err != nil || !ok {
				return err
			}

			if err := c.client.DeleteMapping(cmd.Context(), id); err != nil {
				return err
			}
			c.printer.Success("Assignment %d removed", id)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
