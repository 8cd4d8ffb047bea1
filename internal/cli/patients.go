package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
)

func (c *CLI) newPatientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patients",
		Aliases: []string{"patient"},
		Short:   "Manage patients",
		Long: `List, view, create, update and delete patient records.

Examples:
  clinicctl patients list --search smith
  clinicctl patients get 3
  clinicctl patients create --name "Jane Doe" --email jane@example.com --blood-group O+
  clinicctl patients update 3 --phone +14155550100
  clinicctl patients delete 3 --yes`,
	}

	cmd.AddCommand(
		c.newPatientsListCmd(),
		c.newPatientsGetCmd(),
		c.newPatientsCreateCmd(),
		c.newPatientsUpdateCmd(),
		c.newPatientsDeleteCmd(),
	)
	return cmd
}

func (c *CLI) newPatientsListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List patients",
		Annotations: route("/patients"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			patients, err := c.client.ListPatients(cmd.Context())
			if err != nil {
				return err
			}

			filtered := make([]clinicsdk.Patient, 0, len(patients))
			for _, p := range patients {
				if matches(search, p.Name, p.Email, p.PhoneNumber) {
					filtered = append(filtered, p)
				}
			}

			if jsonOutput(cmd) {
				return c.writeJSON(filtered)
			}

			if len(filtered) == 0 {
				c.printer.Info("No patients found")
				return nil
			}

			c.printer.Header("Patients")
			table := output.NewTable(c.printer.Out(), []string{"ID", "NAME", "EMAIL", "PHONE", "BLOOD", "BORN", "ADDED"})
			now := time.Now()
			for _, p := range filtered {
				table.AddRow(
					formatID(p.ID),
					c.printer.Bold(p.Name),
					p.Email,
					orDash(output.FormatPhone(p.PhoneNumber)),
					orDash(p.BloodGroup),
					orDash(output.FormatDateString(p.DateOfBirth)),
					output.RelativeTime(p.CreatedAt, now),
				)
			}
			table.Render()
			c.printer.Print("%d patient(s)", table.Len())
			return nil
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name, email or phone")
	addJSONFlag(cmd)
	return cmd
}

func (c *CLI) newPatientsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "get <id>",
		Short:       "Show a patient and their assigned doctors",
		Annotations: route("/patients/detail"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}

			p, err := c.client.GetPatient(cmd.Context(), id)
			if err != nil {
				return err
			}

			doctors, err := c.client.ListPatientDoctors(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return c.writeJSON(struct {
					*clinicsdk.Patient
					Doctors []clinicsdk.Mapping `json:"doctors"`
				}{p, doctors})
			}

			c.printPatient(p)

			c.printer.Header("Assigned Doctors")
			if len(doctors) == 0 {
				c.printer.Print("  %s", c.printer.Dim("No doctors assigned"))
				return nil
			}
			table := output.NewTable(c.printer.Out(), []string{"MAPPING", "DOCTOR", "SPECIALIZATION", "STATUS", "ASSIGNED"})
			for _, m := range doctors {
				table.AddRow(
					formatID(m.ID),
					m.DoctorName,
					m.DoctorSpecialization,
					c.printer.StatusBadge(m.IsActive, "Active", "Inactive"),
					output.FormatDate(m.AssignedDate),
				)
			}
			table.Render()
			return nil
		}),
	}
	addJSONFlag(cmd)
	return cmd
}

func (c *CLI) printPatient(p *clinicsdk.Patient) {
	c.printer.Header(p.Name)
	c.printer.Field("ID", formatID(p.ID))
	c.printer.Field("Email", p.Email)
	c.printer.Field("Phone", output.FormatPhone(p.PhoneNumber))
	c.printer.Field("Date of birth", output.FormatDateString(p.DateOfBirth))
	c.printer.Field("Blood group", p.BloodGroup)
	c.printer.Field("Address", p.Address)
	c.printer.Field("Medical history", output.Truncate(p.MedicalHistory, output.DefaultTruncate))
	c.printer.Field("Added", output.FormatDate(p.CreatedAt))
	c.printer.Field("Updated", output.RelativeTime(p.UpdatedAt, time.Now()))
}

// patientFlags binds the editable patient fields.
type patientFlags struct {
	name, email, phone, address, dob, bloodGroup, history string
}

func (f *patientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number, e.g. +14155550100")
	cmd.Flags().StringVar(&f.address, "address", "", "postal address")
	cmd.Flags().StringVar(&f.dob, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.bloodGroup, "blood-group", "", "blood group (A+, A-, B+, B-, O+, O-, AB+, AB-)")
	cmd.Flags().StringVar(&f.history, "history", "", "medical history")
}

func (f *patientFlags) input() clinicsdk.PatientInput {
	return clinicsdk.PatientInput{
		Name:           f.name,
		Email:          f.email,
		PhoneNumber:    f.phone,
		Address:        f.address,
		DateOfBirth:    f.dob,
		BloodGroup:     f.bloodGroup,
		MedicalHistory: f.history,
	}
}

// patch includes only the flags given on the command line.
func (f *patientFlags) patch(cmd *cobra.Command) (clinicsdk.PatientPatch, bool) {
	var p clinicsdk.PatientPatch
	changed := false
	set := func(flag string, dst **string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = &v
			changed = true
		}
	}

	set("name", &p.Name, f.name)
	set("email", &p.Email, f.email)
	set("phone", &p.PhoneNumber, f.phone)
	set("address", &p.Address, f.address)
	set("dob", &p.DateOfBirth, f.dob)
	set("blood-group", &p.BloodGroup, f.bloodGroup)
	set("history", &p.MedicalHistory, f.history)
	return p, changed
}

func (c *CLI) newPatientsCreateCmd() *cobra.Command {
	var flags patientFlags

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Add a patient",
		Annotations: route("/patients/new"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			p, err := c.client.CreatePatient(cmd.Context(), flags.input())
			if err != nil {
				return err
			}
			c.printer.Success("Patient %s created (ID %d)", p.Name, p.ID)
			return nil
		}),
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) newPatientsUpdateCmd() *cobra.Command {
	var flags patientFlags

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Change the given fields of a patient",
		Annotations: route("/patients/edit"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}

			patch, changed := flags.patch(cmd)
			if !changed {
				return &output.CLIError{
					Summary:    "Nothing to update",
					Suggestion: "Pass at least one field flag, e.g. --phone",
					ExitCode:   output.ExitUsageError,
				}
			}

			p, err := c.client.PatchPatient(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			c.printer.Success("Patient %s updated", p.Name)
			return nil
		}),
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) newPatientsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "delete <id>",
		Aliases:     []string{"rm"},
		Short:       "Delete a patient and their assignments",
		Annotations: route("/patients"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}

			ok, err := c.confirm("Delete patient "+args[0]+"?", yes)
			if err != nil || !ok {
				return err
			}

			if err := c.client.DeletePatient(cmd.Context(), id); err != nil {
				return err
			}
			c.printer.Success("Patient %d deleted", id)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
