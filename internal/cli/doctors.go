package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
)

func (c *CLI) newDoctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctors",
		Aliases: []string{"doctor"},
		Short:   "Manage doctors",
		Long: `List, view, create, update and delete doctors.

Specializations: ` + strings.Join(clinicsdk.Specializations, ", ") + `

Examples:
  clinicctl doctors list --specialization Cardiologist --available
  clinicctl doctors update 2 --fee 650 --unavailable
  clinicctl doctors delete 2 --yes      # admin only`,
	}

	cmd.AddCommand(
		c.newDoctorsListCmd(),
		c.newDoctorsGetCmd(),
		c.newDoctorsCreateCmd(),
		c.newDoctorsUpdateCmd(),
		c.newDoctorsDeleteCmd(),
	)
	return cmd
}

func (c *CLI) newDoctorsListCmd() *cobra.Command {
	var (
		search         string
		specialization string
		availableOnly  bool
	)

	cmd := &cobra.Command{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List doctors",
		Annotations: route("/doctors"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			doctors, err := c.client.ListDoctors(cmd.Context())
			if err != nil {
				return err
			}

			filtered := make([]clinicsdk.Doctor, 0, len(doctors))
			for _, d := range doctors {
				if specialization != "" && !strings.EqualFold(d.Specialization, specialization) {
					continue
				}
				if availableOnly && !d.IsAvailable {
					continue
				}
				if matches(search, d.Name, d.Email, d.Specialization, d.LicenseNumber) {
					filtered = append(filtered, d)
				}
			}

			if jsonOutput(cmd) {
				return c.writeJSON(filtered)
			}

			if len(filtered) == 0 {
				c.printer.Info("No doctors found")
				return nil
			}

			c.printer.Header("Doctors")
			table := output.NewTable(c.printer.Out(), []string{"ID", "NAME", "SPECIALIZATION", "EXPERIENCE", "FEE", "STATUS"})
			for _, d := range filtered {
				table.AddRow(
					formatID(d.ID),
					c.printer.Bold(d.Name),
					d.Specialization,
					strconv.Itoa(d.ExperienceYears)+" yrs",
					output.FormatCurrency(float64(d.ConsultationFee)),
					c.printer.StatusBadge(d.IsAvailable, "Available", "Unavailable"),
				)
			}
			table.Render()
			c.printer.Print("%d doctor(s)", table.Len())
			return nil
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name, email, specialization or license")
	cmd.Flags().StringVar(&specialization, "specialization", "", "only this specialization")
	cmd.Flags().BoolVar(&availableOnly, "available", false, "only available doctors")
	addJSONFlag(cmd)
	return cmd
}

func (c *CLI) newDoctorsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "get <id>",
		Short:       "Show a doctor",
		Annotations: route("/doctors/detail"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("doctor", args[0])
			if err != nil {
				return err
			}

			d, err := c.client.GetDoctor(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return c.writeJSON(d)
			}

			c.printer.Header("Dr. " + d.Name)
			c.printer.Field("ID", formatID(d.ID))
			c.printer.Field("Initials", output.Initials(d.Name))
			c.printer.Field("Specialization", d.Specialization)
			c.printer.Field("Qualification", d.Qualification)
			c.printer.Field("Experience", strconv.Itoa(d.ExperienceYears)+" years")
			c.printer.Field("License", d.LicenseNumber)
			c.printer.Field("Email", d.Email)
			c.printer.Field("Phone", output.FormatPhone(d.PhoneNumber))
			c.printer.Field("Clinic", d.ClinicAddress)
			c.printer.Field("Fee", output.FormatCurrency(float64(d.ConsultationFee)))
			c.printer.Field("Status", c.printer.StatusBadge(d.IsAvailable, "Available", "Unavailable"))
			c.printer.Field("Added", output.FormatDate(d.CreatedAt))
			return nil
		}),
	}
	addJSONFlag(cmd)
	return cmd
}

// doctorFlags binds the editable doctor fields.
type doctorFlags struct {
	name, email, phone, specialization, qualification, license, address string

	experience  int
	fee         float64
	unavailable bool
}

func (f *doctorFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number, e.g. +14155550100")
	cmd.Flags().StringVar(&f.specialization, "specialization", "", "specialization")
	cmd.Flags().StringVar(&f.qualification, "qualification", "", "qualification, e.g. MBBS, MD")
	cmd.Flags().StringVar(&f.license, "license", "", "license number")
	cmd.Flags().StringVar(&f.address, "clinic-address", "", "clinic address")
	cmd.Flags().IntVar(&f.experience, "experience", 0, "years of experience")
	cmd.Flags().Float64Var(&f.fee, "fee", 0, "consultation fee")
	cmd.Flags().BoolVar(&f.unavailable, "unavailable", false, "mark as not available")
}

func (f *doctorFlags) input() clinicsdk.DoctorInput {
	return clinicsdk.DoctorInput{
		Name:            f.name,
		Email:           f.email,
		PhoneNumber:     f.phone,
		Specialization:  f.specialization,
		Qualification:   f.qualification,
		ExperienceYears: f.experience,
		LicenseNumber:   f.license,
		ClinicAddress:   f.address,
		ConsultationFee: f.fee,
		IsAvailable:     !f.unavailable,
	}
}

// overlay copies the flags given on the command line onto in.
func (f *doctorFlags) overlay(cmd *cobra.Command, in *clinicsdk.DoctorInput) bool {
	changed := false
	str := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
			changed = true
		}
	}

	str("name", &in.Name, f.name)
	str("email", &in.Email, f.email)
	str("phone", &in.PhoneNumber, f.phone)
	str("specialization", &in.Specialization, f.specialization)
	str("qualification", &in.Qualification, f.qualification)
	str("license", &in.LicenseNumber, f.license)
	str("clinic-address", &in.ClinicAddress, f.address)

	if cmd.Flags().Changed("experience") {
		in.ExperienceYears = f.experience
		changed = true
	}
	if cmd.Flags().Changed("fee") {
		in.ConsultationFee = f.fee
		changed = true
	}
	if cmd.Flags().Changed("unavailable") {
		in.IsAvailable = !f.unavailable
		changed = true
	}
	if cmd.Flags().Changed("available") {
		in.IsAvailable = true
		changed = true
	}
	return changed
}

func doctorInputFrom(d *clinicsdk.Doctor) clinicsdk.DoctorInput {
	return clinicsdk.DoctorInput{
		Name:            d.Name,
		Email:           d.Email,
		PhoneNumber:     d.PhoneNumber,
		Specialization:  d.Specialization,
		Qualification:   d.Qualification,
		ExperienceYears: d.ExperienceYears,
		LicenseNumber:   d.LicenseNumber,
		ClinicAddress:   d.ClinicAddress,
		ConsultationFee: float64(d.ConsultationFee),
		IsAvailable:     d.IsAvailable,
	}
}

func (c *CLI) newDoctorsCreateCmd() *cobra.Command {
	var flags doctorFlags

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Add a doctor",
		Annotations: route("/doctors/new"),
		Args:        cobra.NoArgs,
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			d, err := c.client.CreateDoctor(cmd.Context(), flags.input())
			if err != nil {
				return err
			}
			c.printer.Success("Doctor %s created (ID %d)", d.Name, d.ID)
			return nil
		}),
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) newDoctorsUpdateCmd() *cobra.Command {
	var flags doctorFlags

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Change the given fields of a doctor",
		Annotations: route("/doctors/edit"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("doctor", args[0])
			if err != nil {
				return err
			}

			current, err := c.client.GetDoctor(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := doctorInputFrom(current)
			if !flags.overlay(cmd, &in) {
				return &output.CLIError{
					Summary:    "Nothing to update",
					Suggestion: "Pass at least one field flag, e.g. --fee",
					ExitCode:   output.ExitUsageError,
				}
			}

			d, err := c.client.UpdateDoctor(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			c.printer.Success("Doctor %s updated", d.Name)
			return nil
		}),
	}
	flags.bind(cmd)
	cmd.Flags().Bool("available", false, "mark as available")
	cmd.MarkFlagsMutuallyExclusive("available", "unavailable")
	return cmd
}

func (c *CLI) newDoctorsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "delete <id>",
		Aliases:     []string{"rm"},
		Short:       "Delete a doctor (admin only)",
		Annotations: route("/doctors"),
		Args:        cobra.ExactArgs(1),
		RunE: c.authed(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("doctor", args[0])
			if err != nil {
				return err
			}

			ok, err := c.confirm("Delete doctor "+args[0]+"?", yes)
			if err != nil || !ok {
				return err
			}

			if err := c.client.DeleteDoctor(cmd.Context(), id); err != nil {
				return err
			}
			c.printer.Success("Doctor %d deleted", id)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
