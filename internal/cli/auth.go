package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
)

func (c *CLI) newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in and store the session",
		Annotations: route(clinicsdk.LoginRoute),
		Long: `Log in with an email and password. The password is prompted for when
not given as a flag.

Examples:
  clinicctl login --email staff@clinic.local
  CLINIC_PASSWORD=... clinicctl login --email staff@clinic.local --password "$CLINIC_PASSWORD"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = c.promptLine("Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.promptSecret("Password"); err != nil {
					return err
				}
			}

			user, err := c.client.Login(cmd.Context(), clinicsdk.LoginRequest{
				Email:    email,
				Password: password,
			})
			if errors.Is(err, clinicsdk.ErrUnauthorized) {
				return &output.CLIError{
					Summary:  "Invalid email or password",
					Detail:   apiMessage(err),
					ExitCode: output.ExitAuthError,
					Err:      err,
				}
			}
			if err != nil {
				return err
			}

			c.printer.Success("Logged in as %s (%s)", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.quietNav = true
			if err := c.client.Logout(cmd.Context()); err != nil {
				return err
			}
			c.printer.Success("Logged out")
			return nil
		},
	}
}

func (c *CLI) newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create a staff account",
		Annotations: route(clinicsdk.RegisterRoute),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name == "" {
				if name, err = c.promptLine("Name"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = c.promptLine("Email"); err != nil {
					return err
				}
			}

			confirm := password
			if password == "" {
				if password, err = c.promptSecret("Password"); err != nil {
					return err
				}
				if confirm, err = c.promptSecret("Confirm password"); err != nil {
					return err
				}
			}

			resp, err := c.client.Register(cmd.Context(), clinicsdk.RegisterRequest{
				Name:      name,
				Email:     email,
				Password:  password,
				Password2: confirm,
			})
			if err != nil {
				return err
			}

			msg := resp.Message
			if msg == "" {
				msg = "Registration successful"
			}
			c.printer.Success("%s", msg)
			c.printer.Info("Log in with: clinicctl login --email %s", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted twice when empty)")
	return cmd
}

func (c *CLI) newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				return errNotLoggedIn
			}

			if jsonOutput(cmd) {
				return c.writeJSON(user)
			}

			c.printer.Header(user.Name)
			c.printer.Field("ID", formatID(user.ID))
			c.printer.Field("Email", user.Email)
			c.printer.Field("Role", output.Capitalize(user.Role))
			return nil
		},
	}
	addJSONFlag(cmd)
	return cmd
}

var errNotLoggedIn = &output.CLIError{
	Summary:    "Not logged in",
	Suggestion: "Run: clinicctl login",
	ExitCode:   output.ExitAuthError,
}

// requireSession fails fast when no session is stored.
func (c *CLI) requireSession(cmd *cobra.Command) error {
	if !c.client.IsAuthenticated(cmd.Context()) {
		return errNotLoggedIn
	}
	return nil
}

func apiMessage(err error) string {
	var apiErr *clinicsdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.printer.Out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
