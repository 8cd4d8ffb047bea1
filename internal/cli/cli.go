// Package cli contains all commands of clinicctl, the terminal console for the
// clinic API.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
	"github.com/aussiebroadwan/clinic/internal/config"
	"github.com/aussiebroadwan/clinic/internal/session/sqlite"
	"github.com/aussiebroadwan/clinic/pkg/clinicsdk"
	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
)

// routeAnnotation names the console page a command stands for. Commands
// without one are treated as the home route.
const routeAnnotation = "route"

const homeRoute = "/"

// CLI holds the state shared by every command of one invocation.
type CLI struct {
	Root *cobra.Command

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgFile   string
	verbose   bool
	colorMode string

	cfg      *config.Config
	logger   *slog.Logger
	printer  *output.Printer
	sessions session.Store
	nav      *clinicsdk.Router
	client   *clinicsdk.Client

	closeSessions func() error

	// quietNav suppresses the expiry notice for a deliberate logout.
	quietNav bool
	reader   *bufio.Reader
}

// New builds the command tree reading from in and writing to out and errOut.
func New(in io.Reader, out, errOut io.Writer) *CLI {
	c := &CLI{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "clinicctl",
		Short: "Clinic management console",
		Long: `clinicctl is a terminal console for the clinic API.

Staff log in once; the session is kept locally until logout or until the
server rejects it.

Example usage:
  clinicctl login                       # Log in and store the session
  clinicctl patients list               # List patients
  clinicctl doctors create --help       # Add a doctor
  clinicctl mappings assign --patient 1 --doctor 2
  clinicctl dashboard                   # Totals and charts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is .clinicctl.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&c.colorMode, "color", "auto", "color output: auto, always, never")

	root.AddCommand(
		c.newLoginCmd(),
		c.newLogoutCmd(),
		c.newRegisterCmd(),
		c.newWhoamiCmd(),
		c.newPatientsCmd(),
		c.newDoctorsCmd(),
		c.newMappingsCmd(),
		c.newDashboardCmd(),
		newVersionCmd(),
	)

	c.Root = root
	return c
}

// Run executes args and returns the process exit code.
func (c *CLI) Run(args []string) int {
	c.Root.SetArgs(args)
	err := c.Root.Execute()

	if c.closeSessions != nil {
		if cerr := c.closeSessions(); cerr != nil && c.logger != nil {
			c.logger.Warn("closing session store", "error", cerr)
		}
	}

	if err == nil {
		return output.ExitSuccess
	}

	printer := c.printer
	if printer == nil {
		printer = output.NewPrinter(c.out, c.errOut, false)
	}

	cliErr := toCLIError(err)
	printer.FormatError(cliErr)
	return cliErr.ExitCode
}

// setup loads configuration and wires the session store, navigator and API
// client for the command about to run.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "Could not load configuration",
			Detail:     err.Error(),
			Suggestion: "Check .clinicctl.yaml and CLINIC_* environment variables",
			ExitCode:   output.ExitConfigErr,
			Err:        err,
		}
	}
	c.cfg = cfg

	mode, err := output.ParseColorMode(c.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}
	c.printer = output.NewPrinter(c.out, c.errOut, output.ResolveColors(mode, cfg.Output.Colors))

	level := cfg.Logging.Level
	if c.verbose {
		level = "debug"
	}
	c.logger = slogx.New(slogx.Config{
		Service: "clinicctl",
		Version: version,
		Level:   level,
		Format:  cfg.Logging.Format,
		Output:  c.errOut,
	})

	if err := c.openSessions(); err != nil {
		return &output.CLIError{
			Summary:    "Could not open the session store",
			Detail:     err.Error(),
			Suggestion: "Check session.path or use session.driver: memory",
			ExitCode:   output.ExitConfigErr,
			Err:        err,
		}
	}

	route := cmd.Annotations[routeAnnotation]
	if route == "" {
		route = homeRoute
	}
	c.nav = clinicsdk.NewRouter(route)
	c.nav.OnNavigate = func(from, to string) {
		c.logger.Debug("navigate", "from", from, "to", to)
		if to == clinicsdk.LoginRoute && !c.quietNav {
			c.printer.Warning("%s", clinicsdk.NoticeSessionExpired)
		}
	}

	c.client = clinicsdk.NewClient(cfg.API.BaseURL,
		clinicsdk.WithSessionStore(c.sessions),
		clinicsdk.WithNavigator(c.nav),
		clinicsdk.WithTimeout(cfg.API.Timeout),
		clinicsdk.WithRateLimit(cfg.API.RateLimit, 1),
		clinicsdk.WithLogger(c.logger),
	)

	c.logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"session_driver", cfg.Session.Driver,
		"route", route,
	)
	return nil
}

func (c *CLI) openSessions() error {
	switch c.cfg.Session.Driver {
	case config.DriverMemory:
		c.sessions = session.NewMemoryStore(c.cfg.Session.Namespace)
		return nil
	default:
		path := c.cfg.Session.Path
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}

		st, err := sqlite.NewStore(path, c.cfg.Session.Namespace)
		if err != nil {
			return err
		}
		c.sessions = st
		c.closeSessions = st.Close
		return nil
	}
}

// route returns an annotation map placing a command at a console route.
func route(path string) map[string]string {
	return map[string]string{routeAnnotation: path}
}

// toCLIError turns any command failure into a user-facing error.
func toCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var apiErr *clinicsdk.APIError
	if errors.As(err, &apiErr) {
		return apiCLIError(apiErr)
	}

	if errors.Is(err, clinicsdk.ErrValidation) {
		return &output.CLIError{
			Summary:  "Invalid input",
			Detail:   err.Error(),
			ExitCode: output.ExitValidation,
			Err:      err,
		}
	}

	summary := err.Error()
	code := output.ExitGeneral
	if strings.HasPrefix(summary, "unknown command") || strings.Contains(summary, "flag") ||
		strings.Contains(summary, "arg(s)") {
		code = output.ExitUsageError
	}
	return &output.CLIError{Summary: summary, ExitCode: code, Err: err}
}

func apiCLIError(e *clinicsdk.APIError) *output.CLIError {
	out := &output.CLIError{Summary: e.Notice(), Err: e}

	switch e.Kind {
	case clinicsdk.KindUnauthorized:
		out.ExitCode = output.ExitAuthError
		out.Detail = e.Message
		out.Suggestion = "Run: clinicctl login"
	case clinicsdk.KindForbidden:
		out.ExitCode = output.ExitAuthError
		out.Suggestion = "Ask an administrator to perform this action"
	case clinicsdk.KindNetwork:
		out.ExitCode = output.ExitNetwork
		if e.Err != nil {
			out.Detail = e.Err.Error()
		}
		out.Suggestion = "Check that the API is running and api.base_url is correct"
	case clinicsdk.KindValidation:
		out.Summary = "The server rejected the input"
		out.Detail = e.Notice()
		out.ExitCode = output.ExitValidation
	default:
		out.ExitCode = output.ExitAPIError
		if e.RequestID != "" {
			out.Detail = "request " + e.RequestID.String()
		}
	}
	return out
}
