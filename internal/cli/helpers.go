package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/clinic/internal/cli/output"
)

type runFunc func(cmd *cobra.Command, args []string) error

// authed wraps a command that needs a stored session.
func (c *CLI) authed(run runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := c.requireSession(cmd); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &output.CLIError{
			Summary:  fmt.Sprintf("Invalid %s ID %q", kind, raw),
			ExitCode: output.ExitUsageError,
		}
	}
	return id, nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// confirm asks a yes/no question unless skip is set.
func (c *CLI) confirm(question string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	answer, err := c.promptLine(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// matches reports whether any field contains the search term, ignoring case.
func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
