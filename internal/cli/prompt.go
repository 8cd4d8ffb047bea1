package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine asks for a single line of input.
func (c *CLI) promptLine(label string) (string, error) {
	fmt.Fprintf(c.errOut, "%s: ", label)
	return c.readLine()
}

// promptSecret asks for input without echoing it when stdin is a terminal.
func (c *CLI) promptSecret(label string) (string, error) {
	fmt.Fprintf(c.errOut, "%s: ", label)

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	return c.readLine()
}

func (c *CLI) readLine() (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}

	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
