// Package main is the entry point for the clinicctl console
package main

import (
	"os"

	"github.com/aussiebroadwan/clinic/internal/cli"
)

// Set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, buildTime)
	os.Exit(cli.New(os.Stdin, os.Stdout, os.Stderr).Run(os.Args[1:]))
}
