package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "algohost",
	Short:        "Host a single algorithm operation behind an HTTP API",
	Version:      version,
	SilenceUsage: true,
}
