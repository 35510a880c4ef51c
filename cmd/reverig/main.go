// Package main is the entry point for the reverig CLI.
//
// reverig drives the "Add via reverig-tool" workflow against a running
// backend: it can run the interactive terminal host, add or remove a single
// identifier, inject the workflow buttons into a saved store page and show
// the history of finished operations.
//
// Commands: tui, add, remove, status, restart, inject, history, config, version.
package main

import (
	"fmt"
	"os"

	"github.com/mmcdole/reverig/cmd/reverig/commands"
)

// Version information set at build time via -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
