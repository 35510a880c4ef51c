// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// configPath is shared by every subcommand through the persistent flag
var configPath string

// isTerminal reports whether stdout is an interactive terminal
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Root returns the root command for the reverig CLI.
//
// Run without a subcommand on a terminal, reverig starts the terminal host
// for the identifier given as the first argument.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reverig [app]",
		Short:         "Add or remove games through the reverig-tool backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || !isTerminal() {
				return cmd.Help()
			}
			return runTUI(cmd, args[0], "")
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ~/.config/reverig/config.yaml)")

	cmd.AddCommand(TUI())
	cmd.AddCommand(Add())
	cmd.AddCommand(Remove())
	cmd.AddCommand(Status())
	cmd.AddCommand(Restart())
	cmd.AddCommand(Inject())
	cmd.AddCommand(History())
	cmd.AddCommand(Config())
	cmd.AddCommand(Version())

	return cmd
}
