package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// Restart returns the restart command.
func Restart() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart Steam through the backend",
		Long: `Restart Steam through the backend.

Asks for confirmation first unless --yes is given. Without a terminal
the confirmation cannot be shown and --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Restart(cmd.Context(), cmd.OutOrStdout(), configPath, yes, isTerminal())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
