package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// Add returns the add command.
func Add() *cobra.Command {
	return &cobra.Command{
		Use:   "add <app>",
		Short: "Add a game via reverig-tool and follow its progress",
		Long: `Add a game via reverig-tool and follow its progress.

The backend is asked to start the install and polled until it reports
done or failed. Interrupting the command stops polling; the backend keeps
working.

Example:
  reverig add 440`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Add(cmd.Context(), cmd.OutOrStdout(), configPath, args[0])
		},
	}
}

// Remove returns the remove command.
func Remove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <app>",
		Short: "Remove a game previously added via reverig-tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Remove(cmd.Context(), cmd.OutOrStdout(), configPath, args[0])
		},
	}
}

// Status returns the status command.
func Status() *cobra.Command {
	return &cobra.Command{
		Use:   "status <app>",
		Short: "Show whether a game was added and the backend's current progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), cmd.OutOrStdout(), configPath, args[0])
		},
	}
}
