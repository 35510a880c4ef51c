package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// TUI returns the tui command.
func TUI() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "tui <app>",
		Short: "Run the interactive terminal host for one game",
		Long: `Run the interactive terminal host for one game.

The argument is a numeric app id or a store/community URL. The terminal
shows the page's button row, the progress dialog and the operation history.

Example:
  reverig tui 440
  reverig tui https://store.steampowered.com/app/440/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, args[0], title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Game title shown in the header and history")

	return cmd
}

func runTUI(cmd *cobra.Command, app, title string) error {
	return handlers.TUI(cmd.Context(), configPath, app, title)
}
