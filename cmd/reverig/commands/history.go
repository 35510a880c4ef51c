package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// History returns the history command.
func History() *cobra.Command {
	var opts handlers.HistoryOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished add, remove and restart operations",
		Long: `List finished operations, newest first.

--match ranks entries by how well their title, app id, operation and
outcome match the query and drops entries that do not match at all.

Example:
  reverig history --app 440
  reverig history --match "portal fail"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.History(cmd.Context(), cmd.OutOrStdout(), configPath, opts)
		},
	}

	cmd.Flags().StringVar(&opts.App, "app", "", "Only show entries for this app id or URL")
	cmd.Flags().StringVarP(&opts.Match, "match", "m", "", "Fuzzy filter and rank entries")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of entries (0 = all)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all recorded entries")

	return cmd
}
