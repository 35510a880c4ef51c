package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// Inject returns the inject command.
func Inject() *cobra.Command {
	var opts handlers.InjectOptions

	cmd := &cobra.Command{
		Use:   "inject <file>",
		Short: "Insert the reverig-tool buttons into a saved store page",
		Long: `Insert the reverig-tool buttons into a saved store page.

The page's button row gets a "Restart Steam" button and an add/remove
button whose mode reflects the backend's presence check. The app id is read
from the page's canonical URL unless --url is given.

With --click the add or remove action runs against the page and every
progress update is written back to the output file. With --watch the file
is watched and setup re-runs whenever it changes.

Example:
  reverig inject page.html --out page.out.html
  reverig inject page.html --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return handlers.Inject(cmd.Context(), cmd.OutOrStdout(), configPath, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Page URL when the document does not carry one")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file (default: rewrite the input)")
	cmd.Flags().BoolVar(&opts.Click, "click", false, "Press the tool button after setup and follow the workflow")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run setup when the file changes")

	return cmd
}
