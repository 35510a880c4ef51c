package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/reverig/cmd/reverig/handlers"
)

// Config returns the config command.
func Config() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration after defaults, the config file and
REVERIG_* environment variables are applied.

With --save the configuration is written to ~/.config/reverig/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Config(cmd.OutOrStdout(), configPath, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the default config file")

	return cmd
}
