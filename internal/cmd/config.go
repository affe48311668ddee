package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage n2c configuration",
	Long: `Manage n2c configuration settings. This command provides subcommands
to view and modify configuration values.

Examples:
  n2c config                          # Show current configuration status
  n2c config list                     # List values by alias
  n2c config set openai-key=sk-...    # Set a configuration value
  n2c config set language=python
  n2c config describe timeout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.manager.Config()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Configuration loaded successfully")
		fmt.Fprintf(out, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(out, "Model: %s\n", cfg.LLM.Model)
		fmt.Fprintf(out, "Language: %s\n", cfg.Translation.Language)
		fmt.Fprintf(out, "Language profiles: %d\n", len(cfg.Languages))

		if state.manager.Viper().ConfigFileUsed() != "" {
			fmt.Fprintf(out, "Config file: %s\n", state.manager.Viper().ConfigFileUsed())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
