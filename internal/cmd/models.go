package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/registry"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// yesNo renders a capability flag for the models table
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List catalogued models and what they support",
	Long: `List the models in the built-in catalog with their request capabilities.

Models that are not catalogued can still be used; they are sent a system
role and a structured output schema.

Examples:
  n2c models
  n2c models anthropic`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records := capability.Default().Records()
		if len(args) == 1 {
			if !registry.IsProviderRegistered(args[0]) {
				return &registry.UnknownProviderError{Name: args[0]}
			}
			records = capability.Default().ForProvider(args[0])
		}

		current := ""
		if state.manager != nil {
			current = state.manager.Config().LLM.Model
		}

		groupSprint := color.New(color.FgGreen, color.Bold).SprintFunc()
		keySprint := color.New(color.FgCyan).SprintFunc()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		lastProvider := ""
		for _, r := range records {
			if r.Provider != lastProvider {
				if lastProvider != "" {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s\n", groupSprint(fmt.Sprintf("▶ %s", r.Provider)))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "Model", "System role", "Structured output", "")
				lastProvider = r.Provider
			}

			var marks string
			if r.Model == registry.DefaultModel(r.Provider) {
				marks = "default"
			}
			if r.Model == current {
				if marks != "" {
					marks += ", "
				}
				marks += "configured"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", keySprint(r.Model), yesNo(r.SupportsSystemRole), yesNo(r.SupportsStructuredOutput), marks)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
