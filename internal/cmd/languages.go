package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Ereliath/NodeToCode/internal/prompt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List target language profiles",
	Long: `List the target language profiles from languages.toml.

Profiles are edited in ~/.n2c/languages.toml; select one with --language
or n2c config set language=NAME.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.manager.Config()

		names := make([]string, 0, len(cfg.Languages))
		for name := range cfg.Languages {
			names = append(names, name)
		}
		sort.Strings(names)

		builtin := make(map[string]bool)
		for _, name := range prompt.Languages() {
			builtin[name] = true
		}

		keySprint := color.New(color.FgCyan, color.Bold).SprintFunc()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", "Name", "Files", "Prompt", "Description", "")
		for _, name := range names {
			lang := cfg.Languages[name]

			files := lang.ImplementationExt
			if lang.DeclarationExt != "" {
				files = lang.DeclarationExt + " " + files
			}

			source := "missing"
			switch {
			case lang.SystemPrompt != "":
				source = "custom"
			case builtin[name]:
				source = "built-in"
			}

			var mark string
			if name == cfg.Translation.Language {
				mark = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", keySprint(name), files, source, lang.Description, mark)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
