package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Ereliath/NodeToCode/internal/app"
	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// current version (hardcoded for now, could be replaced with build flags)
const version = "0.1.0"

// defaultConfigPath is used when --config is not given
const defaultConfigPath = "~/.n2c/config.toml"

// rootCmdState holds the config manager and logger for the command
type rootCmdState struct {
	manager *config.Manager
	logger  *slog.Logger
}

// state is the global state instance for the root command
var state = &rootCmdState{}

// flagBindings maps persistent flags to the config keys they override
var flagBindings = map[string]string{
	"provider":    "llm.provider",
	"model":       "llm.model",
	"language":    "translation.language",
	"system":      "translation.system_prompt",
	"output":      "translation.output_dir",
	"timeout":     "parameters.timeout",
	"max-retries": "parameters.max_retries",
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}

// stdinIsTerminal reports whether nothing is piped into the process
func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// showCustomHelp prints the long description, commands and flags
func showCustomHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", cmd.Long)

	fmt.Fprintf(out, "Usage:\n  n2c [flags] [blueprint.json]\n  <exporter> | n2c [flags]\n  n2c [command] [args...]\n\n")

	fmt.Fprintln(out, "Available Commands:")
	for _, subCmd := range cmd.Commands() {
		if !subCmd.Hidden {
			fmt.Fprintf(out, "  %-12s %s\n", subCmd.Name(), subCmd.Short)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	// print flags manually to get proper output formatting
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		flagStr := fmt.Sprintf("      --%s", flag.Name)
		if flag.Shorthand != "" {
			flagStr = fmt.Sprintf("  -%s, --%s", flag.Shorthand, flag.Name)
		}

		// add type information for non-boolflags
		if flag.Value.Type() != "bool" {
			flagStr += fmt.Sprintf(" %s", flag.Value.Type())
		}

		fmt.Fprintf(out, "%-30s %s", flagStr, flag.Usage)
		if flag.DefValue != "" && flag.DefValue != "false" && flag.DefValue != "[]" && flag.DefValue != "0" {
			fmt.Fprintf(out, " (default %s)", flag.DefValue)
		}
		fmt.Fprintln(out)
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use \"n2c [command] --help\" for more information about a command.")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "n2c [blueprint.json]",
	Version: version,
	Short:   "Translate Unreal Blueprint graphs to code with an LLM",
	Long: `n2c sends a serialized Blueprint graph to an LLM provider and returns the
translated source code for the selected target language.

The payload is read from the file argument, or from stdin when it is piped.`,
	SilenceUsage: true, // Don't show usage after errors
	Args:         cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("failed to get debug flag: %w", err)
		}
		state.logger = logger.New(debug)

		state.manager = config.NewManager().WithLogger(state.logger)

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		if configPath == "" {
			configPath = defaultConfigPath
		}

		configPath, err = expandHomePath(configPath)
		if err != nil {
			return fmt.Errorf("failed to expand home path: %w", err)
		}

		// bind each flag to corresponding Viper key
		viper := state.manager.Viper()
		for flagName, viperKey := range flagBindings {
			if err := viper.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}

		if err := state.manager.Load(configPath); err != nil {
			return &app.ConfigError{Err: fmt.Errorf("failed to load configuration: %w", err)}
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// nothing to translate: show help instead of waiting on the terminal
		if len(args) == 0 && stdinIsTerminal() {
			showCustomHelp(cmd)
			return nil
		}

		return handleTranslate(cmd, args)
	},
}

// Execute runs the root command and exits with a code describing the failure, if any
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(app.ExitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringP("provider", "p", "", "LLM provider (anthropic, deepseek, ollama, openai)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model identifier sent to the provider")
	rootCmd.PersistentFlags().StringP("language", "L", "", "Target language profile (see 'n2c languages')")
	rootCmd.PersistentFlags().String("system", "", "System prompt override")
	rootCmd.PersistentFlags().StringSliceP("source", "s", []string{}, "Reference source file(s) to include with the request")
	rootCmd.PersistentFlags().BoolP("ignore-context", "i", false, "Ignore the project source manifest for this run")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write generated files under this directory instead of printing JSON")
	rootCmd.PersistentFlags().Bool("raw", false, "Print the raw provider response")
	rootCmd.PersistentFlags().BoolP("local", "l", false, "Use the local Ollama model")
	rootCmd.PersistentFlags().Bool("test", false, "Use mock provider for testing")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Display request parameters in formatted table")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable detailed debug logging")
	rootCmd.PersistentFlags().Int("timeout", 120, "Timeout in seconds for LLM requests")
	rootCmd.PersistentFlags().Int("max-retries", 2, "Maximum number of retry attempts for failed requests (max: 5)")

	rootCmd.MarkFlagsMutuallyExclusive("test", "local")
	rootCmd.MarkFlagsMutuallyExclusive("raw", "output")

	if err := rootCmd.PersistentFlags().MarkHidden("test"); err != nil {
		panic(err)
	}

	// custom usage template will hide lengthly global flags list for subcommands
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createContextCommand())
}

// handleTranslate selects the model, gathers sources and runs one translation
func handleTranslate(cmd *cobra.Command, args []string) error {
	if state.manager == nil {
		return fmt.Errorf("config manager not initialized")
	}
	cfg := state.manager.Config()

	providerName, modelName, err := NewModelSelector().SelectModel(cmd, cfg)
	if err != nil {
		return err
	}
	if state.logger != nil {
		state.logger.Info("Model selected", "provider", providerName, "model_name", modelName)
	}

	skipProject, err := cmd.Flags().GetBool("ignore-context")
	if err != nil {
		return fmt.Errorf("failed to get ignore-context flag: %w", err)
	}
	sources, err := NewContextManager().ProcessSources(cmd, cfg, skipProject)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	raw, _ := cmd.Flags().GetBool("raw")

	appInstance := app.NewApp(cfg, state.logger, verbose)
	output, err := appInstance.Run(cmd.Context(), args, sources, app.Request{
		Provider: providerName,
		Model:    modelName,
		Raw:      raw,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the current version of n2c.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "n2c version ", version, "\n")
			return nil
		},
	}
}
