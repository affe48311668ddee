package cmd

import (
	"fmt"
	"sort"

	"github.com/Ereliath/NodeToCode/internal/data"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// askOne runs a single survey prompt; tests replace it
var askOne = survey.AskOne

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize n2c config through an interactive process",
	Long: `Initialize your n2c configuration:
• Choose a remote LLM provider and store its API key
• Set up a local Ollama endpoint
• Pick the default target language

Your configuration will be saved to ~/.n2c/config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cyan := color.New(color.FgCyan).SprintFunc()
		magenta := color.New(color.FgMagenta).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "\n%s\n", cyan("Welcome to n2c"))
		fmt.Fprintf(out, "\n%s\n", "Let's get you set up, this will only take a minute!")

		registry := data.NewProviderRegistry()
		if err := registry.Load(); err != nil {
			return fmt.Errorf("failed to load provider data: %w", err)
		}

		manager := state.manager
		viper := manager.Viper()

		var configureRemote bool
		err := askOne(&survey.Confirm{
			Message: fmt.Sprintf("%s Would you like to configure a remote LLM provider?", cyan("🌐")),
			Default: true,
		}, &configureRemote)
		if err != nil {
			return fmt.Errorf("survey error: %w", err)
		}

		if configureRemote {
			providerOptions := registry.GetProviderOptions()
			if len(providerOptions) == 0 {
				return fmt.Errorf("no remote providers in the model catalog")
			}

			var selectedProvider string
			err = askOne(&survey.Select{
				Message: fmt.Sprintf("%s Choose your remote LLM provider:", cyan("🤖")),
				Options: providerOptions,
				Default: providerOptions[0],
			}, &selectedProvider)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}

			providerKey := registry.GetProviderKeyFromOption(selectedProvider)
			providerInfo, exists := registry.GetProvider(providerKey)
			if !exists {
				return fmt.Errorf("provider %q not found", selectedProvider)
			}

			var apiKey string
			err = askOne(&survey.Password{
				Message: fmt.Sprintf("%s Enter your %s API key:", cyan("🔑"), providerInfo.Name),
				Help:    fmt.Sprintf("Leave empty to read it from %s at run time", providerInfo.APIKeyEnv),
			}, &apiKey)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}
			if apiKey != "" {
				viper.Set(fmt.Sprintf("providers.%s.api_key", providerKey), apiKey)
			}

			var model string
			err = askOne(&survey.Input{
				Message: fmt.Sprintf("%s Model for translations:", cyan("⚡")),
				Default: providerInfo.DefaultModel,
				Help:    fmt.Sprintf("See %s for available models", providerInfo.Reference),
			}, &model)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}

			viper.Set("llm.provider", providerKey)
			viper.Set("llm.model", model)

			fmt.Fprintf(out, "\n%s %s configured successfully!\n", green("✅"), providerInfo.Name)
		}

		var configureLocal bool
		err = askOne(&survey.Confirm{
			Message: fmt.Sprintf("%s Would you like to configure a local provider (Ollama)?", cyan("🏠")),
			Default: !configureRemote,
			Help:    "Ollama runs models locally on your machine; use it with --local",
		}, &configureLocal)
		if err != nil {
			return fmt.Errorf("survey error: %w", err)
		}

		if configureLocal {
			ollamaInfo, exists := registry.GetProvider("ollama")
			if !exists {
				return fmt.Errorf("ollama provider not found in the model catalog")
			}

			var endpoint string
			err = askOne(&survey.Input{
				Message: fmt.Sprintf("%s Ollama chat endpoint:", cyan("🔗")),
				Default: ollamaInfo.Endpoint,
			}, &endpoint)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}

			var localModel string
			err = askOne(&survey.Input{
				Message: fmt.Sprintf("%s Local model:", cyan("⚡")),
				Default: ollamaInfo.DefaultModel,
			}, &localModel)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}

			viper.Set("providers.ollama.endpoint", endpoint)
			viper.Set("llm.local_model", localModel)

			// without a remote provider, ollama becomes the default
			if !configureRemote {
				viper.Set("llm.provider", "ollama")
				viper.Set("llm.model", localModel)
			}

			fmt.Fprintf(out, "\n%s Ollama configured successfully!\n", green("✅"))
		}

		languages := make([]string, 0, len(manager.Config().Languages))
		for name := range manager.Config().Languages {
			languages = append(languages, name)
		}
		sort.Strings(languages)

		if len(languages) > 0 {
			current := manager.Config().Translation.Language
			if _, ok := manager.Config().Languages[current]; !ok {
				current = languages[0]
			}

			var language string
			err = askOne(&survey.Select{
				Message: fmt.Sprintf("%s Default target language:", cyan("📝")),
				Options: languages,
				Default: current,
			}, &language)
			if err != nil {
				return fmt.Errorf("survey error: %w", err)
			}
			viper.Set("translation.language", language)
		}

		fmt.Fprintf(out, "\n%s Saving your configuration...\n", yellow("💾"))
		if err := manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Fprintf(out, "\n%s All set! Your configuration has been saved to %s\n",
			green("🎉"), magenta(viper.ConfigFileUsed()))
		fmt.Fprintf(out, "\n%s Try: %s\n",
			cyan("💡"), magenta("n2c MyActor_EventGraph.json"))
		fmt.Fprintf(out, "\n%s For more options, run: %s\n\n",
			cyan("📖"), magenta("n2c --help"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
