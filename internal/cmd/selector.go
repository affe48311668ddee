package cmd

import (
	"fmt"

	"github.com/Ereliath/NodeToCode/internal/app"
	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/registry"

	"github.com/spf13/cobra"
)

const (
	// TestProvider and TestModel are selected by --test
	TestProvider = "mock"
	TestModel    = "test-model"

	// LocalProvider is selected by --local
	LocalProvider = "ollama"
)

// ModelSelector picks the provider and model for a run
type ModelSelector interface {
	SelectModel(cmd *cobra.Command, cfg *config.Config) (providerName, modelName string, err error)
}

// DefaultModelSelector implements ModelSelector
type DefaultModelSelector struct{}

// NewModelSelector creates a new DefaultModelSelector
func NewModelSelector() *DefaultModelSelector {
	return &DefaultModelSelector{}
}

// SelectModel determines which provider and model to use.
// --test wins over everything, then --local, then llm.provider / llm.model
// (which --provider and --model override through their viper bindings)
func (s *DefaultModelSelector) SelectModel(cmd *cobra.Command, cfg *config.Config) (providerName, modelName string, err error) {
	if testFlag, _ := cmd.Flags().GetBool("test"); testFlag {
		return TestProvider, TestModel, nil
	}

	if localFlag, _ := cmd.Flags().GetBool("local"); localFlag {
		model := cfg.LLM.LocalModel
		if model == "" {
			model = registry.DefaultModel(LocalProvider)
		}
		if model == "" {
			return "", "", &app.ConfigError{Err: s.generateModelConfigError(LocalProvider, "llm.local_model")}
		}
		return LocalProvider, model, nil
	}

	providerName = cfg.LLM.Provider
	if !registry.IsProviderRegistered(providerName) {
		return "", "", &registry.UnknownProviderError{Name: providerName}
	}

	modelName = cfg.LLM.Model

	// a model catalogued under another provider belongs to a stale llm.model,
	// e.g. after --provider anthropic with the default gpt-4o
	if record := capability.Resolve(modelName); record.Known() && record.Provider != providerName {
		modelName = ""
	}

	if modelName == "" {
		modelName = registry.DefaultModel(providerName)
	}
	if modelName == "" {
		return "", "", &app.ConfigError{Err: s.generateModelConfigError(providerName, "llm.model")}
	}

	return providerName, modelName, nil
}

// generateModelConfigError for helpful error message when model config is missing
func (s *DefaultModelSelector) generateModelConfigError(provider, key string) error {
	return fmt.Errorf(`no model configured for provider %s.

Configure a model with:
  n2c config set %s=MODEL_NAME

or pass --model MODEL_NAME`, provider, key)
}
