package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/data"
	"github.com/Ereliath/NodeToCode/internal/llm/anthropic"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/llm/deepseek"
	"github.com/Ereliath/NodeToCode/internal/llm/mock"
	"github.com/Ereliath/NodeToCode/internal/llm/ollama"
	"github.com/Ereliath/NodeToCode/internal/llm/openai"
	"github.com/Ereliath/NodeToCode/internal/llm/transport"
	"github.com/Ereliath/NodeToCode/internal/prompt"
)

// AllProviders contains registered LLM providers
var AllProviders = map[string]common.Provider{
	"anthropic": anthropic.New(),
	"deepseek":  deepseek.New(),
	"mock":      mock.New(),
	"ollama":    ollama.New(),
	"openai":    openai.New(),
}

// transportProvider is implemented by providers that bring their own transport
type transportProvider interface {
	NewTransport(headers map[string]string) (common.Transport, error)
}

// keyPages links to where each provider issues API keys
var keyPages = map[string]string{
	"anthropic": "https://console.anthropic.com/settings/keys",
	"deepseek":  "https://platform.deepseek.com/api_keys",
	"openai":    "https://platform.openai.com/api-keys",
}

// UnknownProviderError is returned for a provider name that is not registered
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unsupported provider '%s'. Available providers: %s", e.Name, getAvailableProviders())
}

// MissingAPIKeyError is returned when a provider that needs a key has none
type MissingAPIKeyError struct {
	Provider string
}

func (e *MissingAPIKeyError) Error() string {
	display, envVar := e.Provider, ""
	if info, ok := providerInfo(e.Provider); ok {
		display, envVar = info.Name, info.APIKeyEnv
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s API key is required.\n\n", display)
	if envVar != "" {
		fmt.Fprintf(&b, "You can set the API key using the environment variable %s or via n2c config set %s-key=<your_api_key>", envVar, e.Provider)
	} else {
		fmt.Fprintf(&b, "You can set the API key via n2c config set providers.%s.api_key=<your_api_key>", e.Provider)
	}
	if page := keyPages[e.Provider]; page != "" {
		fmt.Fprintf(&b, "\nGet an API key from %s", page)
	}
	return b.String()
}

// InitializationError is returned when a service refuses its configuration
type InitializationError struct {
	Provider string
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize %s service (run with --verbose for details)", e.Provider)
}

// CreateService builds and initializes the service for a provider.
// sources are the reference files injected into every request
func CreateService(name, model string, cfg *config.Config, sources []string, logger *slog.Logger) (*common.AdapterService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	provider, exists := AllProviders[name]
	if !exists {
		return nil, &UnknownProviderError{Name: name}
	}

	serviceCfg := cfg.ServiceConfig(name, model, sources)
	if provider.RequiresAPIKey() && serviceCfg.APIKey == "" {
		return nil, &MissingAPIKeyError{Provider: name}
	}

	svc := common.NewAdapterService(provider,
		common.WithLogger(logger),
		common.WithTransportFactory(transportFactory(provider, cfg.Parameters, logger)),
		common.WithPromptFactory(func(sc config.ServiceConfig) (common.PromptMerger, error) {
			return prompt.New(sc.SourceFiles, prompt.WithLogger(logger)), nil
		}),
	)

	if !svc.Initialize(serviceCfg) {
		return nil, &InitializationError{Provider: name}
	}
	return svc, nil
}

// transportFactory returns the HTTP transport for provider, configured from params
func transportFactory(provider common.Provider, params config.Parameters, logger *slog.Logger) common.TransportFactory {
	if tp, ok := provider.(transportProvider); ok {
		return tp.NewTransport
	}

	return func(headers map[string]string) (common.Transport, error) {
		maxRetries := params.MaxRetries
		if maxRetries > common.MaxRetryLimit {
			maxRetries = common.MaxRetryLimit // enforce maximum limit
		}

		opts := []transport.Option{
			transport.WithMaxRetries(maxRetries),
			transport.WithLogger(logger),
		}
		if params.Timeout > 0 {
			opts = append(opts, transport.WithTimeout(time.Duration(params.Timeout)*time.Second))
		}
		if handler, ok := provider.(common.ConnectionErrorHandler); ok {
			opts = append(opts, transport.WithConnectionErrorHandler(handler))
		}
		return transport.NewHTTPHandler(headers, opts...), nil
	}
}

// GetAvailableProviders returns the registered provider names, sorted
func GetAvailableProviders() []string {
	providers := make([]string, 0, len(AllProviders))
	for name := range AllProviders {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// getAvailableProviders returns comma-separated string of available providers
func getAvailableProviders() string {
	providers := GetAvailableProviders()
	if len(providers) == 0 {
		return "none"
	}
	return strings.Join(providers, ", ")
}

// IsProviderRegistered checks if provider is registered
func IsProviderRegistered(name string) bool {
	_, exists := AllProviders[name]
	return exists
}

// ProviderRequiresAPIKey checks if provider requires API key
// returns false if the provider is not registered
func ProviderRequiresAPIKey(name string) bool {
	provider, exists := AllProviders[name]
	if !exists {
		return false
	}

	return provider.RequiresAPIKey()
}

// DefaultModel returns the catalogued default model for a provider
func DefaultModel(name string) string {
	info, ok := providerInfo(name)
	if !ok {
		return ""
	}
	return info.DefaultModel
}

func providerInfo(name string) (data.ProviderInfo, bool) {
	pd, err := data.LoadProvidersData()
	if err != nil {
		return data.ProviderInfo{}, false
	}
	info, ok := pd.Providers[name]
	return info, ok
}
