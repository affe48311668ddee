package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

// see https://pkg.go.dev/embed for more on embedding files

//go:embed configs/*.json
var configFS embed.FS

// ModelInfo describes what a single model identifier supports
type ModelInfo struct {
	ID               string `json:"id"`
	SystemRole       bool   `json:"system_role"`
	StructuredOutput bool   `json:"structured_output"`
}

// ProviderInfo represents a provider's catalog entry
type ProviderInfo struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Reference    string      `json:"reference,omitempty"`
	Endpoint     string      `json:"endpoint"`
	APIKeyEnv    string      `json:"api_key_env,omitempty"`
	Local        bool        `json:"local,omitempty"`
	DefaultModel string      `json:"default_model"`
	Models       []ModelInfo `json:"models"`
}

// ProvidersData represents the structure of models.json
type ProvidersData struct {
	Providers map[string]ProviderInfo `json:"providers"`
}

// ProviderRegistry handles loading and accessing provider data
type ProviderRegistry struct {
	data *ProvidersData
}

// NewProviderRegistry creates a new provider registry instance
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{}
}

// Load reads the embedded models.json
func (p *ProviderRegistry) Load() error {
	data, err := LoadProvidersData()
	if err != nil {
		return err
	}
	p.data = data
	return nil
}

// GetProviders returns all catalogued providers
func (p *ProviderRegistry) GetProviders() map[string]ProviderInfo {
	if p.data == nil {
		return nil
	}
	return p.data.Providers
}

// GetProvider returns a specific provider by key
func (p *ProviderRegistry) GetProvider(key string) (ProviderInfo, bool) {
	if p.data == nil {
		return ProviderInfo{}, false
	}
	provider, exists := p.data.Providers[key]
	return provider, exists
}

// GetRemoteProviders returns providers that need an API key (excludes local-only providers)
func (p *ProviderRegistry) GetRemoteProviders() map[string]ProviderInfo {
	if p.data == nil {
		return nil
	}

	remote := make(map[string]ProviderInfo)
	for key, info := range p.data.Providers {
		if !info.Local {
			remote[key] = info
		}
	}
	return remote
}

// GetProviderOptions returns formatted options for survey selection, sorted by key
func (p *ProviderRegistry) GetProviderOptions() []string {
	remote := p.GetRemoteProviders()

	keys := make([]string, 0, len(remote))
	for key := range remote {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	options := make([]string, 0, len(keys))
	for _, key := range keys {
		options = append(options, formatOption(remote[key]))
	}
	return options
}

// GetProviderKeyFromOption extracts the provider key from a formatted option string
func (p *ProviderRegistry) GetProviderKeyFromOption(selectedOption string) string {
	if p.data == nil {
		return ""
	}

	for key, info := range p.data.Providers {
		if selectedOption == formatOption(info) {
			return key
		}
	}
	return ""
}

// ModelIDs returns the catalogued model identifiers for a provider
func (info ProviderInfo) ModelIDs() []string {
	ids := make([]string, 0, len(info.Models))
	for _, m := range info.Models {
		ids = append(ids, m.ID)
	}
	return ids
}

func formatOption(info ProviderInfo) string {
	return fmt.Sprintf("%s - %s", info.Name, info.Description)
}

// LoadProvidersData parses the embedded models.json
func LoadProvidersData() (*ProvidersData, error) {
	raw, err := configFS.ReadFile("configs/models.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded models.json: %w", err)
	}
	return ParseProvidersData(raw)
}

// ParseProvidersData decodes a models.json document
func ParseProvidersData(raw []byte) (*ProvidersData, error) {
	var providersData ProvidersData
	if err := json.Unmarshal(raw, &providersData); err != nil {
		return nil, fmt.Errorf("failed to parse models.json: %w", err)
	}

	for key, info := range providersData.Providers {
		for i, m := range info.Models {
			if m.ID == "" {
				return nil, fmt.Errorf("provider %s: model %d has no id", key, i)
			}
		}
	}

	return &providersData, nil
}
