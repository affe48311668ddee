package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ConfigFieldInfo contains metadata about a configuration field
type ConfigFieldInfo struct {
	Type        reflect.Type
	Description string
	Default     interface{}
	Validation  func(interface{}) error
}

// ConfigSchema holds the registry of valid configuration paths and aliases
type ConfigSchema struct {
	ValidPaths map[string]ConfigFieldInfo
	Aliases    map[string]string
}

// validateIntRange returns a validation function for int values within a range
func validateIntRange(min, max int) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(int); ok {
			if v < min || v > max {
				return fmt.Errorf("value must be between %d and %d", min, max)
			}
			return nil
		}
		return fmt.Errorf("expected int, got %T", value)
	}
}

// validateOneOf returns a validation function accepting only the listed strings
func validateOneOf(allowed ...string) func(interface{}) error {
	return func(value interface{}) error {
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("value must be one of: %s", strings.Join(allowed, ", "))
	}
}

func stringField(description, def string) ConfigFieldInfo {
	return ConfigFieldInfo{
		Type:        reflect.TypeOf(""),
		Description: description,
		Default:     def,
	}
}

// DefaultConfigSchema returns the default configuration schema
func DefaultConfigSchema() *ConfigSchema {
	provider := stringField("LLM provider used for translation", "openai")
	provider.Validation = validateOneOf(KnownProviders...)

	return &ConfigSchema{
		ValidPaths: map[string]ConfigFieldInfo{
			// model selection
			"llm.provider":    provider,
			"llm.model":       stringField("Model identifier sent to the provider", "gpt-4o"),
			"llm.local_model": stringField("Ollama model used with --local", "qwen2.5-coder:32b"),

			// translation
			"translation.language":      stringField("Target language profile (see 'n2c languages')", "cpp"),
			"translation.system_prompt": stringField("System prompt override for every language", ""),
			"translation.output_dir":    stringField("Directory for generated files; empty prints JSON", ""),

			// transport
			"parameters.timeout": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Timeout in seconds for LLM requests",
				Default:     120,
				Validation:  validateIntRange(1, 600),
			},
			"parameters.max_retries": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Maximum number of retry attempts for failed requests (max: 5)",
				Default:     2,
				Validation:  validateIntRange(0, 5),
			},

			// providers
			"providers.openai.api_key":       stringField("OpenAI API key", ""),
			"providers.openai.endpoint":      stringField("OpenAI chat completions endpoint", "https://api.openai.com/v1/chat/completions"),
			"providers.openai.organization":  stringField("OpenAI organization id (sent as OpenAI-Organization)", ""),
			"providers.anthropic.api_key":    stringField("Anthropic API key", ""),
			"providers.anthropic.endpoint":   stringField("Anthropic messages endpoint", "https://api.anthropic.com/v1/messages"),
			"providers.deepseek.api_key":     stringField("DeepSeek API key", ""),
			"providers.deepseek.endpoint":    stringField("DeepSeek chat completions endpoint", "https://api.deepseek.com/chat/completions"),
			"providers.ollama.endpoint":      stringField("Ollama chat endpoint", "http://localhost:11434/api/chat"),

			// reference sources
			"sources.files": {
				Type:        reflect.TypeOf([]string{}),
				Description: "Reference source files sent with every request (comma separated)",
				Default:     []string{},
			},
		},

		Aliases: map[string]string{
			"provider":    "llm.provider",
			"model":       "llm.model",
			"local-model": "llm.local_model",

			"language":      "translation.language",
			"lang":          "translation.language",
			"system":        "translation.system_prompt",
			"system-prompt": "translation.system_prompt",
			"output":        "translation.output_dir",
			"output-dir":    "translation.output_dir",

			"timeout":     "parameters.timeout",
			"max-retries": "parameters.max_retries",

			// provider credentials
			"openai-key":    "providers.openai.api_key",
			"anthropic-key": "providers.anthropic.api_key",
			"deepseek-key":  "providers.deepseek.api_key",
			"openai-org":    "providers.openai.organization",

			"ollama-url": "providers.ollama.endpoint",

			"sources": "sources.files",
		},
	}
}

// ResolveKey resolves an alias to its canonical path or returns the path if already canonical
func (s *ConfigSchema) ResolveKey(key string) (string, error) {
	if canonicalPath, exists := s.Aliases[key]; exists {
		return canonicalPath, nil
	}

	if _, exists := s.ValidPaths[key]; exists {
		return key, nil
	}

	suggestions := s.FindSimilarKeys(key)
	if len(suggestions) > 0 {
		return "", fmt.Errorf("invalid config key %q. Did you mean one of: %s", key, strings.Join(suggestions, ", "))
	}

	return "", fmt.Errorf("invalid config key %q. Use 'n2c config list' to see valid keys", key)
}

// ValidateValue validates a value against the field's type and validation rules
func (s *ConfigSchema) ValidateValue(path string, value interface{}) error {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return fmt.Errorf("unknown config path: %s", path)
	}

	valueType := reflect.TypeOf(value)
	if valueType != fieldInfo.Type {
		return fmt.Errorf("expected %s, got %v", fieldInfo.Type.String(), valueType)
	}

	if fieldInfo.Validation != nil {
		return fieldInfo.Validation(value)
	}

	return nil
}

// GetFieldInfo returns information about a configuration field
func (s *ConfigSchema) GetFieldInfo(path string) (ConfigFieldInfo, error) {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return ConfigFieldInfo{}, fmt.Errorf("unknown config path: %s", path)
	}
	return fieldInfo, nil
}

// ListAllKeys returns all valid configuration keys (canonical paths and aliases)
func (s *ConfigSchema) ListAllKeys() []string {
	keys := append(s.ListCanonicalKeys(), s.ListAliases()...)
	sort.Strings(keys)
	return keys
}

// ListCanonicalKeys returns only the canonical configuration paths
func (s *ConfigSchema) ListCanonicalKeys() []string {
	var keys []string
	for path := range s.ValidPaths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// ListAliases returns only the alias keys
func (s *ConfigSchema) ListAliases() []string {
	var aliases []string
	for alias := range s.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FindSimilarKeys finds keys similar to the input using simple string matching
func (s *ConfigSchema) FindSimilarKeys(key string) []string {
	var suggestions []string
	lowerKey := strings.ToLower(key)
	if lowerKey == "" {
		return nil
	}

	for _, path := range s.ListCanonicalKeys() {
		parts := strings.Split(path, ".")
		leaf := strings.ToLower(parts[len(parts)-1])
		if strings.Contains(strings.ToLower(path), lowerKey) || strings.Contains(lowerKey, leaf) {
			suggestions = append(suggestions, path)
		}
	}

	for _, alias := range s.ListAliases() {
		if strings.Contains(alias, lowerKey) || strings.Contains(lowerKey, alias) {
			suggestions = append(suggestions, alias)
		}
	}

	// limit suggestions to avoid overwhelming output
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return suggestions
}
