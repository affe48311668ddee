package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/template"

	"github.com/spf13/viper"
)

//go:embed data/default_config.toml
var defaultConfigTOML string

//go:embed data/default_languages.toml
var defaultLanguagesTOML string

// LanguagesFile is the name of the user language profile file, next to config.toml
const LanguagesFile = "languages.toml"

// Manager handles configuration loading and management
type Manager struct {
	v      *viper.Viper
	cfg    *Config
	logger *slog.Logger
}

// NewManager creates a new configuration manager with default settings
func NewManager() *Manager {
	v := viper.New()

	v.RegisterAlias("openai-key", "providers.openai.api_key")
	v.RegisterAlias("anthropic-key", "providers.anthropic.api_key")
	v.RegisterAlias("deepseek-key", "providers.deepseek.api_key")

	// provider keys and selection can come from the environment
	_ = v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("providers.openai.organization", "OPENAI_ORG_ID")
	_ = v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("providers.deepseek.api_key", "DEEPSEEK_API_KEY")
	_ = v.BindEnv("llm.provider", "N2C_PROVIDER")
	_ = v.BindEnv("llm.model", "N2C_MODEL")

	return &Manager{
		v:   v,
		cfg: &Config{},
	}
}

// WithLogger sets the logger for the configuration manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// Load loads configuration from the specified TOML file, merging with defaults
func (m *Manager) Load(configPath string) error {
	if m.logger != nil {
		m.logger.Debug("Attempting to load config file", "path", configPath)
	}

	m.v.SetConfigType("toml")

	if err := m.v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		return fmt.Errorf("failed to load embedded defaults: %w", err)
	}

	m.v.SetConfigFile(configPath)

	// merge user config file over defaults
	if err := m.v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathError *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathError) {
			return err
		}
		if pathError != nil && !os.IsNotExist(pathError) {
			return err
		}
		if m.logger != nil {
			m.logger.Debug("Config file not found")
		}

		if err := m.createDefaultFile(configPath, defaultConfigTOML); err != nil {
			return fmt.Errorf("failed to create default config file: %w", err)
		}
		// keep the path so Save can write to it
		m.v.SetConfigFile(configPath)
	} else if m.logger != nil {
		m.logger.Info("Configuration loaded successfully", "path", m.v.ConfigFileUsed())
	}

	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return err
	}

	languages, err := parseLanguages(defaultLanguagesTOML)
	if err != nil {
		return fmt.Errorf("failed to load embedded languages: %w", err)
	}
	m.cfg.Languages = languages

	languagesPath := filepath.Join(filepath.Dir(configPath), LanguagesFile)
	if err := m.createDefaultFile(languagesPath, defaultLanguagesTOML); err != nil {
		return fmt.Errorf("failed to create default languages file: %w", err)
	}
	if err := m.loadUserLanguages(languagesPath); err != nil && m.logger != nil {
		m.logger.Warn("Failed to load user languages", "error", err)
	}

	return m.validate()
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.cfg
}

// Viper returns the underlying Viper instance for flag binding
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// Save writes the current configuration state back to the config file
func (m *Manager) Save() error {
	configFile := m.v.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("no config file path set")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := m.v.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	} else {
		if err := m.v.WriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
	}

	// languages live in their own file, keep them across the reload
	languages := m.cfg.Languages
	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return fmt.Errorf("failed to reload configuration after save: %w", err)
	}
	m.cfg.Languages = languages

	return nil
}

// NewDefaultFromEmbedded creates a Config struct populated from embedded TOML
// note we're primarily using this for testing
func NewDefaultFromEmbedded() *Config {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		panic(fmt.Sprintf("failed to load embedded defaults in test helper: %v", err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal embedded config in test helper: %v", err))
	}

	languages, err := parseLanguages(defaultLanguagesTOML)
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded languages in test helper: %v", err))
	}
	cfg.Languages = languages

	return cfg
}

// parseLanguages reads a [languages.*] table from TOML text
func parseLanguages(raw string) (map[string]Language, error) {
	lv := viper.New()
	lv.SetConfigType("toml")
	if err := lv.ReadConfig(strings.NewReader(raw)); err != nil {
		return nil, err
	}

	languages := make(map[string]Language)
	if err := lv.UnmarshalKey("languages", &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// loadUserLanguages merges languages.toml over the built-in profiles
func (m *Manager) loadUserLanguages(path string) error {
	lv := viper.New()
	lv.SetConfigFile(path)

	if err := lv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read languages config: %w", err)
	}

	if len(lv.GetStringMap("languages")) == 0 {
		return nil
	}

	var user map[string]Language
	if err := lv.UnmarshalKey("languages", &user); err != nil {
		return fmt.Errorf("failed to unmarshal languages: %w", err)
	}

	for name, lang := range user {
		m.cfg.Languages[name] = lang
	}
	return nil
}

// ValidationError reports a loaded configuration value the program cannot use
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validate checks loaded values that the rest of the program relies on
func (m *Manager) validate() error {
	schema := DefaultConfigSchema()
	checks := map[string]interface{}{
		"parameters.timeout":     m.cfg.Parameters.Timeout,
		"parameters.max_retries": m.cfg.Parameters.MaxRetries,
	}
	for path, value := range checks {
		if err := schema.ValidateValue(path, value); err != nil {
			return &ValidationError{Key: path, Err: err}
		}
	}

	for name, lang := range m.cfg.Languages {
		key := fmt.Sprintf("language %q", name)
		if lang.ImplementationExt == "" {
			return &ValidationError{Key: key, Err: errors.New("implementation_ext is required")}
		}
		if err := template.ValidateTemplate(lang.MessageTemplate); err != nil {
			return &ValidationError{Key: key, Err: err}
		}
	}
	return nil
}

// createDefaultFile writes content to path unless a file is already there
func (m *Manager) createDefaultFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if filepath.Base(path) != LanguagesFile {
		fmt.Fprintf(os.Stderr, "Created default config.toml at %s\n", path)
		fmt.Fprintf(os.Stderr, "For a guided setup, run: n2c init\n")
	}

	if m.logger != nil {
		m.logger.Info("Created default file", "path", path)
	}

	return nil
}
