package config

// Config represents the complete configuration structure for n2c
type Config struct {
	LLM         LLM                 `mapstructure:"llm"`
	Translation Translation         `mapstructure:"translation"`
	Parameters  Parameters          `mapstructure:"parameters"`
	Providers   Providers           `mapstructure:"providers"`
	Sources     Sources             `mapstructure:"sources"`
	Languages   map[string]Language `mapstructure:"languages"`
}

// LLM selects the provider and model used for translation
type LLM struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	LocalModel string `mapstructure:"local_model"` // used with --local
}

// Translation controls what the model is asked to produce and where it goes
type Translation struct {
	Language     string `mapstructure:"language"`
	SystemPrompt string `mapstructure:"system_prompt"` // overrides the language prompt when set
	OutputDir    string `mapstructure:"output_dir"`
}

// Parameters contains transport behaviour
type Parameters struct {
	Timeout    int `mapstructure:"timeout"`
	MaxRetries int `mapstructure:"max_retries"`
}

// Sources lists reference source files injected into every request
type Sources struct {
	Files []string `mapstructure:"files"`
}

// Providers contains configuration for each LLM backend
type Providers struct {
	Anthropic Anthropic `mapstructure:"anthropic"`
	DeepSeek  DeepSeek  `mapstructure:"deepseek"`
	Ollama    Ollama    `mapstructure:"ollama"`
	OpenAI    OpenAI    `mapstructure:"openai"`
}

// BaseProvider contains common fields shared across all providers
type BaseProvider struct {
	APIKey       string `mapstructure:"api_key"`
	Endpoint     string `mapstructure:"endpoint"`
	Organization string `mapstructure:"organization"`
}

type Anthropic struct {
	BaseProvider `mapstructure:",squash"`
}

type DeepSeek struct {
	BaseProvider `mapstructure:",squash"`
}

type Ollama struct {
	BaseProvider `mapstructure:",squash"`
}

type OpenAI struct {
	BaseProvider `mapstructure:",squash"`
}

// Language is a target-language profile for generated code
type Language struct {
	Description       string `mapstructure:"description"`
	DeclarationExt    string `mapstructure:"declaration_ext"`    // empty when the language has no separate declaration
	ImplementationExt string `mapstructure:"implementation_ext"`
	MessageTemplate   string `mapstructure:"message_template"` // {input} is replaced by the Blueprint payload
	SystemPrompt      string `mapstructure:"system_prompt"`    // empty uses the built-in prompt
}

// ServiceConfig is the per-service configuration handed to a provider service.
// it is read-only once the service has been initialized
type ServiceConfig struct {
	Endpoint     string
	APIKey       string
	Model        string
	Organization string
	SourceFiles  []string
}

// KnownProviders lists the provider names accepted in llm.provider
var KnownProviders = []string{"anthropic", "deepseek", "mock", "ollama", "openai"}

// ProviderSettings returns the configured settings for a provider name
func (c *Config) ProviderSettings(name string) (BaseProvider, bool) {
	switch name {
	case "anthropic":
		return c.Providers.Anthropic.BaseProvider, true
	case "deepseek":
		return c.Providers.DeepSeek.BaseProvider, true
	case "ollama":
		return c.Providers.Ollama.BaseProvider, true
	case "openai":
		return c.Providers.OpenAI.BaseProvider, true
	}
	return BaseProvider{}, false
}

// ServiceConfig builds the service configuration for a provider and model.
// source files are copied so later changes to c do not leak into a running service
func (c *Config) ServiceConfig(provider, model string, sourceFiles []string) ServiceConfig {
	settings, _ := c.ProviderSettings(provider)

	files := make([]string, len(sourceFiles))
	copy(files, sourceFiles)

	return ServiceConfig{
		Endpoint:     settings.Endpoint,
		APIKey:       settings.APIKey,
		Model:        model,
		Organization: settings.Organization,
		SourceFiles:  files,
	}
}

// LanguageProfile returns the profile for the configured target language
func (c *Config) LanguageProfile(name string) (Language, bool) {
	lang, ok := c.Languages[name]
	return lang, ok
}
