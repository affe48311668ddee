package common

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/translation"
)

// ResponseCallback receives the raw response body of a request, or a JSON
// error body of the form {"error": "..."}. it is invoked exactly once per request
type ResponseCallback func(response string)

// Service is the contract every provider service fulfils
type Service interface {
	// Initialize applies cfg and builds the service collaborators.
	// it returns false when a collaborator cannot be built; the service is then not ready
	Initialize(cfg config.ServiceConfig) bool

	// SendRequest builds the request for payload and dispatches it asynchronously
	SendRequest(payload, systemMessage string, onComplete ResponseCallback)

	// GetConfiguration reports the endpoint, credential and whether the configured
	// model accepts a separate system message
	GetConfiguration() (endpoint, authToken string, supportsSystemPrompts bool)

	// GetProviderHeaders returns the headers sent with every request
	GetProviderHeaders() map[string]string
}

// Transport posts a serialized request and reports the raw body through onComplete
type Transport interface {
	PostLLMRequest(endpoint, authToken string, payload []byte, onComplete ResponseCallback)
}

// PromptMerger folds system prompts into user messages and injects reference sources
type PromptMerger interface {
	// MergePrompts combines user and system text into one message; merging an
	// already merged message returns it unchanged
	MergePrompts(userMessage, systemMessage string) string

	// PrependSourceFiles returns message with the configured source files injected
	PrependSourceFiles(message string) string
}

// ResponseParser turns a raw provider body into a translation
type ResponseParser interface {
	ParseResponse(raw string) (*translation.Response, error)
}

// Provider holds everything that differs between LLM backends.
// AdapterService handles the rest (state, capability resolution, dispatch)
type Provider interface {
	ProviderName() string

	// DefaultEndpoint is used when the configuration leaves the endpoint empty
	DefaultEndpoint() string

	RequiresAPIKey() bool

	// ProviderHeaders returns the default headers for cfg; it must be deterministic
	ProviderHeaders(cfg config.ServiceConfig) map[string]string

	// BuildRequest returns the request envelope that will be JSON marshaled
	BuildRequest(req PayloadRequest, logger *slog.Logger) (interface{}, error)

	NewResponseParser(logger *slog.Logger) ResponseParser
}

// ConnectionErrorHandler is implemented by providers that can explain
// connection failures better than the raw network error
type ConnectionErrorHandler interface {
	HandleConnectionError(err error) error
}
