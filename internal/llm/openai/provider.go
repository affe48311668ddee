// Package openai implements the OpenAI chat completions provider.
//
// API Reference: https://platform.openai.com/docs/api-reference/chat/create
// Authentication: providers.openai.api_key or OPENAI_API_KEY environment variable
// Organization: providers.openai.organization or OPENAI_ORG_ID environment variable
//
// Structured output is requested with response_format type "json_schema" for
// every model except the ones the capability table marks as unsupported
// (o1-preview-2024-09-12, o1-mini-2024-09-12).
package openai

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
)

// DefaultEndpoint is the chat completions URL used when none is configured
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Provider implements common.Provider for OpenAI
type Provider struct{}

// ensure Provider implements the common provider interface
var _ common.Provider = (*Provider)(nil)

// New creates a new OpenAI provider instance
func New() *Provider {
	return &Provider{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "openai"
}

// DefaultEndpoint returns the public chat completions endpoint
func (p *Provider) DefaultEndpoint() string {
	return DefaultEndpoint
}

// RequiresAPIKey returns true; OpenAI requires an API key
func (p *Provider) RequiresAPIKey() bool {
	return true
}

// ProviderHeaders returns the bearer credential and content type, plus the
// organization header when one is configured
func (p *Provider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}
	if cfg.Organization != "" {
		headers["OpenAI-Organization"] = cfg.Organization
	}
	return headers
}

// BuildRequest creates the chat completions envelope
func (p *Provider) BuildRequest(req common.PayloadRequest, logger *slog.Logger) (interface{}, error) {
	var format *common.ResponseFormat
	if req.StructuredOutput() {
		format = &common.ResponseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}

	body := NewChatRequest(req, format)
	common.LogAPIRequest(logger, "OpenAI", req, len(body.Messages))
	return body, nil
}

// NewResponseParser returns the chat completions parser
func (p *Provider) NewResponseParser(logger *slog.Logger) common.ResponseParser {
	return NewChatParser(p.ProviderName(), logger)
}
