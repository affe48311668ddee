// Package deepseek implements the DeepSeek chat completions provider.
//
// API Reference: https://api-docs.deepseek.com/api/create-chat-completion
// Authentication: providers.deepseek.api_key or DEEPSEEK_API_KEY environment variable
//
// DeepSeek speaks the OpenAI wire format but only supports JSON mode
// (response_format type "json_object"), so the schema travels as an
// instruction appended to the system message. deepseek-reasoner has no
// JSON mode at all.
package deepseek

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/llm/openai"
	"github.com/Ereliath/NodeToCode/internal/translation"
)

// DefaultEndpoint is the chat completions URL used when none is configured
const DefaultEndpoint = "https://api.deepseek.com/chat/completions"

// Provider implements common.Provider for DeepSeek
type Provider struct{}

// ensure Provider implements the common provider interface
var _ common.Provider = (*Provider)(nil)

// New creates a new DeepSeek provider instance
func New() *Provider {
	return &Provider{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "deepseek"
}

// DefaultEndpoint returns the public chat completions endpoint
func (p *Provider) DefaultEndpoint() string {
	return DefaultEndpoint
}

// RequiresAPIKey returns true; DeepSeek requires an API key
func (p *Provider) RequiresAPIKey() bool {
	return true
}

// ProviderHeaders returns the bearer credential and content type
func (p *Provider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}
}

// BuildRequest creates an OpenAI-compatible envelope using JSON mode
func (p *Provider) BuildRequest(req common.PayloadRequest, logger *slog.Logger) (interface{}, error) {
	var format *common.ResponseFormat
	if req.StructuredOutput() {
		format = &common.ResponseFormat{Type: "json_object"}

		// JSON mode needs the expected shape spelled out in the prompt
		instruction := translation.SchemaInstruction(req.Schema)
		if req.Capability.SupportsSystemRole {
			req.SystemMessage = translation.AppendInstruction(req.SystemMessage, instruction)
		} else {
			req.Content = translation.AppendInstruction(req.Content, instruction)
		}
	}

	body := openai.NewChatRequest(req, format)
	common.LogAPIRequest(logger, "DeepSeek", req, len(body.Messages))
	return body, nil
}

// NewResponseParser returns the chat completions parser
func (p *Provider) NewResponseParser(logger *slog.Logger) common.ResponseParser {
	return openai.NewChatParser(p.ProviderName(), logger)
}
