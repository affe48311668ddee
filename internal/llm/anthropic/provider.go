// Package anthropic implements the Anthropic Messages API provider.
//
// API Reference: https://docs.anthropic.com/en/api/messages
// Authentication: providers.anthropic.api_key or ANTHROPIC_API_KEY environment variable
//
// The Messages API takes the system prompt as a top-level field and has no
// response_format, so the translation schema is appended to the system
// prompt as an instruction.
package anthropic

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/tidwall/gjson"
)

// DefaultEndpoint is the Messages API URL used when none is configured
const DefaultEndpoint = "https://api.anthropic.com/v1/messages"

// Provider implements common.Provider for Anthropic
type Provider struct{}

// ensure Provider implements the common provider interface
var _ common.Provider = (*Provider)(nil)

// New creates a new Anthropic provider instance
func New() *Provider {
	return &Provider{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "anthropic"
}

// DefaultEndpoint returns the public Messages API endpoint
func (p *Provider) DefaultEndpoint() string {
	return DefaultEndpoint
}

// RequiresAPIKey returns true; Anthropic requires an API key
func (p *Provider) RequiresAPIKey() bool {
	return true
}

// ProviderHeaders returns the x-api-key credential and API version headers.
// Anthropic does not accept Authorization: Bearer
// see: https://docs.anthropic.com/en/api/overview#authentication
func (p *Provider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	return map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": APIVersion,
		"Content-Type":      "application/json",
	}
}

// BuildRequest creates a Messages API request
func (p *Provider) BuildRequest(req common.PayloadRequest, logger *slog.Logger) (interface{}, error) {
	instruction := ""
	if req.StructuredOutput() {
		instruction = translation.SchemaInstruction(req.Schema)
	}

	body := &MessagesRequest{
		Model:     req.Model,
		MaxTokens: capability.MaxTokens, // required by the API
		Stream:    common.BoolPtr(false),
	}

	content := req.Content
	if req.Capability.SupportsSystemRole {
		body.System = translation.AppendInstruction(req.SystemMessage, instruction)
		body.Temperature = common.Float64Ptr(capability.Temperature)
	} else {
		content = translation.AppendInstruction(content, instruction)
	}
	body.Messages = []common.Message{{Role: common.RoleUser, Content: content}}

	common.LogAPIRequest(logger, "Anthropic", req, len(body.Messages))
	return body, nil
}

// NewResponseParser returns the Messages API parser
func (p *Provider) NewResponseParser(logger *slog.Logger) common.ResponseParser {
	return &Parser{logger: logger}
}

// Parser parses Messages API bodies
type Parser struct {
	logger *slog.Logger
}

// ParseResponse joins the text content blocks and decodes them
func (p *Parser) ParseResponse(raw string) (*translation.Response, error) {
	if !gjson.Valid(raw) {
		common.LogJSONUnmarshalError(p.logger, errors.New("invalid JSON"), raw)
		return nil, fail("response is not valid JSON", nil)
	}

	// {"type":"error","error":{"type":"...","message":"..."}}
	if msg, ok := common.ErrorMessage(raw); ok {
		return nil, fail("API error", errors.New(msg))
	}

	var parts []string
	for _, item := range gjson.Get(raw, "content").Array() {
		if item.Get("type").String() == "text" {
			parts = append(parts, item.Get("text").String())
		}
	}
	if len(parts) == 0 {
		return nil, fail("no text content in response", nil)
	}

	if gjson.Get(raw, "stop_reason").String() == "max_tokens" && p.logger != nil {
		p.logger.Warn("Response was truncated at the token limit", "provider", "anthropic")
	}

	input := int(gjson.Get(raw, "usage.input_tokens").Int())
	output := int(gjson.Get(raw, "usage.output_tokens").Int())
	common.LogTokenUsage(p.logger, gjson.Get(raw, "id").String(), common.Usage{
		PromptTokens:     input,
		CompletionTokens: output,
		TotalTokens:      input + output,
	})

	content := strings.Join(parts, "")
	common.LogRequestCompletion(p.logger, len(content))
	return common.DecodeTranslation("anthropic", content, p.logger)
}

func fail(reason string, err error) error {
	return &translation.ParseError{Provider: "anthropic", Reason: reason, Err: err}
}
