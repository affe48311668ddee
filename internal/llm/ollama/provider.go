// Package ollama implements the provider for a local Ollama server.
//
// API Reference: https://github.com/ollama/ollama/blob/main/docs/api.md#generate-a-chat-completion
// Authentication: none; an api_key, when set, is sent as a bearer token for
// servers behind an authenticating proxy
package ollama

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/tidwall/gjson"
)

// DefaultEndpoint is the local chat URL used when none is configured
const DefaultEndpoint = "http://localhost:11434/api/chat"

// Provider implements common.Provider for Ollama
type Provider struct{}

// ensure Provider implements the common.Provider and ConnectionErrorHandler interfaces
var (
	_ common.Provider               = (*Provider)(nil)
	_ common.ConnectionErrorHandler = (*Provider)(nil)
)

// New creates a new Ollama provider instance
func New() *Provider {
	return &Provider{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "ollama"
}

// DefaultEndpoint returns the local chat endpoint
func (p *Provider) DefaultEndpoint() string {
	return DefaultEndpoint
}

// RequiresAPIKey returns false (Ollama doesn't require an API key)
func (p *Provider) RequiresAPIKey() bool {
	return false
}

// ProviderHeaders returns the content type, plus a bearer token when a key is configured
func (p *Provider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	return headers
}

// BuildRequest creates an Ollama chat request
func (p *Provider) BuildRequest(req common.PayloadRequest, logger *slog.Logger) (interface{}, error) {
	body := &ChatRequest{
		Model:    req.Model,
		Messages: common.BuildMessages(req),
		Stream:   false,
	}

	if req.StructuredOutput() {
		body.Format = translation.InnerSchema(req.Schema)
	}

	if req.Capability.SupportsSystemRole {
		body.Options = &Options{
			Temperature: common.Float64Ptr(capability.Temperature),
			NumPredict:  common.IntPtr(capability.MaxTokens),
		}
	}

	common.LogAPIRequest(logger, "Ollama", req, len(body.Messages))
	return body, nil
}

// NewResponseParser returns the Ollama chat parser
func (p *Provider) NewResponseParser(logger *slog.Logger) common.ResponseParser {
	return &Parser{logger: logger}
}

// HandleConnectionError provides helpful guidance when Ollama is unreachable
func (p *Provider) HandleConnectionError(err error) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "no such host") {
		return fmt.Errorf(`Cannot connect to Ollama server.

Ollama may not be running or installed:
• Install Ollama: https://ollama.ai/
• Start Ollama: ollama serve
• Check if Ollama is running: curl http://localhost:11434/api/version

Original error: %s`, errStr)
	}

	return err
}

// Parser parses Ollama chat bodies
type Parser struct {
	logger *slog.Logger
}

// ParseResponse extracts the message content of a completed chat and decodes it
func (p *Parser) ParseResponse(raw string) (*translation.Response, error) {
	if !gjson.Valid(raw) {
		common.LogJSONUnmarshalError(p.logger, errors.New("invalid JSON"), raw)
		return nil, fail("response is not valid JSON", nil)
	}

	if msg, ok := common.ErrorMessage(raw); ok {
		return nil, fail("API error", explain(msg))
	}

	if !gjson.Get(raw, "done").Bool() {
		return nil, fail("incomplete response received from Ollama (done: false)", nil)
	}

	prompt := int(gjson.Get(raw, "prompt_eval_count").Int())
	eval := int(gjson.Get(raw, "eval_count").Int())
	common.LogTokenUsage(p.logger, gjson.Get(raw, "created_at").String(), common.Usage{
		PromptTokens:     prompt,
		CompletionTokens: eval,
		TotalTokens:      prompt + eval,
	})

	content := gjson.Get(raw, "message.content").String()
	if content == "" {
		return nil, fail("no content in response", nil)
	}
	common.LogRequestCompletion(p.logger, len(content))

	return common.DecodeTranslation("ollama", content, p.logger)
}

// explain adds local setup guidance to errors about missing models
func explain(msg string) error {
	if strings.Contains(msg, "try pulling") || strings.Contains(msg, "not found") {
		return fmt.Errorf(`%s

The requested model may not be installed locally. To see installed models, run:
    ollama list

To download a model, use:
    ollama pull [model_name]`, msg)
	}
	return errors.New(msg)
}

func fail(reason string, err error) error {
	return &translation.ParseError{Provider: "ollama", Reason: reason, Err: err}
}
