// Package mock provides an offline provider for --test runs and tests
package mock

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/llm/openai"
)

// Endpoint is the placeholder endpoint reported by mock services
const Endpoint = "mock://n2c"

// Provider implements common.Provider with the OpenAI wire format
type Provider struct{}

var _ common.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "mock"
}

func (p *Provider) DefaultEndpoint() string {
	return Endpoint
}

// RequiresAPIKey returns false - no API key required!
func (p *Provider) RequiresAPIKey() bool {
	return false
}

func (p *Provider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// BuildRequest builds the same envelope the OpenAI provider would
func (p *Provider) BuildRequest(req common.PayloadRequest, logger *slog.Logger) (interface{}, error) {
	var format *common.ResponseFormat
	if req.StructuredOutput() {
		format = &common.ResponseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}
	body := openai.NewChatRequest(req, format)
	common.LogAPIRequest(logger, "Mock", req, len(body.Messages))
	return body, nil
}

func (p *Provider) NewResponseParser(logger *slog.Logger) common.ResponseParser {
	return openai.NewChatParser(p.ProviderName(), logger)
}

// NewTransport returns the in-process transport; headers are ignored
func (p *Provider) NewTransport(headers map[string]string) (common.Transport, error) {
	return &Transport{}, nil
}
