package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/oklog/ulid/v2"
)

// AdapterService is the Service implementation shared by every provider.
// it owns configuration, collaborators and capability resolution, and
// delegates wire details to its Provider
type AdapterService struct {
	provider         Provider
	logger           *slog.Logger
	capabilities     *capability.Table
	transportFactory TransportFactory
	promptFactory    PromptFactory
	schema           string

	mu    sync.RWMutex
	state serviceState
}

// serviceState is replaced wholesale by Initialize and read as a snapshot
type serviceState struct {
	ready     bool
	cfg       config.ServiceConfig
	headers   map[string]string
	transport Transport
	prompts   PromptMerger
	parser    ResponseParser
}

// ensure AdapterService implements the Service interface
var _ Service = (*AdapterService)(nil)

// NewAdapterService creates a service for provider; it is not ready until Initialize succeeds
func NewAdapterService(provider Provider, opts ...ServiceOption) *AdapterService {
	s := &AdapterService{
		provider:     provider,
		capabilities: capability.Default(),
		schema:       translation.SchemaJSON,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderName returns the name of the wrapped provider
func (s *AdapterService) ProviderName() string {
	return s.provider.ProviderName()
}

// Initialize applies cfg and builds the transport, prompt and parser collaborators.
// on failure the service is left not ready and false is returned
func (s *AdapterService) Initialize(cfg config.ServiceConfig) bool {
	name := s.provider.ProviderName()

	if cfg.Endpoint == "" {
		cfg.Endpoint = s.provider.DefaultEndpoint()
	}
	cfg.SourceFiles = append([]string(nil), cfg.SourceFiles...)

	if s.provider.RequiresAPIKey() && cfg.APIKey == "" {
		s.logWarn("API key is empty; requests will likely be rejected", "provider", name)
	}

	state, err := s.buildState(cfg)
	if err != nil {
		s.logError("Failed to initialize provider service", "provider", name, "error", err)
		s.mu.Lock()
		s.state = serviceState{cfg: cfg}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("Provider service initialized",
			"provider", name,
			"model", cfg.Model,
			"endpoint", cfg.Endpoint,
			"source_files", len(cfg.SourceFiles))
	}
	return true
}

func (s *AdapterService) buildState(cfg config.ServiceConfig) (serviceState, error) {
	headers := s.provider.ProviderHeaders(cfg)

	if s.transportFactory == nil {
		return serviceState{}, errors.New("no transport configured")
	}
	transport, err := s.transportFactory(copyHeaders(headers))
	if err != nil {
		return serviceState{}, fmt.Errorf("failed to create transport: %w", err)
	}
	if transport == nil {
		return serviceState{}, errors.New("transport factory returned nil")
	}

	if s.promptFactory == nil {
		return serviceState{}, errors.New("no prompt manager configured")
	}
	prompts, err := s.promptFactory(cfg)
	if err != nil {
		return serviceState{}, fmt.Errorf("failed to create prompt manager: %w", err)
	}
	if prompts == nil {
		return serviceState{}, errors.New("prompt factory returned nil")
	}

	parser := s.provider.NewResponseParser(s.logger)
	if parser == nil {
		return serviceState{}, errors.New("provider returned no response parser")
	}

	return serviceState{
		ready:     true,
		cfg:       cfg,
		headers:   headers,
		transport: transport,
		prompts:   prompts,
		parser:    parser,
	}, nil
}

// SendRequest builds the request envelope and hands it to the transport.
// onComplete is called exactly once: with the raw body, or with an error body
// when the service is not ready or the payload cannot be built
func (s *AdapterService) SendRequest(payload, systemMessage string, onComplete ResponseCallback) {
	var once sync.Once
	deliver := func(response string) {
		once.Do(func() {
			if onComplete != nil {
				onComplete(response)
			}
		})
	}

	logger := s.requestLogger()

	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("Recovered from panic while sending request", "panic", r)
			}
			deliver(ErrorBody(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	state := s.snapshot()
	if !state.ready {
		if logger != nil {
			logger.Warn("SendRequest called before successful initialization")
		}
		deliver(ErrorBody(ErrNotInitialized.Error()))
		return
	}

	body, err := s.buildPayload(state, payload, systemMessage, logger)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to build request payload", "error", err)
		}
		deliver(ErrorBody(err.Error()))
		return
	}

	if logger != nil {
		logger.Debug("Dispatching request", "endpoint", state.cfg.Endpoint, "payload_bytes", len(body))
	}
	state.transport.PostLLMRequest(state.cfg.Endpoint, state.cfg.APIKey, body, deliver)
}

// FormatRequestPayload returns the serialized request SendRequest would dispatch
func (s *AdapterService) FormatRequestPayload(payload, systemMessage string) ([]byte, error) {
	state := s.snapshot()
	if !state.ready {
		return nil, ErrNotInitialized
	}
	return s.buildPayload(state, payload, systemMessage, s.logger)
}

func (s *AdapterService) buildPayload(state serviceState, payload, systemMessage string, logger *slog.Logger) ([]byte, error) {
	record := s.capabilities.Resolve(state.cfg.Model)

	content := payload
	if !record.SupportsSystemRole {
		content = state.prompts.MergePrompts(payload, systemMessage)
	}
	content = state.prompts.PrependSourceFiles(content)

	schema, err := translation.ParseSchema(s.schema)
	if err != nil {
		return nil, err
	}

	req := PayloadRequest{
		Model:         state.cfg.Model,
		SystemMessage: systemMessage,
		Content:       content,
		Capability:    record,
	}
	if record.SupportsStructuredOutput {
		req.Schema = schema
	}

	envelope, err := s.provider.BuildRequest(req, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", s.provider.ProviderName(), err)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", s.provider.ProviderName(), err)
	}
	return body, nil
}

// ParseResponse parses a raw body with the provider's parser
func (s *AdapterService) ParseResponse(raw string) (*translation.Response, error) {
	state := s.snapshot()
	if !state.ready {
		return nil, ErrNotInitialized
	}
	return state.parser.ParseResponse(raw)
}

// GetConfiguration reports the endpoint, credential and system-role support of the configured model
func (s *AdapterService) GetConfiguration() (string, string, bool) {
	state := s.snapshot()
	record := s.capabilities.Resolve(state.cfg.Model)
	return state.cfg.Endpoint, state.cfg.APIKey, record.SupportsSystemRole
}

// GetProviderHeaders returns a copy of the default request headers
func (s *AdapterService) GetProviderHeaders() map[string]string {
	state := s.snapshot()
	if state.headers == nil {
		return s.provider.ProviderHeaders(state.cfg)
	}
	return copyHeaders(state.headers)
}

// Configuration returns a copy of the applied service configuration
func (s *AdapterService) Configuration() config.ServiceConfig {
	cfg := s.snapshot().cfg
	cfg.SourceFiles = append([]string(nil), cfg.SourceFiles...)
	return cfg
}

// Capability resolves the configured model against the capability table
func (s *AdapterService) Capability() capability.Record {
	return s.capabilities.Resolve(s.snapshot().cfg.Model)
}

func (s *AdapterService) snapshot() serviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// requestLogger tags every line of one request with a request id
func (s *AdapterService) requestLogger() *slog.Logger {
	if s.logger == nil {
		return nil
	}
	return s.logger.With("provider", s.provider.ProviderName(), "request_id", ulid.Make().String())
}

func (s *AdapterService) logWarn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *AdapterService) logError(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

func copyHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
