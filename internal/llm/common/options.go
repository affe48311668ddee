package common

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
)

// TransportFactory builds the transport for an initialized service from its default headers
type TransportFactory func(headers map[string]string) (Transport, error)

// PromptFactory builds the prompt collaborator for a service configuration
type PromptFactory func(cfg config.ServiceConfig) (PromptMerger, error)

// ServiceOption configures an AdapterService using the functional options pattern
type ServiceOption func(*AdapterService)

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *AdapterService) {
		s.logger = logger
	}
}

// WithCapabilities replaces the model capability table
func WithCapabilities(table *capability.Table) ServiceOption {
	return func(s *AdapterService) {
		s.capabilities = table
	}
}

// WithTransportFactory sets how Initialize builds the transport
func WithTransportFactory(factory TransportFactory) ServiceOption {
	return func(s *AdapterService) {
		s.transportFactory = factory
	}
}

// WithPromptFactory sets how Initialize builds the prompt collaborator
func WithPromptFactory(factory PromptFactory) ServiceOption {
	return func(s *AdapterService) {
		s.promptFactory = factory
	}
}

// WithSchema replaces the structured output definition attached to requests
func WithSchema(schema string) ServiceOption {
	return func(s *AdapterService) {
		s.schema = schema
	}
}
