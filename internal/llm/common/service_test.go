package common

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// chatProvider is a minimal chat-completions provider used to exercise AdapterService
type chatProvider struct{}

type chatEnvelope struct {
	Model          string          `json:"model"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Messages       []Message       `json:"messages"`
}

func (chatProvider) ProviderName() string    { return "chat" }
func (chatProvider) DefaultEndpoint() string { return "https://chat.example.com/v1/chat/completions" }
func (chatProvider) RequiresAPIKey() bool    { return true }

func (chatProvider) ProviderHeaders(cfg config.ServiceConfig) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}
}

func (chatProvider) BuildRequest(req PayloadRequest, logger *slog.Logger) (interface{}, error) {
	env := chatEnvelope{Model: req.Model, Messages: BuildMessages(req)}
	if req.StructuredOutput() {
		env.ResponseFormat = &ResponseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}
	if req.Capability.SupportsSystemRole {
		env.Temperature = Float64Ptr(capability.Temperature)
		env.MaxTokens = IntPtr(capability.MaxTokens)
	}
	return env, nil
}

func (chatProvider) NewResponseParser(logger *slog.Logger) ResponseParser {
	return parserFunc(func(raw string) (*translation.Response, error) {
		return DecodeTranslation("chat", gjson.Get(raw, "content").String(), logger)
	})
}

type parserFunc func(raw string) (*translation.Response, error)

func (f parserFunc) ParseResponse(raw string) (*translation.Response, error) { return f(raw) }

// prefixPrompts merges by prefixing and injects a fixed source header
type prefixPrompts struct{}

func (prefixPrompts) MergePrompts(user, system string) string {
	if system == "" || strings.HasPrefix(user, system+"\n\n") {
		return user
	}
	return system + "\n\n" + user
}

func (prefixPrompts) PrependSourceFiles(message string) string {
	const header = "// Source: ref.h\n"
	if strings.Contains(message, header) {
		return message
	}
	return header + message
}

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) PostLLMRequest(endpoint, authToken string, payload []byte, onComplete ResponseCallback) {
	m.Called(endpoint, authToken, payload, onComplete)
}

// respondWith makes the mock deliver body and records the payload it was sent
func respondWith(m *mockTransport, body string, sent *[]byte) {
	m.On("PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*sent = args.Get(2).([]byte)
			args.Get(3).(ResponseCallback)(body)
		}).Return()
}

func newTestService(t *testing.T, transport Transport, opts ...ServiceOption) *AdapterService {
	t.Helper()
	base := []ServiceOption{
		WithTransportFactory(func(map[string]string) (Transport, error) { return transport, nil }),
		WithPromptFactory(func(config.ServiceConfig) (PromptMerger, error) { return prefixPrompts{}, nil }),
	}
	return NewAdapterService(chatProvider{}, append(base, opts...)...)
}

func send(t *testing.T, svc Service, payload, system string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := SendAndWait(ctx, svc, payload, system)
	require.NoError(t, err)
	return resp
}

func TestAdapterService_SystemRoleModel(t *testing.T) {
	transport := &mockTransport{}
	var sent []byte
	respondWith(transport, `{"id":"ok"}`, &sent)

	svc := newTestService(t, transport)
	require.True(t, svc.Initialize(config.ServiceConfig{APIKey: "sk-test", Model: "gpt-4o"}))

	resp := send(t, svc, "<source>", "Translate to Blueprint")
	assert.Equal(t, `{"id":"ok"}`, resp)

	body := string(sent)
	assert.Equal(t, "gpt-4o", gjson.Get(body, "model").String())
	assert.Equal(t, int64(0), gjson.Get(body, "temperature").Int())
	assert.True(t, gjson.Get(body, "temperature").Exists())
	assert.Equal(t, int64(8192), gjson.Get(body, "max_tokens").Int())
	assert.Equal(t, "json_schema", gjson.Get(body, "response_format.type").String())
	assert.Equal(t, translation.SchemaName, gjson.Get(body, "response_format.json_schema.name").String())

	messages := gjson.Get(body, "messages").Array()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleSystem, messages[0].Get("role").String())
	assert.Equal(t, "Translate to Blueprint", messages[0].Get("content").String())
	assert.Equal(t, RoleUser, messages[1].Get("role").String())
	assert.Equal(t, "// Source: ref.h\n<source>", messages[1].Get("content").String())
	assert.NotContains(t, messages[1].Get("content").String(), "Translate to Blueprint")

	transport.AssertCalled(t, "PostLLMRequest", "https://chat.example.com/v1/chat/completions", "sk-test", mock.Anything, mock.Anything)
}

func TestAdapterService_ExcludedModels(t *testing.T) {
	for _, model := range []string{"o1-preview-2024-09-12", "o1-mini-2024-09-12"} {
		t.Run(model, func(t *testing.T) {
			transport := &mockTransport{}
			var sent []byte
			respondWith(transport, `{}`, &sent)

			svc := newTestService(t, transport)
			require.True(t, svc.Initialize(config.ServiceConfig{APIKey: "k", Model: model}))
			send(t, svc, "user text", "system text")

			body := string(sent)
			assert.False(t, gjson.Get(body, "response_format").Exists())
			assert.False(t, gjson.Get(body, "temperature").Exists())
			assert.False(t, gjson.Get(body, "max_tokens").Exists())

			messages := gjson.Get(body, "messages").Array()
			require.Len(t, messages, 1)
			assert.Equal(t, RoleUser, messages[0].Get("role").String())
			assert.Equal(t, "// Source: ref.h\nsystem text\n\nuser text", messages[0].Get("content").String())
		})
	}
}

func TestAdapterService_UnknownModelGetsSchema(t *testing.T) {
	transport := &mockTransport{}
	var sent []byte
	respondWith(transport, `{}`, &sent)

	svc := newTestService(t, transport)
	require.True(t, svc.Initialize(config.ServiceConfig{APIKey: "k", Model: "gpt-9-experimental"}))
	send(t, svc, "u", "s")

	body := string(sent)
	assert.Equal(t, "json_schema", gjson.Get(body, "response_format.type").String())
	assert.Len(t, gjson.Get(body, "messages").Array(), 2)
}

func TestAdapterService_CapabilityTableOverride(t *testing.T) {
	transport := &mockTransport{}
	var sent []byte
	respondWith(transport, `{}`, &sent)

	table := capability.NewTable(capability.Record{Model: "custom", Provider: "chat", SupportsSystemRole: false, SupportsStructuredOutput: true})
	svc := newTestService(t, transport, WithCapabilities(table))
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "custom"}))
	send(t, svc, "u", "s")

	body := string(sent)
	assert.True(t, gjson.Get(body, "response_format").Exists())
	assert.Len(t, gjson.Get(body, "messages").Array(), 1)

	_, _, supportsSystem := svc.GetConfiguration()
	assert.False(t, supportsSystem)
}

func TestAdapterService_NotInitialized(t *testing.T) {
	transport := &mockTransport{}
	svc := newTestService(t, transport)

	var calls int32
	var got string
	svc.SendRequest("payload", "system", func(resp string) {
		atomic.AddInt32(&calls, 1)
		got = resp
	})

	// delivered synchronously, before SendRequest returns
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, `{"error":"Service not initialized"}`, got)
	transport.AssertNotCalled(t, "PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, err := svc.FormatRequestPayload("p", "s")
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = svc.ParseResponse("{}")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestAdapterService_InitializeFailure(t *testing.T) {
	tests := []struct {
		name string
		opts []ServiceOption
	}{
		{
			name: "transport error",
			opts: []ServiceOption{WithTransportFactory(func(map[string]string) (Transport, error) {
				return nil, errors.New("boom")
			})},
		},
		{
			name: "prompt error",
			opts: []ServiceOption{WithPromptFactory(func(config.ServiceConfig) (PromptMerger, error) {
				return nil, errors.New("unreadable manifest")
			})},
		},
		{
			name: "no transport factory",
			opts: []ServiceOption{WithTransportFactory(nil)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{}
			svc := newTestService(t, transport, tt.opts...)

			assert.False(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

			var got string
			svc.SendRequest("p", "s", func(resp string) { got = resp })
			assert.Equal(t, ErrorBody(ErrNotInitialized.Error()), got)
			transport.AssertNotCalled(t, "PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdapterService_FailedReinitializeLeavesServiceNotReady(t *testing.T) {
	fail := false
	transport := &mockTransport{}
	svc := newTestService(t, transport, WithTransportFactory(func(map[string]string) (Transport, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return transport, nil
	}))

	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))
	fail = true
	assert.False(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	_, err := svc.FormatRequestPayload("p", "s")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestAdapterService_MalformedSchema(t *testing.T) {
	transport := &mockTransport{}
	svc := newTestService(t, transport, WithSchema(`{"name": "broken", "schema": `))
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	resp := send(t, svc, "p", "s")

	msg, ok := ErrorMessage(resp)
	require.True(t, ok, "expected an error body, got %s", resp)
	assert.Contains(t, msg, "malformed structured output schema")
	transport.AssertNotCalled(t, "PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdapterService_TransportPanicDeliversOnce(t *testing.T) {
	transport := &mockTransport{}
	transport.On("PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { panic("socket exploded") }).Return()

	svc := newTestService(t, transport)
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	var calls int32
	var got string
	assert.NotPanics(t, func() {
		svc.SendRequest("p", "s", func(resp string) {
			atomic.AddInt32(&calls, 1)
			got = resp
		})
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	msg, ok := ErrorMessage(got)
	require.True(t, ok)
	assert.Contains(t, msg, "socket exploded")
}

func TestAdapterService_TransportDeliversTwice(t *testing.T) {
	transport := &mockTransport{}
	transport.On("PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cb := args.Get(3).(ResponseCallback)
			cb("first")
			cb("second")
		}).Return()

	svc := newTestService(t, transport)
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	var responses []string
	svc.SendRequest("p", "s", func(resp string) { responses = append(responses, resp) })
	assert.Equal(t, []string{"first"}, responses)
}

func TestAdapterService_Configuration(t *testing.T) {
	transport := &mockTransport{}
	var headers map[string]string
	svc := newTestService(t, transport, WithTransportFactory(func(h map[string]string) (Transport, error) {
		headers = h
		return transport, nil
	}))

	sources := []string{"a.h"}
	require.True(t, svc.Initialize(config.ServiceConfig{APIKey: "sk-1", Model: "o1-mini-2024-09-12", SourceFiles: sources}))
	sources[0] = "mutated.h"

	endpoint, token, supportsSystem := svc.GetConfiguration()
	assert.Equal(t, chatProvider{}.DefaultEndpoint(), endpoint)
	assert.Equal(t, "sk-1", token)
	assert.False(t, supportsSystem)

	assert.Equal(t, []string{"a.h"}, svc.Configuration().SourceFiles)
	assert.Equal(t, "Bearer sk-1", headers["Authorization"])

	got := svc.GetProviderHeaders()
	assert.Equal(t, map[string]string{"Authorization": "Bearer sk-1", "Content-Type": "application/json"}, got)
	got["Authorization"] = "tampered"
	assert.Equal(t, "Bearer sk-1", svc.GetProviderHeaders()["Authorization"])

	// explicit endpoint is kept
	require.True(t, svc.Initialize(config.ServiceConfig{Endpoint: "http://proxy.local/v1", Model: "gpt-4o"}))
	endpoint, _, supportsSystem = svc.GetConfiguration()
	assert.Equal(t, "http://proxy.local/v1", endpoint)
	assert.True(t, supportsSystem)
}

func TestAdapterService_FormatRequestPayloadIsDeterministic(t *testing.T) {
	svc := newTestService(t, &mockTransport{})
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	first, err := svc.FormatRequestPayload("p", "s")
	require.NoError(t, err)
	second, err := svc.FormatRequestPayload("p", "s")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// field order follows the envelope definition
	assert.True(t, strings.HasPrefix(string(first), `{"model":"gpt-4o","response_format":{"type":"json_schema"`))
}

func TestAdapterService_ParseResponse(t *testing.T) {
	svc := newTestService(t, &mockTransport{})
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	resp, err := svc.ParseResponse(`{"content":"{\"graphs\":[{\"graph_name\":\"G\",\"code\":{\"graphImplementation\":\"x\"}}]}"}`)
	require.NoError(t, err)
	assert.Equal(t, "G", resp.Graphs[0].Name)
}

func TestSendAndWait_ContextDone(t *testing.T) {
	transport := &mockTransport{}
	// never calls back
	transport.On("PostLLMRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	svc := newTestService(t, transport)
	require.True(t, svc.Initialize(config.ServiceConfig{Model: "gpt-4o"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := SendAndWait(ctx, svc, "p", "s")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
