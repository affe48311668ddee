package anthropic

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const translationJSON = `{"graphs":[{"graph_name":"OnOpen","graph_type":"Function","graph_class":"BP_Door","code":{"graphDeclaration":"void OnOpen();","graphImplementation":"void ABP_Door::OnOpen() {}"}}]}`

func messagesBody(t *testing.T, texts ...string) string {
	t.Helper()
	content := make([]map[string]string, 0, len(texts))
	for _, text := range texts {
		content = append(content, map[string]string{"type": "text", "text": text})
	}
	b, err := json.Marshal(map[string]interface{}{
		"id":          "msg_01",
		"type":        "message",
		"role":        "assistant",
		"content":     content,
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 12, "output_tokens": 30},
	})
	require.NoError(t, err)
	return string(b)
}

func build(t *testing.T, record capability.Record, structured bool) string {
	t.Helper()
	req := common.PayloadRequest{
		Model:         record.Model,
		SystemMessage: "Translate to C++",
		Content:       "<graph>",
		Capability:    record,
	}
	if structured {
		schema, err := translation.ParseSchema(translation.SchemaJSON)
		require.NoError(t, err)
		req.Schema = schema
	}

	body, err := New().BuildRequest(req, nil)
	require.NoError(t, err)
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}

func TestProvider_Basics(t *testing.T) {
	p := New()
	assert.Equal(t, "anthropic", p.ProviderName())
	assert.True(t, p.RequiresAPIKey())
	assert.Equal(t, "https://api.anthropic.com/v1/messages", p.DefaultEndpoint())
}

func TestProvider_ProviderHeaders(t *testing.T) {
	headers := New().ProviderHeaders(config.ServiceConfig{APIKey: "sk-ant-test"})

	assert.Equal(t, map[string]string{
		"x-api-key":         "sk-ant-test",
		"anthropic-version": "2023-06-01",
		"Content-Type":      "application/json",
	}, headers)
	assert.NotContains(t, headers, "Authorization")
}

func TestProvider_BuildRequest(t *testing.T) {
	t.Run("system role with schema", func(t *testing.T) {
		raw := build(t, capability.Resolve("claude-sonnet-4-20250514"), true)

		assert.Equal(t, "claude-sonnet-4-20250514", gjson.Get(raw, "model").String())
		assert.Equal(t, int64(8192), gjson.Get(raw, "max_tokens").Int())
		assert.True(t, gjson.Get(raw, "temperature").Exists())
		assert.False(t, gjson.Get(raw, "stream").Bool())

		system := gjson.Get(raw, "system").String()
		assert.Contains(t, system, "Translate to C++")
		assert.Contains(t, system, "JSON Schema")

		messages := gjson.Get(raw, "messages").Array()
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].Get("role").String())
		assert.Equal(t, "<graph>", messages[0].Get("content").String())
	})

	t.Run("system role without schema", func(t *testing.T) {
		raw := build(t, capability.Record{Model: "claude-x", SupportsSystemRole: true}, false)
		assert.Equal(t, "Translate to C++", gjson.Get(raw, "system").String())
	})

	t.Run("no system role", func(t *testing.T) {
		raw := build(t, capability.Record{Model: "claude-legacy"}, true)

		assert.False(t, gjson.Get(raw, "system").Exists())
		assert.False(t, gjson.Get(raw, "temperature").Exists())
		assert.Equal(t, int64(8192), gjson.Get(raw, "max_tokens").Int())

		messages := gjson.Get(raw, "messages").Array()
		require.Len(t, messages, 1)
		content := messages[0].Get("content").String()
		assert.Contains(t, content, "<graph>")
		assert.Contains(t, content, "JSON Schema")
	})
}

func TestParser_ParseResponse(t *testing.T) {
	parser := New().NewResponseParser(nil)

	t.Run("single text block", func(t *testing.T) {
		resp, err := parser.ParseResponse(messagesBody(t, translationJSON))
		require.NoError(t, err)
		require.Len(t, resp.Graphs, 1)
		assert.Equal(t, "OnOpen", resp.Graphs[0].Name)
	})

	t.Run("split text blocks are joined", func(t *testing.T) {
		half := len(translationJSON) / 2
		resp, err := parser.ParseResponse(messagesBody(t, translationJSON[:half], translationJSON[half:]))
		require.NoError(t, err)
		assert.Equal(t, "BP_Door", resp.Graphs[0].Class)
	})

	errorCases := []struct {
		name   string
		body   string
		reason string
	}{
		{name: "invalid JSON", body: `not json`, reason: "response is not valid JSON"},
		{name: "API error", body: `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, reason: "API error"},
		{name: "transport error body", body: `{"error":"request failed: dial tcp: connection refused"}`, reason: "API error"},
		{name: "no text", body: `{"type":"message","content":[{"type":"tool_use","id":"x"}]}`, reason: "no text content in response"},
		{name: "empty content", body: `{"type":"message","content":[]}`, reason: "no text content in response"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseResponse(tt.body)

			var parseErr *translation.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "anthropic", parseErr.Provider)
			assert.Equal(t, tt.reason, parseErr.Reason)
		})
	}
}
