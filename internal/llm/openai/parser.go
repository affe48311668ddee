package openai

import (
	"errors"
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/tidwall/gjson"
)

// ChatParser parses chat completions bodies. it serves every provider that
// speaks the OpenAI response shape
type ChatParser struct {
	provider string
	logger   *slog.Logger
}

// ensure ChatParser implements the common.ResponseParser interface
var _ common.ResponseParser = (*ChatParser)(nil)

// NewChatParser creates a parser reporting errors under the provider name
func NewChatParser(provider string, logger *slog.Logger) *ChatParser {
	return &ChatParser{provider: provider, logger: logger}
}

// ParseResponse extracts the first choice's message content and decodes it
func (p *ChatParser) ParseResponse(raw string) (*translation.Response, error) {
	if !gjson.Valid(raw) {
		common.LogJSONUnmarshalError(p.logger, errors.New("invalid JSON"), raw)
		return nil, p.fail("response is not valid JSON", nil)
	}

	if msg, ok := common.ErrorMessage(raw); ok {
		return nil, p.fail("API error", errors.New(msg))
	}

	choice := gjson.Get(raw, "choices.0")
	if !choice.Exists() {
		return nil, p.fail("no choices in response", nil)
	}

	if refusal := choice.Get("message.refusal").String(); refusal != "" {
		return nil, p.fail("model refused the request", errors.New(refusal))
	}

	if reason := choice.Get("finish_reason").String(); reason == "length" && p.logger != nil {
		p.logger.Warn("Response was truncated at the token limit", "provider", p.provider)
	}

	common.LogTokenUsage(p.logger, gjson.Get(raw, "id").String(), common.Usage{
		PromptTokens:     int(gjson.Get(raw, "usage.prompt_tokens").Int()),
		CompletionTokens: int(gjson.Get(raw, "usage.completion_tokens").Int()),
		TotalTokens:      int(gjson.Get(raw, "usage.total_tokens").Int()),
	})

	content := choice.Get("message.content").String()
	if content == "" {
		return nil, p.fail("no content in response", nil)
	}
	common.LogRequestCompletion(p.logger, len(content))

	return common.DecodeTranslation(p.provider, content, p.logger)
}

func (p *ChatParser) fail(reason string, err error) error {
	return &translation.ParseError{Provider: p.provider, Reason: reason, Err: err}
}
