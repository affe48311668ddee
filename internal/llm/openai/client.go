package openai

import (
	"github.com/Ereliath/NodeToCode/internal/llm/capability"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
)

// ChatRequest represents the request payload for OpenAI's chat API.
// field order is the wire order
type ChatRequest struct {
	Model          string                 `json:"model"`
	ResponseFormat *common.ResponseFormat `json:"response_format,omitempty"`
	Temperature    *float64               `json:"temperature,omitempty"`
	MaxTokens      *int                   `json:"max_tokens,omitempty"`
	Messages       []common.Message       `json:"messages"`
}

// NewChatRequest builds the chat envelope for req. format is attached as given;
// generation controls are set only for models that accept a system role
func NewChatRequest(req common.PayloadRequest, format *common.ResponseFormat) *ChatRequest {
	body := &ChatRequest{
		Model:          req.Model,
		ResponseFormat: format,
		Messages:       common.BuildMessages(req),
	}

	if req.Capability.SupportsSystemRole {
		body.Temperature = common.Float64Ptr(capability.Temperature)
		body.MaxTokens = common.IntPtr(capability.MaxTokens)
	}

	return body
}
