package anthropic

import "github.com/Ereliath/NodeToCode/internal/llm/common"

// APIVersion is sent in the anthropic-version header
const APIVersion = "2023-06-01"

// MessagesRequest represents the request payload for Anthropic's Messages API
type MessagesRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	Messages    []common.Message `json:"messages"`
	Stream      *bool            `json:"stream,omitempty"`
}
