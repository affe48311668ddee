package common

import (
	"encoding/json"

	"github.com/Ereliath/NodeToCode/internal/llm/capability"
)

// message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatResponse represents a standard chat completion response
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a completion choice in the response
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseFormat specifies output format for structured responses.
// JSONSchema carries the {name, schema} definition for type "json_schema"
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// PayloadRequest is the provider-neutral input to Provider.BuildRequest
type PayloadRequest struct {
	Model         string
	SystemMessage string
	// Content is the user message after prompt merging and source injection
	Content    string
	Capability capability.Record
	// Schema is the structured-output definition; nil when the model is not eligible
	Schema json.RawMessage
}

// StructuredOutput reports whether the request should carry a schema
func (r PayloadRequest) StructuredOutput() bool {
	return len(r.Schema) > 0
}

// BuildMessages returns the chat messages for req: the system message first when
// the model accepts one, then exactly one user message
func BuildMessages(req PayloadRequest) []Message {
	messages := make([]Message, 0, 2)
	if req.Capability.SupportsSystemRole {
		messages = append(messages, Message{Role: RoleSystem, Content: req.SystemMessage})
	}
	return append(messages, Message{Role: RoleUser, Content: req.Content})
}
