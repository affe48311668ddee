package ollama

import (
	"encoding/json"

	"github.com/Ereliath/NodeToCode/internal/llm/common"
)

// ChatRequest represents the request payload for Ollama's chat API
type ChatRequest struct {
	Model    string           `json:"model"`
	Messages []common.Message `json:"messages"`
	Stream   bool             `json:"stream"`

	// Format carries a bare JSON Schema for structured output
	Format json.RawMessage `json:"format,omitempty"`

	Options *Options `json:"options,omitempty"`
}

// Options holds generation parameters; Ollama calls the token limit num_predict
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}
