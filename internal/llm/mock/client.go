package mock

import (
	"encoding/json"

	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/translation"

	"github.com/tidwall/gjson"
)

// Transport implements common.Transport without touching the network.
// it answers every request with a chat completions body holding a canned translation
type Transport struct {
	// Response, when set, is delivered verbatim instead of the canned body
	Response string
}

var _ common.Transport = (*Transport)(nil)

// PostLLMRequest delivers the response on its own goroutine, like a real transport
func (t *Transport) PostLLMRequest(endpoint, authToken string, payload []byte, onComplete common.ResponseCallback) {
	body := t.Response
	if body == "" {
		body = cannedResponse(gjson.GetBytes(payload, "model").String())
	}
	go onComplete(body)
}

// CannedTranslation is the translation carried by every default mock response
var CannedTranslation = translation.Response{
	Graphs: []translation.Graph{
		{
			Name:  "MockGraph",
			Type:  "Function",
			Class: "BP_Mock",
			Code: translation.Code{
				Declaration:    "void MockGraph();",
				Implementation: "void ABP_Mock::MockGraph()\n{\n\tUE_LOG(LogTemp, Log, TEXT(\"Mock translation\"));\n}",
				Notes:          "Generated by the mock provider.",
			},
		},
	},
}

func cannedResponse(model string) string {
	content, _ := json.Marshal(CannedTranslation)
	body, _ := json.Marshal(common.ChatResponse{
		ID:     "mock-1",
		Object: "chat.completion",
		Model:  model,
		Choices: []common.Choice{
			{
				Message:      common.Message{Role: "assistant", Content: string(content)},
				FinishReason: "stop",
			},
		},
		Usage: common.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	})
	return string(body)
}
