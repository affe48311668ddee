package translation

import (
	"encoding/json"
	"fmt"

	"github.com/Ereliath/NodeToCode/internal/format"
)

// Decode turns model message content into a validated Response.
// content may be wrapped in a markdown fence or surrounded by prose
func Decode(content string) (*Response, error) {
	cleaned := format.CleanJSON(content)

	var resp Response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("invalid translation JSON: %w", err)
	}

	if err := resp.Validate(); err != nil {
		return nil, err
	}

	return &resp, nil
}
