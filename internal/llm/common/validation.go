package common

import (
	"log/slog"

	"github.com/Ereliath/NodeToCode/internal/translation"
)

// DecodeTranslation validates extracted message content as a translation.
// failures are wrapped in a translation.ParseError naming the provider
func DecodeTranslation(provider, content string, logger *slog.Logger) (*translation.Response, error) {
	if logger != nil {
		logger.Debug("Validating translation content", "provider", provider, "content_length", len(content))
	}

	resp, err := translation.Decode(content)
	if err != nil {
		if logger != nil {
			logger.Error("Invalid translation in response", "provider", provider, "error", err)
		}
		return nil, &translation.ParseError{Provider: provider, Reason: "invalid translation content", Err: err}
	}

	if logger != nil {
		logger.Debug("Translation validation passed", "graphs", len(resp.Graphs))
	}
	return resp, nil
}
