package common

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// CreateJSONRequest creates a JSON POST request carrying headers.
// a Bearer credential is added from apiKey unless headers already carry
// their own authorization
func CreateJSONRequest(ctx context.Context, url, apiKey string, headers map[string]string, jsonData []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if apiKey != "" && req.Header.Get("Authorization") == "" && req.Header.Get("x-api-key") == "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	return req, nil
}
