// Package transport posts serialized LLM requests over HTTP and reports the
// raw response body through a callback.
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ereliath/NodeToCode/internal/llm/common"
)

// DefaultTimeout bounds one request including retries
const DefaultTimeout = 120 * time.Second

// HTTPHandler is the HTTP implementation of common.Transport.
// every call runs on its own goroutine and completes exactly once
type HTTPHandler struct {
	headers     map[string]string
	client      *http.Client
	timeout     time.Duration
	policy      common.RetryPolicy
	logger      *slog.Logger
	connHandler common.ConnectionErrorHandler
}

// ensure HTTPHandler implements the common.Transport interface
var _ common.Transport = (*HTTPHandler)(nil)

// Option configures an HTTPHandler
type Option func(*HTTPHandler)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) Option {
	return func(h *HTTPHandler) {
		h.client = client
	}
}

// WithTimeout bounds each request, retries included
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPHandler) {
		h.timeout = timeout
	}
}

// WithMaxRetries sets maximum retry attempts (capped at common.MaxRetryLimit)
func WithMaxRetries(retries int) Option {
	return func(h *HTTPHandler) {
		h.policy.MaxRetries = retries
	}
}

// WithBackoff replaces the delay between retries
func WithBackoff(backoff func(attempt int) time.Duration) Option {
	return func(h *HTTPHandler) {
		h.policy.Backoff = backoff
	}
}

// WithLogger sets the logger for the handler
func WithLogger(logger *slog.Logger) Option {
	return func(h *HTTPHandler) {
		h.logger = logger
	}
}

// WithConnectionErrorHandler lets a provider rewrite connection failures
func WithConnectionErrorHandler(handler common.ConnectionErrorHandler) Option {
	return func(h *HTTPHandler) {
		h.connHandler = handler
	}
}

// NewHTTPHandler creates a handler sending headers with every request
func NewHTTPHandler(headers map[string]string, opts ...Option) *HTTPHandler {
	h := &HTTPHandler{
		headers: make(map[string]string, len(headers)),
		client:  &http.Client{},
		timeout: DefaultTimeout,
		policy:  common.DefaultRetryPolicy(),
	}
	for k, v := range headers {
		h.headers[k] = v
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PostLLMRequest posts payload to endpoint asynchronously.
// onComplete receives the response body for any HTTP status; network failures
// and empty or non-JSON error responses are reported as {"error": ...} bodies
func (h *HTTPHandler) PostLLMRequest(endpoint, authToken string, payload []byte, onComplete common.ResponseCallback) {
	var once sync.Once
	deliver := func(response string) {
		once.Do(func() {
			if onComplete != nil {
				onComplete(response)
			}
		})
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				if h.logger != nil {
					h.logger.Error("Recovered from panic in HTTP transport", "panic", r)
				}
				deliver(common.ErrorBody(fmt.Sprintf("transport failure: %v", r)))
			}
		}()

		deliver(h.post(endpoint, authToken, payload))
	}()
}

// post runs one request with retries and returns the body to deliver
func (h *HTTPHandler) post(endpoint, authToken string, payload []byte) string {
	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	common.LogRequestExecution(h.logger, endpoint, h.policy.MaxRetries)

	executor := func(ctx context.Context) (*http.Response, error) {
		// fresh request for each attempt
		req, err := common.CreateJSONRequest(ctx, endpoint, authToken, h.headers, payload)
		if err != nil {
			return nil, err
		}
		return h.client.Do(req)
	}

	resp, err := common.ExecuteWithRetry(ctx, executor, h.policy, h.logger)
	if err != nil {
		common.LogRequestFailure(h.logger, err, h.policy.MaxRetries)
		if h.connHandler != nil {
			err = h.connHandler.HandleConnectionError(err)
		}
		return common.ErrorBody(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.ErrorBody(fmt.Sprintf("failed to read response body: %v", err))
	}

	common.LogHTTPResponse(h.logger, resp.StatusCode, len(body))
	common.LogRawResponse(h.logger, string(body), resp.StatusCode)

	return errorBodyFor(resp.StatusCode, body)
}

// errorBodyFor passes bodies through unchanged unless an error status came
// back with nothing a parser could read
func errorBodyFor(statusCode int, body []byte) string {
	raw := string(body)
	if statusCode < 400 {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return common.ErrorBody(fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode)))
	case !strings.HasPrefix(trimmed, "{"):
		return common.ErrorBody(fmt.Sprintf("HTTP %d: %s", statusCode, trimmed))
	}
	return raw
}
