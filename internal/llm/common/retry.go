package common

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// MaxRetryLimit caps RetryPolicy.MaxRetries
const MaxRetryLimit = 5

// RetryPolicy bounds how often and how patiently a request is retried
type RetryPolicy struct {
	MaxRetries int
	// Backoff returns the delay before retry attempt n (n >= 1); nil uses CalculateBackoff
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy retries twice with exponential backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Backoff: CalculateBackoff}
}

func (p RetryPolicy) maxRetries() int {
	switch {
	case p.MaxRetries < 0:
		return 0
	case p.MaxRetries > MaxRetryLimit:
		return MaxRetryLimit
	}
	return p.MaxRetries
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff != nil {
		return p.Backoff(attempt)
	}
	return CalculateBackoff(attempt)
}

// ShouldRetry determines if an HTTP status code should trigger a retry
// only retries on server errors (5xx) and rate limits (429)
func ShouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= 500 && statusCode < 600)
}

// CalculateBackoff calculates the delay for the given retry attempt
// uses exponential backoff: 3^attempt seconds with ±10% jitter
func CalculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	baseDelay := math.Pow(3, float64(attempt))

	// multiplier between 0.9 and 1.1
	jitter := 0.9 + rand.Float64()*0.2

	return time.Duration(baseDelay * jitter * float64(time.Second))
}

// HTTPExecutor is a function type that executes an HTTP request
type HTTPExecutor func(ctx context.Context) (*http.Response, error)

// ExecuteWithRetry executes an HTTP request with retry logic
// returns the response and error from the final attempt
func ExecuteWithRetry(ctx context.Context, executor HTTPExecutor, policy RetryPolicy, logger *slog.Logger) (*http.Response, error) {
	maxRetries := policy.maxRetries()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := policy.delay(attempt)
			if logger != nil {
				logger.Debug("Retrying HTTP request",
					"attempt", attempt,
					"max_retries", maxRetries,
					"delay_seconds", delay.Seconds())
			}

			// use a timer that respects context cancellation
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err := executor(ctx)

		if ctx.Err() != nil {
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			return nil, ctx.Err()
		}

		retry := false
		switch {
		case err != nil && resp == nil:
			// transient network error, no response received
			retry = true
			if logger != nil {
				logger.Debug("Network error, will retry", "attempt", attempt, "error", err.Error())
			}
		case resp != nil && ShouldRetry(resp.StatusCode):
			retry = true
			if logger != nil {
				logger.Debug("HTTP request returned retryable status code",
					"attempt", attempt,
					"status_code", resp.StatusCode)
			}
		}

		if !retry || attempt >= maxRetries {
			if err != nil && resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			return resp, err
		}

		// clean up response body before retrying
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
	}
}
