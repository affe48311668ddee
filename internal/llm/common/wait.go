package common

import "context"

// SendAndWait sends a request and blocks until its callback fires or ctx is done.
// cancelling ctx stops the wait only; the request itself keeps running
func SendAndWait(ctx context.Context, svc Service, payload, systemMessage string) (string, error) {
	// buffered so a late callback never blocks after ctx is done
	done := make(chan string, 1)
	svc.SendRequest(payload, systemMessage, func(response string) {
		done <- response
	})

	select {
	case response := <-done:
		return response, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
