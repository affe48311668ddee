package common

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrNotInitialized is reported when a service is used before a successful Initialize
var ErrNotInitialized = errors.New("Service not initialized")

type errorBody struct {
	Error string `json:"error"`
}

// ErrorBody returns the JSON error body delivered to callbacks: {"error": msg}
func ErrorBody(msg string) string {
	b, err := json.Marshal(errorBody{Error: msg})
	if err != nil {
		// a string field cannot fail to marshal
		return `{"error":"internal error"}`
	}
	return string(b)
}

// ErrorMessage extracts the error message from a raw response body.
// it understands {"error": "msg"} and {"error": {"message": "msg"}} shapes
func ErrorMessage(raw string) (string, bool) {
	if !gjson.Valid(raw) {
		return "", false
	}

	errField := gjson.Get(raw, "error")
	if !errField.Exists() {
		return "", false
	}

	switch {
	case errField.Type == gjson.String:
		return errField.String(), true
	case errField.IsObject():
		if msg := errField.Get("message"); msg.Exists() {
			return msg.String(), true
		}
		return errField.Raw, true
	}
	return "", false
}
