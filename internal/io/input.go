// Package io reads the Blueprint payload handed to n2c
package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// StdinOrigin is the origin reported for payloads read from stdin
const StdinOrigin = "stdin"

// ErrNoPayload is returned when neither a file nor piped stdin supplied a payload
var ErrNoPayload = errors.New("no Blueprint payload: pass a file argument or pipe the payload on stdin")

// Payload is a serialized Blueprint graph ready to be sent for translation
type Payload struct {
	Content string
	Origin  string // file path, or "stdin"
}

// IsJSON reports whether the payload is a JSON document, as exported by the
// editor plugin. other textual dumps are still accepted
func (p Payload) IsJSON() bool {
	return gjson.Valid(p.Content)
}

// ReadPayload reads the payload from the single file argument, or from stdin
// when no argument is given (or the argument is "-").
// stdin is only read when it is a pipe or a redirected file
func ReadPayload(stdin *os.File, args []string) (Payload, error) {
	if len(args) > 1 {
		return Payload{}, fmt.Errorf("expected at most one payload file, got %d", len(args))
	}

	if len(args) == 1 && args[0] != "-" {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return Payload{}, fmt.Errorf("failed to read payload file %q: %w", args[0], err)
		}
		return newPayload(string(content), args[0])
	}

	if stdin == nil {
		return Payload{}, ErrNoPayload
	}

	// an explicit "-" reads stdin even from a terminal
	if len(args) == 0 {
		stat, err := stdin.Stat()
		if err != nil {
			return Payload{}, fmt.Errorf("failed to stat stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return Payload{}, ErrNoPayload
		}
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return newPayload(string(content), StdinOrigin)
}

func newPayload(content, origin string) (Payload, error) {
	// trim surrounding whitespace
	content = strings.TrimSpace(content)
	if content == "" {
		return Payload{}, fmt.Errorf("%w (%s is empty)", ErrNoPayload, origin)
	}
	return Payload{Content: content, Origin: origin}, nil
}
