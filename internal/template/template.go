// Package template renders a language's message template around the
// Blueprint payload
package template

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// InputPlaceholder marks where the Blueprint payload goes
	InputPlaceholder = "{input}"
)

// near misses of the placeholder that would otherwise pass through silently
var misspelledPlaceholder = regexp.MustCompile(`(?i)\{\s*input\s*\}`)

// ProcessTemplate places the payload into a message template
//
// If template includes {input} placeholder, replace it with the payload. Otherwise:
//   - empty template will return the payload unchanged
//   - if no {input} placeholder, append the payload to the template with a newline
func ProcessTemplate(template, payload string) string {
	if template == "" {
		return payload
	}

	if strings.Contains(template, InputPlaceholder) {
		return strings.ReplaceAll(template, InputPlaceholder, payload)
	}

	if payload == "" {
		return template
	}

	return template + "\n" + payload
}

// HasPlaceholder checks if a template contains the input placeholder
func HasPlaceholder(template string) bool {
	return strings.Contains(template, InputPlaceholder)
}

// ValidateTemplate rejects templates whose placeholder is misspelled,
// such as {Input} or { input }
func ValidateTemplate(template string) error {
	for _, match := range misspelledPlaceholder.FindAllString(template, -1) {
		if match != InputPlaceholder {
			return fmt.Errorf("template contains %q; the placeholder is %s", match, InputPlaceholder)
		}
	}
	return nil
}
