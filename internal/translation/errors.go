package translation

import "fmt"

// ParseError reports a provider response that could not be turned into a Response
type ParseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s response: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s response: %s", e.Provider, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
