package translation

import (
	"errors"
	"fmt"
)

// Response is the normalized result of a Blueprint translation request
type Response struct {
	Graphs []Graph `json:"graphs"`
}

// Graph is one translated Blueprint graph
type Graph struct {
	Name  string `json:"graph_name"`
	Type  string `json:"graph_type"`
	Class string `json:"graph_class"`
	Code  Code   `json:"code"`
}

// Code holds the generated source for a single graph
type Code struct {
	Declaration    string `json:"graphDeclaration"`
	Implementation string `json:"graphImplementation"`
	Notes          string `json:"implementationNotes,omitempty"`
}

// ErrNoGraphs is returned when a response decodes but carries no graphs
var ErrNoGraphs = errors.New("translation contains no graphs")

// Validate checks the fields the structured output schema marks as required
func (r *Response) Validate() error {
	if r == nil || len(r.Graphs) == 0 {
		return ErrNoGraphs
	}

	for i, g := range r.Graphs {
		if g.Name == "" {
			return fmt.Errorf("graph %d: graph_name is required", i)
		}
		if g.Code.Declaration == "" && g.Code.Implementation == "" {
			return fmt.Errorf("graph %q: code has neither declaration nor implementation", g.Name)
		}
	}

	return nil
}
