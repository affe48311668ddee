package translation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// SchemaName identifies the structured output contract sent to providers
const SchemaName = "n2c_translation"

// SchemaJSON is the structured output definition attached to translation requests.
// the outer object carries the schema name; the inner "schema" is the JSON Schema proper
const SchemaJSON = `{
  "name": "n2c_translation",
  "schema": {
    "type": "object",
    "properties": {
      "graphs": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "graph_name": {"type": "string"},
            "graph_type": {"type": "string"},
            "graph_class": {"type": "string"},
            "code": {
              "type": "object",
              "properties": {
                "graphDeclaration": {"type": "string"},
                "graphImplementation": {"type": "string"},
                "implementationNotes": {"type": "string"}
              },
              "required": ["graphDeclaration", "graphImplementation"]
            }
          },
          "required": ["graph_name", "graph_type", "graph_class", "code"]
        }
      }
    },
    "required": ["graphs"],
    "additionalProperties": false
  }
}`

// ErrMalformedSchema is wrapped by every ParseSchema failure
var ErrMalformedSchema = errors.New("malformed structured output schema")

// ParseSchema validates a structured output definition and returns it compacted.
// a definition must be a JSON object with a string "name" and an object "schema"
func ParseSchema(raw string) (json.RawMessage, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformedSchema)
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: definition must be an object", ErrMalformedSchema)
	}
	if name := root.Get("name"); name.Type != gjson.String || name.String() == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedSchema)
	}
	if !root.Get("schema").IsObject() {
		return nil, fmt.Errorf("%w: missing schema object", ErrMalformedSchema)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

// InnerSchema returns the JSON Schema object nested in a parsed definition.
// providers that take a bare schema (rather than a named definition) use this
func InnerSchema(definition json.RawMessage) json.RawMessage {
	inner := gjson.GetBytes(definition, "schema")
	if !inner.Exists() {
		return nil
	}
	return json.RawMessage(inner.Raw)
}
