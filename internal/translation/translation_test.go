package translation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranslation = `{
  "graphs": [
    {
      "graph_name": "OnBeginPlay",
      "graph_type": "EventGraph",
      "graph_class": "BP_Door",
      "code": {
        "graphDeclaration": "virtual void BeginPlay() override;",
        "graphImplementation": "void ABP_Door::BeginPlay() { Super::BeginPlay(); }",
        "implementationNotes": "Calls parent implementation."
      }
    }
  ]
}`

func TestParseSchema_Default(t *testing.T) {
	def, err := ParseSchema(SchemaJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(def, &decoded))
	assert.Equal(t, SchemaName, decoded["name"])

	inner := InnerSchema(def)
	require.NotNil(t, inner)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(inner, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []interface{}{"graphs"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])
}

func TestParseSchema_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated", raw: `{"name": "n2c_translation", "schema": {`},
		{name: "array", raw: `[1, 2, 3]`},
		{name: "missing name", raw: `{"schema": {"type": "object"}}`},
		{name: "empty name", raw: `{"name": "", "schema": {"type": "object"}}`},
		{name: "schema not object", raw: `{"name": "x", "schema": "object"}`},
		{name: "empty", raw: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseSchema(tt.raw)
			assert.Nil(t, def)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSchema))
		})
	}
}

func TestInnerSchema_Missing(t *testing.T) {
	assert.Nil(t, InnerSchema(json.RawMessage(`{"name": "x"}`)))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bare object", content: sampleTranslation},
		{name: "markdown fence", content: "```json\n" + sampleTranslation + "\n```"},
		{name: "surrounding prose", content: "Here is the translation:\n" + sampleTranslation + "\nDone."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Decode(tt.content)
			require.NoError(t, err)
			require.Len(t, resp.Graphs, 1)

			g := resp.Graphs[0]
			assert.Equal(t, "OnBeginPlay", g.Name)
			assert.Equal(t, "EventGraph", g.Type)
			assert.Equal(t, "BP_Door", g.Class)
			assert.Contains(t, g.Code.Implementation, "Super::BeginPlay()")
			assert.Equal(t, "Calls parent implementation.", g.Code.Notes)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "not json", content: "I cannot translate this graph."},
		{name: "no graphs", content: `{"graphs": []}`, target: ErrNoGraphs},
		{name: "missing graphs key", content: `{"other": 1}`, target: ErrNoGraphs},
		{name: "unnamed graph", content: `{"graphs": [{"code": {"graphImplementation": "x"}}]}`},
		{name: "empty code", content: `{"graphs": [{"graph_name": "G", "code": {}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Decode(tt.content)
			assert.Nil(t, resp)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("boom")
	err := &ParseError{Provider: "openai", Reason: "invalid content", Err: cause}

	assert.Equal(t, "openai response: invalid content: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := &ParseError{Provider: "ollama", Reason: "incomplete"}
	assert.Equal(t, "ollama response: incomplete", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestSchemaInstruction(t *testing.T) {
	schema, err := ParseSchema(SchemaJSON)
	require.NoError(t, err)

	instruction := SchemaInstruction(schema)
	assert.Contains(t, instruction, `"graphs"`)
	assert.NotContains(t, instruction, SchemaName)

	assert.Empty(t, SchemaInstruction(json.RawMessage(`{"name":"x"}`)))
}

func TestAppendInstruction(t *testing.T) {
	assert.Equal(t, "system\n\nrule", AppendInstruction("system", "rule"))
	assert.Equal(t, "rule", AppendInstruction("", "rule"))
	assert.Equal(t, "system", AppendInstruction("system", ""))

	once := AppendInstruction("system", "rule")
	assert.Equal(t, once, AppendInstruction(once, "rule"))
}
