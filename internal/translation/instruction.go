package translation

import (
	"encoding/json"
	"strings"
)

// SchemaInstruction renders a definition as a prompt instruction, for
// providers that cannot enforce a schema on the wire
func SchemaInstruction(definition json.RawMessage) string {
	inner := InnerSchema(definition)
	if len(inner) == 0 {
		return ""
	}
	return "Respond with a single JSON object, without markdown fences, that conforms to this JSON Schema:\n" + string(inner)
}

// AppendInstruction adds instruction to text separated by a blank line.
// text that already ends with the instruction is returned unchanged
func AppendInstruction(text, instruction string) string {
	switch {
	case instruction == "":
		return text
	case strings.HasSuffix(text, instruction):
		return text
	case text == "":
		return instruction
	}
	return text + "\n\n" + instruction
}
