package format

import (
	"regexp"
	"strings"
)

// CleanJSON extracts JSON, prioritizing markdown backtick fences
func CleanJSON(response string) string {
	// check for a JSON markdown code block
	if strings.Contains(response, "```json") {
		startMarker := "```json\n"
		endMarker := "```"

		startIdx := strings.Index(response, startMarker)
		if startIdx == -1 {
			// ```json without the newline
			startMarker = "```json"
			startIdx = strings.Index(response, startMarker)
		}

		contentAfterStart := response[startIdx+len(startMarker):]
		endIdx := strings.Index(contentAfterStart, endMarker)

		if endIdx != -1 {
			return strings.TrimSpace(contentAfterStart[:endIdx])
		}
	}

	// fallback: first '{' or '[' through the last '}' or ']'
	startIdx := strings.IndexAny(response, "[{")
	if startIdx == -1 {
		return response
	}

	endIdx := strings.LastIndexAny(response, "}]")
	if endIdx == -1 || endIdx < startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}

// codeFence matches an opening fence with an optional language tag, e.g. ```cpp
var codeFence = regexp.MustCompile("^```+[\\w+#.-]*[ \t]*\r?\n")

// CleanCode strips a markdown fence wrapped around generated source.
// models occasionally fence code even inside structured output; unfenced code is returned trimmed
func CleanCode(code string) string {
	trimmed := strings.TrimSpace(code)

	loc := codeFence.FindStringIndex(trimmed)
	if loc == nil {
		return trimmed
	}

	body := trimmed[loc[1]:]
	endIdx := strings.LastIndex(body, "```")
	if endIdx == -1 {
		return strings.TrimSpace(body)
	}

	return strings.TrimSpace(body[:endIdx])
}

// CleanMarkdown extracts Markdown from code fence if present
func CleanMarkdown(response string) string {
	markers := []string{"```markdown\n", "```md\n", "```\n"}
	endMarker := "```"

	for _, startMarker := range markers {
		if !strings.Contains(response, startMarker) {
			continue
		}

		startIdx := strings.Index(response, startMarker)
		contentAfterStart := response[startIdx+len(startMarker):]

		// LastIndex so nested fences stay inside the block
		endIdx := strings.LastIndex(contentAfterStart, endMarker)

		if endIdx != -1 {
			return strings.TrimSpace(contentAfterStart[:endIdx])
		}
	}

	return response
}
