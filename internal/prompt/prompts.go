package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed prompts/*.md
var promptFS embed.FS

// SystemPrompt returns the built-in system prompt for a target language
func SystemPrompt(language string) (string, error) {
	data, err := promptFS.ReadFile("prompts/" + language + ".md")
	if err != nil {
		return "", fmt.Errorf("no built-in system prompt for language %q (available: %s)",
			language, strings.Join(Languages(), ", "))
	}
	return strings.TrimSpace(string(data)), nil
}

// Languages lists the languages with a built-in system prompt, sorted
func Languages() []string {
	entries, err := fs.ReadDir(promptFS, "prompts")
	if err != nil {
		return nil
	}

	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".md"); ok {
			langs = append(langs, name)
		}
	}
	sort.Strings(langs)
	return langs
}
