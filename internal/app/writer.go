package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/format"
	"github.com/Ereliath/NodeToCode/internal/translation"
)

// notesSuffix names the per-graph implementation notes file
const notesSuffix = "_notes.md"

var unsafeFileChars = regexp.MustCompile(`[^\w.-]+`)

// fileStem turns a graph name into something safe to use as a file or directory name
func fileStem(name string, index int) string {
	stem := strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if stem == "" {
		return fmt.Sprintf("graph_%d", index+1)
	}
	return stem
}

// WriteGraphs writes every graph into <dir>/<graph_name>/ using the language's
// extensions and returns the written paths in order.
// languages without a declaration extension get declaration and implementation in one file
func WriteGraphs(dir string, resp *translation.Response, lang config.Language) ([]string, error) {
	if resp == nil {
		return nil, translation.ErrNoGraphs
	}

	var written []string
	used := make(map[string]int)

	for i, graph := range resp.Graphs {
		stem := fileStem(graph.Name, i)
		used[stem]++
		if n := used[stem]; n > 1 {
			stem = fmt.Sprintf("%s_%d", stem, n)
		}

		graphDir := filepath.Join(dir, stem)
		if err := os.MkdirAll(graphDir, 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory %s: %w", graphDir, err)
		}

		declaration := format.CleanCode(graph.Code.Declaration)
		implementation := format.CleanCode(graph.Code.Implementation)

		files := make([][2]string, 0, 3)
		if lang.DeclarationExt != "" {
			if declaration != "" {
				files = append(files, [2]string{stem + lang.DeclarationExt, declaration})
			}
		} else if declaration != "" {
			implementation = strings.TrimSpace(declaration + "\n\n" + implementation)
		}
		if implementation != "" {
			files = append(files, [2]string{stem + lang.ImplementationExt, implementation})
		}
		if notes := format.CleanMarkdown(strings.TrimSpace(graph.Code.Notes)); notes != "" {
			files = append(files, [2]string{stem + notesSuffix, notes})
		}

		for _, f := range files {
			path := filepath.Join(graphDir, f[0])
			if err := os.WriteFile(path, []byte(f[1]+"\n"), 0644); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}

	return written, nil
}
