// Package prompt folds system prompts into user messages for models without a
// system role and injects reference source files into outgoing requests.
package prompt

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/llm/common"
)

// SourceHeader starts every injected source block
const SourceHeader = "// Source: "

// separator between a merged system prompt and the user message
const separator = "\n\n"

// Manager implements common.PromptMerger over a fixed list of source files
type Manager struct {
	sources  []string
	logger   *slog.Logger
	readFile func(path string) ([]byte, error)
}

// ensure Manager implements the common.PromptMerger interface
var _ common.PromptMerger = (*Manager)(nil)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for skipped sources
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithReadFile replaces the function used to read source files
func WithReadFile(readFile func(path string) ([]byte, error)) Option {
	return func(m *Manager) {
		m.readFile = readFile
	}
}

// New creates a Manager injecting sources in the given order; duplicates and
// blank entries are dropped
func New(sources []string, opts ...Option) *Manager {
	m := &Manager{
		sources:  dedupe(sources),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sources returns the source files this manager injects
func (m *Manager) Sources() []string {
	return append([]string(nil), m.sources...)
}

// MergePrompts prefixes userMessage with systemMessage.
// an empty system message, or a user message that already carries the
// prefix, is returned unchanged
func (m *Manager) MergePrompts(userMessage, systemMessage string) string {
	if systemMessage == "" {
		return userMessage
	}

	prefix := systemMessage + separator
	if strings.HasPrefix(userMessage, prefix) {
		return userMessage
	}
	return prefix + userMessage
}

// PrependSourceFiles injects each configured source ahead of message as a
// fenced block. sources whose block is already present are skipped, so
// calling it twice yields the same result
func (m *Manager) PrependSourceFiles(message string) string {
	if len(m.sources) == 0 {
		return message
	}

	var b strings.Builder
	for _, path := range m.sources {
		if strings.Contains(message, SourceHeader+path+"\n") {
			continue
		}

		content, err := m.readFile(path)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("Skipping unreadable source file", "path", path, "error", err)
			}
			continue
		}
		writeBlock(&b, path, string(content))
	}

	if b.Len() == 0 {
		return message
	}

	if m.logger != nil {
		m.logger.Debug("Injected source files", "bytes", b.Len())
	}
	b.WriteString(message)
	return b.String()
}

func writeBlock(b *strings.Builder, path, content string) {
	b.WriteString(SourceHeader)
	b.WriteString(path)
	b.WriteString("\n```")
	b.WriteString(fenceLanguage(path))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(content, "\n"))
	b.WriteString("\n```\n\n")
}

var fenceLanguages = map[string]string{
	".h":     "cpp",
	".hpp":   "cpp",
	".cpp":   "cpp",
	".cc":    "cpp",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".cs":    "csharp",
	".swift": "swift",
	".json":  "json",
	".md":    "markdown",
}

// fenceLanguage picks the markdown fence tag for a source path
func fenceLanguage(path string) string {
	return fenceLanguages[strings.ToLower(filepath.Ext(path))]
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
