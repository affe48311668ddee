// Package context gathers the reference source files injected into a
// translation request
package context

// SourceSet holds reference source paths by origin
type SourceSet struct {
	ProjectFiles []string // from the .n2c/sources manifest, resolved against the project root
	ConfigFiles  []string // from sources.files
	CLIFiles     []string // from --source flags
}

// All returns every source path once, project sources first, then config, then CLI
func (s *SourceSet) All() []string {
	seen := make(map[string]bool)
	var all []string
	for _, group := range [][]string{s.ProjectFiles, s.ConfigFiles, s.CLIFiles} {
		for _, path := range group {
			if path == "" || seen[path] {
				continue
			}
			seen[path] = true
			all = append(all, path)
		}
	}
	return all
}

// HasSources returns true if any source files are present
func (s *SourceSet) HasSources() bool {
	return len(s.All()) > 0
}

// HasCLISources returns true if source files were provided via CLI flag
func (s *SourceSet) HasCLISources() bool {
	return len(s.CLIFiles) > 0
}

// HasProjectSources returns true if the project manifest contributed sources
func (s *SourceSet) HasProjectSources() bool {
	return len(s.ProjectFiles) > 0
}
