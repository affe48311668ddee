package cmd

import (
	"fmt"
	"os"

	"github.com/Ereliath/NodeToCode/internal/app"
	"github.com/Ereliath/NodeToCode/internal/config"
	n2cContext "github.com/Ereliath/NodeToCode/internal/context"
	"github.com/Ereliath/NodeToCode/internal/manifest"

	"github.com/spf13/cobra"
)

// contextWorkingDir is the directory whose .n2c/sources manifest is used; empty means cwd
var contextWorkingDir string

// ContextManager gathers the reference sources for a run
type ContextManager interface {
	ProcessSources(cmd *cobra.Command, cfg *config.Config, skipProject bool) (*n2cContext.SourceSet, error)
}

// DefaultContextManager implements ContextManager
type DefaultContextManager struct{}

// NewContextManager creates a new DefaultContextManager
func NewContextManager() *DefaultContextManager {
	return &DefaultContextManager{}
}

// ProcessSources merges the project manifest, sources.files and --source flags.
// files named on the command line must exist; configured ones are checked when the request is built
func (c *DefaultContextManager) ProcessSources(cmd *cobra.Command, cfg *config.Config, skipProject bool) (*n2cContext.SourceSet, error) {
	cliFiles, err := cmd.Flags().GetStringSlice("source")
	if err != nil {
		return nil, fmt.Errorf("failed to get source flag: %w", err)
	}

	for _, path := range cliFiles {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, &app.ConfigError{Err: fmt.Errorf("source file %q: %w", path, err)}
		}
	}

	set := &n2cContext.SourceSet{CLIFiles: cliFiles}

	if cfg != nil {
		for _, path := range cfg.Sources.Files {
			expanded, err := expandHomePath(path)
			if err != nil {
				return nil, fmt.Errorf("failed to expand source path %q: %w", path, err)
			}
			set.ConfigFiles = append(set.ConfigFiles, expanded)
		}
	}

	if !skipProject {
		set.ProjectFiles, err = manifest.NewManifestManager(contextWorkingDir).LoadProjectSources()
		if err != nil {
			return nil, fmt.Errorf("failed to load project sources: %w", err)
		}
	}

	return set, nil
}
