// Package manifest manages the per-project .n2c/sources file listing
// reference sources for every translation run in that directory
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ManifestDir is the per-project directory holding the manifest
	ManifestDir = ".n2c"
	// ManifestFile is the manifest's name inside ManifestDir
	ManifestFile = "sources"
)

// ManifestManager handles the .n2c/sources manifest for persistent project sources
type ManifestManager struct {
	workingDir string
}

// NewManifestManager creates new manifest manager for given working directory
func NewManifestManager(workingDir string) *ManifestManager {
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}
	return &ManifestManager{
		workingDir: workingDir,
	}
}

// FindManifest looks for .n2c/sources in the working directory.
// returns the manifest path and the project root, or empty strings if not found
func (m *ManifestManager) FindManifest() (string, string, error) {
	manifestPath := m.GetManifestPath()
	info, err := os.Stat(manifestPath)
	switch {
	case err == nil && info.IsDir():
		return "", "", fmt.Errorf("manifest path %s is a directory", manifestPath)
	case err == nil:
		return manifestPath, m.workingDir, nil
	case os.IsNotExist(err):
		return "", "", nil
	}
	return "", "", fmt.Errorf("failed to stat manifest: %w", err)
}

// LoadManifest reads and parses a manifest file
func (m *ManifestManager) LoadManifest(manifestPath string) ([]string, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// skip empty lines, allow # comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return paths, nil
}

// SaveManifest writes to manifest file
func (m *ManifestManager) SaveManifest(manifestPath string, paths []string) error {
	dir := filepath.Dir(manifestPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", ManifestDir, err)
	}

	file, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	header := "# n2c source manifest\n# Reference sources injected into every translation run from this directory\n\n"
	if _, err := writer.WriteString(header); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}

	for _, path := range paths {
		if _, err := writer.WriteString(path + "\n"); err != nil {
			return fmt.Errorf("failed to write path to manifest: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// AddPaths adds new paths to the manifest file, skipping ones already listed.
// it returns the paths that were actually added
func (m *ManifestManager) AddPaths(manifestPath string, newPaths []string) ([]string, error) {
	existingPaths, err := m.loadIfExists(manifestPath)
	if err != nil {
		return nil, err
	}

	pathSet := make(map[string]bool)
	for _, path := range existingPaths {
		pathSet[path] = true
	}

	allPaths := append([]string(nil), existingPaths...)
	var added []string
	for _, newPath := range newPaths {
		if !pathSet[newPath] {
			allPaths = append(allPaths, newPath)
			added = append(added, newPath)
			pathSet[newPath] = true
		}
	}

	return added, m.SaveManifest(manifestPath, allPaths)
}

// RemovePaths drops paths from the manifest and returns the ones that were listed
func (m *ManifestManager) RemovePaths(manifestPath string, paths []string) ([]string, error) {
	existingPaths, err := m.loadIfExists(manifestPath)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		drop[p] = true
	}

	var kept, removed []string
	for _, p := range existingPaths {
		if drop[p] {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	return removed, m.SaveManifest(manifestPath, kept)
}

// ClearManifest removes all paths from the manifest file
func (m *ManifestManager) ClearManifest(manifestPath string) error {
	return m.SaveManifest(manifestPath, []string{})
}

// LoadProjectSources returns the manifest's paths resolved against the project root.
// files are not read here; missing ones are reported when a request is built
func (m *ManifestManager) LoadProjectSources() ([]string, error) {
	manifestPath, projectRoot, err := m.FindManifest()
	if err != nil {
		return nil, fmt.Errorf("failed to find manifest: %w", err)
	}

	if manifestPath == "" {
		return nil, nil
	}

	paths, err := m.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		if filepath.IsAbs(path) {
			resolved = append(resolved, path)
		} else {
			resolved = append(resolved, filepath.Join(projectRoot, path))
		}
	}

	return resolved, nil
}

// GetManifestPath returns the path where a manifest would be created
func (m *ManifestManager) GetManifestPath() string {
	return filepath.Join(m.workingDir, ManifestDir, ManifestFile)
}

func (m *ManifestManager) loadIfExists(manifestPath string) ([]string, error) {
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, nil
	}
	paths, err := m.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing manifest: %w", err)
	}
	return paths, nil
}
