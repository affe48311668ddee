package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ereliath/NodeToCode/internal/manifest"

	"github.com/spf13/cobra"
)

// createContextCommand creates the context management command with subcommands
func createContextCommand() *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Manage reference sources for the current project",
		Long: `Manage the reference source files sent with every translation run in this
directory. Paths are stored in .n2c/sources, relative to the directory they were added from.`,
	}

	contextCmd.AddCommand(createContextAddCommand())
	contextCmd.AddCommand(createContextListCommand())
	contextCmd.AddCommand(createContextRemoveCommand())
	contextCmd.AddCommand(createContextClearCommand())

	return contextCmd
}

// createContextAddCommand creates the 'context add' subcommand
func createContextAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path...>",
		Short: "Add source files to the project context",
		Long:  `Add one or more source files to the project context. Creates .n2c/sources if it does not exist.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := manifest.NewManifestManager(contextWorkingDir)

			for _, arg := range args {
				path := arg
				if !filepath.IsAbs(path) && contextWorkingDir != "" {
					path = filepath.Join(contextWorkingDir, path)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("path does not exist: %q", arg)
				}
				if info.IsDir() {
					return fmt.Errorf("path is a directory: %q", arg)
				}
			}

			added, err := manager.AddPaths(manager.GetManifestPath(), args)
			if err != nil {
				return fmt.Errorf("failed to add paths to context: %w", err)
			}

			if len(added) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All paths are already in the project context.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d path(s) to project context:\n", len(added))
			for _, path := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
			}
			return nil
		},
	}
}

// createContextListCommand creates the 'context list' subcommand
func createContextListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's source files",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := manifest.NewManifestManager(contextWorkingDir)

			manifestPath, projectRoot, err := manager.FindManifest()
			if err != nil {
				return fmt.Errorf("failed to find manifest: %w", err)
			}

			if manifestPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No source manifest found. Use 'n2c context add' to create one in the current directory.")
				return nil
			}

			paths, err := manager.LoadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Source manifest is empty. Use 'n2c context add' to add files.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Source files (from %s):\n", projectRoot)
			for i, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s\n", i+1, path)
			}
			return nil
		},
	}
}

// createContextRemoveCommand creates the 'context remove' subcommand
func createContextRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path...>",
		Aliases: []string{"rm"},
		Short:   "Remove source files from the project context",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := manifest.NewManifestManager(contextWorkingDir)

			manifestPath, _, err := manager.FindManifest()
			if err != nil {
				return fmt.Errorf("failed to find manifest: %w", err)
			}
			if manifestPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No source manifest found.")
				return nil
			}

			removed, err := manager.RemovePaths(manifestPath, args)
			if err != nil {
				return fmt.Errorf("failed to remove paths from context: %w", err)
			}

			if len(removed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "None of the paths are in the project context.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d path(s) from project context:\n", len(removed))
			for _, path := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
			}
			return nil
		},
	}
}

// createContextClearCommand creates the 'context clear' subcommand
func createContextClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all source files from the project context",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := manifest.NewManifestManager(contextWorkingDir)

			manifestPath, projectRoot, err := manager.FindManifest()
			if err != nil {
				return fmt.Errorf("failed to find manifest: %w", err)
			}

			if manifestPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No source manifest found.")
				return nil
			}

			paths, err := manager.LoadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Source manifest is already empty.")
				return nil
			}

			if err := manager.ClearManifest(manifestPath); err != nil {
				return fmt.Errorf("failed to clear context: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d path(s) from the source manifest in %s\n", len(paths), projectRoot)
			return nil
		},
	}
}
