package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages for n2c",
	Long:   `This command generates the man pages for the n2c CLI.`,
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = "./man"
		}

		header := &doc.GenManHeader{
			Title:   "N2C",
			Section: "1", // executable programs and shell commands
			Source:  "n2c CLI",
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create man directory: %w", err)
		}

		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Man pages successfully generated in %s\n", dir)
		return nil
	},
}

func init() {
	manCmd.Flags().String("dir", "./man", "Directory to write man pages to")
	rootCmd.AddCommand(manCmd)
}
