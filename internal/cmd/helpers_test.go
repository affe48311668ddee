package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Ereliath/NodeToCode/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// setupTestState loads a fresh config from a temp dir into the global state.
// the returned path is the config file
func setupTestState(t *testing.T) (*config.Manager, string) {
	t.Helper()
	for _, name := range []string{"OPENAI_API_KEY", "OPENAI_ORG_ID", "ANTHROPIC_API_KEY", "DEEPSEEK_API_KEY", "N2C_PROVIDER", "N2C_MODEL"} {
		t.Setenv(name, "")
	}

	configPath := filepath.Join(t.TempDir(), "config.toml")
	manager := config.NewManager()
	require.NoError(t, manager.Load(configPath))

	originalState := state
	state = &rootCmdState{manager: manager}
	t.Cleanup(func() { state = originalState })

	return manager, configPath
}

// runSubcommand runs c's RunE with args against a throwaway parent and captures stdout
func runSubcommand(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(c.Flags())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	err := c.RunE(cmd, args)
	return stdout.String(), err
}
