package cmd

import (
	"reflect"
	"testing"

	"github.com/Ereliath/NodeToCode/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCommand_Integration(t *testing.T) {
	tests := []struct {
		name          string
		arg           string
		errorContains string
		checkValue    func(*testing.T, *config.Config)
	}{
		{
			name: "set provider by alias",
			arg:  "provider=anthropic",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "anthropic", cfg.LLM.Provider)
			},
		},
		{
			name: "set quoted system prompt",
			arg:  `translation.system_prompt="You translate Blueprints"`,
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "You translate Blueprints", cfg.Translation.SystemPrompt)
			},
		},
		{
			name: "value containing equals",
			arg:  "system=Use a = b style",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Use a = b style", cfg.Translation.SystemPrompt)
			},
		},
		{
			name: "set timeout",
			arg:  "parameters.timeout=300",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 300, cfg.Parameters.Timeout)
			},
		},
		{
			name: "set API key alias",
			arg:  "deepseek-key=sk-test-1234",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "sk-test-1234", cfg.Providers.DeepSeek.APIKey)
			},
		},
		{
			name: "set source list",
			arg:  "sources=Source/Door.h, Source/Types.h,",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []string{"Source/Door.h", "Source/Types.h"}, cfg.Sources.Files)
			},
		},
		{
			name: "set known language",
			arg:  "language=python",
			checkValue: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "python", cfg.Translation.Language)
			},
		},
		{
			name:          "unknown language",
			arg:           "language=cobol",
			errorContains: `unknown language "cobol"`,
		},
		{
			name:          "unknown provider",
			arg:           "provider=cohere",
			errorContains: "value must be one of",
		},
		{
			name:          "timeout out of range",
			arg:           "timeout=0",
			errorContains: "value must be between 1 and 600",
		},
		{
			name:          "timeout not a number",
			arg:           "timeout=soon",
			errorContains: "failed to convert value",
		},
		{
			name:          "invalid format missing equals",
			arg:           "parameters.timeout",
			errorContains: "invalid format: expected key=value",
		},
		{
			name:          "empty key",
			arg:           "=value",
			errorContains: "key cannot be empty",
		},
		{
			name:          "unknown key",
			arg:           "temperature=0.2",
			errorContains: "invalid config key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, configPath := setupTestState(t)

			output, err := runSubcommand(t, setCmd, tt.arg)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, "Configuration updated:")

			// the value must survive a reload from disk
			fresh := config.NewManager()
			require.NoError(t, fresh.Load(configPath))
			tt.checkValue(t, fresh.Config())
		})
	}
}

func TestSetCommand_AliasEcho(t *testing.T) {
	setupTestState(t)

	output, err := runSubcommand(t, setCmd, "model=gpt-4.1")
	require.NoError(t, err)
	assert.Equal(t, "Configuration updated: model (llm.model) = gpt-4.1\n", output)

	output, err = runSubcommand(t, setCmd, "llm.model=gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "Configuration updated: llm.model = gpt-4o\n", output)
}

func TestSetCommand_Args(t *testing.T) {
	assert.Error(t, setCmd.Args(setCmd, []string{}))
	assert.NoError(t, setCmd.Args(setCmd, []string{"key=value"}))
	assert.Error(t, setCmd.Args(setCmd, []string{"key=value", "extra"}))
}

func TestConvertValueToType(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		targetType  reflect.Type
		expected    interface{}
		expectError bool
	}{
		{name: "string", value: "gpt-4o", targetType: reflect.TypeOf(""), expected: "gpt-4o"},
		{name: "double quoted string", value: `"hello world"`, targetType: reflect.TypeOf(""), expected: "hello world"},
		{name: "backquoted string", value: "`raw`", targetType: reflect.TypeOf(""), expected: "raw"},
		{name: "unterminated quote kept", value: `"open`, targetType: reflect.TypeOf(""), expected: `"open`},
		{name: "int", value: "42", targetType: reflect.TypeOf(0), expected: 42},
		{name: "invalid int", value: "4.2", targetType: reflect.TypeOf(0), expectError: true},
		{name: "bool", value: "TRUE", targetType: reflect.TypeOf(false), expected: true},
		{name: "float", value: "0.5", targetType: reflect.TypeOf(0.0), expected: 0.5},
		{name: "string list", value: "a.h, b.h", targetType: reflect.TypeOf([]string{}), expected: []string{"a.h", "b.h"}},
		{name: "empty list", value: "", targetType: reflect.TypeOf([]string{}), expected: []string{}},
		{name: "unsupported list", value: "1,2", targetType: reflect.TypeOf([]int{}), expectError: true},
		{name: "unsupported type", value: "x", targetType: reflect.TypeOf(map[string]string{}), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertValueToType(tt.value, tt.targetType)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
