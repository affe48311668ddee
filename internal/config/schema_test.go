package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKey(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name             string
		key              string
		expectedPath     string
		expectError      bool
		errorContainsAny []string
	}{
		{
			name:         "lang alias resolves to canonical path",
			key:          "lang",
			expectedPath: "translation.language",
		},
		{
			name:         "Valid canonical path resolves to itself",
			key:          "translation.language",
			expectedPath: "translation.language",
		},
		{
			name:         "Valid max-retries alias",
			key:          "max-retries",
			expectedPath: "parameters.max_retries",
		},
		{
			name:         "Organization alias",
			key:          "openai-org",
			expectedPath: "providers.openai.organization",
		},
		{
			name:         "Valid canonical provider key",
			key:          "providers.deepseek.api_key",
			expectedPath: "providers.deepseek.api_key",
		},
		{
			name:             "Invalid key returns error",
			key:              "nonexistent.key",
			expectError:      true,
			errorContainsAny: []string{"invalid config key", "nonexistent.key"},
		},
		{
			name:             "Case sensitivity test - uppercase alias",
			key:              "Model",
			expectError:      true,
			errorContainsAny: []string{"invalid config key", "Model"},
		},
		{
			name:             "Empty key",
			key:              "",
			expectError:      true,
			errorContainsAny: []string{"invalid config key", "n2c config list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolvedPath, err := schema.ResolveKey(tt.key)

			if tt.expectError {
				assert.Error(t, err)
				for _, expectedSubstring := range tt.errorContainsAny {
					assert.Contains(t, err.Error(), expectedSubstring)
				}
				assert.Empty(t, resolvedPath)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedPath, resolvedPath)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name             string
		path             string
		value            interface{}
		expectError      bool
		errorContainsAny []string
	}{
		{
			name:  "Valid timeout value",
			path:  "parameters.timeout",
			value: 90,
		},
		{
			name:             "Timeout invalid type - string",
			path:             "parameters.timeout",
			value:            "90",
			expectError:      true,
			errorContainsAny: []string{"expected int", "got string"},
		},
		{
			name:             "Timeout out of range - too high",
			path:             "parameters.timeout",
			value:            601,
			expectError:      true,
			errorContainsAny: []string{"value must be between", "1", "600"},
		},
		{
			name:  "Max retries edge value - minimum",
			path:  "parameters.max_retries",
			value: 0,
		},
		{
			name:             "Max retries out of range",
			path:             "parameters.max_retries",
			value:            6,
			expectError:      true,
			errorContainsAny: []string{"value must be between", "0", "5"},
		},
		{
			name:             "Max retries invalid type - float64",
			path:             "parameters.max_retries",
			value:            2.0,
			expectError:      true,
			errorContainsAny: []string{"expected int", "got float64"},
		},
		{
			name:  "Known provider",
			path:  "llm.provider",
			value: "deepseek",
		},
		{
			name:             "Unknown provider",
			path:             "llm.provider",
			value:            "cohere",
			expectError:      true,
			errorContainsAny: []string{"value must be one of", "openai"},
		},
		{
			name:  "Valid API key - empty string",
			path:  "providers.anthropic.api_key",
			value: "",
		},
		{
			name:             "Unknown config path",
			path:             "unknown.path",
			value:            "any value",
			expectError:      true,
			errorContainsAny: []string{"unknown config path", "unknown.path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateValue(tt.path, tt.value)

			if tt.expectError {
				assert.Error(t, err)
				for _, expectedSubstring := range tt.errorContainsAny {
					assert.Contains(t, err.Error(), expectedSubstring)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetFieldInfo(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name               string
		path               string
		expectError        bool
		expectedType       reflect.Type
		expectedDefault    interface{}
		expectedValidation bool
	}{
		{
			name:               "parameters.timeout",
			path:               "parameters.timeout",
			expectedType:       reflect.TypeOf(int(0)),
			expectedDefault:    120,
			expectedValidation: true,
		},
		{
			name:               "llm.provider",
			path:               "llm.provider",
			expectedType:       reflect.TypeOf(""),
			expectedDefault:    "openai",
			expectedValidation: true,
		},
		{
			name:            "providers.openai.api_key",
			path:            "providers.openai.api_key",
			expectedType:    reflect.TypeOf(""),
			expectedDefault: "",
		},
		{
			name:        "Invalid key",
			path:        "nonexistent.path",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldInfo, err := schema.GetFieldInfo(tt.path)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, ConfigFieldInfo{}, fieldInfo)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedType, fieldInfo.Type)
			assert.Equal(t, tt.expectedDefault, fieldInfo.Default)
			assert.NotEmpty(t, fieldInfo.Description)
			if tt.expectedValidation {
				assert.NotNil(t, fieldInfo.Validation)
			} else {
				assert.Nil(t, fieldInfo.Validation)
			}
		})
	}
}

func TestFindSimilarKeys(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name             string
		key              string
		expectedContains []string
	}{
		{
			name:             "partial alias suggests alias",
			key:              "retries",
			expectedContains: []string{"parameters.max_retries"},
		},
		{
			name:             "leaf name inside a longer key",
			key:              "my_timeout",
			expectedContains: []string{"parameters.timeout"},
		},
		{
			name: "Empty key has no suggestions",
			key:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := schema.FindSimilarKeys(tt.key)
			assert.LessOrEqual(t, len(suggestions), 5, "Suggestions should be limited to 5 items")

			if len(tt.expectedContains) == 0 {
				assert.Empty(t, suggestions)
				return
			}
			for _, expected := range tt.expectedContains {
				assert.Contains(t, suggestions, expected)
			}
		})
	}
}

// TestSchemaConsistency verifies that the schema is internally consistent
func TestSchemaConsistency(t *testing.T) {
	schema := DefaultConfigSchema()

	t.Run("All aliases point to valid paths", func(t *testing.T) {
		for alias, canonicalPath := range schema.Aliases {
			_, exists := schema.ValidPaths[canonicalPath]
			assert.True(t, exists, "Alias %q points to non-existent path %q", alias, canonicalPath)
		}
	})

	t.Run("All field infos have types", func(t *testing.T) {
		for path, fieldInfo := range schema.ValidPaths {
			assert.NotNil(t, fieldInfo.Type, "Field %q has nil type", path)
			assert.NotEmpty(t, fieldInfo.Description, "Field %q has empty description", path)
		}
	})

	t.Run("Defaults pass their own validation", func(t *testing.T) {
		for path, fieldInfo := range schema.ValidPaths {
			assert.NoError(t, schema.ValidateValue(path, fieldInfo.Default), path)
		}
	})

	t.Run("Defaults match the embedded config", func(t *testing.T) {
		cfg := NewDefaultFromEmbedded()
		assert.Equal(t, schema.ValidPaths["llm.provider"].Default, cfg.LLM.Provider)
		assert.Equal(t, schema.ValidPaths["llm.model"].Default, cfg.LLM.Model)
		assert.Equal(t, schema.ValidPaths["parameters.timeout"].Default, cfg.Parameters.Timeout)
		assert.Equal(t, schema.ValidPaths["providers.openai.endpoint"].Default, cfg.Providers.OpenAI.Endpoint)
	})
}
