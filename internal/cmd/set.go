package cmd

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Ereliath/NodeToCode/internal/config"

	"github.com/spf13/cobra"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <key>=<value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

The key should be in dot notation format (e.g., parameters.timeout),
but convenient aliases are also supported.

For example, you can use convenient aliases for API keys:
  openai-key     → providers.openai.api_key
  anthropic-key  → providers.anthropic.api_key

List values such as sources.files take a comma separated list.

Examples:
  n2c config set provider=anthropic
  n2c config set model=claude-sonnet-4-20250514
  n2c config set language=python
  n2c config set translation.output_dir=./Generated
  n2c config set sources=Source/MyGame/MyActor.h,Source/MyGame/MyTypes.h
  n2c config set deepseek-key=sk-65433210`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// parse the key=value argument
		argument := args[0]
		parts := strings.SplitN(argument, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format: expected key=value, got %q", argument)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" {
			return fmt.Errorf("key cannot be empty")
		}

		schema := config.DefaultConfigSchema()

		// aliases resolve to canonical paths
		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		convertedValue, err := convertValueToType(value, fieldInfo.Type)
		if err != nil {
			return fmt.Errorf("failed to convert value %q for key %q: %w", value, canonicalKey, err)
		}

		if err := schema.ValidateValue(canonicalKey, convertedValue); err != nil {
			return fmt.Errorf("validation failed for key %q: %w", canonicalKey, err)
		}

		manager := state.manager

		// language profiles live in languages.toml, so check the name against what was loaded
		if canonicalKey == "translation.language" {
			if _, ok := manager.Config().LanguageProfile(convertedValue.(string)); !ok {
				return fmt.Errorf("validation failed for key %q: unknown language %q (run n2c languages to list profiles)", canonicalKey, convertedValue)
			}
		}

		manager.Viper().Set(canonicalKey, convertedValue)

		if err := manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		// echo the canonical key when an alias was used
		if key != canonicalKey {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s (%s) = %v\n", key, canonicalKey, convertedValue)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s = %v\n", canonicalKey, convertedValue)
		}

		return nil
	},
}

// convertValueToType converts a string value to the specified type
func convertValueToType(value string, targetType reflect.Type) (interface{}, error) {
	// unquote quoted values
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'' || value[0] == '`') {
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		// otherwise keep the value as typed
	}

	switch targetType.Kind() {
	case reflect.String:
		return value, nil

	case reflect.Bool:
		return strconv.ParseBool(strings.ToLower(value))

	case reflect.Int:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		return int(intVal), nil

	case reflect.Int64:
		return strconv.ParseInt(value, 10, 64)

	case reflect.Float64:
		return strconv.ParseFloat(value, 64)

	case reflect.Slice:
		if targetType.Elem().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported type: %s", targetType.String())
		}
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil

	default:
		return nil, fmt.Errorf("unsupported type: %s", targetType.String())
	}
}

func init() {
	configCmd.AddCommand(setCmd)
}
