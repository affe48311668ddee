package cmd

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/Ereliath/NodeToCode/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// notSet is shown for empty or missing values
const notSet = "<not set>"

// ConfigDisplayInfo is one row of the list output
type ConfigDisplayInfo struct {
	Key         string
	Value       string
	Description string
	Group       string
	Target      string // canonical path, set for aliases
	Modified    bool   // value differs from the built-in default
}

// OutputStyle contains color configuration for the list output
type OutputStyle struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	GroupColor   *color.Color
	ChangedColor *color.Color
	EnableColors bool
}

// NewOutputStyle creates new output style configuration
func NewOutputStyle(writer io.Writer) *OutputStyle {
	return &OutputStyle{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		GroupColor:   color.New(color.FgGreen, color.Bold),
		ChangedColor: color.New(color.FgYellow),
		EnableColors: true,
	}
}

func (s *OutputStyle) sprint(c *color.Color) func(a ...interface{}) string {
	if !s.EnableColors || c == nil {
		return fmt.Sprint
	}
	return c.SprintFunc()
}

// listConfigCmd represents the config list cmd
var listConfigCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long: `List configuration values.

By default, shows the user-friendly aliases view. Use --canonical to see
every canonical path. Values changed from the built-in defaults are
marked with *.

Examples:
  n2c config list              # Show aliases view (default)
  n2c config list --aliases    # Show aliases view (explicit)
  n2c config list --canonical  # Show canonical configuration paths`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.DefaultConfigSchema()
		showCanonical, _ := cmd.Flags().GetBool("canonical")

		style := NewOutputStyle(cmd.OutOrStdout())
		if showCanonical {
			return renderGroups(style, collectCanonicalRows(schema), false)
		}
		return renderGroups(style, collectAliasRows(schema), true)
	},
}

// groupOrder is the display order of config groups
var groupOrder = []string{"Model", "Translation", "Transport", "Providers", "Sources"}

// groupFor returns the display group of a canonical config path
func groupFor(canonicalPath string) string {
	switch {
	case strings.HasPrefix(canonicalPath, "llm."):
		return "Model"
	case strings.HasPrefix(canonicalPath, "translation."):
		return "Translation"
	case strings.HasPrefix(canonicalPath, "parameters."):
		return "Transport"
	case strings.HasPrefix(canonicalPath, "providers."):
		return "Providers"
	}
	return "Sources"
}

// isModified compares the live value of a path against its schema default
func isModified(canonicalPath string, info config.ConfigFieldInfo) bool {
	current := state.manager.Viper().Get(canonicalPath)
	if current == nil {
		return false
	}
	if info.Default == nil {
		return true
	}
	// viper hands back []interface{} for lists read from TOML
	return fmt.Sprint(current) != fmt.Sprint(info.Default) && !(isEmptyList(current) && isEmptyList(info.Default))
}

func isEmptyList(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.Len() == 0
}

func collectAliasRows(schema *config.ConfigSchema) map[string][]ConfigDisplayInfo {
	groups := make(map[string][]ConfigDisplayInfo)
	for _, alias := range schema.ListAliases() {
		canonicalPath := schema.Aliases[alias]
		info, err := schema.GetFieldInfo(canonicalPath)
		if err != nil {
			continue
		}
		group := groupFor(canonicalPath)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         alias,
			Value:       maskSensitiveValue(alias, getConfigValue(canonicalPath)),
			Description: info.Description,
			Group:       group,
			Target:      canonicalPath,
			Modified:    isModified(canonicalPath, info),
		})
	}
	return groups
}

func collectCanonicalRows(schema *config.ConfigSchema) map[string][]ConfigDisplayInfo {
	groups := make(map[string][]ConfigDisplayInfo)
	for _, key := range schema.ListCanonicalKeys() {
		info, err := schema.GetFieldInfo(key)
		if err != nil {
			continue
		}
		group := groupFor(key)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         key,
			Value:       maskSensitiveValueCanonical(key, getConfigValue(key)),
			Description: info.Description,
			Group:       group,
			Modified:    isModified(key, info),
		})
	}
	return groups
}

// renderGroups writes each group as a table; the alias view also carries descriptions
func renderGroups(style *OutputStyle, groups map[string][]ConfigDisplayInfo, withDescription bool) error {
	w := tabwriter.NewWriter(style.Writer, 0, 0, 3, ' ', 0)
	group := style.sprint(style.GroupColor)
	key := style.sprint(style.KeyColor)
	value := style.sprint(style.ValueColor)
	changed := style.sprint(style.ChangedColor)

	for _, groupName := range groupOrder {
		rows := groups[groupName]
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s\n", group("▶ "+groupName))
		if withDescription {
			// header cells stay uncolored so tabwriter widths line up
			fmt.Fprintf(w, "Key\tValue\tDescription\n")
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 20), strings.Repeat("-", 15), strings.Repeat("-", 40))
		} else {
			fmt.Fprintf(w, "Key\tValue\n")
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 30), strings.Repeat("-", 45))
		}

		for _, row := range rows {
			v := row.Value
			if withDescription && len(v) > 25 {
				v = v[:22] + "..."
			}
			if row.Modified {
				v = changed("*") + value(v)
			} else {
				v = value(v)
			}

			if withDescription {
				description := row.Description
				if len(description) > 50 {
					description = description[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", key(row.Key), v, description)
			} else {
				fmt.Fprintf(w, "%s\t%s\n", key(row.Key), v)
			}
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

// getConfigValue retrieves the current value for a configuration key using Viper
func getConfigValue(canonicalPath string) string {
	value := state.manager.Viper().Get(canonicalPath)
	if value == nil {
		return notSet
	}
	if str, ok := value.(string); ok && str == "" {
		return notSet
	}

	result := fmt.Sprintf("%v", value)
	if len(result) > 40 {
		return result[:37] + "..."
	}
	return result
}

// isSensitiveKey reports whether a key holds a credential
func isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	return strings.Contains(keyLower, "api") || strings.Contains(keyLower, "key")
}

// maskCredential keeps the first five characters of a credential
func maskCredential(value string) string {
	if len(value) <= 5 {
		return strings.Repeat("*", len(value))
	}
	return value[:5] + "..."
}

// maskSensitiveValue masks API keys for the alias view
func maskSensitiveValue(key, value string) string {
	if value == notSet || value == "" {
		return notSet
	}
	if isSensitiveKey(key) {
		return maskCredential(value)
	}
	return value
}

// maskSensitiveValueCanonical masks API keys and truncates long values for the canonical view
func maskSensitiveValueCanonical(key, value string) string {
	value = maskSensitiveValue(key, value)
	if len(value) > 40 {
		return value[:37] + "..."
	}
	return value
}

func init() {
	configCmd.AddCommand(listConfigCmd)
	listConfigCmd.Flags().Bool("aliases", false, "Show aliases view (default behavior)")
	listConfigCmd.Flags().Bool("canonical", false, "Show canonical configuration paths")
	listConfigCmd.MarkFlagsMutuallyExclusive("aliases", "canonical")
}
