package verbose

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// OutputConfig contains parameters for verbose output formatting
type OutputConfig struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	HeaderColor  *color.Color
	EnableColors bool
}

// DefaultOutputConfig returns a default configuration for verbose output
func DefaultOutputConfig(writer io.Writer) *OutputConfig {
	return &OutputConfig{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		HeaderColor:  color.New(color.FgYellow, color.Bold),
		EnableColors: true,
	}
}

// RequestSummary describes a translation request before it is sent
type RequestSummary struct {
	Provider         string
	Model            string
	Language         string
	Endpoint         string
	SystemRole       bool
	StructuredOutput bool
	Timeout          int
	MaxRetries       int
	SystemPrompt     string
	Sources          []string
}

// PrintRequestSummary displays the request settings in a multi-column table
func PrintRequestSummary(s RequestSummary, outputCfg *OutputConfig) {
	if outputCfg == nil {
		outputCfg = DefaultOutputConfig(os.Stderr)
	}

	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	type param struct {
		Key   string
		Value string
	}

	params := []param{
		{Key: "Provider", Value: s.Provider},
		{Key: "Model", Value: s.Model},
		{Key: "Language", Value: s.Language},
		{Key: "Endpoint", Value: s.Endpoint},
		{Key: "System Role", Value: yesNo(s.SystemRole)},
		{Key: "Structured Output", Value: yesNo(s.StructuredOutput)},
		{Key: "Timeout", Value: fmt.Sprintf("%ds", s.Timeout)},
		{Key: "Max Retries", Value: fmt.Sprintf("%d", s.MaxRetries)},
	}

	// print rows in pairs
	for i := 0; i < len(params); i += 2 {
		p1 := params[i]
		if (i + 1) < len(params) {
			p2 := params[i+1]
			printRow(w, outputCfg, p1.Key, p1.Value, p2.Key, p2.Value)
		} else {
			printRow(w, outputCfg, p1.Key, p1.Value, "", "")
		}
	}

	for _, src := range s.Sources {
		printRow(w, outputCfg, "Source", src, "", "")
	}

	if s.SystemPrompt != "" {
		sysPrompt := s.SystemPrompt
		if len(sysPrompt) > 65 {
			sysPrompt = sysPrompt[:62] + "..."
		}
		printRow(w, outputCfg, "System Prompt", sysPrompt, "", "")
	}

	fmt.Fprintf(w, "\n")
	w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printRow prints a multi-column row for one or two key-value pairs
// and handles color formatting and alignment via tabwriter
func printRow(w io.Writer, outputCfg *OutputConfig, key1, value1, key2, value2 string) {
	keySprint := outputCfg.KeyColor.SprintFunc()
	valueSprint := outputCfg.ValueColor.SprintFunc()

	if !outputCfg.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	if key2 != "" {
		fmt.Fprintf(w, "%s:\t%s\t%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
			keySprint(key2),
			valueSprint(value2),
		)
	} else {
		fmt.Fprintf(w, "%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
		)
	}
}
