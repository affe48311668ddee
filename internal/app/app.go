package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Ereliath/NodeToCode/internal/config"
	n2cContext "github.com/Ereliath/NodeToCode/internal/context"
	n2cIO "github.com/Ereliath/NodeToCode/internal/io"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/prompt"
	"github.com/Ereliath/NodeToCode/internal/registry"
	"github.com/Ereliath/NodeToCode/internal/template"
	"github.com/Ereliath/NodeToCode/internal/verbose"

	"github.com/fatih/color"
)

// Request selects what a single translation run does
type Request struct {
	Provider     string
	Model        string
	Language     string // empty uses translation.language
	SystemPrompt string // overrides every configured prompt when set
	OutputDir    string // overrides translation.output_dir when set
	Raw          bool   // print the provider body instead of parsing it
}

// App represents the main application and holds its dependencies
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	verbose     bool
	stdin       *os.File
	stderr      io.Writer
	showSpinner bool
}

// NewApp creates a new App instance with the provided configuration, logger, and verbose setting
func NewApp(cfg *config.Config, logger *slog.Logger, verbose bool) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		verbose:     verbose,
		stdin:       os.Stdin,
		stderr:      os.Stderr,
		showSpinner: true,
	}
}

// getSpinner returns spinner glyphs and frame interval in ms
// just for fun, these vary by provider
func getSpinner(providerName string) (glyphs []string, speed int) {
	switch strings.ToLower(providerName) {
	case "anthropic":
		glyphs = []string{"✶", "✸", "✺", "✹", "✷"}
		speed = 500
	case "openai", "deepseek":
		glyphs = []string{"⠋", "⠙", "⠚", "⠒", "⠂", "⠂", "⠒", "⠲", "⠴", "⠦", "⠖", "⠒", "⠐", "⠐", "⠒", "⠓", "⠋"}
		speed = 125
	case "ollama":
		glyphs = []string{"◜", "◠", "◝", "◞", "◡", "◟"}
		speed = 333
	default:
		glyphs = []string{"⠄", "⠆", "⠇", "⠋", "⠙", "⠸", "⠰", "⠠", "⠰", "⠸", "⠙", "⠋", "⠇", "⠆"}
		speed = 200
	}
	return
}

// resolveSystemPrompt picks the first of: request override, translation.system_prompt,
// the language profile's prompt, the built-in prompt for the language
func (a *App) resolveSystemPrompt(req Request, languageName string, lang config.Language) (string, error) {
	for _, candidate := range []string{req.SystemPrompt, a.cfg.Translation.SystemPrompt, lang.SystemPrompt} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	system, err := prompt.SystemPrompt(languageName)
	if err != nil {
		return "", &ConfigError{Err: fmt.Errorf("language %q has no system prompt; set languages.%s.system_prompt: %w", languageName, languageName, err)}
	}
	return system, nil
}

// Run translates one Blueprint payload and returns the text to print
func (a *App) Run(ctx context.Context, args []string, sources *n2cContext.SourceSet, req Request) (string, error) {
	if a.cfg == nil {
		return "", fmt.Errorf("configuration is nil")
	}

	languageName := req.Language
	if languageName == "" {
		languageName = a.cfg.Translation.Language
	}
	lang, ok := a.cfg.LanguageProfile(languageName)
	if !ok {
		return "", &ConfigError{Err: fmt.Errorf("unknown language %q (run n2c languages to list profiles)", languageName)}
	}

	systemPrompt, err := a.resolveSystemPrompt(req, languageName, lang)
	if err != nil {
		return "", err
	}

	payload, err := n2cIO.ReadPayload(a.stdin, args)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if !payload.IsJSON() && a.logger != nil {
		a.logger.Warn("Payload is not JSON; sending it as text", "origin", payload.Origin)
	}

	message := template.ProcessTemplate(lang.MessageTemplate, payload.Content)

	if sources == nil {
		sources = &n2cContext.SourceSet{}
	}

	svc, err := registry.CreateService(req.Provider, req.Model, a.cfg, sources.All(), a.logger)
	if err != nil {
		return "", err
	}

	if a.verbose {
		endpoint, _, systemRole := svc.GetConfiguration()
		verbose.PrintRequestSummary(verbose.RequestSummary{
			Provider:         req.Provider,
			Model:            req.Model,
			Language:         languageName,
			Endpoint:         endpoint,
			SystemRole:       systemRole,
			StructuredOutput: svc.Capability().SupportsStructuredOutput,
			Timeout:          a.cfg.Parameters.Timeout,
			MaxRetries:       a.cfg.Parameters.MaxRetries,
			SystemPrompt:     systemPrompt,
			Sources:          sources.All(),
		}, verbose.DefaultOutputConfig(a.stderr))
	}

	if a.logger != nil {
		a.logger.Info("Preparing translation request",
			"provider", req.Provider,
			"model", req.Model,
			"language", languageName,
			"payload_origin", payload.Origin,
			"system_prompt_length", len(systemPrompt),
			"message_length", len(message),
			"source_files", len(sources.All()))
	}

	raw, err := a.sendWithSpinner(ctx, svc, req, message, systemPrompt)
	if err != nil {
		return "", fmt.Errorf("translation request did not complete: %w", err)
	}

	if req.Raw {
		return raw, nil
	}

	if msg, isError := common.ErrorMessage(raw); isError {
		return "", &ProviderError{Provider: req.Provider, Message: msg}
	}

	resp, err := svc.ParseResponse(raw)
	if err != nil {
		return "", err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = a.cfg.Translation.OutputDir
	}
	if outputDir == "" {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to format translation: %w", err)
		}
		return string(out), nil
	}

	written, err := WriteGraphs(outputDir, resp, lang)
	if err != nil {
		return "", err
	}
	if a.logger != nil {
		a.logger.Info("Wrote translation", "output_dir", outputDir, "files", len(written))
	}
	return strings.Join(written, "\n"), nil
}

// sendWithSpinner sends the request and shows a spinner on stderr until it completes
func (a *App) sendWithSpinner(ctx context.Context, svc common.Service, req Request, message, systemPrompt string) (string, error) {
	if !a.showSpinner {
		return common.SendAndWait(ctx, svc, message, systemPrompt)
	}

	// force color output for spinner, even in chained commands
	// (where TTY detection might cause color to be disabled)
	color.NoColor = false

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer func() {
			// always clear this line when the goroutine exits
			fmt.Fprintf(a.stderr, "\r%s\r", strings.Repeat(" ", 80))
		}()

		spinGlyphs, spinSpeed := getSpinner(req.Provider)
		cyan := color.New(color.FgCyan).SprintFunc()
		ticker := time.NewTicker(time.Duration(spinSpeed) * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				message := fmt.Sprintf("%s %s is translating...", spinGlyphs[i], req.Model)
				fmt.Fprintf(a.stderr, "\r%s", cyan(message))
				i = (i + 1) % len(spinGlyphs)
			}
		}
	}()

	raw, err := common.SendAndWait(ctx, svc, message, systemPrompt)
	close(done)
	<-stopped
	return raw, err
}
