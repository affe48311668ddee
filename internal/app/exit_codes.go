// Provides exit code functionality
//
// n2c exits with a code describing which stage failed, so scripts and the
// editor plugin can tell a bad setup from a bad model answer
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ereliath/NodeToCode/internal/config"
	"github.com/Ereliath/NodeToCode/internal/llm/common"
	"github.com/Ereliath/NodeToCode/internal/registry"
	"github.com/Ereliath/NodeToCode/internal/translation"
)

// process exit codes
const (
	ExitOK       = 0
	ExitError    = 1
	ExitConfig   = 2
	ExitProvider = 3
	ExitParse    = 4
)

// ConfigError wraps a failure caused by configuration or flags
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ProviderError is a failure the provider or transport reported in place of a response
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// ExitCodeFor maps an error returned by Run (or command setup) to a process exit code
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		configErr   *ConfigError
		unknown     *registry.UnknownProviderError
		missingKey  *registry.MissingAPIKeyError
		initErr     *registry.InitializationError
		settingErr  *config.ValidationError
		providerErr *ProviderError
		parseErr    *translation.ParseError
	)

	switch {
	case errors.As(err, &configErr),
		errors.As(err, &unknown),
		errors.As(err, &missingKey),
		errors.As(err, &initErr),
		errors.As(err, &settingErr):
		return ExitConfig
	case errors.As(err, &providerErr),
		errors.Is(err, context.DeadlineExceeded):
		return ExitProvider
	case errors.As(err, &parseErr),
		errors.Is(err, translation.ErrNoGraphs),
		errors.Is(err, common.ErrNotInitialized):
		return ExitParse
	}
	return ExitError
}
