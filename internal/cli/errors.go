package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/feature"
	"github.com/alexbrand/apidocs/internal/history"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitError       = 1 // General error
	ExitNotFound    = 3 // Not found (features directory, endpoint, recorded run)
	ExitConfigError = 4 // Configuration error
	ExitInputError  = 5 // Malformed feature file
)

// ExitCodeError is an error that carries an exit code.
type ExitCodeError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// NewExitCodeError creates a new ExitCodeError with the given code and message.
func NewExitCodeError(code int, message string) *ExitCodeError {
	return &ExitCodeError{Code: code, Message: message}
}

// WrapExitCodeError wraps an existing error with an exit code.
func WrapExitCodeError(code int, message string, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Message: message, Err: err}
}

// NotFoundError creates a not found error (exit code 3).
func NotFoundError(message string) *ExitCodeError {
	return NewExitCodeError(ExitNotFound, message)
}

// ConfigError creates a configuration error (exit code 4).
func ConfigError(message string) *ExitCodeError {
	return NewExitCodeError(ExitConfigError, message)
}

// classify wraps pipeline errors with the exit code they map to.
func classify(message string, err error) error {
	var parseErr *feature.ParseError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, feature.ErrNoFeatures), errors.Is(err, fs.ErrNotExist), errors.Is(err, history.ErrNoRuns):
		return WrapExitCodeError(ExitNotFound, message, err)
	case errors.As(err, &parseErr),
		errors.Is(err, apidoc.ErrMalformedHeader),
		errors.Is(err, apidoc.ErrUnknownVerb),
		errors.Is(err, apidoc.ErrInvalidJSON):
		return WrapExitCodeError(ExitInputError, message, err)
	default:
		return WrapExitCodeError(ExitError, message, err)
	}
}

// GetExitCode returns the exit code from an error.
// If the error is an ExitCodeError, returns its code.
// Otherwise, returns 1 (general error).
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// errorCode names an exit code for machine-readable error output.
func errorCode(err error) string {
	switch GetExitCode(err) {
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitConfigError:
		return "CONFIG_ERROR"
	case ExitInputError:
		return "INPUT_ERROR"
	default:
		return "ERROR"
	}
}
