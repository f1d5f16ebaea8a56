// Package errors provides structured CLI error types for vizdash.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI errors.
const (
	ExitSuccess = 0  // Successful execution
	ExitGeneral = 1  // General error
	ExitAuth    = 2  // Authentication error
	ExitNetwork = 3  // Network/API error
	ExitConfig  = 4  // Configuration error
	ExitUsage   = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// NotAuthenticated returns an error indicating missing credentials.
func NotAuthenticated() *CLIError {
	return &CLIError{
		Message: "Not authenticated",
		Hint:    "Run 'vizdash auth login' to store a GitHub token",
		Code:    ExitAuth,
	}
}

// AuthFailed returns an error for failed authentication.
func AuthFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Authentication failed",
		Hint:    "Check your token or run 'vizdash auth login'",
		Cause:   cause,
		Code:    ExitAuth,
	}
}

// TokenInvalid returns an error for invalid stored credentials.
func TokenInvalid(cause error) *CLIError {
	return &CLIError{
		Message: "Stored token is invalid",
		Hint:    "Run 'vizdash auth login' to re-authenticate",
		Cause:   cause,
		Code:    ExitAuth,
	}
}

// TokenEmpty returns an error when the entered token is empty.
func TokenEmpty() *CLIError {
	return &CLIError{
		Message: "Token cannot be empty",
		Hint:    "Enter a valid token or set GITHUB_TOKEN environment variable",
		Code:    ExitAuth,
	}
}

// CannotPrompt returns an error when interactive prompts are unavailable.
func CannotPrompt(envVar string) *CLIError {
	return &CLIError{
		Message: "Cannot prompt in non-interactive mode",
		Hint:    fmt.Sprintf("Set %s environment variable instead", envVar),
		Code:    ExitUsage,
	}
}

// SectionUnknown returns an error for an unknown dashboard section.
func SectionUnknown(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Unknown section: %s", name),
		Hint:    "Run 'vizdash view --help' to see available sections",
		Code:    ExitUsage,
	}
}

// EndpointInvalid returns an error for a rejected endpoint definition.
func EndpointInvalid(reason string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid endpoint: %s", reason),
		Hint:    "Provide a non-empty label and an absolute http(s) URL",
		Code:    ExitUsage,
	}
}

// NetworkFailed returns an error for API/network failures.
func NetworkFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check your network connection or run 'vizdash doctor'",
		Cause:   cause,
		Code:    ExitNetwork,
	}
}

// ConfigFailed returns an error for configuration save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your vizdash config directory or run 'vizdash doctor'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// CacheFailed returns an error for offline cache failures.
func CacheFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Offline cache: failed to %s", operation),
		Hint:    "Run 'vizdash sync' to rebuild the cache",
		Cause:   cause,
		Code:    ExitGeneral,
	}
}
