package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Missing fields fall back to defaults; only set what you want to change",
		Try:     "nettrainer play without --config to run with the built-in defaults",
		Err:     err,
	}
}

// WrapStorageError wraps snapshot persistence errors
func WrapStorageError(err error, dataDir string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Cannot use data directory %s", dataDir),
		Reason:  extractStorageReason(err),
		Hint:    "Cosmetic state (networks, tabs, history) is optional; the exercise still runs without it",
		Try:     "nettrainer play --data-dir <writable dir>, or set storage.disabled: true",
		Err:     err,
	}
}

// WrapDeliveryError wraps result delivery errors
func WrapDeliveryError(err error, target string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to deliver evaluation result to %s", target),
		Reason:  extractDeliveryReason(err),
		Hint:    "The local result is kept; only the report to the hosting page failed",
		Try:     "nettrainer play --report-file result.json to keep a copy on disk",
		Err:     err,
	}
}

// WrapScriptError wraps replay script errors
func WrapScriptError(err error, scriptPath string, step int) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("Replay script %s is invalid", scriptPath)
	if step > 0 {
		msg = fmt.Sprintf("Replay script %s failed at step %d", scriptPath, step)
	}
	return UserFriendlyError{
		Message: msg,
		Reason:  err.Error(),
		Hint:    "Each step needs an action name; see nettrainer replay --help for the list",
		Try:     "nettrainer scenarios to list valid scenario keys",
		Err:     err,
	}
}

func extractStorageReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "Directory does not exist"
	}
	if strings.Contains(err.Error(), "read-only file system") {
		return "File system is read-only"
	}
	return "Storage access failed"
}

func extractDeliveryReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Hosting page did not answer in time"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused - nothing is listening at the hosting URL"
	}
	if strings.Contains(errStr, "status") {
		return "Hosting page rejected the result"
	}

	return "Delivery failed"
}
