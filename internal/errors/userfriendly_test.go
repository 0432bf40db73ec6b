package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestUserFriendlyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UserFriendlyError
		contains []string
	}{
		{
			name:     "message only",
			err:      UserFriendlyError{Message: "something broke"},
			contains: []string{"something broke"},
		},
		{
			name: "all fields",
			err: UserFriendlyError{
				Message: "delivery failed",
				Reason:  "timeout",
				Hint:    "check hosting page",
				Try:     "use a report file",
				Err:     fmt.Errorf("post: timeout"),
			},
			contains: []string{"delivery failed", "Reason: timeout", "Hint: check hosting page", "Try: use a report file", "Details: post: timeout"},
		},
		{
			name: "no reason",
			err: UserFriendlyError{
				Message: "failed",
				Hint:    "hint here",
			},
			contains: []string{"failed", "Hint: hint here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, want to contain %q", msg, s)
				}
			}
		})
	}
}

func TestUserFriendlyError_ErrorOmitsEmptyFields(t *testing.T) {
	err := UserFriendlyError{Message: "msg"}
	msg := err.Error()
	if strings.Contains(msg, "Reason:") || strings.Contains(msg, "Hint:") || strings.Contains(msg, "Try:") || strings.Contains(msg, "Details:") {
		t.Errorf("Error() = %q, should not contain empty fields", msg)
	}
}

func TestUserFriendlyError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("root cause")
	err := UserFriendlyError{Message: "wrapper", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("Unwrap should return the inner error")
	}

	var nilErr UserFriendlyError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap on nil Err should return nil")
	}
}

func TestWrapConfigError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapConfigError(nil, "config.yaml") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps config error", func(t *testing.T) {
		err := WrapConfigError(fmt.Errorf("invalid yaml"), "nettrainer.yaml")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "nettrainer.yaml") {
			t.Errorf("message should contain config path, got %q", ufe.Message)
		}
		if ufe.Reason != "invalid yaml" {
			t.Errorf("reason should be inner error message, got %q", ufe.Reason)
		}
	})
}

func TestWrapStorageError(t *testing.T) {
	if WrapStorageError(nil, "/tmp") != nil {
		t.Fatal("expected nil")
	}

	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "permission", err: fmt.Errorf("open: %w", fs.ErrPermission), reason: "Permission denied"},
		{name: "missing", err: fmt.Errorf("stat: %w", fs.ErrNotExist), reason: "Directory does not exist"},
		{name: "read only", err: fmt.Errorf("write x: read-only file system"), reason: "File system is read-only"},
		{name: "generic", err: fmt.Errorf("boom"), reason: "Storage access failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ufe := WrapStorageError(tt.err, "/data").(UserFriendlyError)
			if ufe.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", ufe.Reason, tt.reason)
			}
			if !strings.Contains(ufe.Message, "/data") {
				t.Errorf("message should contain dir, got %q", ufe.Message)
			}
			if !errors.Is(ufe, tt.err) {
				t.Error("wrapped error should unwrap to the cause")
			}
		})
	}
}

func TestWrapDeliveryError(t *testing.T) {
	if WrapDeliveryError(nil, "http://x") != nil {
		t.Fatal("expected nil")
	}

	tests := []struct {
		err      string
		contains string
	}{
		{err: "context deadline exceeded", contains: "in time"},
		{err: "dial tcp: connection refused", contains: "refused"},
		{err: "unexpected status 500", contains: "rejected"},
		{err: "other", contains: "Delivery failed"},
	}
	for _, tt := range tests {
		ufe := WrapDeliveryError(fmt.Errorf("%s", tt.err), "http://host/report").(UserFriendlyError)
		if !strings.Contains(ufe.Reason, tt.contains) {
			t.Errorf("%q: Reason = %q, want to contain %q", tt.err, ufe.Reason, tt.contains)
		}
	}
}

func TestWrapScriptError(t *testing.T) {
	if WrapScriptError(nil, "s.yaml", 1) != nil {
		t.Fatal("expected nil")
	}
	ufe := WrapScriptError(fmt.Errorf("unknown action"), "s.yaml", 3).(UserFriendlyError)
	if !strings.Contains(ufe.Message, "step 3") {
		t.Errorf("message should name the step, got %q", ufe.Message)
	}
	ufe = WrapScriptError(fmt.Errorf("bad yaml"), "s.yaml", 0).(UserFriendlyError)
	if strings.Contains(ufe.Message, "step") {
		t.Errorf("message should not name a step, got %q", ufe.Message)
	}
}
