package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tturner/nettrainer/internal/actionlog"
)

func TestNewLogger(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		l, err := NewLogger(LogLevelInfo, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer l.Close()
		if l.level != LogLevelInfo {
			t.Errorf("level = %d, want %d", l.level, LogLevelInfo)
		}
		if l.file != nil {
			t.Error("file should be nil when no path given")
		}
	})

	t.Run("with file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		l, err := NewLogger(LogLevelDebug, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer l.Close()
		if l.file == nil {
			t.Error("file should not be nil")
		}
		if l.fileLog == nil {
			t.Error("fileLog should not be nil")
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := NewLogger(LogLevelInfo, "/nonexistent/dir/test.log")
		if err == nil {
			t.Error("expected error for invalid path")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "", want: LogLevelInfo},
		{in: "silent", want: LogLevelSilent},
		{in: " Debug ", want: LogLevelDebug},
		{in: "VERBOSE", want: LogLevelVerbose},
		{in: "loud", want: LogLevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := NewLogger(LogLevelInfo, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.SetQuiet(true)

	l.Error("error msg")
	l.Info("info msg")
	l.Verbose("verbose msg")
	l.Debug("debug msg")

	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "ERROR: error msg") {
		t.Error("log should contain error message")
	}
	if !strings.Contains(content, "INFO: info msg") {
		t.Error("log should contain info message")
	}
	if strings.Contains(content, "VERBOSE: verbose msg") {
		t.Error("log should NOT contain verbose message at Info level")
	}
	if strings.Contains(content, "DEBUG: debug msg") {
		t.Error("log should NOT contain debug message at Info level")
	}
}

func TestLoggerSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelSilent, &buf)
	l.Error("should not appear")
	l.Info("should not appear")
	if buf.Len() > 0 {
		t.Error("silent logger should produce no output")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("x")
	l.LogEvaluation("id", 1, 100, 0, 1, "s")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSetGetLevel(t *testing.T) {
	l, _ := NewLogger(LogLevelInfo, "")
	defer l.Close()

	if l.GetLevel() != LogLevelInfo {
		t.Errorf("GetLevel() = %d, want %d", l.GetLevel(), LogLevelInfo)
	}

	l.SetLevel(LogLevelDebug)
	if l.GetLevel() != LogLevelDebug {
		t.Errorf("GetLevel() = %d, want %d", l.GetLevel(), LogLevelDebug)
	}
}

func TestLogAction(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelVerbose, &buf)

	e := actionlog.Entry{
		Kind:      actionlog.SubmitWifiPassword,
		Payload:   actionlog.Payload{actionlog.KeyCorrect: false},
		Timestamp: time.Unix(0, 0),
	}
	l.LogAction("0123456789abcdef", e, 90)

	content := buf.String()
	for _, want := range []string{"[01234567]", "submit_wifi_password", "{correct=false}", "live score 90"} {
		if !strings.Contains(content, want) {
			t.Errorf("log %q should contain %q", content, want)
		}
	}
}

func TestLogAction_SkipsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelInfo, &buf)
	l.LogAction("id", actionlog.Entry{Kind: actionlog.RequestHint}, 95)
	if buf.Len() > 0 {
		t.Errorf("LogAction at Info level wrote %q", buf.String())
	}
}

func TestLogStartupAndEvaluation(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelVerbose, &buf)

	l.LogStartup("sess-1", "dns_issue", "", "/tmp/data")
	l.LogEvaluation("sess-1", 75, 100, 1, 1, "done")

	content := buf.String()
	for _, want := range []string{"Starting nettrainer session sess-1", "dns_issue", "(defaults)", "/tmp/data", "score 75/100", "tasks 1/1", "Summary: done"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q, got:\n%s", want, content)
		}
	}
}

func TestClose_NilFile(t *testing.T) {
	l, _ := NewLogger(LogLevelInfo, "")
	if err := l.Close(); err != nil {
		t.Errorf("Close with nil file should not error: %v", err)
	}
}
