package logging

// Leveled logging for nettrainer

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tturner/nettrainer/internal/actionlog"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

var levelNames = map[string]LogLevel{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"info":    LogLevelInfo,
	"verbose": LogLevelVerbose,
	"debug":   LogLevelDebug,
}

// ParseLevel maps a config level name to a LogLevel. Empty means info.
func ParseLevel(name string) (LogLevel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LogLevelInfo, nil
	}
	lvl, ok := levelNames[name]
	if !ok {
		return LogLevelInfo, fmt.Errorf("unknown log level %q (want silent, error, info, verbose or debug)", name)
	}
	return lvl, nil
}

// Logger writes leveled messages to the console and an optional file.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	quiet   bool
	file    *os.File
	fileLog *log.Logger
	stdout  *log.Logger
	stderr  *log.Logger
}

// NewLogger creates a new logger
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	l := &Logger{
		level:  level,
		stdout: log.New(os.Stdout, "", 0),
		stderr: log.New(os.Stderr, "", 0),
	}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = file
		l.fileLog = log.New(file, "", log.LstdFlags)
	}

	return l, nil
}

// NewWriterLogger logs to w only. Used by tests and headless replays.
func NewWriterLogger(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		level:   level,
		quiet:   true,
		fileLog: log.New(w, "", 0),
	}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{level: LogLevelSilent, quiet: true}
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetQuiet stops console output. The TUI owns the terminal while it runs,
// so only the log file receives messages.
func (l *Logger) SetQuiet(quiet bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = quiet
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.write(fmt.Sprintf("ERROR: "+format, v...), true)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.write(fmt.Sprintf("INFO: "+format, v...), false)
	}
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	if l.level >= LogLevelVerbose {
		l.write(fmt.Sprintf("VERBOSE: "+format, v...), false)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.write(fmt.Sprintf("DEBUG: "+format, v...), false)
	}
}

func (l *Logger) write(msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		l.fileLog.Println(msg)
	}
	if l.quiet {
		return
	}

	// Errors go to stderr; everything else reaches stdout only at verbose or above.
	if isError {
		l.stderr.Println(msg)
	} else if l.level >= LogLevelVerbose {
		l.stdout.Println(msg)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogStartup logs session startup information
func (l *Logger) LogStartup(sessionID, scenario, configPath, dataDir string) {
	l.Info("Starting nettrainer session %s", sessionID)
	l.Verbose("  Scenario: %s", scenario)
	l.Verbose("  Config: %s", valueOr(configPath, "(defaults)"))
	l.Verbose("  Data dir: %s", valueOr(dataDir, "(storage disabled)"))
}

// LogAction logs one accepted action log entry.
func (l *Logger) LogAction(sessionID string, e actionlog.Entry, liveScore int) {
	if l.level < LogLevelVerbose {
		return
	}
	l.Verbose("[%s] action %s%s -> live score %d", shortID(sessionID), e.Kind, formatPayload(e.Payload), liveScore)
}

// LogEvaluation logs the final outcome of a session.
func (l *Logger) LogEvaluation(sessionID string, score, maxScore, tasksCompleted, totalTasks int, summary string) {
	l.Info("[%s] evaluation: score %d/%d, tasks %d/%d", shortID(sessionID), score, maxScore, tasksCompleted, totalTasks)
	l.Verbose("  Summary: %s", summary)
}

func formatPayload(p actionlog.Payload) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return " {" + strings.Join(parts, " ") + "}"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
