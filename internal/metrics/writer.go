package metrics

// Action log export (CSV/JSON)

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tturner/nettrainer/internal/actionlog"
)

// Writer streams action log entries to CSV and/or JSON files.
type Writer struct {
	sessionID string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	jsonCount int
}

type jsonEntry struct {
	SessionID string            `json:"session_id"`
	Kind      actionlog.Kind    `json:"kind"`
	Payload   actionlog.Payload `json:"payload,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewWriter creates a writer. Either path may be empty.
func NewWriter(sessionID, csvPath, jsonPath string) (*Writer, error) {
	w := &Writer{sessionID: sessionID}

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("create CSV file: %w", err)
		}
		w.csvFile = file
		w.csvWriter = csv.NewWriter(file)

		header := []string{"timestamp", "session_id", "kind", "payload"}
		if err := w.csvWriter.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write CSV header: %w", err)
		}
		w.csvWriter.Flush()
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("create JSON file: %w", err)
		}
		w.jsonFile = file

		if _, err := file.WriteString("[\n"); err != nil {
			file.Close()
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("write JSON start: %w", err)
		}
	}

	return w, nil
}

// WriteEntry writes a single entry.
func (w *Writer) WriteEntry(e actionlog.Entry) error {
	if w.csvWriter != nil {
		record := []string{
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			w.sessionID,
			e.Kind.String(),
			formatPayload(e.Payload),
		}
		if err := w.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
		w.csvWriter.Flush()
		if err := w.csvWriter.Error(); err != nil {
			return fmt.Errorf("flush CSV: %w", err)
		}
	}

	if w.jsonFile != nil {
		data, err := json.Marshal(jsonEntry{
			SessionID: w.sessionID,
			Kind:      e.Kind,
			Payload:   e.Payload,
			Timestamp: e.Timestamp.UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}

		if w.jsonCount > 0 {
			if _, err := w.jsonFile.WriteString(",\n"); err != nil {
				return fmt.Errorf("write JSON comma: %w", err)
			}
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "  ", "  "); err != nil {
			return fmt.Errorf("indent JSON: %w", err)
		}
		if _, err := w.jsonFile.WriteString("  "); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if _, err := w.jsonFile.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		w.jsonCount++
	}

	return nil
}

// WriteAll writes entries in order, stopping at the first error.
func (w *Writer) WriteAll(entries []actionlog.Entry) error {
	for _, e := range entries {
		if err := w.WriteEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the writer and flushes all data
func (w *Writer) Close() error {
	var errs []error

	if w.csvWriter != nil {
		w.csvWriter.Flush()
	}
	if w.csvFile != nil {
		if err := w.csvFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if w.jsonFile != nil {
		if _, err := w.jsonFile.WriteString("\n]\n"); err != nil {
			errs = append(errs, err)
		}
		if err := w.jsonFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close writer: %w", errors.Join(errs...))
	}
	return nil
}

// formatPayload renders a payload as sorted key=value pairs (empty if none)
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
	return strings.Join(parts, ";")
}
