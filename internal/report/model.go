package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/tturner/nettrainer/internal/scoring"
)

// MessageType is the type tag of every outbound result message.
const MessageType = "evaluationResult"

// Message is the outbound evaluation result sent to the hosting page.
type Message struct {
	Type           string `json:"type"`
	Score          int    `json:"score"`
	MaxScore       int    `json:"maxScore"`
	Details        string `json:"details"`
	TasksCompleted int    `json:"tasksCompleted"`
	TotalTasks     int    `json:"totalTasks"`
	ExtractedText  string `json:"extractedText"`
	Timestamp      string `json:"timestamp"`
}

// Build converts a final evaluation into the outbound message.
func Build(result scoring.EvaluationResult, now time.Time) Message {
	details := FormatDetails(result.Details)
	return Message{
		Type:           MessageType,
		Score:          result.Score,
		MaxScore:       result.MaxScore,
		Details:        details,
		TasksCompleted: result.TasksCompleted,
		TotalTasks:     result.TotalTasks,
		ExtractedText:  fmt.Sprintf("Scor: %d/%d. Detalii: %s", result.Score, result.MaxScore, strings.ReplaceAll(details, "\n", " ")),
		Timestamp:      FormatTimestamp(now),
	}
}

// FormatDetails renders feedback lines with their verdict marker, one per line.
func FormatDetails(details []scoring.Detail) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, Marker(d.Correct)+" "+d.Text)
	}
	return strings.Join(lines, "\n")
}

// Marker returns the verdict tag shown before a detail line.
func Marker(correct bool) string {
	if correct {
		return "[CORECT]"
	}
	return "[INCORECT]"
}
