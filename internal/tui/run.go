package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/nettrainer/internal/scoring"
	"github.com/tturner/nettrainer/internal/session"
)

// Run starts the desktop TUI on sess and blocks until the trainee quits.
// It returns the evaluation if the session was finished.
func Run(sess *session.Session, finishTimeout time.Duration) (scoring.EvaluationResult, bool, error) {
	model := NewModel(sess, finishTimeout)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return scoring.EvaluationResult{}, false, err
	}
	r, ok := model.Result()
	return r, ok, nil
}
