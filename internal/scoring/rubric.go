package scoring

import (
	"fmt"

	"github.com/tturner/nettrainer/internal/actionlog"
)

// Rule names used by DefaultRubric. Config overrides refer to these.
const (
	RuleDistractorWindow = "distractor_window"
	RuleWrongPassword    = "wrong_password"
	RuleHintRequest      = "hint_request"
)

// DistractorWindows are windows unrelated to fixing connectivity.
var DistractorWindows = []string{"wordpad", "terminal"}

// Rule is one penalty line of the rubric. Every entry matching Match is a
// hit; the penalty is Penalty per hit, or Penalty once when Once is set.
type Rule struct {
	Name     string
	Match    func(actionlog.Entry) bool
	Penalty  int
	Once     bool
	Feedback func(hits int) string
}

func (r Rule) deduction(hits int) int {
	if hits == 0 {
		return 0
	}
	if r.Once {
		return r.Penalty
	}
	return r.Penalty * hits
}

// Task is a primary objective checked against the final state.
type Task struct {
	Name string
	Done func(Snapshot) bool
}

// Rubric holds the ordered penalty rules and the final-pass parameters.
type Rubric struct {
	MaxScore           int
	Rules              []Rule
	Tasks              []Task
	EfficientThreshold int
	UnresolvedPenalty  int
	EscalationPenalty  int
	EscalationFloor    int

	ResolvedLines   []string
	UnresolvedLines []Detail
	EscalationLine  string

	SummaryEfficient   string
	SummaryInefficient string
	SummaryUnresolved  string
}

// TotalTasks returns the number of primary tasks.
func (r *Rubric) TotalTasks() int {
	return len(r.Tasks)
}

// SetPenalty overrides the magnitude of a named rule.
func (r *Rubric) SetPenalty(name string, penalty int) error {
	for i := range r.Rules {
		if r.Rules[i].Name == name {
			r.Rules[i].Penalty = penalty
			return nil
		}
	}
	return fmt.Errorf("unknown rubric rule %q", name)
}

// DefaultRubric returns the shipped rubric.
func DefaultRubric() *Rubric {
	return &Rubric{
		MaxScore: 100,
		Rules: []Rule{
			{
				Name: RuleDistractorWindow,
				Match: func(e actionlog.Entry) bool {
					if e.Kind != actionlog.OpenWindow {
						return false
					}
					w := e.Window()
					for _, d := range DistractorWindows {
						if w == d {
							return true
						}
					}
					return false
				},
				Penalty: 10,
				Once:    true,
				Feedback: func(int) string {
					return "Ai deschis aplicații care nu erau necesare pentru rezolvarea problemei."
				},
			},
			{
				Name: RuleWrongPassword,
				Match: func(e actionlog.Entry) bool {
					return e.Kind == actionlog.SubmitWifiPassword && !e.Correct()
				},
				Penalty: 10,
				Feedback: func(hits int) string {
					return fmt.Sprintf("Ai introdus parola greșită de %d ori.", hits)
				},
			},
			{
				Name: RuleHintRequest,
				Match: func(e actionlog.Entry) bool {
					return e.Kind == actionlog.RequestHint
				},
				Penalty: 5,
				Feedback: func(hits int) string {
					return fmt.Sprintf("Ai cerut un indiciu de %d ori.", hits)
				},
			},
		},
		Tasks: []Task{
			{Name: "restore_connectivity", Done: func(s Snapshot) bool { return s.Connected }},
		},
		EfficientThreshold: 90,
		UnresolvedPenalty:  50,
		EscalationPenalty:  15,
		EscalationFloor:    10,

		ResolvedLines: []string{
			"Ai restabilit conexiunea la internet.",
			"Ai identificat și corectat cauza problemei de rețea.",
		},
		UnresolvedLines: []Detail{
			{Text: "Ai deschis instrumentele de depanare a rețelei.", Correct: true},
			{Text: "Nu ai restabilit conexiunea la internet.", Correct: false},
		},
		EscalationLine: "Ai apelat la suportul ISP în loc să rezolvi problema direct.",

		SummaryEfficient:   "Felicitări! Ai rezolvat problema rapid și eficient.",
		SummaryInefficient: "Exercițiul s-a încheiat. Ai rezolvat problema, dar ai putea fi mai eficient data viitoare.",
		SummaryUnresolved:  "Exercițiul s-a încheiat. Data viitoare, încearcă să folosești mai eficient uneltele de căutare.",
	}
}
