package scoring

// Rubric evaluation of an action log

import (
	"github.com/tturner/nettrainer/internal/actionlog"
	"github.com/tturner/nettrainer/internal/scenario"
)

// Mode selects how much of the rubric runs.
type Mode int

const (
	// Live runs only the penalty rules; it is called after every append.
	Live Mode = iota
	// Final runs the full rubric once when the session ends.
	Final
)

func (m Mode) String() string {
	if m == Final {
		return "final"
	}
	return "live"
}

// Snapshot is the part of the session state the rubric inspects.
type Snapshot struct {
	Connected bool
	Scenario  scenario.Scenario
}

// Detail is one feedback line.
type Detail struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// EvaluationResult is the outcome of a scoring pass.
type EvaluationResult struct {
	Score          int      `json:"score"`
	MaxScore       int      `json:"max_score"`
	Details        []Detail `json:"details"`
	TasksCompleted int      `json:"tasks_completed"`
	TotalTasks     int      `json:"total_tasks"`
	Summary        string   `json:"summary"`
}

// Passed reports whether every primary task was completed.
func (r EvaluationResult) Passed() bool {
	return r.TotalTasks > 0 && r.TasksCompleted == r.TotalTasks
}

// Score evaluates entries with the default rubric.
func Score(entries []actionlog.Entry, snap Snapshot, mode Mode) EvaluationResult {
	return DefaultRubric().Evaluate(entries, snap, mode)
}

// Evaluate runs the rubric. It does not modify entries.
func (r *Rubric) Evaluate(entries []actionlog.Entry, snap Snapshot, mode Mode) EvaluationResult {
	hits := make([]int, len(r.Rules))
	for _, e := range entries {
		for i, rule := range r.Rules {
			if rule.Match != nil && rule.Match(e) {
				hits[i]++
			}
		}
	}

	score := r.MaxScore
	var penalties []Detail
	for i, rule := range r.Rules {
		if hits[i] == 0 {
			continue
		}
		score -= rule.deduction(hits[i])
		if rule.Feedback != nil {
			penalties = append(penalties, Detail{Text: rule.Feedback(hits[i]), Correct: false})
		}
	}

	if mode == Live {
		return EvaluationResult{
			Score:      clamp(score, 0, r.MaxScore),
			MaxScore:   r.MaxScore,
			Details:    []Detail{},
			TotalTasks: r.TotalTasks(),
		}
	}

	completed := 0
	for _, task := range r.Tasks {
		if task.Done != nil && task.Done(snap) {
			completed++
		}
	}

	details := make([]Detail, 0, len(penalties)+3)
	var summary string
	if r.TotalTasks() > 0 && completed == r.TotalTasks() {
		for _, line := range r.ResolvedLines {
			details = append(details, Detail{Text: line, Correct: true})
		}
		details = append(details, penalties...)
		if score >= r.EfficientThreshold {
			summary = r.SummaryEfficient
		} else {
			summary = r.SummaryInefficient
		}
	} else {
		score = max(0, score-r.UnresolvedPenalty)
		details = append(details, r.UnresolvedLines...)
		details = append(details, penalties...)
		if actionlog.Count(entries, actionlog.ContactISP) > 0 {
			score = max(r.EscalationFloor, score-r.EscalationPenalty)
			details = append(details, Detail{Text: r.EscalationLine, Correct: false})
		}
		summary = r.SummaryUnresolved
	}

	return EvaluationResult{
		Score:          clamp(score, 0, r.MaxScore),
		MaxScore:       r.MaxScore,
		Details:        details,
		TasksCompleted: completed,
		TotalTasks:     r.TotalTasks(),
		Summary:        summary,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
