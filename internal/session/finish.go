package session

import (
	"context"

	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/scoring"
)

// Finish runs the final evaluation once, freezes the action log and
// delivers the result. Later calls return the cached result unchanged.
func (s *Session) Finish(ctx context.Context) scoring.EvaluationResult {
	if s.result != nil {
		return *s.result
	}

	snap := scoring.Snapshot{
		Connected: s.st.Connection == Connected,
		Scenario:  s.st.Scenario,
	}
	result := s.rubric.Evaluate(s.log.Entries(), snap, scoring.Final)
	s.result = &result
	s.log.Freeze()
	s.st.LiveScore = result.Score

	s.logger.LogEvaluation(s.id, result.Score, result.MaxScore, result.TasksCompleted, result.TotalTasks, result.Summary)
	if s.metrics != nil {
		s.metrics.ObserveFinish(snap.Scenario.Key(), result.Score, result.Passed())
	}

	msg := report.Build(result, s.sched.Now())
	err := s.reporter.Deliver(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to deliver evaluation result: %v", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDelivery(err)
	}
	return result
}
