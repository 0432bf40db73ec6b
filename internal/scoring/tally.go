package scoring

import "github.com/tturner/nettrainer/internal/actionlog"

// Tally maintains the live score incrementally. After any sequence of Add
// calls, Score equals Evaluate(entries, _, Live).Score for the same entries.
type Tally struct {
	rubric *Rubric
	hits   []int
}

// NewTally starts an empty tally for rubric r.
func NewTally(r *Rubric) *Tally {
	if r == nil {
		r = DefaultRubric()
	}
	return &Tally{rubric: r, hits: make([]int, len(r.Rules))}
}

// Add folds one entry into the tally.
func (t *Tally) Add(e actionlog.Entry) {
	for i, rule := range t.rubric.Rules {
		if rule.Match != nil && rule.Match(e) {
			t.hits[i]++
		}
	}
}

// Hits returns the hit count of a named rule.
func (t *Tally) Hits(name string) int {
	for i, rule := range t.rubric.Rules {
		if rule.Name == name {
			return t.hits[i]
		}
	}
	return 0
}

// Score returns the clamped live score.
func (t *Tally) Score() int {
	score := t.rubric.MaxScore
	for i, rule := range t.rubric.Rules {
		score -= rule.deduction(t.hits[i])
	}
	return clamp(score, 0, t.rubric.MaxScore)
}

// Reset clears all hits.
func (t *Tally) Reset() {
	for i := range t.hits {
		t.hits[i] = 0
	}
}
