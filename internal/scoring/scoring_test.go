package scoring

import (
	"reflect"
	"strings"
	"testing"
	"testing/quick"
	"time"

	"github.com/tturner/nettrainer/internal/actionlog"
)

var t0 = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

func entry(kind actionlog.Kind, payload actionlog.Payload) actionlog.Entry {
	return actionlog.Entry{Kind: kind, Payload: payload, Timestamp: t0}
}

func openWindow(w string) actionlog.Entry {
	return entry(actionlog.OpenWindow, actionlog.Payload{actionlog.KeyWindow: w})
}

func password(correct bool) actionlog.Entry {
	return entry(actionlog.SubmitWifiPassword, actionlog.Payload{actionlog.KeyCorrect: correct})
}

func TestLivePenalties(t *testing.T) {
	tests := []struct {
		name    string
		entries []actionlog.Entry
		want    int
	}{
		{name: "empty log", want: 100},
		{name: "settings is not a distractor", entries: []actionlog.Entry{openWindow("settings")}, want: 100},
		{name: "one distractor", entries: []actionlog.Entry{openWindow("wordpad")}, want: 90},
		{name: "distractor penalty applies once", entries: []actionlog.Entry{openWindow("wordpad"), openWindow("terminal"), openWindow("wordpad")}, want: 90},
		{name: "wrong passwords", entries: []actionlog.Entry{password(false), password(false), password(true)}, want: 80},
		{name: "hints", entries: []actionlog.Entry{entry(actionlog.RequestHint, nil), entry(actionlog.RequestHint, nil)}, want: 90},
		{name: "password without flag counts as wrong", entries: []actionlog.Entry{entry(actionlog.SubmitWifiPassword, nil)}, want: 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.entries, Snapshot{}, Live)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
			if len(got.Details) != 0 || got.TasksCompleted != 0 || got.TotalTasks != 1 || got.Summary != "" {
				t.Errorf("live result carries final fields: %+v", got)
			}
			if got.MaxScore != 100 {
				t.Errorf("MaxScore = %d", got.MaxScore)
			}
		})
	}
}

func TestLiveClampsAtZero(t *testing.T) {
	var entries []actionlog.Entry
	for i := 0; i < 15; i++ {
		entries = append(entries, password(false))
	}
	if got := Score(entries, Snapshot{}, Live).Score; got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestLiveIsDeterministicAndPure(t *testing.T) {
	entries := []actionlog.Entry{openWindow("terminal"), password(false), entry(actionlog.RequestHint, nil)}
	before := make([]actionlog.Entry, len(entries))
	copy(before, entries)

	a := Score(entries, Snapshot{}, Live)
	b := Score(entries, Snapshot{}, Live)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(entries, before) {
		t.Fatalf("Score mutated its input")
	}
}

func TestFinalResolvedEfficient(t *testing.T) {
	entries := []actionlog.Entry{openWindow("settings"), password(true), entry(actionlog.FixConnectionSuccess, nil)}
	got := Score(entries, Snapshot{Connected: true}, Final)
	if got.Score != 100 || got.TasksCompleted != 1 || got.TotalTasks != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Summary != DefaultRubric().SummaryEfficient {
		t.Fatalf("Summary = %q", got.Summary)
	}
	if len(got.Details) != 2 || !got.Details[0].Correct || !got.Details[1].Correct {
		t.Fatalf("Details = %+v", got.Details)
	}
	if !got.Passed() {
		t.Fatal("Passed() should be true")
	}
}

func TestFinalResolvedWithPenalties(t *testing.T) {
	entries := []actionlog.Entry{
		password(false), password(false), password(true),
		entry(actionlog.RequestHint, nil),
		entry(actionlog.FixConnectionSuccess, nil),
	}
	got := Score(entries, Snapshot{Connected: true}, Final)
	if got.Score != 75 {
		t.Fatalf("Score = %d, want 75", got.Score)
	}
	if got.TasksCompleted != 1 {
		t.Fatalf("TasksCompleted = %d", got.TasksCompleted)
	}
	if got.Summary != DefaultRubric().SummaryInefficient {
		t.Fatalf("Summary = %q", got.Summary)
	}
	// two positive lines first, then the penalty lines in rule order
	if len(got.Details) != 4 {
		t.Fatalf("Details = %+v", got.Details)
	}
	if !strings.Contains(got.Details[2].Text, "de 2 ori") || !strings.Contains(got.Details[3].Text, "de 1 ori") {
		t.Fatalf("penalty lines out of order: %+v", got.Details)
	}
}

func TestFinalThresholdIsInclusive(t *testing.T) {
	entries := []actionlog.Entry{openWindow("wordpad"), entry(actionlog.FixConnectionSuccess, nil)}
	got := Score(entries, Snapshot{Connected: true}, Final)
	if got.Score != 90 {
		t.Fatalf("Score = %d, want 90", got.Score)
	}
	if got.Summary != DefaultRubric().SummaryEfficient {
		t.Fatalf("score 90 should resolve to the efficient summary, got %q", got.Summary)
	}
}

func TestFinalUnresolvedWithEscalation(t *testing.T) {
	entries := []actionlog.Entry{
		password(false),
		entry(actionlog.RunTroubleshooter, nil),
		entry(actionlog.ContactISP, nil),
	}
	got := Score(entries, Snapshot{Connected: false}, Final)
	// max(10, (100-10) - 50 - 15)
	if got.Score != 25 {
		t.Fatalf("Score = %d, want 25", got.Score)
	}
	if got.TasksCompleted != 0 || got.TotalTasks != 1 {
		t.Fatalf("tasks = %d/%d", got.TasksCompleted, got.TotalTasks)
	}
	if got.Summary != DefaultRubric().SummaryUnresolved {
		t.Fatalf("Summary = %q", got.Summary)
	}
	if !got.Details[0].Correct || got.Details[1].Correct {
		t.Fatalf("leading details = %+v", got.Details[:2])
	}
	last := got.Details[len(got.Details)-1]
	if last.Text != DefaultRubric().EscalationLine || last.Correct {
		t.Fatalf("last detail = %+v", last)
	}
}

func TestFinalEscalationFloor(t *testing.T) {
	entries := []actionlog.Entry{entry(actionlog.ContactISP, nil)}
	for i := 0; i < 6; i++ {
		entries = append(entries, password(false))
	}
	got := Score(entries, Snapshot{}, Final)
	// 100-60=40, -50 -> 0, escalation floor lifts to 10
	if got.Score != 10 {
		t.Fatalf("Score = %d, want 10", got.Score)
	}
}

func TestFinalUnresolvedWithoutEscalation(t *testing.T) {
	got := Score(nil, Snapshot{}, Final)
	if got.Score != 50 {
		t.Fatalf("Score = %d, want 50", got.Score)
	}
	for _, d := range got.Details {
		if d.Text == DefaultRubric().EscalationLine {
			t.Fatal("escalation line without ISP contact")
		}
	}
}

func TestRubricSupportsSeveralTasks(t *testing.T) {
	r := DefaultRubric()
	r.Tasks = append(r.Tasks, Task{Name: "stay_offline_from_vpn", Done: func(Snapshot) bool { return false }})
	got := r.Evaluate(nil, Snapshot{Connected: true}, Final)
	if got.TotalTasks != 2 || got.TasksCompleted != 1 {
		t.Fatalf("tasks = %d/%d", got.TasksCompleted, got.TotalTasks)
	}
	if got.Summary != r.SummaryUnresolved {
		t.Fatalf("partial completion should use the unresolved branch, got %q", got.Summary)
	}
	if live := r.Evaluate(nil, Snapshot{}, Live); live.TotalTasks != 2 {
		t.Fatalf("live TotalTasks = %d", live.TotalTasks)
	}
}

func TestSetPenalty(t *testing.T) {
	r := DefaultRubric()
	if err := r.SetPenalty(RuleHintRequest, 20); err != nil {
		t.Fatalf("SetPenalty: %v", err)
	}
	got := r.Evaluate([]actionlog.Entry{entry(actionlog.RequestHint, nil)}, Snapshot{}, Live)
	if got.Score != 80 {
		t.Fatalf("Score = %d, want 80", got.Score)
	}
	if err := r.SetPenalty("nope", 1); err == nil {
		t.Fatal("expected error for unknown rule")
	}
}

func entriesFromBytes(seq []byte) []actionlog.Entry {
	windows := []string{"settings", "wordpad", "terminal", "browser"}
	out := make([]actionlog.Entry, 0, len(seq))
	for _, b := range seq {
		kind := actionlog.Kind(int(b) % len(actionlog.Kinds()))
		var p actionlog.Payload
		switch kind {
		case actionlog.OpenWindow, actionlog.CloseWindow:
			p = actionlog.Payload{actionlog.KeyWindow: windows[int(b>>4)%len(windows)]}
		case actionlog.SubmitWifiPassword:
			p = actionlog.Payload{actionlog.KeyCorrect: b&0x80 != 0}
		}
		out = append(out, entry(kind, p))
	}
	return out
}

func TestTallyMatchesFullRecompute(t *testing.T) {
	property := func(seq []byte) bool {
		entries := entriesFromBytes(seq)
		tally := NewTally(DefaultRubric())
		for i, e := range entries {
			tally.Add(e)
			if tally.Score() != Score(entries[:i+1], Snapshot{}, Live).Score {
				return false
			}
		}
		return tally.Score() == Score(entries, Snapshot{}, Live).Score
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 500}); err != nil {
		t.Fatal(err)
	}
}

func TestLiveScoreIdempotentProperty(t *testing.T) {
	property := func(seq []byte, connected bool) bool {
		entries := entriesFromBytes(seq)
		snap := Snapshot{Connected: connected}
		return reflect.DeepEqual(Score(entries, snap, Live), Score(entries, snap, Live)) &&
			reflect.DeepEqual(Score(entries, snap, Final), Score(entries, snap, Final))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}

func TestTallyHitsAndReset(t *testing.T) {
	tally := NewTally(nil)
	tally.Add(password(false))
	tally.Add(entry(actionlog.RequestHint, nil))
	if tally.Hits(RuleWrongPassword) != 1 || tally.Hits(RuleHintRequest) != 1 {
		t.Fatalf("unexpected hits")
	}
	tally.Reset()
	if tally.Score() != 100 {
		t.Fatalf("Score after Reset = %d", tally.Score())
	}
}
