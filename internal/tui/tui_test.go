package tui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/sched"
	"github.com/tturner/nettrainer/internal/session"
	"github.com/tturner/nettrainer/internal/terminal"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, sc scenario.Scenario) (*Model, *sched.FakeClock) {
	t.Helper()
	clock := sched.NewFakeClock(epoch)
	sess := session.New(session.Options{
		ID:        "tui-test",
		Scheduler: sched.New(clock),
		Picker:    scenario.Fixed(sc),
		Rand:      rand.New(rand.NewSource(1)),
	})
	return NewModel(sess, time.Second), clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// wait advances the fake clock and delivers a tick.
func wait(m *Model, clock *sched.FakeClock, d time.Duration) {
	clock.Add(d)
	m.Update(tickMsg(clock.Now()))
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	if m.Focus() != FocusDesktop {
		t.Fatalf("focus = %v, want desktop", m.Focus())
	}
	if m.Init() == nil {
		t.Fatal("Init should start the tick")
	}
	if !strings.Contains(m.View(), "Fără conexiune la internet") {
		t.Fatal("initial view should show the error overlay")
	}
}

func TestEnterOnErrorOverlayOpensTroubleshooter(t *testing.T) {
	m, _ := newTestModel(t, scenario.AdapterDisabled)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	st := m.sess.State()
	if st.ActiveWindow != session.WindowSettings {
		t.Fatalf("active window = %q, want settings", st.ActiveWindow)
	}
	if st.Troubleshooter.Step != scenario.StepAdapterCheck {
		t.Fatalf("step = %v", st.Troubleshooter.Step)
	}
	if !strings.Contains(m.View(), "Adaptorul de rețea este dezactivat") {
		t.Fatal("settings view should prompt for the adapter")
	}
}

func TestPasswordFlow(t *testing.T) {
	m, clock := newTestModel(t, scenario.WifiPassword)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	wait(m, clock, time.Second)

	if step := m.sess.State().Troubleshooter.Step; step != scenario.StepPasswordEntry {
		t.Fatalf("step = %v, want password_entry", step)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Focus() != FocusForm || m.formKind != formPassword {
		t.Fatalf("password form not shown: focus=%v kind=%v", m.Focus(), m.formKind)
	}

	m.values.password = "wrong"
	m.submitForm()
	if m.Focus() != FocusDesktop || m.sess.State().Troubleshooter.Password != session.PasswordIncorrect {
		t.Fatal("wrong password should be rejected")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.values.password = session.DefaultPassword
	m.submitForm()
	wait(m, clock, time.Second)
	if step := m.sess.State().Troubleshooter.Step; step != scenario.StepAutomaticFix {
		t.Fatalf("step = %v, want automatic_fix", step)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 4; i++ {
		wait(m, clock, 1500*time.Millisecond)
	}
	wait(m, clock, 2*time.Second)
	wait(m, clock, time.Second)

	st := m.sess.State()
	if st.Connection != session.Connected {
		t.Fatalf("connection = %q, want connected", st.Connection)
	}
	if st.LiveScore != 90 {
		t.Fatalf("live score = %d, want 90", st.LiveScore)
	}
}

func TestSearchKeywordOpensTroubleshooter(t *testing.T) {
	m, _ := newTestModel(t, scenario.DNSIssue)
	press(m, runes("/"))
	if m.Focus() != FocusSearch {
		t.Fatalf("focus = %v, want search", m.Focus())
	}
	press(m, runes("Wi"), runes("Fi"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("i"))
	if m.search != "WiFi" {
		t.Fatalf("search = %q", m.search)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	st := m.sess.State()
	if m.Focus() != FocusDesktop || st.ActiveWindow != session.WindowSettings || st.Scenario != scenario.DNSIssue {
		t.Fatalf("search did not open the troubleshooter: %+v", st)
	}
}

func TestBrowserOfflineSetsStatus(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("b"))
	if m.sess.State().ActiveWindow != session.WindowNone {
		t.Fatal("browser must not open offline")
	}
	if m.status == "" {
		t.Fatal("expected a status message")
	}
	if !strings.Contains(m.View(), "Eroare") {
		t.Fatal("expected the offline notification in the view")
	}
}

func TestTerminalCommands(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("t"))
	if m.Focus() != FocusTerminal || m.sess.State().ActiveWindow != session.WindowTerminal {
		t.Fatal("terminal should be focused")
	}

	press(m, runes("ping"), tea.KeyMsg{Type: tea.KeySpace}, runes("example.com"), tea.KeyMsg{Type: tea.KeyEnter})
	last := m.term.Tail(1)[0]
	if last.Kind != terminal.Output || !strings.Contains(last.Text, "could not find host example.com") {
		t.Fatalf("offline ping = %+v", last)
	}

	press(m, runes("exit"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Focus() != FocusDesktop || m.sess.State().ActiveWindow != session.WindowNone {
		t.Fatal("exit should close the terminal")
	}
	if m.sess.LiveScore() != 90 {
		t.Fatalf("live score = %d, want 90 after opening a distractor", m.sess.LiveScore())
	}
}

func TestTickRunsDeferredJobs(t *testing.T) {
	m, clock := newTestModel(t, scenario.WifiPassword)
	press(m, runes("v"))
	if vpn := m.sess.State().VPN; vpn != session.VPNConnecting {
		t.Fatalf("vpn = %q, want connecting", vpn)
	}
	wait(m, clock, 2500*time.Millisecond)
	if vpn := m.sess.State().VPN; vpn != session.VPNConnected {
		t.Fatalf("vpn = %q, want connected", vpn)
	}
}

func TestAddNetworkForm(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("+"))
	if m.Focus() != FocusForm || m.sess.State().ActiveWindow != session.WindowAddNetwork {
		t.Fatal("add network form not shown")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Focus() != FocusDesktop || m.sess.State().ActiveWindow != session.WindowNone {
		t.Fatal("esc should cancel the form and close the window")
	}

	press(m, runes("+"))
	m.values.ssid = "  Office  "
	m.values.secure = true
	m.values.netPassword = "secret"
	m.submitForm()

	nets := m.sess.State().Networks
	got := nets[len(nets)-1]
	if got.SSID != "Office" || !got.Secure || got.SavedPassword != "secret" || got.Signal != session.SignalStrong {
		t.Fatalf("added network = %+v", got)
	}
}

func TestThemeToggle(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("T"))
	if m.sess.State().Theme != session.ThemeDark {
		t.Fatal("theme should be dark")
	}
	if m.styles.Window.GetBorderTopForeground() != DarkTheme.BorderFocused {
		t.Fatal("styles should follow the theme")
	}
}

func TestHintRequest(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("?"))
	if m.hint != scenario.WifiPassword.Hint() {
		t.Fatalf("hint = %q", m.hint)
	}
	if !strings.Contains(m.View(), m.hint) {
		t.Fatal("hint should be rendered")
	}
}

func TestFinishShowsEvaluation(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("w"), runes("F"))

	if m.Focus() != FocusEvaluation {
		t.Fatalf("focus = %v, want evaluation", m.Focus())
	}
	r, ok := m.Result()
	if !ok || r.Passed() {
		t.Fatalf("unresolved session should be finished and not passed: %+v", r)
	}
	view := m.View()
	if !strings.Contains(view, "Evaluare") || !strings.Contains(view, "Scor: ") {
		t.Fatalf("evaluation view missing result:\n%s", view)
	}

	if cmd := press(m, runes("c")); cmd == nil {
		t.Fatal("c should copy the result")
	}
	press(m, clipboardCopyMsg{success: true})
	if !strings.Contains(m.View(), "copiat") {
		t.Fatal("copy status not shown")
	}

	before := len(m.sess.Entries())
	press(m, runes("a"))
	if len(m.sess.Entries()) != before {
		t.Fatal("no actions may be logged after finishing")
	}
}

func TestEvaluationText(t *testing.T) {
	m, _ := newTestModel(t, scenario.WifiPassword)
	press(m, runes("F"))
	text := evaluationText(m.result)
	if !strings.Contains(text, "[INCORECT]") || !strings.Contains(text, "Scor: ") {
		t.Fatalf("evaluation text = %q", text)
	}
}
