package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/scoring"
	"github.com/tturner/nettrainer/internal/session"
	"github.com/tturner/nettrainer/internal/terminal"
)

// Focus tracks which part of the desktop receives key presses.
type Focus int

const (
	FocusDesktop Focus = iota
	FocusSearch
	FocusForm
	FocusTerminal
	FocusEvaluation
)

const tickInterval = 100 * time.Millisecond

// tickMsg drives the session scheduler.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the desktop TUI model.
type Model struct {
	sess   *session.Session
	styles Styles
	width  int
	height int
	focus  Focus

	form     *huh.Form
	formKind formKind
	values   *formValues

	search    string
	term      *terminal.Terminal
	termInput string
	rng       *rand.Rand

	hint   string
	status string

	finishTimeout time.Duration
	result        scoring.EvaluationResult
}

// NewModel wraps a session. finishTimeout bounds result delivery when the
// trainee ends the session.
func NewModel(sess *session.Session, finishTimeout time.Duration) *Model {
	if finishTimeout <= 0 {
		finishTimeout = 10 * time.Second
	}
	m := &Model{
		sess:          sess,
		width:         100,
		height:        32,
		focus:         FocusDesktop,
		rng:           rand.New(rand.NewSource(sess.Now().UnixNano())),
		finishTimeout: finishTimeout,
	}
	m.applyTheme()
	if r, ok := sess.Result(); ok {
		m.result = r
		m.focus = FocusEvaluation
	}
	return m
}

// Focus returns the current input focus.
func (m *Model) Focus() Focus { return m.focus }

func (m *Model) applyTheme() {
	m.styles = StylesFor(m.sess.State().Theme == session.ThemeDark)
}

// Init starts the scheduler tick.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sess.Tick()
		m.syncFocus()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clipboardCopyMsg:
		if msg.success {
			m.status = "Rezultatul a fost copiat în clipboard."
		} else {
			m.status = fmt.Sprintf("Copierea a eșuat: %v", msg.err)
		}
		return m, nil
	}

	if m.focus == FocusForm {
		return m.updateForm(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusSearch:
		return m.updateSearch(key)
	case FocusTerminal:
		return m.updateTerminal(key)
	case FocusEvaluation:
		return m.updateEvaluation(key)
	}
	return m.updateDesktop(key)
}

// syncFocus drops input focus that belongs to a window a deferred job closed.
func (m *Model) syncFocus() {
	if m.focus == FocusTerminal && m.sess.State().ActiveWindow != session.WindowTerminal {
		m.focus = FocusDesktop
	}
}

func (m *Model) updateDesktop(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.sess.State()
	k := key.String()

	if st.InitialError && st.ActiveWindow == session.WindowNone && k == "enter" {
		m.sess.OpenTroubleshooter()
		return m, nil
	}

	if handled, cmd := m.updateWindow(st, k); handled {
		return m, cmd
	}

	switch k {
	case "m":
		m.sess.ToggleStartMenu()
	case "/":
		m.focus = FocusSearch
		m.search = ""
	case "s":
		m.open(session.WindowSettings)
	case "w":
		m.open(session.WindowWordpad)
	case "b":
		m.open(session.WindowBrowser)
	case "t":
		if m.open(session.WindowTerminal) {
			m.term = terminal.New(m.rng, func() bool {
				return m.sess.State().Connection == session.Connected
			})
			m.termInput = ""
			m.focus = FocusTerminal
		}
	case "d":
		m.sess.OpenTroubleshooter()
	case "a":
		m.sess.ToggleAirplaneMode()
	case "v":
		m.sess.ToggleVPN()
	case "+":
		if m.open(session.WindowAddNetwork) {
			return m, m.startForm(formAddNetwork)
		}
	case "i":
		if m.open(session.WindowContactISP) {
			return m, m.startForm(formContactISP)
		}
	case "?":
		m.hint = m.sess.RequestHint()
	case "T":
		m.sess.ToggleTheme()
		m.applyTheme()
	case "n":
		if ns := m.sess.State().Notifications; len(ns) > 0 {
			m.sess.DismissNotification(ns[0].ID)
		}
	case "F":
		m.finish()
	case "esc":
		m.closeActive(st)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// updateWindow handles keys owned by the active window.
func (m *Model) updateWindow(st session.State, k string) (bool, tea.Cmd) {
	switch st.ActiveWindow {
	case session.WindowSettings:
		return m.updateSettings(st, k)
	case session.WindowBrowser:
		switch k {
		case "tab":
			m.nextTab(st)
		case "x":
			m.sess.CloseTab(st.ActiveTab)
		case "ctrl+t":
			m.sess.AddTab()
		default:
			return false, nil
		}
		return true, nil
	case session.WindowSecurityWarning:
		switch k {
		case "y", "enter":
			m.sess.ConfirmSecurityWarning()
		case "n", "esc":
			m.sess.CancelSecurityWarning()
		default:
			return false, nil
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) updateSettings(st session.State, k string) (bool, tea.Cmd) {
	ts := st.Troubleshooter
	switch k {
	case "enter":
		switch ts.Step {
		case scenario.StepWifiCheck:
			m.sess.EnableWifi()
		case scenario.StepPasswordEntry:
			return true, m.startForm(formPassword)
		case scenario.StepAdapterCheck:
			m.sess.EnableAdapter()
		case scenario.StepProxyCheck:
			m.sess.FixProxy()
		case scenario.StepDriverUpdateCheck:
			m.sess.UpdateDriver()
		case scenario.StepAutomaticFix:
			m.sess.RunTroubleshooter()
		default:
			return false, nil
		}
		return true, nil
	case "1", "2", "3":
		i := int(k[0] - '1')
		if i < len(st.Devices) {
			if err := m.sess.ToggleDeviceEnabled(st.Devices[i].ID); err != nil {
				m.status = err.Error()
			}
		}
		return true, nil
	case "o":
		for _, n := range st.Networks {
			if !n.Secure {
				m.sess.ShowSecurityWarning(n.SSID)
				return true, nil
			}
		}
		m.status = "Nu există rețele deschise."
		return true, nil
	case "esc":
		m.sess.CloseSettings(false)
		return true, nil
	}
	return false, nil
}

func (m *Model) nextTab(st session.State) {
	if len(st.Tabs) == 0 {
		return
	}
	for i, t := range st.Tabs {
		if t.ID == st.ActiveTab {
			m.sess.ActivateTab(st.Tabs[(i+1)%len(st.Tabs)].ID)
			return
		}
	}
	m.sess.ActivateTab(st.Tabs[0].ID)
}

// open opens w and reports whether it became the active window.
func (m *Model) open(w session.Window) bool {
	if err := m.sess.OpenWindow(w); err != nil {
		m.status = err.Error()
		return false
	}
	return true
}

func (m *Model) closeActive(st session.State) {
	switch st.ActiveWindow {
	case session.WindowNone:
		m.hint = ""
	case session.WindowStartMenu:
		m.sess.ToggleStartMenu()
	default:
		m.sess.CloseWindow(st.ActiveWindow)
	}
}

func (m *Model) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.focus = FocusDesktop
		m.search = ""
	case tea.KeyEnter:
		m.focus = FocusDesktop
		if err := m.sess.Search(m.search); err != nil {
			m.status = err.Error()
		}
		m.search = ""
	case tea.KeyBackspace:
		if r := []rune(m.search); len(r) > 0 {
			m.search = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.search += " "
	case tea.KeyRunes:
		m.search += string(key.Runes)
	}
	return m, nil
}

func (m *Model) updateTerminal(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.sess.CloseWindow(session.WindowTerminal)
		m.focus = FocusDesktop
	case tea.KeyEnter:
		input := m.termInput
		m.termInput = ""
		if m.term.Exec(input) {
			m.sess.CloseWindow(session.WindowTerminal)
			m.focus = FocusDesktop
		}
	case tea.KeyBackspace:
		if r := []rune(m.termInput); len(r) > 0 {
			m.termInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.termInput += " "
	case tea.KeyRunes:
		m.termInput += string(key.Runes)
	}
	return m, nil
}

func (m *Model) updateEvaluation(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "c":
		return m, copyToClipboard(evaluationText(m.result))
	case "q", "esc", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startForm(kind formKind) tea.Cmd {
	m.values = &formValues{}
	m.formKind = kind
	switch kind {
	case formPassword:
		m.form = buildPasswordForm(m.values)
	case formAddNetwork:
		m.form = buildAddNetworkForm(m.values)
	case formContactISP:
		m.form = buildContactISPForm(m.values)
	default:
		return nil
	}
	m.form = m.form.WithWidth(60)
	m.focus = FocusForm
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.cancelForm()
		return m, nil
	}

	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
		return m, nil
	case huh.StateAborted:
		m.cancelForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitForm() {
	v := m.values
	switch m.formKind {
	case formPassword:
		if m.sess.SubmitWifiPassword(v.password) {
			m.status = "Parolă corectă."
		} else {
			m.status = "Parolă incorectă. Încercați din nou."
		}
	case formAddNetwork:
		if err := m.sess.AddNetwork(v.network()); err != nil {
			m.status = err.Error()
			m.sess.CloseWindow(session.WindowAddNetwork)
		}
	case formContactISP:
		m.sess.SubmitContactISP(v.name, v.issue)
		m.status = "Cererea a fost trimisă furnizorului."
	}
	m.endForm()
}

func (m *Model) cancelForm() {
	switch m.formKind {
	case formAddNetwork:
		m.sess.CloseWindow(session.WindowAddNetwork)
	case formContactISP:
		m.sess.CloseWindow(session.WindowContactISP)
	}
	m.endForm()
}

func (m *Model) endForm() {
	m.form = nil
	m.formKind = formNone
	m.values = nil
	m.focus = FocusDesktop
}

// finish evaluates the session and switches to the evaluation view.
func (m *Model) finish() {
	ctx, cancel := context.WithTimeout(context.Background(), m.finishTimeout)
	defer cancel()
	m.result = m.sess.Finish(ctx)
	m.focus = FocusEvaluation
}

// Result returns the evaluation once the session has been finished.
func (m *Model) Result() (scoring.EvaluationResult, bool) {
	return m.sess.Result()
}

func evaluationText(r scoring.EvaluationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scor: %d/%d\n", r.Score, r.MaxScore)
	fmt.Fprintf(&b, "Sarcini: %d/%d\n", r.TasksCompleted, r.TotalTasks)
	b.WriteString(r.Summary)
	b.WriteString("\n\n")
	b.WriteString(report.FormatDetails(r.Details))
	return b.String()
}
