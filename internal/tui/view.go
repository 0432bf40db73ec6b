package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/session"
	"github.com/tturner/nettrainer/internal/terminal"
)

const terminalRows = 12

var stepPrompts = map[scenario.Step]string{
	scenario.StepWifiCheck:         "Wi-Fi este dezactivat. Apăsați Enter pentru a-l activa.",
	scenario.StepPasswordEntry:     "Conectați-vă la " + session.HomeSSID + ". Apăsați Enter pentru a introduce parola.",
	scenario.StepAdapterCheck:      "Adaptorul de rețea este dezactivat. Apăsați Enter pentru a-l activa.",
	scenario.StepProxyCheck:        "Setările proxy sunt greșite. Apăsați Enter pentru a dezactiva proxy-ul.",
	scenario.StepDriverUpdateCheck: "Driver-ul plăcii de rețea este învechit. Apăsați Enter pentru actualizare.",
	scenario.StepAutomaticFix:      "Apăsați Enter pentru a rula depanarea automată.",
	scenario.StepComplete:          "Problema a fost rezolvată! Conexiunea se restabilește...",
	scenario.StepFixFailed:         "Depanarea automată nu a putut rezolva problema. Apăsați i pentru a contacta furnizorul.",
}

// View renders the desktop.
func (m *Model) View() string {
	if m.focus == FocusEvaluation {
		return m.evaluationView()
	}

	st := m.sess.State()
	var sections []string

	if st.InitialError && st.ActiveWindow == session.WindowNone {
		sections = append(sections, m.errorOverlay())
	}
	if w := m.windowView(st); w != "" {
		sections = append(sections, w)
	}
	if n := m.notificationsView(st); n != "" {
		sections = append(sections, n)
	}
	if m.hint != "" {
		sections = append(sections, m.styles.Info.Render("💡 "+m.hint))
	}
	if m.status != "" {
		sections = append(sections, m.styles.Dim.Render(m.status))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.taskbar(st), m.keyHints(st))
}

func (m *Model) errorOverlay() string {
	s := m.styles
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Error.Bold(true).Render("⚠ Fără conexiune la internet"),
		"",
		s.Base.Render("Computerul nu este conectat la rețea."),
		s.Dim.Render("Apăsați Enter pentru a depana problema."),
	)
	return s.ErrorOverlay.Render(content)
}

func (m *Model) windowView(st session.State) string {
	var title, content string
	switch st.ActiveWindow {
	case session.WindowNone:
		return ""
	case session.WindowStartMenu:
		title, content = "Start", m.startMenuView()
	case session.WindowSettings:
		title, content = "Setări > Rețea și internet", m.settingsView(st)
	case session.WindowWordpad:
		title, content = "WordPad - Parola WiFi.txt", m.wordpadView()
	case session.WindowTerminal:
		title, content = "Terminal", m.terminalView()
	case session.WindowBrowser:
		title, content = "Browser", m.browserView(st)
	case session.WindowAddNetwork:
		title, content = "Adăugare rețea", m.formView()
	case session.WindowContactISP:
		title, content = "Contactați furnizorul", m.formView()
	case session.WindowSecurityWarning:
		return m.styles.Modal.Render(m.securityView(st))
	}

	if m.focus == FocusForm && m.formKind == formPassword {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.formView())
	}
	return m.styles.Window.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.WindowTitle.Render(title), "", content))
}

func (m *Model) startMenuView() string {
	s := m.styles
	items := []struct{ key, label string }{
		{"s", "Setări"},
		{"w", "WordPad"},
		{"t", "Terminal"},
		{"b", "Browser"},
		{"d", "Depanare rețea"},
		{"i", "Contactați furnizorul"},
	}
	var lines []string
	for _, it := range items {
		lines = append(lines, s.KeyBinding.Render("["+it.key+"]")+" "+s.Base.Render(it.label))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) settingsView(st session.State) string {
	s := m.styles
	var lines []string

	lines = append(lines,
		fmt.Sprintf("%s Stare: %s", StatusIcon(string(st.Connection), s), connectionLabel(st.Connection)),
		fmt.Sprintf("%s Mod avion", CheckIcon(!st.AirplaneMode, s)),
		fmt.Sprintf("%s Proxy", CheckIcon(!st.ProxyEnabled, s)),
		fmt.Sprintf("%s Driver actualizat", CheckIcon(!st.DriverOutdated, s)),
		"",
		s.Bold.Render("Rețele disponibile"),
	)
	for _, n := range st.Networks {
		lock := "🔓"
		if n.Secure {
			lock = "🔒"
		}
		lines = append(lines, fmt.Sprintf("  %s %-16s %s", lock, n.SSID, s.Dim.Render(string(n.Signal))))
	}

	if len(st.Devices) > 0 {
		lines = append(lines, "", s.Bold.Render("Dispozitive"))
		for i, d := range st.Devices {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				s.KeyBinding.Render(fmt.Sprintf("[%d]", i+1)), CheckIcon(d.Enabled, s), d.Name))
		}
	}

	ts := st.Troubleshooter
	if ts.Step != scenario.StepIdle {
		lines = append(lines, "", s.Title.Render("Depanare: "+st.Scenario.DisplayName()))
		if p, ok := stepPrompts[ts.Step]; ok {
			lines = append(lines, s.Base.Render(p))
		}
		switch ts.Password {
		case session.PasswordIncorrect:
			lines = append(lines, s.Error.Render("Parolă incorectă."))
		case session.PasswordCorrect:
			lines = append(lines, s.Success.Render("Parolă acceptată."))
		}
		for _, l := range ts.Lines {
			lines = append(lines, s.Dim.Render("> "+l))
		}
		if ts.Diagnosing {
			lines = append(lines, s.Warning.Render("Se execută diagnosticarea..."))
		}
	}

	if len(st.History) > 0 {
		lines = append(lines, "", s.Bold.Render("Istoric depanare"))
		for _, h := range st.History {
			lines = append(lines, s.Dim.Render(fmt.Sprintf("  %s  %s", h.Timestamp.Format("15:04:05"), h.Scenario.DisplayName())))
		}
	}
	return strings.Join(lines, "\n")
}

func connectionLabel(c session.ConnectionStatus) string {
	switch c {
	case session.Connected:
		return "Conectat"
	case session.Connecting:
		return "Se conectează..."
	default:
		return "Deconectat"
	}
}

func (m *Model) wordpadView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Bold.Render("Parola WiFi.txt"),
		"",
		m.styles.Base.Render("Rețea: "+session.HomeSSID),
		m.styles.Base.Render("Parolă: "+session.DefaultPassword),
	)
}

func (m *Model) terminalView() string {
	if m.term == nil {
		return ""
	}
	s := m.styles
	var lines []string
	for _, l := range m.term.Tail(terminalRows) {
		switch l.Kind {
		case terminal.System:
			lines = append(lines, s.Dim.Render(l.Text))
		case terminal.Command:
			lines = append(lines, s.Bold.Render(l.Text))
		default:
			lines = append(lines, s.Base.Render(l.Text))
		}
	}
	lines = append(lines, s.Bold.Render(terminal.Prompt+m.termInput+"█"))
	return strings.Join(lines, "\n")
}

func (m *Model) browserView(st session.State) string {
	s := m.styles
	var tabs []string
	var active *session.BrowserTab
	for i, t := range st.Tabs {
		if t.ID == st.ActiveTab {
			tabs = append(tabs, s.TabActive.Render(t.Title))
			active = &st.Tabs[i]
		} else {
			tabs = append(tabs, s.Tab.Render(t.Title))
		}
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}
	switch {
	case active == nil:
	case active.Type == session.TabResults:
		lines = append(lines,
			s.Info.Render("Rezultate pentru „"+active.Query+"”"),
			s.Dim.Render("Nu au fost găsite pagini relevante."),
		)
	default:
		lines = append(lines, s.Title.Render("Google"), s.Dim.Render("Apăsați / pentru a căuta."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) securityView(st session.State) string {
	s := m.styles
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Warning.Bold(true).Render("⚠ Rețea nesecurizată"),
		"",
		s.Base.Render(fmt.Sprintf("Rețeaua %s nu este securizată.", st.SecurityWarningSSID)),
		s.Base.Render("Alte persoane pot vedea informațiile trimise."),
		"",
		s.KeyBinding.Render("[y]")+" Conectare  "+s.KeyBinding.Render("[n]")+" Anulare",
	)
}

func (m *Model) formView() string {
	if m.form == nil {
		return m.styles.Dim.Render("Se trimite...")
	}
	return m.form.View()
}

func (m *Model) notificationsView(st session.State) string {
	var toasts []string
	for _, n := range st.Notifications {
		style, ok := m.styles.Toast[string(n.Type)]
		if !ok {
			style = m.styles.Toast["info"]
		}
		toasts = append(toasts, style.Render(m.styles.Bold.Render(n.Title)+"\n"+n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, toasts...)
}

func (m *Model) taskbar(st session.State) string {
	s := m.styles
	search := "🔍 Căutare"
	if m.focus == FocusSearch {
		search = "🔍 " + m.search + "█"
	}
	vpn := ""
	switch st.VPN {
	case session.VPNConnected:
		vpn = s.Success.Render("VPN")
	case session.VPNConnecting:
		vpn = s.Warning.Render("VPN…")
	}
	wifi := StatusIcon(string(st.Connection), s) + " " + connectionLabel(st.Connection)
	if st.AirplaneMode {
		wifi = s.Warning.Render("✈ Mod avion")
	}

	parts := []string{
		s.KeyBinding.Render("⊞ Start"),
		s.Search.Render(search),
		wifi,
	}
	if vpn != "" {
		parts = append(parts, vpn)
	}
	parts = append(parts,
		fmt.Sprintf("Scor: %d", st.LiveScore),
		m.sess.Now().Format("15:04"),
	)
	width := m.width
	if width < 40 {
		width = 40
	}
	return s.Taskbar.Width(width).Render(strings.Join(parts, "  │  "))
}

func (m *Model) keyHints(st session.State) string {
	s := m.styles
	hint := func(k, label string) string {
		return s.KeyBinding.Render(k) + s.KeyHint.Render(" "+label)
	}
	var hints []string
	switch m.focus {
	case FocusSearch:
		hints = []string{hint("enter", "caută"), hint("esc", "anulează")}
	case FocusTerminal:
		hints = []string{hint("enter", "execută"), hint("esc", "închide")}
	case FocusForm:
		hints = []string{hint("enter", "continuă"), hint("esc", "anulează")}
	default:
		hints = []string{hint("m", "start"), hint("/", "caută"), hint("a", "avion"), hint("v", "VPN"),
			hint("+", "rețea"), hint("?", "indiciu"), hint("T", "temă"), hint("F", "finalizează")}
		if st.ActiveWindow == session.WindowBrowser {
			hints = append(hints, hint("tab", "filă"), hint("x", "închide fila"), hint("ctrl+t", "filă nouă"))
		}
		if st.ActiveWindow != session.WindowNone {
			hints = append(hints, hint("esc", "închide"))
		}
	}
	return strings.Join(hints, "  ")
}

func (m *Model) evaluationView() string {
	s := m.styles
	r := m.result
	verdict := s.Error.Render("Neterminat")
	if r.Passed() {
		verdict = s.Success.Render("Finalizat")
	}

	var details []string
	for _, d := range r.Details {
		details = append(details, CheckIcon(d.Correct, s)+" "+d.Text)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Evaluare"),
		"",
		s.Bold.Render(fmt.Sprintf("Scor: %d/%d", r.Score, r.MaxScore))+"  "+verdict,
		s.Dim.Render(fmt.Sprintf("Sarcini: %d/%d", r.TasksCompleted, r.TotalTasks)),
		"",
		s.Base.Render(r.Summary),
		"",
		strings.Join(details, "\n"),
	)
	out := lipgloss.JoinVertical(lipgloss.Left,
		s.Window.Render(content),
		s.KeyBinding.Render("c")+s.KeyHint.Render(" copiază  ")+s.KeyBinding.Render("q")+s.KeyHint.Render(" ieșire"),
	)
	if m.status != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, s.Dim.Render(m.status))
	}
	return out
}
