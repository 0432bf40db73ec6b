package session

import (
	"fmt"

	"github.com/tturner/nettrainer/internal/actionlog"
)

// OpenWindow makes w the active window. Opening the browser while not
// connected is rejected with an error notification and no transition.
func (s *Session) OpenWindow(w Window) error {
	return s.openWindow(w, true)
}

func (s *Session) openWindow(w Window, defaultTab bool) error {
	if s.result != nil {
		return ErrFinalized
	}
	if !w.Valid() {
		return fmt.Errorf("unknown window %q", w)
	}
	if w == WindowBrowser && s.st.Connection != Connected {
		s.Notify("Eroare", "Browser-ul necesită o conexiune la internet.", NotifyError)
		return ErrBrowserOffline
	}
	s.LogAction(actionlog.OpenWindow, actionlog.Payload{actionlog.KeyWindow: string(w)})
	s.st.ActiveWindow = w
	if defaultTab && w == WindowBrowser && len(s.st.Tabs) == 0 {
		s.AddTab()
	}
	s.changed()
	return nil
}

// CloseWindow clears the slot only if w is the active window.
func (s *Session) CloseWindow(w Window) {
	if s.result != nil || s.st.ActiveWindow != w || w == WindowNone {
		return
	}
	s.LogAction(actionlog.CloseWindow, actionlog.Payload{actionlog.KeyWindow: string(w)})
	s.st.ActiveWindow = WindowNone
	s.changed()
}

// ToggleStartMenu flips between the start menu and no window.
func (s *Session) ToggleStartMenu() {
	if s.result != nil {
		return
	}
	s.LogAction(actionlog.ToggleStartMenu, nil)
	if s.st.ActiveWindow == WindowStartMenu {
		s.st.ActiveWindow = WindowNone
	} else {
		s.st.ActiveWindow = WindowStartMenu
	}
	s.changed()
}

// CloseSettings closes the settings window. When wasFixed is set the
// connection is restored after the connect delay; this is the only path
// that legitimately fixes connectivity.
func (s *Session) CloseSettings(wasFixed bool) {
	if s.result != nil {
		return
	}
	if s.st.ActiveWindow == WindowSettings {
		s.st.ActiveWindow = WindowNone
	}
	if !wasFixed {
		s.changed()
		return
	}
	s.LogAction(actionlog.FixConnectionSuccess, nil)
	s.st.Connection = Connecting
	s.after(s.timing.Connect, func() {
		s.st.Connection = Connected
		s.st.InitialError = false
		s.Notify("✅ Conexiune activă!", "Sunteți conectat la internet.", NotifySuccess)
	})
	s.changed()
}

// AddTab opens a new search tab and activates it.
func (s *Session) AddTab() int {
	if s.result != nil {
		return 0
	}
	return s.addTab(BrowserTab{Title: "Google", Type: TabSearch})
}

func (s *Session) addTab(tab BrowserTab) int {
	s.nextTab++
	tab.ID = s.nextTab
	s.st.Tabs = append(s.st.Tabs, tab)
	s.st.ActiveTab = tab.ID
	s.changed()
	return tab.ID
}

// CloseTab removes a tab. Closing the active tab activates the most
// recently added remaining tab; closing the last tab closes the browser.
func (s *Session) CloseTab(id int) {
	if s.result != nil {
		return
	}
	kept := make([]BrowserTab, 0, len(s.st.Tabs))
	for _, t := range s.st.Tabs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.st.Tabs) {
		return
	}
	s.st.Tabs = kept
	if len(kept) == 0 {
		s.st.ActiveTab = 0
		if s.st.ActiveWindow == WindowBrowser {
			s.st.ActiveWindow = WindowNone
		}
	} else if s.st.ActiveTab == id {
		s.st.ActiveTab = kept[len(kept)-1].ID
	}
	s.changed()
}

// ActivateTab switches to an existing tab.
func (s *Session) ActivateTab(id int) bool {
	if s.result != nil || s.tabIndex(id) < 0 {
		return false
	}
	s.st.ActiveTab = id
	s.changed()
	return true
}

// UpdateTab changes a tab's title and query.
func (s *Session) UpdateTab(id int, title string, typ TabType, query string) bool {
	if s.result != nil {
		return false
	}
	i := s.tabIndex(id)
	if i < 0 {
		return false
	}
	s.st.Tabs[i].Title = title
	s.st.Tabs[i].Type = typ
	s.st.Tabs[i].Query = query
	s.changed()
	return true
}

func (s *Session) tabIndex(id int) int {
	for i, t := range s.st.Tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ShowSecurityWarning asks the trainee to confirm joining an open network.
func (s *Session) ShowSecurityWarning(ssid string) {
	if s.result != nil {
		return
	}
	s.st.SecurityWarningSSID = ssid
	s.st.ActiveWindow = WindowSecurityWarning
	s.changed()
}

// ConfirmSecurityWarning acknowledges the warning and closes it.
func (s *Session) ConfirmSecurityWarning() {
	if s.result != nil || s.st.SecurityWarningSSID == "" {
		return
	}
	ssid := s.st.SecurityWarningSSID
	s.Notify("Conectare nesecurizată", fmt.Sprintf("V-ați conectat la rețeaua nesecurizată %s.", ssid), NotifyInfo)
	s.st.SecurityWarningSSID = ""
	if s.st.ActiveWindow == WindowSecurityWarning {
		s.st.ActiveWindow = WindowNone
	}
	s.changed()
}

// CancelSecurityWarning dismisses the warning without connecting.
func (s *Session) CancelSecurityWarning() {
	if s.result != nil {
		return
	}
	s.st.SecurityWarningSSID = ""
	if s.st.ActiveWindow == WindowSecurityWarning {
		s.st.ActiveWindow = WindowNone
	}
	s.changed()
}
