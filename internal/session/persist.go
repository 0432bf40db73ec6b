package session

import (
	"time"

	"github.com/tturner/nettrainer/internal/scenario"
)

// Cosmetic is the persisted part of the session. Devices, the active
// window, notifications, the action log, the score and the evaluation
// are never saved.
type Cosmetic struct {
	SessionID           string            `json:"session_id"`
	SavedAt             time.Time         `json:"saved_at"`
	Connection          ConnectionStatus  `json:"connection_status"`
	Scenario            scenario.Scenario `json:"scenario"`
	Networks            []WifiNetwork     `json:"networks"`
	AirplaneMode        bool              `json:"airplane_mode"`
	ProxyEnabled        bool              `json:"proxy_enabled"`
	DriverOutdated      bool              `json:"driver_outdated"`
	VPN                 VPNStatus         `json:"vpn_status"`
	InitialError        bool              `json:"initial_error_visible"`
	Tabs                []BrowserTab      `json:"browser_tabs"`
	ActiveTab           int               `json:"active_tab_id,omitempty"`
	History             []HistoryEntry    `json:"connection_history"`
	SecurityWarningSSID string            `json:"security_warning_ssid,omitempty"`
	Theme               Theme             `json:"theme,omitempty"`
}

// Cosmetic returns the snapshot to persist.
func (s *Session) Cosmetic() Cosmetic {
	st := s.st.clone()
	return Cosmetic{
		SessionID:           s.id,
		SavedAt:             s.sched.Now().UTC(),
		Connection:          st.Connection,
		Scenario:            st.Scenario,
		Networks:            st.Networks,
		AirplaneMode:        st.AirplaneMode,
		ProxyEnabled:        st.ProxyEnabled,
		DriverOutdated:      st.DriverOutdated,
		VPN:                 st.VPN,
		InitialError:        st.InitialError,
		Tabs:                st.Tabs,
		ActiveTab:           st.ActiveTab,
		History:             st.History,
		SecurityWarningSSID: st.SecurityWarningSSID,
		Theme:               st.Theme,
	}
}

// Restore applies a saved snapshot over the fresh defaults. The connection
// always starts disconnected; the log and score belong to the new session.
func (s *Session) Restore(c Cosmetic) {
	if s.result != nil {
		return
	}
	st := initialState(s.rubric.MaxScore)
	st.LiveScore = s.st.LiveScore

	// A fix only counts when made in this session, so every saved
	// connection state settles to disconnected.
	st.Connection = Disconnected
	if c.VPN == VPNConnected {
		st.VPN = VPNConnected
	}
	if c.Scenario.Valid() {
		st.Scenario = c.Scenario
	}
	if len(c.Networks) > 0 {
		st.Networks = append([]WifiNetwork(nil), c.Networks...)
	}
	st.AirplaneMode = c.AirplaneMode
	st.ProxyEnabled = c.ProxyEnabled
	st.DriverOutdated = c.DriverOutdated
	st.InitialError = c.InitialError || c.Connection == Connected
	st.History = append([]HistoryEntry(nil), c.History...)
	st.SecurityWarningSSID = c.SecurityWarningSSID
	if c.Theme == ThemeDark {
		st.Theme = ThemeDark
	}

	st.Tabs = append([]BrowserTab(nil), c.Tabs...)
	s.nextTab = 0
	for _, t := range st.Tabs {
		if t.ID > s.nextTab {
			s.nextTab = t.ID
		}
		if t.ID == c.ActiveTab {
			st.ActiveTab = t.ID
		}
	}
	if st.ActiveTab == 0 && len(st.Tabs) > 0 {
		st.ActiveTab = st.Tabs[len(st.Tabs)-1].ID
	}

	s.st = st
}
