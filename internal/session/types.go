package session

import (
	"time"

	"github.com/tturner/nettrainer/internal/scenario"
)

// ConnectionStatus is the simulated internet connectivity.
type ConnectionStatus string

const (
	Disconnected ConnectionStatus = "disconnected"
	Connecting   ConnectionStatus = "connecting"
	Connected    ConnectionStatus = "connected"
)

// VPNStatus is the simulated VPN tunnel state.
type VPNStatus string

const (
	VPNDisconnected VPNStatus = "disconnected"
	VPNConnecting   VPNStatus = "connecting"
	VPNConnected    VPNStatus = "connected"
)

// Window is the single active-window slot. The zero value means no window.
type Window string

const (
	WindowNone            Window = ""
	WindowSettings        Window = "settings"
	WindowWordpad         Window = "wordpad"
	WindowTerminal        Window = "terminal"
	WindowBrowser         Window = "browser"
	WindowAddNetwork      Window = "addNetwork"
	WindowContactISP      Window = "contactIsp"
	WindowSecurityWarning Window = "securityWarning"
	WindowStartMenu       Window = "startMenu"
)

var windows = []Window{
	WindowSettings, WindowWordpad, WindowTerminal, WindowBrowser, WindowAddNetwork,
	WindowContactISP, WindowSecurityWarning, WindowStartMenu,
}

// Windows lists every openable window.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// Valid reports whether w names an openable window.
func (w Window) Valid() bool {
	for _, v := range windows {
		if w == v {
			return true
		}
	}
	return false
}

// Signal is the displayed strength of a Wi-Fi network.
type Signal string

const (
	SignalStrong Signal = "Puternic"
	SignalWeak   Signal = "Slab"
)

// WifiNetwork is a known wireless network. SSIDs are unique.
type WifiNetwork struct {
	SSID          string `json:"ssid"`
	Signal        Signal `json:"signal"`
	Secure        bool   `json:"secure"`
	SavedPassword string `json:"saved_password,omitempty"`
}

// HomeSSID is the network the wifi_password scenario asks the trainee to join.
const HomeSSID = "HomeWiFi"

// DefaultPassword is accepted for HomeSSID when no password is saved.
const DefaultPassword = "password123"

// DefaultNetworks returns the seed network list.
func DefaultNetworks() []WifiNetwork {
	return []WifiNetwork{
		{SSID: HomeSSID, Signal: SignalStrong, Secure: true, SavedPassword: DefaultPassword},
		{SSID: "UPB-Guest", Signal: SignalStrong, Secure: false},
	}
}

// NotificationType selects the toast style.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// Notification is a transient toast. It expires after Timing.Notification.
type Notification struct {
	ID      int              `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

// TabType distinguishes the search page from a results page.
type TabType string

const (
	TabSearch  TabType = "search"
	TabResults TabType = "results"
)

// BrowserTab is one tab of the simulated browser.
type BrowserTab struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Type  TabType `json:"type"`
	Query string  `json:"query,omitempty"`
}

// HistoryEntry records one troubleshooting attempt.
type HistoryEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Scenario  scenario.Scenario `json:"scenario"`
}

// PasswordStatus is the feedback state of the Wi-Fi password form.
type PasswordStatus string

const (
	PasswordIdle      PasswordStatus = "idle"
	PasswordIncorrect PasswordStatus = "incorrect"
	PasswordCorrect   PasswordStatus = "correct"
)

// Troubleshooter is the progress of the settings-window troubleshooter.
type Troubleshooter struct {
	Step       scenario.Step
	WifiOn     bool
	Password   PasswordStatus
	Diagnosing bool
	Lines      []string
}

// Theme is the desktop color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Timing holds the delays of every deferred transition.
type Timing struct {
	Connect         time.Duration
	VPN             time.Duration
	Notification    time.Duration
	DiagnosticLine  time.Duration
	StepAdvance     time.Duration
	CompletionClose time.Duration
	ISPClose        time.Duration
}

// DefaultTiming returns the shipped delays.
func DefaultTiming() Timing {
	return Timing{
		Connect:         1000 * time.Millisecond,
		VPN:             2500 * time.Millisecond,
		Notification:    5000 * time.Millisecond,
		DiagnosticLine:  1500 * time.Millisecond,
		StepAdvance:     1000 * time.Millisecond,
		CompletionClose: 2000 * time.Millisecond,
		ISPClose:        3000 * time.Millisecond,
	}
}

// withDefaults fills zero durations from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Connect <= 0 {
		t.Connect = d.Connect
	}
	if t.VPN <= 0 {
		t.VPN = d.VPN
	}
	if t.Notification <= 0 {
		t.Notification = d.Notification
	}
	if t.DiagnosticLine <= 0 {
		t.DiagnosticLine = d.DiagnosticLine
	}
	if t.StepAdvance <= 0 {
		t.StepAdvance = d.StepAdvance
	}
	if t.CompletionClose <= 0 {
		t.CompletionClose = d.CompletionClose
	}
	if t.ISPClose <= 0 {
		t.ISPClose = d.ISPClose
	}
	return t
}

// Diagnostic transcripts of the automatic troubleshooter.
var (
	DiagnosticSuccess = []string{
		"Identificare probleme...",
		"Resetare adaptor...",
		"Verificare IP...",
		"✅ Problema rezolvată!",
	}
	DiagnosticFailure = []string{
		"Identificare probleme...",
		"Resetare adaptor rețea...",
		"Eroare la resetarea stivei TCP/IP.",
		"❌ Depanarea nu a putut identifica problema.",
	}
)

// SearchKeywords route a taskbar search to the troubleshooter instead of the browser.
var SearchKeywords = []string{"setări", "network", "internet", "wifi", "vpn", "istoric"}
