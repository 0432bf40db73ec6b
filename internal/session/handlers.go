package session

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tturner/nettrainer/internal/actionlog"
)

// Search handles a taskbar query. Network-related queries restart the
// troubleshooter; anything else opens a results tab in the browser.
func (s *Session) Search(query string) error {
	if s.result != nil {
		return ErrFinalized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	s.LogAction(actionlog.Search, actionlog.Payload{actionlog.KeyQuery: query})

	if matchesKeyword(query) {
		s.OpenTroubleshooter()
		return nil
	}
	if err := s.openWindow(WindowBrowser, false); err != nil {
		return err
	}
	s.addTab(BrowserTab{Title: query + " - Căutare", Type: TabResults, Query: query})
	return nil
}

func matchesKeyword(query string) bool {
	lower := cases.Lower(language.Romanian).String(query)
	for _, kw := range SearchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ToggleAirplaneMode flips airplane mode.
func (s *Session) ToggleAirplaneMode() {
	if s.result != nil {
		return
	}
	s.LogAction(actionlog.ToggleAirplaneMode, nil)
	s.st.AirplaneMode = !s.st.AirplaneMode
	s.changed()
}

// ToggleDeviceEnabled flips a device in the device manager.
func (s *Session) ToggleDeviceEnabled(id string) error {
	if s.result != nil {
		return ErrFinalized
	}
	for i := range s.st.Devices {
		if s.st.Devices[i].ID == id {
			s.st.Devices[i].Enabled = !s.st.Devices[i].Enabled
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown device %q", id)
}

// ToggleVPN connects a disconnected tunnel after the VPN delay and
// disconnects anything else immediately.
func (s *Session) ToggleVPN() {
	if s.result != nil {
		return
	}
	if s.st.VPN != VPNDisconnected {
		s.st.VPN = VPNDisconnected
		s.Notify("VPN Deconectat", "Conexiunea VPN a fost închisă.", NotifyInfo)
		s.changed()
		return
	}
	s.st.VPN = VPNConnecting
	s.Notify("VPN", "Se conectează la serverul VPN...", NotifyInfo)
	s.after(s.timing.VPN, func() {
		if s.st.VPN != VPNConnecting {
			return
		}
		s.st.VPN = VPNConnected
		s.Notify("VPN Conectat", "Conexiunea VPN a fost stabilită.", NotifySuccess)
	})
	s.changed()
}

// AddNetwork appends a network unless its SSID is already known.
func (s *Session) AddNetwork(n WifiNetwork) error {
	if s.result != nil {
		return ErrFinalized
	}
	n.SSID = strings.TrimSpace(n.SSID)
	if n.SSID == "" {
		return fmt.Errorf("network name is required")
	}
	for _, existing := range s.st.Networks {
		if existing.SSID == n.SSID {
			s.Notify("Eroare", fmt.Sprintf("Rețeaua \"%s\" există deja.", n.SSID), NotifyError)
			return fmt.Errorf("%w: %s", ErrDuplicateNetwork, n.SSID)
		}
	}
	if n.Signal == "" {
		n.Signal = SignalStrong
	}
	s.st.Networks = append(s.st.Networks, n)
	s.Notify("Succes", fmt.Sprintf("Rețeaua \"%s\" a fost adăugată.", n.SSID), NotifySuccess)
	if s.st.ActiveWindow == WindowAddNetwork {
		s.st.ActiveWindow = WindowNone
	}
	s.changed()
	return nil
}

// SetProxyEnabled sets the proxy flag from the network settings page.
func (s *Session) SetProxyEnabled(on bool) {
	if s.result != nil {
		return
	}
	s.st.ProxyEnabled = on
	s.changed()
}

// SetDriverOutdated sets the driver flag from the device manager.
func (s *Session) SetDriverOutdated(outdated bool) {
	if s.result != nil {
		return
	}
	s.st.DriverOutdated = outdated
	s.changed()
}
