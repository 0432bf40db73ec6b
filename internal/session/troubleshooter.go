package session

// Settings-window troubleshooter workflow

import (
	"time"

	"github.com/tturner/nettrainer/internal/actionlog"
	"github.com/tturner/nettrainer/internal/scenario"
)

const fixFailedHint = "Depanarea automată a eșuat. Contactează furnizorul de internet (ISP) pentru asistență."

// OpenTroubleshooter starts a new attempt: it draws a scenario, stages its
// environment, records it in the history and opens the settings window.
func (s *Session) OpenTroubleshooter() scenario.Scenario {
	if s.result != nil {
		return s.st.Scenario
	}
	sc, derived := scenario.Select(s.picker)
	s.attempt++

	s.st.Scenario = sc
	s.st.History = append(s.st.History, HistoryEntry{Timestamp: s.sched.Now(), Scenario: sc})
	s.st.AirplaneMode = derived.AirplaneMode
	s.st.ProxyEnabled = derived.ProxyMisconfigured
	s.st.DriverOutdated = derived.DriverOutdated
	s.st.Devices = derived.Devices
	s.st.InitialError = false
	s.st.ActiveWindow = WindowSettings
	s.st.Troubleshooter = Troubleshooter{
		Step:     sc.FirstStep(),
		Password: PasswordIdle,
	}

	s.logger.Info("Troubleshooting attempt %d: scenario %s", s.attempt, sc.Key())
	if s.metrics != nil {
		s.metrics.ObserveAttempt(sc.Key())
	}
	s.changed()
	return sc
}

// advance moves the troubleshooter to step after the step-advance delay,
// unless a newer attempt has started meanwhile.
func (s *Session) advance(step scenario.Step) {
	gen := s.attempt
	s.after(s.timing.StepAdvance, func() {
		if gen != s.attempt {
			return
		}
		s.st.Troubleshooter.Step = step
	})
}

// EnableWifi turns the radio on and moves on to password entry.
func (s *Session) EnableWifi() {
	if s.result != nil || s.st.Troubleshooter.WifiOn {
		return
	}
	s.st.Troubleshooter.WifiOn = true
	s.advance(scenario.StepPasswordEntry)
	s.changed()
}

// SubmitWifiPassword checks pw against the saved HomeWiFi password.
func (s *Session) SubmitWifiPassword(pw string) bool {
	if s.result != nil {
		return false
	}
	want := DefaultPassword
	for _, n := range s.st.Networks {
		if n.SSID == HomeSSID && n.SavedPassword != "" {
			want = n.SavedPassword
		}
	}
	correct := pw == want
	s.LogAction(actionlog.SubmitWifiPassword, actionlog.Payload{actionlog.KeyCorrect: correct})
	if !correct {
		s.st.Troubleshooter.Password = PasswordIncorrect
		s.changed()
		return false
	}
	s.st.Troubleshooter.Password = PasswordCorrect
	for i := range s.st.Networks {
		if s.st.Networks[i].SSID == HomeSSID {
			s.st.Networks[i].SavedPassword = pw
		}
	}
	s.advance(scenario.StepAutomaticFix)
	s.changed()
	return true
}

// EnableAdapter toggles the fault-source device back on.
func (s *Session) EnableAdapter() {
	if s.result != nil {
		return
	}
	i := scenario.FaultSource(s.st.Devices)
	device := ""
	if i >= 0 {
		s.st.Devices[i].Enabled = !s.st.Devices[i].Enabled
		device = s.st.Devices[i].ID
	}
	s.LogAction(actionlog.EnableAdapter, actionlog.Payload{actionlog.KeyDevice: device})
	s.advance(scenario.StepAutomaticFix)
	s.changed()
}

// FixProxy disables the misconfigured proxy.
func (s *Session) FixProxy() {
	if s.result != nil {
		return
	}
	s.st.ProxyEnabled = false
	s.advance(scenario.StepAutomaticFix)
	s.changed()
}

// UpdateDriver installs the current network driver.
func (s *Session) UpdateDriver() {
	if s.result != nil {
		return
	}
	s.st.DriverOutdated = false
	s.advance(scenario.StepAutomaticFix)
	s.changed()
}

// RunTroubleshooter starts the automatic diagnosis. The transcript is
// revealed one line per diagnostic interval; the outcome is decided up front.
func (s *Session) RunTroubleshooter() {
	if s.result != nil || s.st.Troubleshooter.Diagnosing {
		return
	}
	s.LogAction(actionlog.RunTroubleshooter, nil)

	failed := s.failProb > 0 && s.rng.Float64() < s.failProb
	lines := DiagnosticSuccess
	if failed {
		lines = DiagnosticFailure
	}
	s.logger.Verbose("[%s] troubleshooter run (failed=%v)", s.id, failed)

	gen := s.attempt
	s.st.Troubleshooter.Diagnosing = true
	s.st.Troubleshooter.Lines = nil
	for i, line := range lines {
		line := line
		last := i == len(lines)-1
		s.after(s.timing.DiagnosticLine*time.Duration(i+1), func() {
			if gen != s.attempt {
				return
			}
			s.st.Troubleshooter.Lines = append(s.st.Troubleshooter.Lines, line)
			if !last {
				return
			}
			s.st.Troubleshooter.Diagnosing = false
			if failed {
				s.st.Troubleshooter.Step = scenario.StepFixFailed
				return
			}
			s.st.Troubleshooter.Step = scenario.StepComplete
			s.after(s.timing.CompletionClose, func() {
				if gen != s.attempt {
					return
				}
				s.CloseSettings(true)
			})
		})
	}
	s.changed()
}

// SubmitContactISP escalates to the provider. The modal closes after a delay.
func (s *Session) SubmitContactISP(name, issue string) {
	if s.result != nil {
		return
	}
	s.LogAction(actionlog.ContactISP, nil)
	s.logger.Info("[%s] ISP contacted by %q: %s", s.id, name, issue)
	s.after(s.timing.ISPClose, func() {
		if s.st.ActiveWindow == WindowContactISP {
			s.st.ActiveWindow = WindowNone
		}
	})
	s.changed()
}

// RequestHint logs the request and returns guidance for the current attempt.
func (s *Session) RequestHint() string {
	if s.result != nil {
		return ""
	}
	s.LogAction(actionlog.RequestHint, nil)
	if s.st.Troubleshooter.Step == scenario.StepFixFailed {
		return fixFailedHint
	}
	return s.st.Scenario.Hint()
}
