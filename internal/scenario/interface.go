package scenario

// Fault scenarios and their derived initial state

import (
	"math/rand"
	"strings"
)

// Scenario is the simulated connectivity fault assigned to a troubleshooting attempt.
type Scenario int

const (
	WifiPassword Scenario = iota
	IPConflict
	DNSIssue
	AirplaneModeOn
	AdapterDisabled
	DriverOutdated
	ProxyWrong
	LimitedConnectivity
)

type descriptor struct {
	key         string
	displayName string
	firstStep   Step
	hint        string
}

var registry = []descriptor{
	WifiPassword: {
		key:         "wifi_password",
		displayName: "Problemă parolă Wi-Fi",
		firstStep:   StepWifiCheck,
		hint:        "Activează Wi-Fi și introdu parola rețelei HomeWiFi. Parola este salvată în fișierul 'Parola WiFi.txt'.",
	},
	IPConflict: {
		key:         "ip_conflict",
		displayName: "Conflict de adresă IP",
		firstStep:   StepAutomaticFix,
		hint:        "Rulează depanatorul de rețea pentru a reînnoi adresa IP.",
	},
	DNSIssue: {
		key:         "dns_issue",
		displayName: "Problemă server DNS",
		firstStep:   StepAutomaticFix,
		hint:        "Rulează depanatorul de rețea pentru a reseta setările DNS.",
	},
	AirplaneModeOn: {
		key:         "airplane_mode_on",
		displayName: "Mod Avion este activat",
		firstStep:   StepAutomaticFix,
		hint:        "Dezactivează Modul Avion din meniul rapid, apoi rulează depanatorul.",
	},
	AdapterDisabled: {
		key:         "adapter_disabled",
		displayName: "Adaptor de rețea dezactivat",
		firstStep:   StepAdapterCheck,
		hint:        "Activează adaptorul de rețea dezactivat din Managerul de dispozitive.",
	},
	DriverOutdated: {
		key:         "driver_outdated",
		displayName: "Driver de rețea învechit",
		firstStep:   StepDriverUpdateCheck,
		hint:        "Actualizează driverul plăcii de rețea, apoi rulează depanatorul.",
	},
	ProxyWrong: {
		key:         "proxy_wrong",
		displayName: "Server proxy configurat greșit",
		firstStep:   StepProxyCheck,
		hint:        "Dezactivează serverul proxy configurat greșit, apoi rulează depanatorul.",
	},
	LimitedConnectivity: {
		key:         "limited_connectivity",
		displayName: "Conectivitate limitată",
		firstStep:   StepAutomaticFix,
		hint:        "Rulează depanatorul de rețea pentru a restabili conectivitatea.",
	},
}

// All returns every scenario in enumeration order.
func All() []Scenario {
	out := make([]Scenario, len(registry))
	for i := range registry {
		out[i] = Scenario(i)
	}
	return out
}

// Valid reports whether s is a member of the enumeration.
func (s Scenario) Valid() bool {
	return s >= 0 && int(s) < len(registry)
}

// Key returns the stable identifier used in config files and CLI flags.
func (s Scenario) Key() string {
	if !s.Valid() {
		return "unknown"
	}
	return registry[s].key
}

func (s Scenario) String() string { return s.Key() }

// DisplayName returns the trainee-facing name of the fault.
func (s Scenario) DisplayName() string {
	if !s.Valid() {
		return "Problemă necunoscută"
	}
	return registry[s].displayName
}

// FirstStep returns the troubleshooter step a fresh attempt starts on.
func (s Scenario) FirstStep() Step {
	if !s.Valid() {
		return StepWifiCheck
	}
	return registry[s].firstStep
}

// Hint returns the guidance shown when the trainee asks for help.
func (s Scenario) Hint() string {
	if !s.Valid() {
		return ""
	}
	return registry[s].hint
}

// MarshalText implements encoding.TextMarshaler.
func (s Scenario) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scenario) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse returns the scenario for a key.
func Parse(name string) (Scenario, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, d := range registry {
		if d.key == name {
			return Scenario(i), nil
		}
	}
	return 0, &UnknownScenarioError{Name: name}
}

// UnknownScenarioError represents an error for unknown scenario names
type UnknownScenarioError struct {
	Name string
}

func (e *UnknownScenarioError) Error() string {
	return "unknown scenario: " + e.Name
}

// Picker draws a scenario for a new attempt.
type Picker interface {
	Pick() Scenario
}

// RandomPicker draws uniformly from All.
type RandomPicker struct {
	Rand *rand.Rand
}

// Pick implements Picker.
func (p RandomPicker) Pick() Scenario {
	n := len(registry)
	if p.Rand == nil {
		return Scenario(rand.Intn(n))
	}
	return Scenario(p.Rand.Intn(n))
}

// Fixed always returns the same scenario.
type Fixed Scenario

// Pick implements Picker.
func (f Fixed) Pick() Scenario { return Scenario(f) }
