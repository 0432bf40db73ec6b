package actionlog

// Append-only record of trainee decisions

import (
	"fmt"
	"time"
)

// Kind identifies a scoreable trainee decision.
type Kind int

const (
	OpenWindow Kind = iota
	CloseWindow
	ToggleStartMenu
	ToggleAirplaneMode
	SubmitWifiPassword
	EnableAdapter
	RunTroubleshooter
	ContactISP
	FixConnectionSuccess
	RequestHint
	Search
)

var kindNames = []string{
	"open_window",
	"close_window",
	"toggle_start_menu",
	"toggle_airplane_mode",
	"submit_wifi_password",
	"enable_adapter",
	"run_troubleshooter",
	"contact_isp",
	"fix_connection_success",
	"request_hint",
	"search",
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseKind maps a kind name back to its value.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid action kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Payload keys written by the session handlers.
const (
	KeyWindow  = "window"
	KeyCorrect = "correct"
	KeyDevice  = "device"
	KeyQuery   = "query"
)

// Payload carries optional free-form details for an entry.
type Payload map[string]any

// Entry is a single logged decision. Entries are never mutated after append.
type Entry struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Payload   Payload   `json:"payload,omitempty" yaml:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Window returns the window payload, or "" when absent.
func (e Entry) Window() string {
	if v, ok := e.Payload[KeyWindow].(string); ok {
		return v
	}
	return ""
}

// Correct returns the correct payload flag. A missing flag counts as false.
func (e Entry) Correct() bool {
	v, _ := e.Payload[KeyCorrect].(bool)
	return v
}

// Log is an append-only, chronologically ordered list of entries.
// Once frozen it silently rejects further appends.
type Log struct {
	entries []Entry
	frozen  bool
}

// New creates an empty log.
func New() *Log {
	return &Log{entries: make([]Entry, 0, 32)}
}

// Append adds an entry and reports whether it was accepted. Kinds outside
// the closed set are rejected.
func (l *Log) Append(kind Kind, payload Payload, at time.Time) bool {
	if l.frozen || !kind.Valid() {
		return false
	}
	l.entries = append(l.entries, Entry{Kind: kind, Payload: payload.clone(), Timestamp: at})
	return true
}

func (p Payload) clone() Payload {
	if len(p) == 0 {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Freeze stops the log from accepting entries. It cannot be undone.
func (l *Log) Freeze() {
	l.frozen = true
}

// Frozen reports whether Freeze has been called.
func (l *Log) Frozen() bool {
	return l.frozen
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in append order, payloads included.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		e.Payload = e.Payload.clone()
		out[i] = e
	}
	return out
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	e := l.entries[len(l.entries)-1]
	e.Payload = e.Payload.clone()
	return e, true
}

// Count returns how many entries of the given kind were logged.
func Count(entries []Entry, kind Kind) int {
	n := 0
	for _, e := range entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
