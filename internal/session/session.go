package session

// Simulated desktop session: state, action logging and live scoring

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tturner/nettrainer/internal/actionlog"
	"github.com/tturner/nettrainer/internal/logging"
	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/sched"
	"github.com/tturner/nettrainer/internal/scoring"
)

var (
	// ErrBrowserOffline rejects opening the browser without connectivity.
	ErrBrowserOffline = errors.New("browser requires an internet connection")
	// ErrDuplicateNetwork rejects adding a network whose SSID already exists.
	ErrDuplicateNetwork = errors.New("network already exists")
	// ErrFinalized rejects mutations after the session has been evaluated.
	ErrFinalized = errors.New("session already finalized")
)

// Recorder receives session telemetry. *metrics.Collector satisfies it.
type Recorder interface {
	ObserveAction(kind string, liveScore int)
	ObserveAttempt(scenario string)
	ObserveFinish(scenario string, score int, passed bool)
	ObserveDelivery(err error)
}

// Persister stores the cosmetic snapshot after every state change.
type Persister interface {
	Save(Cosmetic) error
}

// DefaultFailProbability is the chance that the automatic troubleshooter fails.
const DefaultFailProbability = 0.3

// Options configures a session. Zero values select defaults, except
// FailProbability where zero means the troubleshooter never fails.
type Options struct {
	ID              string
	Scheduler       *sched.Scheduler
	Picker          scenario.Picker
	Rand            *rand.Rand
	FailProbability float64
	Rubric          *scoring.Rubric
	Reporter        report.Reporter
	Logger          *logging.Logger
	Metrics         Recorder
	Timing          Timing
	Persister       Persister
}

// State is a read-only view of the simulated environment.
type State struct {
	Connection          ConnectionStatus
	Scenario            scenario.Scenario
	Networks            []WifiNetwork
	Devices             []scenario.Device
	AirplaneMode        bool
	ProxyEnabled        bool
	DriverOutdated      bool
	VPN                 VPNStatus
	ActiveWindow        Window
	InitialError        bool
	Tabs                []BrowserTab
	ActiveTab           int
	History             []HistoryEntry
	SecurityWarningSSID string
	Notifications       []Notification
	Troubleshooter      Troubleshooter
	Theme               Theme
	LiveScore           int
}

func (st State) clone() State {
	out := st
	out.Networks = append([]WifiNetwork(nil), st.Networks...)
	out.Devices = append([]scenario.Device(nil), st.Devices...)
	out.Tabs = append([]BrowserTab(nil), st.Tabs...)
	out.History = append([]HistoryEntry(nil), st.History...)
	out.Notifications = append([]Notification(nil), st.Notifications...)
	out.Troubleshooter.Lines = append([]string(nil), st.Troubleshooter.Lines...)
	return out
}

// Session owns the state of one trainee run. It is driven from a single
// goroutine; deferred transitions run from Tick on that same goroutine.
type Session struct {
	id        string
	sched     *sched.Scheduler
	picker    scenario.Picker
	rng       *rand.Rand
	failProb  float64
	rubric    *scoring.Rubric
	reporter  report.Reporter
	logger    *logging.Logger
	metrics   Recorder
	timing    Timing
	persister Persister

	st      State
	log     *actionlog.Log
	tally   *scoring.Tally
	result  *scoring.EvaluationResult
	nextTab int
	nextMsg int
	attempt int
}

// New creates a session in the initial disconnected state.
func New(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = sched.New(sched.SystemClock{})
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Picker == nil {
		opts.Picker = scenario.RandomPicker{Rand: opts.Rand}
	}
	if opts.Rubric == nil {
		opts.Rubric = scoring.DefaultRubric()
	}
	if opts.Reporter == nil {
		opts.Reporter = report.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Session{
		id:        opts.ID,
		sched:     opts.Scheduler,
		picker:    opts.Picker,
		rng:       opts.Rand,
		failProb:  opts.FailProbability,
		rubric:    opts.Rubric,
		reporter:  opts.Reporter,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		timing:    opts.Timing.withDefaults(),
		persister: opts.Persister,
		log:       actionlog.New(),
		tally:     scoring.NewTally(opts.Rubric),
	}
	s.st = initialState(opts.Rubric.MaxScore)
	return s
}

func initialState(maxScore int) State {
	return State{
		Connection:   Disconnected,
		Scenario:     scenario.WifiPassword,
		Networks:     DefaultNetworks(),
		Devices:      scenario.DefaultDevices(),
		VPN:          VPNDisconnected,
		InitialError: true,
		Theme:        ThemeLight,
		LiveScore:    maxScore,
		Troubleshooter: Troubleshooter{
			Step:     scenario.StepIdle,
			Password: PasswordIdle,
		},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Session) State() State { return s.st.clone() }

// Entries returns a copy of the action log.
func (s *Session) Entries() []actionlog.Entry { return s.log.Entries() }

// LiveScore returns the running score.
func (s *Session) LiveScore() int { return s.st.LiveScore }

// Finalized reports whether Finish has run.
func (s *Session) Finalized() bool { return s.result != nil }

// Result returns the final evaluation once the session is finalized.
func (s *Session) Result() (scoring.EvaluationResult, bool) {
	if s.result == nil {
		return scoring.EvaluationResult{}, false
	}
	return *s.result, true
}

// Now returns the session clock time.
func (s *Session) Now() time.Time { return s.sched.Now() }

// Tick runs every deferred transition that has come due.
func (s *Session) Tick() int { return s.sched.RunDue() }

// Scheduler exposes the deferred-job queue, mainly for fake-clock driving.
func (s *Session) Scheduler() *sched.Scheduler { return s.sched }

// LogAction appends a scoreable entry and refreshes the live score.
// It reports false once the session is finalized.
func (s *Session) LogAction(kind actionlog.Kind, payload actionlog.Payload) bool {
	if s.result != nil {
		return false
	}
	if !s.log.Append(kind, payload, s.sched.Now()) {
		return false
	}
	entry, _ := s.log.Last()
	s.tally.Add(entry)
	s.st.LiveScore = s.tally.Score()
	s.logger.LogAction(s.id, entry, s.st.LiveScore)
	if s.metrics != nil {
		s.metrics.ObserveAction(kind.String(), s.st.LiveScore)
	}
	return true
}

// after schedules fn unless the session has been finalized by the time it runs.
func (s *Session) after(delay time.Duration, fn func()) {
	s.sched.After(delay, func() {
		if s.result != nil {
			return
		}
		fn()
		s.changed()
	})
}

// changed persists the cosmetic snapshot.
func (s *Session) changed() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.Cosmetic()); err != nil {
		s.logger.Error("Failed to save session state: %v", err)
	}
}

// Notify shows a toast that expires after the notification delay.
func (s *Session) Notify(title, message string, typ NotificationType) int {
	if s.result != nil {
		return 0
	}
	s.nextMsg++
	id := s.nextMsg
	s.st.Notifications = append(s.st.Notifications, Notification{ID: id, Title: title, Message: message, Type: typ})
	s.after(s.timing.Notification, func() { s.removeNotification(id) })
	return id
}

// DismissNotification removes a toast early.
func (s *Session) DismissNotification(id int) {
	if s.result != nil {
		return
	}
	s.removeNotification(id)
}

func (s *Session) removeNotification(id int) {
	kept := s.st.Notifications[:0]
	for _, n := range s.st.Notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.st.Notifications = kept
}

// ToggleTheme switches between the light and dark desktop themes.
func (s *Session) ToggleTheme() {
	if s.result != nil {
		return
	}
	if s.st.Theme == ThemeDark {
		s.st.Theme = ThemeLight
	} else {
		s.st.Theme = ThemeDark
	}
	s.changed()
}
