package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tturner/nettrainer/internal/config"
	nettrainerErrors "github.com/tturner/nettrainer/internal/errors"
	"github.com/tturner/nettrainer/internal/logging"
	"github.com/tturner/nettrainer/internal/metrics"
	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/sched"
	"github.com/tturner/nettrainer/internal/scoring"
	"github.com/tturner/nettrainer/internal/session"
)

// ReplayEpoch is the fake clock start when a script sets none.
var ReplayEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// drainLimit bounds how far the clock runs after the last step.
const drainLimit = time.Minute

// Script is a scripted trainee session.
type Script struct {
	Scenario        string    `yaml:"scenario,omitempty"`
	FailProbability *float64  `yaml:"fail_probability,omitempty"`
	Seed            int64     `yaml:"seed,omitempty"`
	Start           time.Time `yaml:"start,omitempty"`
	Steps           []Step    `yaml:"steps"`
}

// Step is one trainee action. Wait advances the clock after the action;
// a step may carry only a wait.
type Step struct {
	Action string         `yaml:"action,omitempty"`
	Window string         `yaml:"window,omitempty"`
	Value  string         `yaml:"value,omitempty"`
	Wait   string         `yaml:"wait,omitempty"`
	Issue  string         `yaml:"issue,omitempty"`
	Secure bool           `yaml:"secure,omitempty"`
	Signal session.Signal `yaml:"signal,omitempty"`
}

// ReplayOptions configure a scripted run.
type ReplayOptions struct {
	ScriptPath  string
	ConfigPath  string
	ActionsCSV  string
	ActionsJSON string
	Out         io.Writer
	Logger      *logging.Logger
}

// LoadScript reads and parses a replay script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nettrainerErrors.WrapScriptError(fmt.Errorf("read script: %w", err), path, 0)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, nettrainerErrors.WrapScriptError(fmt.Errorf("parse YAML: %w", err), path, 0)
	}
	if len(s.Steps) == 0 {
		return nil, nettrainerErrors.WrapScriptError(fmt.Errorf("script has no steps"), path, 0)
	}
	return &s, nil
}

// RunReplay plays a script against a fake clock, writes the outbound result
// message to opts.Out and returns the final evaluation.
func RunReplay(ctx context.Context, opts ReplayOptions) (scoring.EvaluationResult, error) {
	script, err := LoadScript(opts.ScriptPath)
	if err != nil {
		return scoring.EvaluationResult{}, err
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		if cfg, err = config.Load(opts.ConfigPath, false); err != nil {
			return scoring.EvaluationResult{}, err
		}
	}
	rubric, err := cfg.Rubric.Build()
	if err != nil {
		return scoring.EvaluationResult{}, nettrainerErrors.WrapConfigError(err, opts.ConfigPath)
	}

	picker := cfg.Picker()
	if script.Scenario != "" {
		sc, err := scenario.Parse(script.Scenario)
		if err != nil {
			return scoring.EvaluationResult{}, nettrainerErrors.WrapScriptError(err, opts.ScriptPath, 0)
		}
		picker = scenario.Fixed(sc)
	}
	failProb := cfg.FailProbability()
	if script.FailProbability != nil {
		failProb = *script.FailProbability
	}
	seed := script.Seed
	if seed == 0 {
		seed = 1
	}
	start := script.Start
	if start.IsZero() {
		start = ReplayEpoch
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	sess := session.New(session.Options{
		Scheduler:       sched.New(sched.NewFakeClock(start)),
		Picker:          picker,
		Rand:            rand.New(rand.NewSource(seed)),
		FailProbability: failProb,
		Rubric:          rubric,
		Reporter:        report.NewWriterReporter(out),
		Logger:          logger,
		Timing:          cfg.Timing.SessionTiming(),
	})

	for i, step := range script.Steps {
		if err := ApplyStep(sess, step); err != nil {
			return scoring.EvaluationResult{}, nettrainerErrors.WrapScriptError(err, opts.ScriptPath, i+1)
		}
		if step.Wait != "" {
			d, err := time.ParseDuration(step.Wait)
			if err != nil || d < 0 {
				return scoring.EvaluationResult{}, nettrainerErrors.WrapScriptError(fmt.Errorf("invalid wait %q", step.Wait), opts.ScriptPath, i+1)
			}
			sess.Scheduler().Advance(d)
		}
	}
	sess.Scheduler().Drain(drainLimit)

	result := sess.Finish(ctx)

	if opts.ActionsCSV != "" || opts.ActionsJSON != "" {
		w, err := metrics.NewWriter(sess.ID(), opts.ActionsCSV, opts.ActionsJSON)
		if err != nil {
			return result, err
		}
		if err := w.WriteAll(sess.Entries()); err != nil {
			w.Close()
			return result, err
		}
		if err := w.Close(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ApplyStep performs one scripted action on sess.
func ApplyStep(sess *session.Session, step Step) error {
	switch step.Action {
	case "":
		if step.Wait == "" {
			return fmt.Errorf("step needs an action or a wait")
		}
	case "open_window":
		err := sess.OpenWindow(session.Window(step.Window))
		if err != nil && !errors.Is(err, session.ErrBrowserOffline) {
			return err
		}
	case "close_window":
		sess.CloseWindow(session.Window(step.Window))
	case "toggle_start_menu":
		sess.ToggleStartMenu()
	case "open_troubleshooter":
		sess.OpenTroubleshooter()
	case "close_settings":
		sess.CloseSettings(false)
	case "enable_wifi":
		sess.EnableWifi()
	case "submit_wifi_password":
		sess.SubmitWifiPassword(step.Value)
	case "enable_adapter":
		sess.EnableAdapter()
	case "fix_proxy":
		sess.FixProxy()
	case "update_driver":
		sess.UpdateDriver()
	case "run_troubleshooter":
		sess.RunTroubleshooter()
	case "contact_isp":
		sess.SubmitContactISP(step.Value, step.Issue)
	case "request_hint":
		sess.RequestHint()
	case "search":
		err := sess.Search(step.Value)
		if err != nil && !errors.Is(err, session.ErrBrowserOffline) {
			return err
		}
	case "toggle_airplane_mode":
		sess.ToggleAirplaneMode()
	case "toggle_vpn":
		sess.ToggleVPN()
	case "toggle_device":
		return sess.ToggleDeviceEnabled(step.Value)
	case "add_network":
		err := sess.AddNetwork(session.WifiNetwork{SSID: step.Value, Secure: step.Secure, Signal: step.Signal})
		if err != nil && !errors.Is(err, session.ErrDuplicateNetwork) {
			return err
		}
	case "toggle_theme":
		sess.ToggleTheme()
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

// Actions lists the action names a script may use.
func Actions() []string {
	return []string{
		"open_window", "close_window", "toggle_start_menu",
		"open_troubleshooter", "close_settings", "enable_wifi", "submit_wifi_password",
		"enable_adapter", "fix_proxy", "update_driver", "run_troubleshooter",
		"contact_isp", "request_hint", "search",
		"toggle_airplane_mode", "toggle_vpn", "toggle_device", "add_network", "toggle_theme",
	}
}
