package config

// Configuration loading and validation for nettrainer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tturner/nettrainer/internal/errors"
	"github.com/tturner/nettrainer/internal/logging"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/scoring"
	"github.com/tturner/nettrainer/internal/session"
)

// TimingConfig holds the deferred-transition delays in milliseconds.
type TimingConfig struct {
	ConnectMs         int `yaml:"connect_ms"`
	VPNMs             int `yaml:"vpn_ms"`
	NotificationMs    int `yaml:"notification_ms"`
	DiagnosticLineMs  int `yaml:"diagnostic_line_ms"`
	StepAdvanceMs     int `yaml:"step_advance_ms"`
	CompletionCloseMs int `yaml:"completion_close_ms"`
	ISPCloseMs        int `yaml:"isp_close_ms"`
}

// TroubleshooterConfig controls the automatic troubleshooter.
type TroubleshooterConfig struct {
	FailProbability *float64 `yaml:"fail_probability,omitempty"` // 0..1, default 0.3
	Scenario        string   `yaml:"scenario,omitempty"`         // force a scenario key instead of a random draw
}

// RubricConfig overrides the numeric magnitudes of the scoring rubric.
// Feedback texts are fixed.
type RubricConfig struct {
	Penalties          map[string]int `yaml:"penalties,omitempty"` // rule name -> penalty per hit
	EfficientThreshold *int           `yaml:"efficient_threshold,omitempty"`
	UnresolvedPenalty  *int           `yaml:"unresolved_penalty,omitempty"`
	EscalationPenalty  *int           `yaml:"escalation_penalty,omitempty"`
	EscalationFloor    *int           `yaml:"escalation_floor,omitempty"`
}

// ReportConfig selects where the evaluation result is delivered.
type ReportConfig struct {
	HostingURL string `yaml:"hosting_url,omitempty"`
	OutputFile string `yaml:"output_file,omitempty"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// StorageConfig controls the cosmetic snapshot.
type StorageConfig struct {
	DataDir  string `yaml:"data_dir"`
	Disabled bool   `yaml:"disabled"`
}

// LoggingConfig controls the leveled logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // silent, error, info, verbose, debug
	File  string `yaml:"file,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	ListenIP string `yaml:"listen_ip"`
	Port     int    `yaml:"port"`
}

// Config is the nettrainer configuration file.
type Config struct {
	Timing         TimingConfig         `yaml:"timing"`
	Troubleshooter TroubleshooterConfig `yaml:"troubleshooter"`
	Rubric         RubricConfig         `yaml:"rubric"`
	Report         ReportConfig         `yaml:"report"`
	Storage        StorageConfig        `yaml:"storage"`
	Logging        LoggingConfig        `yaml:"logging"`
	Metrics        MetricsConfig        `yaml:"metrics"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load reads a YAML configuration, fills missing fields with defaults and
// validates the result. If the file doesn't exist and autoCreate is true,
// a default config file is written first.
func Load(path string, autoCreate bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.WrapConfigError(fmt.Errorf("read config file: %w", err), path)
		}
		if !autoCreate {
			return nil, errors.WrapConfigError(fmt.Errorf("config file not found: %s", path), path)
		}
		if err := WriteDefault(path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("read created config file: %w", err), path)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	applyTimingDefaults(&cfg.Timing)
	if cfg.Troubleshooter.FailProbability == nil {
		p := session.DefaultFailProbability
		cfg.Troubleshooter.FailProbability = &p
	}
	applyRubricDefaults(&cfg.Rubric)
	if cfg.Report.TimeoutMs == 0 {
		cfg.Report.TimeoutMs = 5000
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.ListenIP == "" {
		cfg.Metrics.ListenIP = "127.0.0.1"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9109
	}
}

func applyTimingDefaults(t *TimingConfig) {
	d := session.DefaultTiming()
	set := func(v *int, def time.Duration) {
		if *v == 0 {
			*v = int(def / time.Millisecond)
		}
	}
	set(&t.ConnectMs, d.Connect)
	set(&t.VPNMs, d.VPN)
	set(&t.NotificationMs, d.Notification)
	set(&t.DiagnosticLineMs, d.DiagnosticLine)
	set(&t.StepAdvanceMs, d.StepAdvance)
	set(&t.CompletionCloseMs, d.CompletionClose)
	set(&t.ISPCloseMs, d.ISPClose)
}

func applyRubricDefaults(r *RubricConfig) {
	def := scoring.DefaultRubric()
	if r.Penalties == nil {
		r.Penalties = make(map[string]int, len(def.Rules))
	}
	for _, rule := range def.Rules {
		if _, ok := r.Penalties[rule.Name]; !ok {
			r.Penalties[rule.Name] = rule.Penalty
		}
	}
	// nil means unset; an explicit 0 is kept
	setDefault := func(v **int, def int) {
		if *v == nil {
			*v = &def
		}
	}
	setDefault(&r.EfficientThreshold, def.EfficientThreshold)
	setDefault(&r.UnresolvedPenalty, def.UnresolvedPenalty)
	setDefault(&r.EscalationPenalty, def.EscalationPenalty)
	setDefault(&r.EscalationFloor, def.EscalationFloor)
}

// DefaultDataDir returns the per-user directory for the cosmetic snapshot.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nettrainer")
	}
	return ".nettrainer"
}

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	t := cfg.Timing
	for name, v := range map[string]int{
		"connect_ms":          t.ConnectMs,
		"vpn_ms":              t.VPNMs,
		"notification_ms":     t.NotificationMs,
		"diagnostic_line_ms":  t.DiagnosticLineMs,
		"step_advance_ms":     t.StepAdvanceMs,
		"completion_close_ms": t.CompletionCloseMs,
		"isp_close_ms":        t.ISPCloseMs,
	} {
		if v < 0 {
			return fmt.Errorf("timing.%s must be >= 0", name)
		}
	}

	if p := cfg.Troubleshooter.FailProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("troubleshooter.fail_probability must be between 0 and 1, got %v", *p)
	}
	if key := cfg.Troubleshooter.Scenario; key != "" {
		if _, err := scenario.Parse(key); err != nil {
			return fmt.Errorf("troubleshooter.scenario: %w", err)
		}
	}

	if _, err := cfg.Rubric.Build(); err != nil {
		return err
	}

	if cfg.Report.TimeoutMs < 0 {
		return fmt.Errorf("report.timeout_ms must be >= 0")
	}
	if u := cfg.Report.HostingURL; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("report.hosting_url must be an http(s) URL, got %q", u)
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	if cfg.Metrics.Port < 0 || cfg.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535")
	}
	return nil
}

// Build returns the default rubric with the configured magnitudes applied.
func (r RubricConfig) Build() (*scoring.Rubric, error) {
	rubric := scoring.DefaultRubric()
	for name, penalty := range r.Penalties {
		if penalty < 0 {
			return nil, fmt.Errorf("rubric.penalties.%s must be >= 0", name)
		}
		if err := rubric.SetPenalty(name, penalty); err != nil {
			return nil, fmt.Errorf("rubric.penalties: %w", err)
		}
	}
	for _, f := range []struct {
		name string
		v    *int
		dst  *int
	}{
		{"efficient_threshold", r.EfficientThreshold, &rubric.EfficientThreshold},
		{"unresolved_penalty", r.UnresolvedPenalty, &rubric.UnresolvedPenalty},
		{"escalation_penalty", r.EscalationPenalty, &rubric.EscalationPenalty},
		{"escalation_floor", r.EscalationFloor, &rubric.EscalationFloor},
	} {
		if f.v == nil {
			continue
		}
		if *f.v < 0 || *f.v > rubric.MaxScore {
			return nil, fmt.Errorf("rubric.%s must be between 0 and %d", f.name, rubric.MaxScore)
		}
		*f.dst = *f.v
	}
	return rubric, nil
}

// SessionTiming converts the configured delays.
func (t TimingConfig) SessionTiming() session.Timing {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return session.Timing{
		Connect:         ms(t.ConnectMs),
		VPN:             ms(t.VPNMs),
		Notification:    ms(t.NotificationMs),
		DiagnosticLine:  ms(t.DiagnosticLineMs),
		StepAdvance:     ms(t.StepAdvanceMs),
		CompletionClose: ms(t.CompletionCloseMs),
		ISPClose:        ms(t.ISPCloseMs),
	}
}

// FailProbability returns the configured troubleshooter failure chance.
func (c *Config) FailProbability() float64 {
	if c.Troubleshooter.FailProbability == nil {
		return session.DefaultFailProbability
	}
	return *c.Troubleshooter.FailProbability
}

// Picker returns a fixed picker when a scenario is forced, nil otherwise.
func (c *Config) Picker() scenario.Picker {
	if c.Troubleshooter.Scenario == "" {
		return nil
	}
	sc, err := scenario.Parse(c.Troubleshooter.Scenario)
	if err != nil {
		return nil
	}
	return scenario.Fixed(sc)
}

// ReportTimeout returns the delivery timeout.
func (c *Config) ReportTimeout() time.Duration {
	return time.Duration(c.Report.TimeoutMs) * time.Millisecond
}

// MetricsAddr returns the listen address of the metrics endpoint.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Metrics.ListenIP, c.Metrics.Port)
}
