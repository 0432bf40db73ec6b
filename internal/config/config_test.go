package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tturner/nettrainer/internal/actionlog"
	nettrainerErrors "github.com/tturner/nettrainer/internal/errors"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/scoring"
	"github.com/tturner/nettrainer/internal/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nettrainer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Timing.SessionTiming(); got != session.DefaultTiming() {
		t.Errorf("timing = %+v, want %+v", got, session.DefaultTiming())
	}
	if cfg.FailProbability() != 0.3 {
		t.Errorf("fail probability = %v", cfg.FailProbability())
	}
	if cfg.ReportTimeout() != 5*time.Second {
		t.Errorf("report timeout = %v", cfg.ReportTimeout())
	}
	if cfg.MetricsAddr() != "127.0.0.1:9109" {
		t.Errorf("metrics addr = %q", cfg.MetricsAddr())
	}
	if cfg.Storage.DataDir == "" {
		t.Error("data dir should have a default")
	}
	if cfg.Picker() != nil {
		t.Error("no scenario forced by default")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
timing:
  connect_ms: 250
troubleshooter:
  fail_probability: 0
  scenario: dns_issue
rubric:
  penalties:
    hint_request: 2
  efficient_threshold: 80
report:
  hosting_url: "http://localhost:8080/result"
storage:
  data_dir: /tmp/nt
logging:
  level: verbose
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	timing := cfg.Timing.SessionTiming()
	if timing.Connect != 250*time.Millisecond || timing.VPN != 2500*time.Millisecond {
		t.Errorf("timing = %+v", timing)
	}
	if cfg.FailProbability() != 0 {
		t.Errorf("explicit zero fail probability lost: %v", cfg.FailProbability())
	}
	if p := cfg.Picker(); p == nil || p.Pick() != scenario.DNSIssue {
		t.Errorf("picker = %v", p)
	}
	if cfg.Storage.DataDir != "/tmp/nt" || cfg.Logging.Level != "verbose" {
		t.Errorf("storage/logging = %+v / %+v", cfg.Storage, cfg.Logging)
	}

	rubric, err := cfg.Rubric.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rubric.EfficientThreshold != 80 {
		t.Errorf("threshold = %d", rubric.EfficientThreshold)
	}
	entries := []actionlog.Entry{{Kind: actionlog.RequestHint}, {Kind: actionlog.RequestHint}}
	if got := rubric.Evaluate(entries, scoring.Snapshot{}, scoring.Live).Score; got != 96 {
		t.Errorf("live score with hint penalty 2 = %d, want 96", got)
	}
	if rubric.UnresolvedPenalty != scoring.DefaultRubric().UnresolvedPenalty {
		t.Errorf("unset unresolved_penalty = %d, want default", rubric.UnresolvedPenalty)
	}
	// untouched rules keep their defaults
	if cfg.Rubric.Penalties[scoring.RuleWrongPassword] != 10 {
		t.Errorf("wrong_password penalty = %d", cfg.Rubric.Penalties[scoring.RuleWrongPassword])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	var ufe nettrainerErrors.UserFriendlyError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want UserFriendlyError", err)
	}
	if !strings.Contains(ufe.Reason, "not found") {
		t.Errorf("reason = %q", ufe.Reason)
	}
}

func TestLoadAutoCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nettrainer.yaml")
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Metrics.Port != 9109 {
		t.Errorf("metrics port = %d", cfg.Metrics.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative timing", func(c *Config) { c.Timing.VPNMs = -1 }, "timing.vpn_ms"},
		{"probability above one", func(c *Config) {
			p := 1.5
			c.Troubleshooter.FailProbability = &p
		}, "fail_probability"},
		{"unknown scenario", func(c *Config) { c.Troubleshooter.Scenario = "cable_cut" }, "unknown scenario"},
		{"unknown rule", func(c *Config) { c.Rubric.Penalties["slow"] = 3 }, "unknown rubric rule"},
		{"negative penalty", func(c *Config) { c.Rubric.Penalties[scoring.RuleHintRequest] = -5 }, "must be >= 0"},
		{"threshold above max", func(c *Config) {
			v := 150
			c.Rubric.EfficientThreshold = &v
		}, "efficient_threshold"},
		{"bad url", func(c *Config) { c.Report.HostingURL = "ftp://x" }, "hosting_url"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad port", func(c *Config) { c.Metrics.Port = 70000 }, "metrics.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadKeepsExplicitZeroRubricValues(t *testing.T) {
	path := writeConfig(t, `
rubric:
  unresolved_penalty: 0
  escalation_penalty: 0
  escalation_floor: 0
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rubric, err := cfg.Rubric.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rubric.UnresolvedPenalty != 0 || rubric.EscalationPenalty != 0 || rubric.EscalationFloor != 0 {
		t.Fatalf("explicit zeros lost: %+v", rubric)
	}
	if rubric.EfficientThreshold != scoring.DefaultRubric().EfficientThreshold {
		t.Fatalf("unset threshold = %d, want default", rubric.EfficientThreshold)
	}

	entries := []actionlog.Entry{{Kind: actionlog.ContactISP}}
	if got := rubric.Evaluate(entries, scoring.Snapshot{}, scoring.Final).Score; got != 100 {
		t.Fatalf("unresolved score with zero penalties = %d, want 100", got)
	}
}
