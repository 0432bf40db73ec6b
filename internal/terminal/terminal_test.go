package terminal

import (
	"math/rand"
	"strings"
	"testing"
)

func TestBanner(t *testing.T) {
	term := New(nil, nil)
	lines := term.Lines()
	if len(lines) != 3 || !strings.HasPrefix(lines[0].Text, "Windows Terminal") {
		t.Fatalf("banner = %+v", lines)
	}
}

func TestPingOnline(t *testing.T) {
	term := New(rand.New(rand.NewSource(7)), func() bool { return true })
	if term.Exec("ping google.com") {
		t.Fatal("ping should not close the window")
	}
	lines := term.Tail(5)
	if lines[0].Text != "Pinging google.com with 32 bytes of data:" {
		t.Fatalf("first line = %q", lines[0].Text)
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l.Text, "Reply from google.com: bytes=32 time=") {
			t.Fatalf("reply = %q", l.Text)
		}
	}
}

func TestPingOffline(t *testing.T) {
	term := New(nil, func() bool { return false })
	term.Exec("ping 8.8.8.8")
	last := term.Tail(1)[0]
	if !strings.Contains(last.Text, "could not find host 8.8.8.8") {
		t.Fatalf("offline ping = %q", last.Text)
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		input    string
		wantLast string
		close    bool
	}{
		{"ping", "Ping request could not find host. Please check the name and try again.", false},
		{"help", "  exit          - Closes the terminal window.", false},
		{"IPCONFIG", "   Default Gateway . . . . . . . . . : 192.168.1.1", false},
		{"tracert x", "'tracert' is not recognized as an internal or external command.", false},
		{"", Prompt, false},
		{"exit", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			term := New(nil, nil)
			if got := term.Exec(tt.input); got != tt.close {
				t.Fatalf("Exec(%q) close = %v", tt.input, got)
			}
			if tt.close {
				return
			}
			if last := term.Tail(1)[0].Text; last != tt.wantLast {
				t.Fatalf("last line = %q, want %q", last, tt.wantLast)
			}
		})
	}
}

func TestCls(t *testing.T) {
	term := New(nil, nil)
	term.Exec("help")
	term.Exec("cls")
	if n := len(term.Lines()); n != 0 {
		t.Fatalf("cls left %d lines", n)
	}
}
