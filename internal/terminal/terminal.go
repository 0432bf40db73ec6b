package terminal

// Simulated command prompt (ping, ipconfig, help, cls, exit)

import (
	"fmt"
	"math/rand"
	"strings"
)

// Prompt precedes every echoed command.
const Prompt = `C:\Users\User>`

// Kind styles a line of output.
type Kind int

const (
	System Kind = iota
	Command
	Output
)

// Line is one row of terminal output.
type Line struct {
	Text string
	Kind Kind
}

var banner = []Line{
	{Text: "Windows Terminal [Version 10.0.22621.1]", Kind: System},
	{Text: "(c) Microsoft Corporation. All rights reserved.", Kind: System},
	{Text: "", Kind: System},
}

var helpText = []string{
	"Available commands:",
	"  ping <host>   - Send ICMP ECHO_REQUEST packets to network hosts.",
	"  ipconfig      - Display current TCP/IP network configuration values.",
	"  cls           - Clear the screen.",
	"  help          - Shows this help message.",
	"  exit          - Closes the terminal window.",
}

// Terminal holds the scrollback of one terminal window.
type Terminal struct {
	lines  []Line
	rng    *rand.Rand
	online func() bool
}

// New opens a terminal. online reports the simulated connectivity; a nil
// func means always online.
func New(rng *rand.Rand, online func() bool) *Terminal {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if online == nil {
		online = func() bool { return true }
	}
	t := &Terminal{rng: rng, online: online}
	t.lines = append(t.lines, banner...)
	return t
}

// Lines returns a copy of the scrollback.
func (t *Terminal) Lines() []Line {
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

// Tail returns at most n trailing lines.
func (t *Terminal) Tail(n int) []Line {
	if n <= 0 || n >= len(t.lines) {
		return t.Lines()
	}
	out := make([]Line, n)
	copy(out, t.lines[len(t.lines)-n:])
	return out
}

// Exec runs one command line. It reports true when the window should close.
func (t *Terminal) Exec(input string) bool {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "":
		t.lines = append(t.lines, Line{Text: Prompt, Kind: Command})
		return false
	case "cls":
		t.lines = nil
		return false
	case "exit":
		return true
	}

	t.lines = append(t.lines, Line{Text: Prompt + input, Kind: Command})
	fields := strings.Fields(strings.ToLower(input))
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "ping":
		t.ping(args)
	case "ipconfig":
		t.ipconfig()
	case "help":
		for _, l := range helpText {
			t.out(l)
		}
	default:
		t.out(fmt.Sprintf("'%s' is not recognized as an internal or external command.", cmd))
	}
	return false
}

func (t *Terminal) out(text string) {
	t.lines = append(t.lines, Line{Text: text, Kind: Output})
}

func (t *Terminal) ping(args []string) {
	if len(args) == 0 {
		t.out("Ping request could not find host. Please check the name and try again.")
		return
	}
	host := args[0]
	if !t.online() {
		t.out(fmt.Sprintf("Ping request could not find host %s. Please check the name and try again.", host))
		return
	}
	t.out(fmt.Sprintf("Pinging %s with 32 bytes of data:", host))
	for i := 0; i < 4; i++ {
		ms := t.rng.Intn(20) + 10
		ttl := 128 - t.rng.Intn(5)
		t.out(fmt.Sprintf("Reply from %s: bytes=32 time=%dms TTL=%d", host, ms, ttl))
	}
}

func (t *Terminal) ipconfig() {
	t.out("Windows IP Configuration")
	t.out("Wireless LAN adapter Wi-Fi:")
	if !t.online() {
		t.out("   Media State . . . . . . . . . . . : Media disconnected")
		return
	}
	t.out(fmt.Sprintf("   IPv4 Address. . . . . . . . . . . : 192.168.1.10%d", t.rng.Intn(9)))
	t.out("   Subnet Mask . . . . . . . . . . . : 255.255.255.0")
	t.out("   Default Gateway . . . . . . . . . : 192.168.1.1")
}
