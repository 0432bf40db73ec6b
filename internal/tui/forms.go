package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tturner/nettrainer/internal/session"
)

type formKind int

const (
	formNone formKind = iota
	formPassword
	formAddNetwork
	formContactISP
)

// formValues holds the fields bound to the active huh form.
type formValues struct {
	password string

	ssid        string
	secure      bool
	netPassword string
	signal      session.Signal

	name  string
	issue string
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s este obligatoriu", label)
		}
		return nil
	}
}

func buildPasswordForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Parola pentru " + session.HomeSSID).
				Description("Sfat: parola este salvată în fișierul 'Parola WiFi.txt'.").
				Key("password").
				Password(true).
				Value(&v.password),
		),
	).WithShowHelp(false)
}

func buildAddNetworkForm(v *formValues) *huh.Form {
	v.signal = session.SignalStrong
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nume rețea (SSID)").
				Key("ssid").
				Validate(required("Numele rețelei")).
				Value(&v.ssid),
			huh.NewSelect[session.Signal]().
				Title("Semnal").
				Key("signal").
				Options(
					huh.NewOption("Puternic", session.SignalStrong),
					huh.NewOption("Slab", session.SignalWeak),
				).
				Value(&v.signal),
			huh.NewConfirm().
				Title("Rețea securizată?").
				Key("secure").
				Affirmative("Da").
				Negative("Nu").
				Value(&v.secure),
			huh.NewInput().
				Title("Parolă (opțional)").
				Key("net_password").
				Password(true).
				Value(&v.netPassword),
		),
	).WithShowHelp(false)
}

func buildContactISPForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nume").
				Key("name").
				Validate(required("Numele")).
				Value(&v.name),
			huh.NewText().
				Title("Descrieți problema").
				Key("issue").
				Validate(required("Descrierea")).
				Value(&v.issue),
		),
	).WithShowHelp(false)
}

// network converts the add-network form into a session network.
func (v *formValues) network() session.WifiNetwork {
	n := session.WifiNetwork{
		SSID:   strings.TrimSpace(v.ssid),
		Signal: v.signal,
		Secure: v.secure,
	}
	if v.secure {
		n.SavedPassword = v.netPassword
	}
	return n
}
