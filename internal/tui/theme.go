package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the simulated desktop.
type Theme struct {
	// Backgrounds
	Desktop lipgloss.Color
	Window  lipgloss.Color
	Taskbar lipgloss.Color

	// Text
	TextPrimary lipgloss.Color
	TextDim     lipgloss.Color

	// Borders
	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	// Semantic colors
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// DarkTheme is the Tokyo Night palette.
var DarkTheme = Theme{
	Desktop: lipgloss.Color("#1a1b26"),
	Window:  lipgloss.Color("#24283b"),
	Taskbar: lipgloss.Color("#16161e"),

	TextPrimary: lipgloss.Color("#c0caf5"),
	TextDim:     lipgloss.Color("#565f89"),

	Border:        lipgloss.Color("#414868"),
	BorderFocused: lipgloss.Color("#7aa2f7"),

	Accent:  lipgloss.Color("#7aa2f7"),
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7dcfff"),
}

// LightTheme mirrors the default Windows 11 look.
var LightTheme = Theme{
	Desktop: lipgloss.Color("#dbe6f4"),
	Window:  lipgloss.Color("#f3f3f3"),
	Taskbar: lipgloss.Color("#e8e8e8"),

	TextPrimary: lipgloss.Color("#1f1f1f"),
	TextDim:     lipgloss.Color("#5f6368"),

	Border:        lipgloss.Color("#a0a0a0"),
	BorderFocused: lipgloss.Color("#0067c0"),

	Accent:  lipgloss.Color("#0067c0"),
	Success: lipgloss.Color("#107c10"),
	Warning: lipgloss.Color("#9d5d00"),
	Error:   lipgloss.Color("#c42b1c"),
	Info:    lipgloss.Color("#005fb8"),
}

// Styles provides pre-configured lipgloss styles using the theme.
type Styles struct {
	Base  lipgloss.Style
	Dim   lipgloss.Style
	Bold  lipgloss.Style
	Title lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	KeyBinding lipgloss.Style
	KeyHint    lipgloss.Style

	Window       lipgloss.Style
	WindowTitle  lipgloss.Style
	Modal        lipgloss.Style
	ErrorOverlay lipgloss.Style
	Taskbar      lipgloss.Style
	Search       lipgloss.Style
	TabActive    lipgloss.Style
	Tab          lipgloss.Style

	Toast map[string]lipgloss.Style
}

// NewStyles creates a new Styles instance from a Theme.
func NewStyles(t Theme) Styles {
	toast := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(t.TextPrimary).
			Padding(0, 1).
			Width(56)
	}
	return Styles{
		Base:  lipgloss.NewStyle().Foreground(t.TextPrimary),
		Dim:   lipgloss.NewStyle().Foreground(t.TextDim),
		Bold:  lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true),
		Title: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Padding(0, 1),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		KeyBinding: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		KeyHint:    lipgloss.NewStyle().Foreground(t.TextDim),

		Window: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused).
			Padding(0, 2).
			Width(72),
		WindowTitle: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Warning).
			Padding(1, 2).
			Width(60),
		ErrorOverlay: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(t.Error).
			Padding(1, 3).
			Width(60),
		Taskbar: lipgloss.NewStyle().
			Background(t.Taskbar).
			Foreground(t.TextPrimary).
			Padding(0, 1),
		Search: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(t.Border).
			Width(28),
		TabActive: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(t.TextDim).Padding(0, 1),

		Toast: map[string]lipgloss.Style{
			"success": toast(t.Success),
			"error":   toast(t.Error),
			"info":    toast(t.Info),
		},
	}
}

// StylesFor returns the styles for a desktop theme name.
func StylesFor(dark bool) Styles {
	if dark {
		return darkStyles
	}
	return lightStyles
}

var (
	darkStyles  = NewStyles(DarkTheme)
	lightStyles = NewStyles(LightTheme)
)

// StatusIcon returns a colored status indicator.
func StatusIcon(status string, s Styles) string {
	switch status {
	case "connected", "success":
		return s.Success.Render("●")
	case "disconnected", "error":
		return s.Error.Render("●")
	case "connecting":
		return s.Warning.Render("●")
	default:
		return s.Dim.Render("○")
	}
}

// CheckIcon returns a styled check/cross icon.
func CheckIcon(checked bool, s Styles) string {
	if checked {
		return s.Success.Render("✓")
	}
	return s.Error.Render("✗")
}
