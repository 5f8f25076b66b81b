package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA by default): prompts, names, highlights
// - Muted (gray): hints, secondary info
// - No colored success/error/warning - use unicode symbols only

const defaultAccentColor = "#A78BFA"

var accentColor = defaultAccentColor

var (
	// Accent style for entity names, prompts, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// ConfigureTheme sets the accent color from configuration. "" and "default"
// select the built-in accent, "none" and "off" disable it. Unrecognized
// values keep the current accent.
func ConfigureTheme(accent string) {
	v := strings.ToLower(strings.TrimSpace(accent))
	switch v {
	case "", "default":
		setAccent(defaultAccentColor)
	case "none", "off":
		setAccent("")
	default:
		if c, ok := normalizeAccentColor(v); ok {
			setAccent(c)
		}
	}
}

func setAccent(color string) {
	accentColor = color
	if color == "" {
		Accent = lipgloss.NewStyle()
		return
	}
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts an ANSI 256 color code or a #rgb / #rrggbb hex
// color.
func normalizeAccentColor(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", false
	}
	return "#" + hex, true
}
