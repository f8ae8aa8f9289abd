package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the Lip Gloss styles and symbols every renderer pulls from.
type Theme struct {
	Title, Muted, Accent, Success, Error, Price lipgloss.Style
	Selected, Help                              lipgloss.Style
	Border                                      lipgloss.Border
	BorderColor                                 lipgloss.TerminalColor
	SymOK, SymFail, SymCart                     string
}

var current = classic()

// SetTheme switches between "classic" (default), "neon" and "mono".
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Price:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔",
		SymFail:     "✖",
		SymCart:     "🛒",
	}
}

func neon() Theme {
	t := classic()
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	t.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	t.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	t.Price = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	t.BorderColor = lipgloss.Color("201")
	return t
}

// mono is for logs and pipes: no color, ASCII symbols.
func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:       plain.Bold(true),
		Muted:       plain,
		Accent:      plain,
		Success:     plain,
		Error:       plain,
		Price:       plain,
		Selected:    plain.Reverse(true),
		Help:        plain,
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.NoColor{},
		SymOK:       "ok",
		SymFail:     "error:",
		SymCart:     "cart",
	}
}

// Current exposes the active theme to renderers.
func Current() Theme { return current }
