package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accent   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	muted    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	danger   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	selectBg = lipgloss.AdaptiveColor{Light: "#EDE9FE", Dark: "#3B2F5E"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(accent)

	selectedStyle = lipgloss.NewStyle().
			Background(selectBg).
			Foreground(accent).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(muted)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(muted)

	activeLabelStyle = labelStyle.
				Foreground(accent)

	statusStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	errorPopupStyle = popupStyle.
			BorderForeground(danger)

	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(danger)

	// priorityColors is keyed by API priority (4 = urgent).
	priorityColors = map[int]lipgloss.AdaptiveColor{
		4: {Light: "#DC2626", Dark: "#F87171"},
		3: {Light: "#D97706", Dark: "#FBBF24"},
		2: {Light: "#2563EB", Dark: "#60A5FA"},
	}
)

// applyColorProfile honors NO_COLOR and otherwise keeps termenv's guess,
// upgraded to 256 colors when TERM says so.
func applyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	if profile == termenv.ANSI && strings.Contains(os.Getenv("TERM"), "256color") {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
