package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// scenario and data age on the right.
func RenderStatusBar(width int, scenario, dataAge string, refreshing bool) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" [?]help  [r]efresh  [q]uit")

	var right string
	if refreshing {
		right = accentStyle.Render("refreshing… ")
	} else {
		if scenario != "" {
			right = accentStyle.Render(scenario) + dimStyle.Render(" · ")
		}
		if dataAge != "" {
			right += dimStyle.Render("loaded "+dataAge) + barStyle.Render(" ")
		}
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + barStyle.Render(strings.Repeat(" ", padding)) + right
}
