package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

func (a App) renderScenariosTab(cw int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	activeStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	if len(a.results) == 0 {
		return components.ContentCard("Scenarios", mutedStyle.Render("No scenarios yet. Create one with `runway scenario create <name>`."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	nameW := max(innerW-2-2-13*3-6, 12)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s  %13s%13s%13s %5s", nameW, "Scenario", "Balance", "Lowest", "Ending", "Short")))
	body.WriteString("\n")

	for i, lr := range a.results {
		name := truncStr(lr.Data.Scenario.Name, nameW)
		marker := "  "
		if i == a.active {
			marker = "● "
		}

		var line string
		if lr.Err != nil {
			line = fmt.Sprintf("%-*s  %s", nameW, name, truncStr(lr.Err.Error(), innerW-nameW-6))
		} else {
			s := lr.Summary
			short := "-"
			if s.DaysBelowZero > 0 {
				short = fmt.Sprintf("%dd", s.DaysBelowZero)
			}
			line = fmt.Sprintf("%-*s  %13s%13s%13s %5s", nameW, name,
				cli.FormatMoney(s.CurrentBalance),
				cli.FormatMoney(s.LowestBalance),
				cli.FormatMoney(s.EndingBalance),
				short)
		}

		switch {
		case i == a.scenCursor:
			body.WriteString(markerStyle.Render("▸ "))
			body.WriteString(selectedStyle.Render(line))
			if pad := innerW - 2 - lipgloss.Width(line); pad > 0 {
				body.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		case lr.Err != nil:
			body.WriteString(activeStyle.Render(marker))
			body.WriteString(errStyle.Render(line))
		default:
			body.WriteString(activeStyle.Render(marker))
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("[j/k] navigate  [Enter] view scenario  [[/]] cycle"))

	var b strings.Builder
	b.WriteString(components.ContentCard(fmt.Sprintf("Scenarios (%d)", len(a.results)), body.String(), cw))

	// Runway comparison for the highlighted scenario.
	if a.scenCursor < len(a.results) && a.results[a.scenCursor].Err == nil {
		lr := a.results[a.scenCursor]
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Runway · "+lr.Data.Scenario.Name, a.renderRunwayBody(lr, cw), cw))
	}

	return b.String()
}
