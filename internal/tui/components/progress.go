package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/tui/theme"
)

// ProgressBar renders a loading bar with a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := min(max(int(pct*float64(width)), 0), width)

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// RunwayColor returns the bar color for the share of the horizon a scenario
// stays solvent: green when it never dips, shading to red as the first
// negative day approaches.
func RunwayColor(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Income
	case pct >= 0.5:
		return t.Yellow
	case pct >= 0.25:
		return t.Orange
	default:
		return t.Expense
	}
}

// RunwayBar renders how many of the horizon's days pass before the balance
// first goes negative. solventDays == horizonDays means it never does.
func RunwayBar(solventDays, horizonDays, barWidth int) string {
	t := theme.Active

	pct := 1.0
	if horizonDays > 0 {
		pct = float64(solventDays) / float64(horizonDays)
	}
	pct = min(max(pct, 0), 1)
	color := RunwayColor(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	label := "no shortfall"
	if pct < 1 {
		label = fmt.Sprintf("%dd until short", solventDays)
	}

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + labelStyle.Render(label)
}
