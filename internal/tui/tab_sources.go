package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

func (a App) renderSourcesTab(cw int) string {
	t := theme.Active
	lr, ok := a.current()
	if !ok {
		return a.renderScenarioError(cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	inStyle := lipgloss.NewStyle().Foreground(t.Income).Background(t.Surface)
	outStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)

	kindColors := map[string]lipgloss.Color{
		"paycheck":    t.GreenBright,
		"credit_card": t.Magenta,
		"life_event":  t.Cyan,
	}

	innerW := components.CardInnerWidth(cw)
	fixed := 12 + 6 + 12 + 12 + 12 // kind, count, in, out, share
	labelW := max(innerW-fixed-5, 12)
	compact := a.isCompactLayout()
	if compact {
		labelW = max(innerW-12-6-12-3, 12)
	}

	var total float64
	for _, st := range a.sources {
		total += st.Inflow + st.Outflow
	}

	var body strings.Builder
	if len(a.sources) == 0 {
		body.WriteString(mutedStyle.Render("No paychecks, cards or events inside the horizon"))
	} else {
		if compact {
			body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-12s %6s %12s", labelW, "Source", "Kind", "Times", "Net")))
		} else {
			body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-12s %6s %12s %12s %12s", labelW, "Source", "Kind", "Times", "In", "Out", "Share")))
		}
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))

		for _, st := range a.sources {
			kindStyle := lipgloss.NewStyle().Foreground(kindColors[st.KindName]).Background(t.Surface)
			body.WriteString("\n")
			body.WriteString(rowStyle.Render(fmt.Sprintf("%-*s ", labelW, truncStr(st.Label, labelW))))
			body.WriteString(kindStyle.Render(fmt.Sprintf("%-12s ", st.KindName)))
			body.WriteString(rowStyle.Render(fmt.Sprintf("%6s ", cli.FormatNumber(int64(st.Occurrences)))))
			if compact {
				netStyle := lipgloss.NewStyle().Foreground(t.ForAmount(st.Net())).Background(t.Surface)
				body.WriteString(netStyle.Render(fmt.Sprintf("%12s", cli.FormatSignedMoney(st.Net()))))
				continue
			}
			body.WriteString(inStyle.Render(fmt.Sprintf("%12s ", moneyOrBlank(st.Inflow))))
			body.WriteString(outStyle.Render(fmt.Sprintf("%12s ", moneyOrBlank(st.Outflow))))
			share := 0.0
			if total > 0 {
				share = (st.Inflow + st.Outflow) / total
			}
			body.WriteString(mutedStyle.Render(fmt.Sprintf("%12s", cli.FormatPercent(share))))
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(fmt.Sprintf("Sources · %s", lr.Data.Scenario.Name), body.String(), cw))
	b.WriteString("\n")

	months := pipeline.Rollup(lr.Result, pipeline.PeriodMonth)
	b.WriteString(components.ContentCard("Months", renderPeriodRows(months, 12), cw))
	return b.String()
}

func moneyOrBlank(v float64) string {
	if v == 0 {
		return ""
	}
	return cli.FormatMoney(v)
}
