package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	lr, ok := a.current()
	if !ok {
		return a.renderScenarioError(cw)
	}
	s := lr.Summary
	var b strings.Builder

	// Row 1: Metric cards
	lowTone := components.ToneFor(s.LowestBalance)
	if lowTone != components.ToneNegative && s.LowestBalance < a.opts.Threshold {
		lowTone = components.ToneWarning
	}
	metrics := []components.Metric{
		{
			Label: "Balance",
			Value: cli.FormatMoney(s.CurrentBalance),
			Delta: cli.FormatSignedMoney(s.Delta30d) + " in 30d",
			Tone:  components.ToneFor(s.CurrentBalance),
		},
		{
			Label: "Lowest",
			Value: cli.FormatMoney(s.LowestBalance),
			Delta: "on " + s.LowestDate.String(),
			Tone:  lowTone,
		},
		{
			Label: "Ending",
			Value: cli.FormatMoney(s.EndingBalance),
			Delta: fmt.Sprintf("after %s", cli.FormatDays(s.HorizonDays)),
			Tone:  components.ToneFor(s.EndingBalance),
		},
		{
			Label: "Net Flow",
			Value: cli.FormatSignedMoney(s.TotalInflow - s.TotalOutflow),
			Delta: fmt.Sprintf("%s in · %s out", cli.FormatCompactMoney(s.TotalInflow), cli.FormatCompactMoney(s.TotalOutflow)),
			Tone:  components.ToneFor(s.TotalInflow - s.TotalOutflow),
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: balance chart
	if len(lr.Result.Series) > 0 {
		vals := make([]float64, len(lr.Result.Series))
		for i, p := range lr.Result.Series {
			vals[i] = p.Balance
		}
		chartH := 12
		if a.isCompactLayout() {
			chartH = 8
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Projected Balance (%dd)", s.HorizonDays),
			components.BalanceChart(vals, chartDateLabels(lr.Result.Series), components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: runway + weekly rollup
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Runway", a.renderRunwayBody(lr, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Weeks", renderPeriodRows(a.weeks, 8), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Runway", a.renderRunwayBody(lr, halves[0]), halves[0]),
			components.ContentCard("Weeks", renderPeriodRows(a.weeks, 8), halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderRunwayBody(lr pipeline.LoadResult, outerW int) string {
	t := theme.Active
	s := lr.Summary
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	solvent := s.HorizonDays
	if !s.FirstBelowZero.IsZero() && len(lr.Result.Series) > 0 {
		solvent = s.FirstBelowZero.DaysSince(lr.Result.Series[0].Date)
	}

	var b strings.Builder
	b.WriteString(components.RunwayBar(solvent, s.HorizonDays, max(components.CardInnerWidth(outerW)-20, 10)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Days below zero:  "))
	if s.DaysBelowZero > 0 {
		b.WriteString(warnStyle.Render(cli.FormatDays(s.DaysBelowZero)))
	} else {
		b.WriteString(valueStyle.Render("none"))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Active flow days: "))
	b.WriteString(valueStyle.Render(cli.FormatNumber(int64(s.ActiveFlowDays))))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Largest outflow:  "))
	if s.LargestOutflow > 0 {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%s on %s", cli.FormatMoney(s.LargestOutflow), s.LargestOutflowOn)))
	} else {
		b.WriteString(valueStyle.Render("none"))
	}
	if a.opts.Threshold != 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Alert threshold:  "))
		b.WriteString(valueStyle.Render(cli.FormatMoney(a.opts.Threshold)))
	}
	return b.String()
}

// renderPeriodRows lists up to limit rollup buckets with net flow and
// closing balance.
func renderPeriodRows(periods []pipeline.PeriodStats, limit int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	if len(periods) == 0 {
		return dateStyle.Render("No projected days")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %12s %12s", "Starting", "Net", "Closing")))
	for i, p := range periods {
		if i >= limit {
			b.WriteString("\n")
			b.WriteString(dateStyle.Render(fmt.Sprintf("+%d more", len(periods)-limit)))
			break
		}
		netStyle := lipgloss.NewStyle().Foreground(t.ForAmount(p.Net())).Background(t.Surface)
		closeStyle := lipgloss.NewStyle().Foreground(t.ForAmount(p.MinBalance)).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(dateStyle.Render(fmt.Sprintf("%-10s", p.Start)))
		b.WriteString(space.Render(" "))
		b.WriteString(netStyle.Render(fmt.Sprintf("%12s", cli.FormatSignedMoney(p.Net()))))
		b.WriteString(space.Render(" "))
		b.WriteString(closeStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(p.ClosingBalance))))
	}
	return b.String()
}

func (a App) renderScenarioError(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if a.active < len(a.results) && a.results[a.active].Err != nil {
		return components.ContentCard("Error", muted.Render(a.results[a.active].Err.Error()), cw)
	}
	return components.ContentCard("No scenarios", muted.Render("Create one with `runway scenario create <name>`"), cw)
}

// chartDateLabels labels the first day of each month plus the first and last
// days of the series.
func chartDateLabels(series []projection.Point) []string {
	labels := make([]string, len(series))
	for i, p := range series {
		switch {
		case i == 0 || i == len(series)-1:
			labels[i] = shortDate(p.Date)
		case p.Date.Day() == 1:
			labels[i] = p.Date.Format("Jan")
		}
	}
	return labels
}

func shortDate(d model.Date) string {
	return d.Format("Jan 2")
}
