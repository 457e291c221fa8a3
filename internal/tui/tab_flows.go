package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

// flowRow is one day that moves money.
type flowRow struct {
	Date    model.Date
	Inflow  float64
	Outflow float64
	Balance float64
	Lowest  bool
}

func buildFlowRows(r projection.Result) []flowRow {
	days := pipeline.FlowDays(r)
	rows := make([]flowRow, len(days))
	for i, p := range days {
		rows[i] = flowRow{
			Date:    p.Date,
			Inflow:  p.Inflow,
			Outflow: p.Outflow,
			Balance: p.Balance,
			Lowest:  p.Date.Equal(r.LowestDate),
		}
	}
	return rows
}

// moneyWidth is the money column width for a content width.
func moneyWidth(width int) int {
	if width > 0 && width < 90 {
		return 12
	}
	return 14
}

func flowColumns(width int) []table.Column {
	money := moneyWidth(width)
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Day", Width: 4},
		{Title: "In", Width: money},
		{Title: "Out", Width: money},
		{Title: "Net", Width: money},
		{Title: "Balance", Width: money},
		{Title: "", Width: 6},
	}
}

func flowTableRows(rows []flowRow, moneyW int) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		in, outflow := "", ""
		if r.Inflow != 0 {
			in = cli.FormatMoney(r.Inflow)
		}
		if r.Outflow != 0 {
			outflow = cli.FormatMoney(r.Outflow)
		}
		mark := ""
		switch {
		case r.Lowest:
			mark = "lowest"
		case r.Balance < 0:
			mark = "short"
		}
		out[i] = table.Row{
			r.Date.String(),
			cli.FormatDayOfWeek(int(r.Date.Weekday())),
			fmt.Sprintf("%*s", moneyW, in),
			fmt.Sprintf("%*s", moneyW, outflow),
			fmt.Sprintf("%*s", moneyW, cli.FormatSignedMoney(r.Inflow-r.Outflow)),
			fmt.Sprintf("%*s", moneyW, cli.FormatMoney(r.Balance)),
			mark,
		}
	}
	return out
}

func newFlowsTable() table.Model {
	tbl := table.New(
		table.WithColumns(flowColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tbl.SetStyles(flowTableStyles())
	return tbl
}

func flowTableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		Background(t.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary).Background(t.Surface)
	s.Selected = s.Selected.Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	return s
}

// resizeFlows fits the table to the current window.
func (a *App) resizeFlows() {
	cw := a.contentWidth()
	a.flows.SetColumns(flowColumns(cw))
	a.flows.SetRows(flowTableRows(a.flowDays, moneyWidth(cw)))
	a.flows.SetWidth(components.CardInnerWidth(cw))
	// tab bar + pill + status bar + card chrome + totals line + hint
	a.flows.SetHeight(max(a.height-12, 3))
	a.flows.SetStyles(flowTableStyles())
}

func (a App) renderFlowsTab(cw, h int) string {
	t := theme.Active
	lr, ok := a.current()
	if !ok {
		return a.renderScenarioError(cw)
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.flowDays) == 0 {
		return components.ContentCard("Flows", mutedStyle.Render("No money moves inside the horizon"), cw)
	}

	inStyle := lipgloss.NewStyle().Foreground(t.Income).Background(t.Surface)
	outStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)

	var body strings.Builder
	body.WriteString(a.flows.View())
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("Total in "))
	body.WriteString(inStyle.Render(cli.FormatMoney(lr.Summary.TotalInflow)))
	body.WriteString(mutedStyle.Render("  ·  out "))
	body.WriteString(outStyle.Render(cli.FormatMoney(lr.Summary.TotalOutflow)))
	body.WriteString(mutedStyle.Render(fmt.Sprintf("  ·  row %d/%d", a.flows.Cursor()+1, len(a.flowDays))))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("[j/k] scroll  [g/G] top/bottom  [[/]] scenario"))

	title := fmt.Sprintf("Flows · %s (%d days)", lr.Data.Scenario.Name, len(a.flowDays))
	return truncateHeight(components.ContentCard(title, body.String(), cw), h)
}
