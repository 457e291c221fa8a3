package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
)

var (
	dailyAll bool
	dailyBy  string
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Day-by-day projection table",
	Long:  "Show projected days that move money plus the lowest-balance day. Use --all for every day or --by to roll up weeks or months.",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().BoolVar(&dailyAll, "all", false, "Show every day, including days without flows")
	dailyCmd.Flags().StringVar(&dailyBy, "by", "", "Roll up by week or month")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	var period pipeline.Period
	switch dailyBy {
	case "":
	case "week", "weekly":
		period = pipeline.PeriodWeek
	case "month", "monthly":
		period = pipeline.PeriodMonth
	default:
		return fmt.Errorf("--by must be week or month, got %q", dailyBy)
	}

	lr, _, err := loadProjection(cmd.Context())
	if err != nil {
		return err
	}
	if printEmptyHint(lr) {
		return nil
	}

	if period != "" {
		return printRollup(lr, period)
	}

	days := lr.Result.Series
	if !dailyAll {
		days = pipeline.FlowDays(lr.Result)
	}
	if len(days) == 0 {
		fmt.Println("\n  No money moves inside the horizon.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY  %s  Next %dd", lr.Data.Scenario.Name, lr.Summary.HorizonDays)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Inflow", "Outflow", "Balance", ""},
		Rows:    dailyRows(days, lr.Result),
	}))

	if !dailyAll {
		fmt.Printf("\n  %s\n", cli.Muted(fmt.Sprintf("%d of %d days shown. Use --all for every day.", len(days), len(lr.Result.Series))))
	}
	return nil
}

func dailyRows(days []projection.Point, r projection.Result) [][]string {
	rows := make([][]string, 0, len(days))
	for _, p := range days {
		note := ""
		switch {
		case p.Date.Equal(r.LowestDate):
			note = cli.Warn("lowest")
		case p.Balance < 0:
			note = cli.Warn("short")
		}
		rows = append(rows, []string{
			p.Date.String(),
			cli.FormatDayOfWeek(int(p.Date.Weekday())),
			blankZero(p.Inflow),
			blankZero(p.Outflow),
			cli.Money(p.Balance),
			note,
		})
	}
	return rows
}

func printRollup(lr *pipeline.LoadResult, period pipeline.Period) error {
	buckets := pipeline.Rollup(lr.Result, period)
	if len(buckets) == 0 {
		fmt.Println("\n  No projected days.")
		return nil
	}

	label := "WEEKLY"
	if period == pipeline.PeriodMonth {
		label = "MONTHLY"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s  Next %dd", label, lr.Data.Scenario.Name, lr.Summary.HorizonDays)))
	fmt.Println()

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			b.Start.String(),
			blankZero(b.Inflow),
			blankZero(b.Outflow),
			cli.SignedMoney(b.Net()),
			cli.Money(b.MinBalance),
			cli.Money(b.ClosingBalance),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Starting", "Inflow", "Outflow", "Net", "Low", "Closing"},
		Rows:    rows,
	}))
	return nil
}

func blankZero(v float64) string {
	if v == 0 {
		return ""
	}
	return cli.FormatMoney(v)
}
