package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline projection for the selected scenario",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	lr, cfg, err := loadProjection(cmd.Context())
	if err != nil {
		return err
	}
	if printEmptyHint(lr) {
		return nil
	}

	s := lr.Summary
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RUNWAY  %s  Next %dd", lr.Data.Scenario.Name, s.HorizonDays)))
	fmt.Println()

	lowest := fmt.Sprintf("%s  on %s", cli.Money(s.LowestBalance), s.LowestDate)
	if s.LowestBalance < cfg.Alerts.LowBalanceThreshold {
		lowest += cli.Warn("  below threshold")
	}

	firstShort := cli.Muted("never")
	if !s.FirstBelowZero.IsZero() {
		firstShort = cli.Warn(s.FirstBelowZero.String())
	}

	largest := cli.Muted("none")
	if s.LargestOutflow > 0 {
		largest = fmt.Sprintf("%s  on %s", cli.FormatMoney(s.LargestOutflow), s.LargestOutflowOn)
	}

	rows := [][]string{
		{"Current Balance", cli.Money(s.CurrentBalance)},
		{"30-Day Change", cli.SignedMoney(s.Delta30d)},
		{cli.Separator},
		{"Lowest Balance", lowest},
		{"Ending Balance", cli.Money(s.EndingBalance)},
		{cli.Separator},
		{"Total Inflow", cli.FormatMoney(s.TotalInflow)},
		{"Total Outflow", cli.FormatMoney(s.TotalOutflow)},
		{"Net", cli.SignedMoney(s.TotalInflow - s.TotalOutflow)},
		{cli.Separator},
		{"Days Below Zero", cli.FormatDays(s.DaysBelowZero)},
		{"First Shortfall", firstShort},
		{"Largest Outflow", largest},
		{"Active Flow Days", cli.FormatNumber(int64(s.ActiveFlowDays))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(lr.Result.Series) > 0 {
		vals := make([]float64, len(lr.Result.Series))
		for i, p := range lr.Result.Series {
			vals[i] = p.Balance
		}
		fmt.Printf("\n  %s\n", cli.RenderSparkline(cli.Downsample(vals, 60)))
		fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("%s → %s", lr.Result.Series[0].Date, lr.Result.Series[len(vals)-1].Date)))
	}

	return nil
}
