package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
)

var (
	chartWidth  int
	chartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Balance trajectory chart",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().IntVar(&chartWidth, "width", 72, "Chart width in columns")
	chartCmd.Flags().IntVar(&chartHeight, "height", 12, "Chart height in rows")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	if chartWidth < 10 || chartHeight < 2 {
		return fmt.Errorf("chart needs --width >= 10 and --height >= 2")
	}

	lr, _, err := loadProjection(cmd.Context())
	if err != nil {
		return err
	}
	series := lr.Result.Series
	if len(series) == 0 {
		fmt.Println("\n  Nothing to chart.")
		return nil
	}

	vals := make([]float64, len(series))
	for i, p := range series {
		vals[i] = p.Balance
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BALANCE  %s  Next %dd", lr.Data.Scenario.Name, lr.Summary.HorizonDays)))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.RenderSparkline(cli.Downsample(vals, chartWidth)))
	fmt.Print(cli.RenderBalanceChart(vals, chartWidth, chartHeight))
	fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("%s → %s   lowest %s on %s",
		series[0].Date, series[len(series)-1].Date,
		cli.FormatMoney(lr.Summary.LowestBalance), lr.Summary.LowestDate)))
	return nil
}
