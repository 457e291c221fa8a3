package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/projection"
	"github.com/runwayhq/runway/internal/store"
)

var (
	paycheckName     string
	paycheckAmount   string
	paycheckSchedule string
	paycheckNext     string
)

var paycheckCmd = &cobra.Command{
	Use:     "paycheck",
	Aliases: []string{"paychecks", "pay"},
	Short:   "Manage recurring income",
	RunE:    runPaycheckList,
}

var paycheckAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a paycheck",
	Long:  "Add a recurring paycheck. Schedules: weekly, biweekly, semimonthly, monthly, quarterly. Unknown schedules repeat every 30 days.",
	RunE:  runPaycheckAdd,
}

var paycheckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paychecks in the scenario",
	RunE:  runPaycheckList,
}

var paycheckRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a paycheck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeEntity(cmd.Context(), store.KindPaycheck, args[0])
	},
}

func init() {
	paycheckAddCmd.Flags().StringVar(&paycheckName, "name", "", "Label, e.g. employer")
	paycheckAddCmd.Flags().StringVar(&paycheckAmount, "amount", "", "Net amount per paycheck (required)")
	paycheckAddCmd.Flags().StringVar(&paycheckSchedule, "schedule", "biweekly", "Pay schedule")
	paycheckAddCmd.Flags().StringVar(&paycheckNext, "next", "", "Next pay date, YYYY-MM-DD (default today)")

	paycheckCmd.AddCommand(paycheckAddCmd, paycheckListCmd, paycheckRmCmd)
	rootCmd.AddCommand(paycheckCmd)
}

func runPaycheckAdd(cmd *cobra.Command, _ []string) error {
	amount, err := parseMoney("amount", paycheckAmount)
	if err != nil {
		return err
	}
	next, err := parseDateFlag("next", paycheckNext)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		p, err := st.AddPaycheck(ctx, model.Paycheck{
			ScenarioID: sc.ID,
			Name:       paycheckName,
			Amount:     amount,
			Schedule:   strings.ToLower(strings.TrimSpace(paycheckSchedule)),
			NextDate:   next,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added %s paycheck of %s starting %s (every %d days)\n",
			p.Schedule, cli.FormatMoney(amount.InexactFloat64()), p.NextDate, projection.PaycheckStep(p.Schedule))
		return nil
	})
}

func runPaycheckList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		paychecks, err := st.ListPaychecks(ctx, sc.ID)
		if err != nil {
			return err
		}
		if len(paychecks) == 0 {
			fmt.Printf("\n  No paychecks in %q.\n", sc.Name)
			return nil
		}

		rows := make([][]string, 0, len(paychecks))
		for _, p := range paychecks {
			rows = append(rows, []string{
				orDash(p.Name), p.ID,
				cli.FormatMoney(p.Amount.InexactFloat64()),
				p.Schedule, p.NextDate.String(),
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Paychecks · " + sc.Name,
			Headers: []string{"Name", "ID", "Amount", "Schedule", "Next"},
			Rows:    rows,
		}))
		return nil
	})
}
