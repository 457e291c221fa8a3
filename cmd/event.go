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
	eventType       string
	eventLabel      string
	eventAmount     string
	eventStart      string
	eventEnd        string
	eventRecurrence string
	eventPaycheck   string
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"events"},
	Short:   "Manage life events",
	RunE:    runEventList,
}

var eventAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a one-off or recurring life event",
	Long: `Add a life event. Amounts are unsigned: types containing income, raise,
bonus, gift or refund are inflows, everything else is an outflow.
Recurrence: once (default), weekly, biweekly, monthly, yearly.`,
	RunE: runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List life events in the scenario",
	RunE:  runEventList,
}

var eventRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a life event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeEntity(cmd.Context(), store.KindLifeEvent, args[0])
	},
}

func init() {
	eventAddCmd.Flags().StringVar(&eventType, "type", "", "Event type, e.g. rent, bonus, tuition (required)")
	eventAddCmd.Flags().StringVar(&eventLabel, "label", "", "Display label (default --type)")
	eventAddCmd.Flags().StringVar(&eventAmount, "amount", "", "Amount per occurrence (required)")
	eventAddCmd.Flags().StringVar(&eventStart, "start", "", "First occurrence, YYYY-MM-DD (default today)")
	eventAddCmd.Flags().StringVar(&eventEnd, "end", "", "Last possible occurrence, YYYY-MM-DD")
	eventAddCmd.Flags().StringVar(&eventRecurrence, "recurrence", "once", "once, weekly, biweekly, monthly or yearly")
	eventAddCmd.Flags().StringVar(&eventPaycheck, "paycheck", "", "Related paycheck id")

	eventCmd.AddCommand(eventAddCmd, eventListCmd, eventRmCmd)
	rootCmd.AddCommand(eventCmd)
}

func runEventAdd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(eventType) == "" {
		return fmt.Errorf("--type is required")
	}
	amount, err := parseMoney("amount", eventAmount)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("--amount must not be negative; the sign comes from --type")
	}
	start, err := parseDateFlag("start", eventStart)
	if err != nil {
		return err
	}
	var end *model.Date
	if eventEnd != "" {
		d, err := parseDateFlag("end", eventEnd)
		if err != nil {
			return err
		}
		if d.Before(start) {
			return fmt.Errorf("--end %s is before --start %s", d, start)
		}
		end = &d
	}

	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		e, err := st.AddLifeEvent(ctx, model.LifeEvent{
			ScenarioID:        sc.ID,
			RelatedPaycheckID: eventPaycheck,
			Type:              eventType,
			Label:             eventLabel,
			Amount:            amount,
			StartDate:         start,
			EndDate:           end,
			Recurrence:        strings.ToLower(strings.TrimSpace(eventRecurrence)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added %s %q of %s starting %s (%s)\n",
			eventDirection(e.Type), orDash(e.Label), cli.FormatMoney(amount.InexactFloat64()), e.StartDate, e.Recurrence)
		return nil
	})
}

func runEventList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		events, err := st.ListLifeEvents(ctx, sc.ID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Printf("\n  No life events in %q.\n", sc.Name)
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			amount := e.Amount.InexactFloat64()
			if !projection.IsIncome(e.Type) {
				amount = -amount
			}
			end := "-"
			if e.EndDate != nil {
				end = e.EndDate.String()
			}
			rows = append(rows, []string{
				orDash(e.Label), e.ID, e.Type,
				cli.SignedMoney(amount),
				e.StartDate.String(), end, e.Recurrence,
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Life Events · " + sc.Name,
			Headers: []string{"Label", "ID", "Type", "Amount", "Start", "End", "Repeats"},
			Rows:    rows,
		}))
		return nil
	})
}

func eventDirection(eventType string) string {
	if projection.IsIncome(eventType) {
		return "inflow"
	}
	return "outflow"
}
