package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/store"
)

var (
	cardName   string
	cardDue    string
	cardAmount string
	cardAvg    string
)

var cardCmd = &cobra.Command{
	Use:     "card",
	Aliases: []string{"cards"},
	Short:   "Manage credit card payments",
	RunE:    runCardList,
}

var cardAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a credit card",
	Long:  "Add a credit card. The next statement pays --amount on --due; every 30 days after that pays --avg.",
	RunE:  runCardAdd,
}

var cardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List credit cards in the scenario",
	RunE:  runCardList,
}

var cardRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a credit card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeEntity(cmd.Context(), store.KindCreditCard, args[0])
	},
}

func init() {
	cardAddCmd.Flags().StringVar(&cardName, "name", "", "Card name (required)")
	cardAddCmd.Flags().StringVar(&cardDue, "due", "", "Next due date, YYYY-MM-DD (default today)")
	cardAddCmd.Flags().StringVar(&cardAmount, "amount", "", "Next statement amount (required)")
	cardAddCmd.Flags().StringVar(&cardAvg, "avg", "", "Average future statement (default --amount)")

	cardCmd.AddCommand(cardAddCmd, cardListCmd, cardRmCmd)
	rootCmd.AddCommand(cardCmd)
}

func runCardAdd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(cardName) == "" {
		return fmt.Errorf("--name is required")
	}
	amount, err := parseMoney("amount", cardAmount)
	if err != nil {
		return err
	}
	avg := amount
	if cardAvg != "" {
		if avg, err = parseMoney("avg", cardAvg); err != nil {
			return err
		}
	}
	due, err := parseDateFlag("due", cardDue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		c, err := st.AddCreditCard(ctx, model.CreditCard{
			ScenarioID:      sc.ID,
			Name:            cardName,
			NextDueDate:     due,
			NextDueAmount:   amount,
			AvgFutureAmount: avg,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added card %q: %s due %s, then %s every 30 days\n",
			c.Name, cli.FormatMoney(amount.InexactFloat64()), c.NextDueDate, cli.FormatMoney(avg.InexactFloat64()))
		return nil
	})
}

func runCardList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		cards, err := st.ListCreditCards(ctx, sc.ID)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Printf("\n  No credit cards in %q.\n", sc.Name)
			return nil
		}

		rows := make([][]string, 0, len(cards))
		for _, c := range cards {
			rows = append(rows, []string{
				c.Name, c.ID, c.NextDueDate.String(),
				cli.FormatMoney(c.NextDueAmount.InexactFloat64()),
				cli.FormatMoney(c.AvgFutureAmount.InexactFloat64()),
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Credit Cards · " + sc.Name,
			Headers: []string{"Name", "ID", "Due", "Next", "Avg"},
			Rows:    rows,
		}))
		return nil
	})
}
