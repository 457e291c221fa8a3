package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/store"
)

var (
	accountName    string
	accountBalance string
)

var accountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"accounts"},
	Short:   "Manage cash accounts",
	RunE:    runAccountList,
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account with its current balance",
	RunE:  runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts in the scenario",
	RunE:  runAccountList,
}

var accountRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeEntity(cmd.Context(), store.KindAccount, args[0])
	},
}

func init() {
	accountAddCmd.Flags().StringVar(&accountName, "name", "Checking", "Account name")
	accountAddCmd.Flags().StringVar(&accountBalance, "balance", "", "Current balance (required)")

	accountCmd.AddCommand(accountAddCmd, accountListCmd, accountRmCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountAdd(cmd *cobra.Command, _ []string) error {
	balance, err := parseMoney("balance", accountBalance)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		a, err := st.AddAccount(ctx, model.Account{ScenarioID: sc.ID, Name: accountName, CurrentBalance: balance})
		if err != nil {
			return err
		}
		fmt.Printf("  Added account %q (%s) to %q\n", a.Name, cli.FormatMoney(balance.InexactFloat64()), sc.Name)
		return nil
	})
}

func runAccountList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(st *store.Store, sc model.Scenario) error {
		accounts, err := st.ListAccounts(ctx, sc.ID)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Printf("\n  No accounts in %q. Add one with `runway account add --balance <amount>`.\n", sc.Name)
			return nil
		}

		rows := make([][]string, 0, len(accounts)+2)
		for _, a := range accounts {
			rows = append(rows, []string{orDash(a.Name), a.ID, cli.Money(a.CurrentBalance.InexactFloat64())})
		}
		total := model.TotalBalance(accounts).InexactFloat64()
		rows = append(rows, []string{cli.Separator}, []string{"Total", "", cli.Money(total)})

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Accounts · " + sc.Name,
			Headers: []string{"Name", "ID", "Balance"},
			Rows:    rows,
		}))
		return nil
	})
}
