package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals, true).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled. Nothing was saved.")
			return nil
		}
		return err
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())

	balance, ok, err := vals.Balance()
	if err != nil {
		return fmt.Errorf("parsing starting balance: %w", err)
	}
	if ok {
		if err := cli.SetLocale(cfg.Appearance.Locale); err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx := cmd.Context()
		sc, err := selectScenario(ctx, st, cfg)
		if err != nil {
			return err
		}
		a, err := st.AddAccount(ctx, model.Account{ScenarioID: sc.ID, Name: "Checking", CurrentBalance: balance})
		if err != nil {
			return err
		}
		fmt.Printf("  Added account %q with %s to %q\n", a.Name, cli.FormatMoney(balance.InexactFloat64()), sc.Name)
	}

	fmt.Println("  Next: `runway paycheck add`, `runway card add`, then `runway` for your runway.")
	fmt.Println()
	return nil
}
