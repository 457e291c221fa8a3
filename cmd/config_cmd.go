package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Horizon days:     %d\n", cfg.General.HorizonDays)
	fmt.Printf("    Database:         %s\n", cfg.DBPath())
	if cfg.General.DefaultScenario != "" {
		fmt.Printf("    Default scenario: %s\n", cfg.General.DefaultScenario)
	} else {
		fmt.Println("    Default scenario: first scenario")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:  %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Locale: %s\n", cfg.Appearance.Locale)
	fmt.Println()

	fmt.Println("  [Alerts]")
	fmt.Printf("    Low balance threshold: %s\n", cli.FormatMoney(cfg.Alerts.LowBalanceThreshold))
	if cfg.Alerts.EmailEnabled() {
		fmt.Printf("    Email:    %s via %s:%d\n", cfg.Alerts.EmailTo, cfg.Alerts.SMTPHost, cfg.Alerts.SMTPPort)
		if cfg.Alerts.SMTPUsername != "" {
			fmt.Printf("    SMTP user: %s (password %s)\n", cfg.Alerts.SMTPUsername, maskSecret(cfg.Alerts.SMTPPassword))
		}
	} else {
		fmt.Println("    Email:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule:      %s\n", cfg.Daemon.Schedule)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  Run `runway setup` to reconfigure.")
	return nil
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "not set"
	case len(s) > 8:
		return s[:2] + "..." + s[len(s)-2:]
	default:
		return "****"
	}
}
