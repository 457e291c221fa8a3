// Package cmd implements the runway CLI commands.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/logging"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/store"
)

var (
	flagDB       string
	flagScenario string
	flagHorizon  int
	flagToday    string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "runway",
	Short:         "Cash runway projections",
	Long:          "Project your day-by-day balance from accounts, paychecks, credit cards and life events.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "s", "", "Scenario name or id")
	rootCmd.PersistentFlags().IntVarP(&flagHorizon, "horizon", "n", 0, "Projection horizon in days (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Project from this date instead of today (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig loads config.toml and applies command-line overrides. A broken
// config file is reported and replaced by defaults so read-only commands
// still work.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %s (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if flagHorizon > 0 {
		cfg.General.HorizonDays = flagHorizon
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if err := cli.SetLocale(cfg.Appearance.Locale); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %s\n", err)
	}
	return cfg
}

func newLogger(cfg config.Config) *logrus.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

// openStore opens the configured database.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}

// projectionOptions returns the window selected by flags and config.
func projectionOptions(cfg config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{Today: model.Today(), HorizonDays: cfg.General.HorizonDays}
	if flagToday != "" {
		d, err := model.ParseDate(flagToday)
		if err != nil {
			return opts, fmt.Errorf("parsing --today: %w", err)
		}
		opts.Today = d
	}
	return opts, nil
}

// scenarioRef returns the scenario the user asked for: the --scenario flag,
// then the configured default. Empty means "the first scenario".
func scenarioRef(cfg config.Config) string {
	if flagScenario != "" {
		return flagScenario
	}
	return cfg.General.DefaultScenario
}

// selectScenario resolves the active scenario, creating the starter
// scenario on first use.
func selectScenario(ctx context.Context, st *store.Store, cfg config.Config) (model.Scenario, error) {
	if ref := scenarioRef(cfg); ref != "" {
		sc, err := st.ResolveScenario(ctx, ref)
		if errors.Is(err, store.ErrNotFound) {
			return sc, fmt.Errorf("%w (see `runway scenario list`)", err)
		}
		return sc, err
	}

	sc, created, err := st.EnsureStarterScenario(ctx)
	if err != nil {
		return sc, err
	}
	if created && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Created scenario %q. Add accounts with `runway account add`.\n", sc.Name)
	}
	return sc, nil
}

// loadProjection is the shared data loading path used by the report
// commands: open the store, pick the scenario, project it.
func loadProjection(ctx context.Context) (*pipeline.LoadResult, config.Config, error) {
	cfg := loadConfig()
	opts, err := projectionOptions(cfg)
	if err != nil {
		return nil, cfg, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, cfg, err
	}
	defer func() { _ = st.Close() }()

	sc, err := selectScenario(ctx, st, cfg)
	if err != nil {
		return nil, cfg, err
	}

	lr, err := pipeline.Load(ctx, st, sc.ID, opts)
	if err != nil {
		return nil, cfg, err
	}
	return lr, cfg, nil
}

// withStore runs fn against an open store and the active scenario.
func withStore(ctx context.Context, fn func(st *store.Store, sc model.Scenario) error) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := selectScenario(ctx, st, cfg)
	if err != nil {
		return err
	}
	return fn(st, sc)
}

func printEmptyHint(lr *pipeline.LoadResult) bool {
	if !lr.Data.Empty() {
		return false
	}
	fmt.Printf("\n  Scenario %q is empty.\n", lr.Data.Scenario.Name)
	fmt.Println("  Add an account with `runway account add --balance 2500`, then paychecks and cards.")
	return true
}

// loadAllScenarios projects every scenario, reporting progress on stderr.
func loadAllScenarios(ctx context.Context, st *store.Store, opts pipeline.Options) ([]pipeline.LoadResult, error) {
	progressFn := func(current, total int) {
		if flagQuiet || total < 5 {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Projecting [%d/%d]", current, total)
		if current == total {
			fmt.Fprint(os.Stderr, "\r                        \r")
		}
	}
	return pipeline.LoadAll(ctx, st, opts, progressFn)
}

// confirm asks a yes/no question on stdin. Anything but y/yes is no.
func confirm(prompt string) bool {
	fmt.Printf("  %s [y/N] ", prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
