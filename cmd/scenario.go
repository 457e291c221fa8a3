package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/source"
)

var (
	scenarioDumpFormat string
	scenarioDeleteYes  bool
)

var scenarioCmd = &cobra.Command{
	Use:     "scenario",
	Aliases: []string{"scenarios"},
	Short:   "Manage scenarios",
	RunE:    runScenarioList,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios with their headline numbers",
	RunE:  runScenarioList,
}

var scenarioCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioCreate,
}

var scenarioDeleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a scenario and everything under it",
	Args:    cobra.ExactArgs(1),
	RunE:    runScenarioDelete,
}

var scenarioUseCmd = &cobra.Command{
	Use:   "use <name|id>",
	Short: "Make a scenario the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioUse,
}

var scenarioRenameCmd = &cobra.Command{
	Use:   "rename <name|id> <new-name>",
	Short: "Rename a scenario",
	Args:  cobra.ExactArgs(2),
	RunE:  runScenarioRename,
}

var scenarioDumpCmd = &cobra.Command{
	Use:   "dump [name|id]",
	Short: "Print a scenario as an importable TOML or JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScenarioDump,
}

func init() {
	scenarioDeleteCmd.Flags().BoolVarP(&scenarioDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
	scenarioDumpCmd.Flags().StringVarP(&scenarioDumpFormat, "format", "f", "toml", "Output format: toml or json")

	scenarioCmd.AddCommand(scenarioListCmd, scenarioCreateCmd, scenarioDeleteCmd,
		scenarioUseCmd, scenarioRenameCmd, scenarioDumpCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioList(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	opts, err := projectionOptions(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	results, err := loadAllScenarios(cmd.Context(), st, opts)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("\n  No scenarios yet. Create one with `runway scenario create <name>`.")
		return nil
	}

	active := ""
	if ref := scenarioRef(cfg); ref != "" {
		if sc, err := st.ResolveScenario(cmd.Context(), ref); err == nil {
			active = sc.ID
		}
	} else {
		active = results[0].Data.Scenario.ID
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIOS  Next %dd", opts.HorizonDays)))
	fmt.Println()

	rows := make([][]string, 0, len(results))
	for _, lr := range results {
		name := lr.Data.Scenario.Name
		if lr.Data.Scenario.ID == active {
			name = "* " + name
		}
		if lr.Err != nil {
			rows = append(rows, []string{name, lr.Data.Scenario.ID, cli.Warn(lr.Err.Error()), "", "", ""})
			continue
		}
		s := lr.Summary
		rows = append(rows, []string{
			name,
			lr.Data.Scenario.ID,
			cli.Money(s.CurrentBalance),
			cli.Money(s.LowestBalance),
			cli.Money(s.EndingBalance),
			cli.FormatNumber(int64(s.DaysBelowZero)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Scenario", "ID", "Balance", "Lowest", "Ending", "Days Short"},
		Rows:    rows,
	}))
	return nil
}

func runScenarioCreate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.CreateScenario(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Created scenario %q (%s)\n", sc.Name, sc.ID)
	return nil
}

func runScenarioDelete(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	sc, err := st.ResolveScenario(ctx, args[0])
	if err != nil {
		return err
	}

	if !scenarioDeleteYes && !confirm(fmt.Sprintf("Delete scenario %q and everything in it?", sc.Name)) {
		fmt.Println("  Cancelled.")
		return nil
	}

	if err := st.DeleteScenario(ctx, sc.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted scenario %q\n", sc.Name)

	// Forget the default if it pointed here.
	if cfg.General.DefaultScenario == sc.ID || strings.EqualFold(cfg.General.DefaultScenario, sc.Name) {
		saved, err := config.LoadFile()
		if err == nil {
			saved.General.DefaultScenario = ""
			err = config.Save(saved)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: could not clear default scenario: %s\n", err)
		}
	}
	return nil
}

func runScenarioUse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.ResolveScenario(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	saved, err := config.LoadFile()
	if err != nil {
		return err
	}
	saved.General.DefaultScenario = sc.ID
	if err := config.Save(saved); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Default scenario is now %q\n", sc.Name)
	return nil
}

func runScenarioRename(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	sc, err := st.ResolveScenario(ctx, args[0])
	if err != nil {
		return err
	}
	if err := st.RenameScenario(ctx, sc.ID, args[1]); err != nil {
		return err
	}
	fmt.Printf("  Renamed %q to %q\n", sc.Name, strings.TrimSpace(args[1]))
	return nil
}

func runScenarioDump(cmd *cobra.Command, args []string) error {
	format := source.Format(strings.ToLower(scenarioDumpFormat))
	if format != source.FormatTOML && format != source.FormatJSON {
		return fmt.Errorf("--format must be toml or json, got %q", scenarioDumpFormat)
	}
	if len(args) == 1 {
		flagScenario = args[0]
	}

	cfg := loadConfig()
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
	data, err := st.LoadScenario(ctx, sc.ID)
	if err != nil {
		return err
	}

	out, err := source.Dump(data, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
