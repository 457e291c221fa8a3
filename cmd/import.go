package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/source"
)

var (
	importName   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Create scenarios from TOML or JSON definition files",
	Long:  "Import scenario definition files. A directory is scanned for *.toml and *.json files; each file becomes a new scenario.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "Scenario name (single file only; default from the file)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate files without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	files, err := source.Scan(args[0])
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Printf("\n  No .toml or .json files in %s\n", args[0])
		return nil
	}
	if importName != "" && len(files) > 1 {
		return fmt.Errorf("--name needs a single file, found %d", len(files))
	}

	parsed := make([]source.ParseResult, 0, len(files))
	var failed int
	for _, df := range files {
		res, err := source.ParseFile(df)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s\n", err)
			continue
		}
		parsed = append(parsed, res)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation, nothing imported", failed, len(files))
	}

	if importDryRun {
		for _, res := range parsed {
			d := res.Data
			fmt.Printf("  ok  %s: %q (%d accounts, %d paychecks, %d cards, %d events)\n",
				res.Path, res.Name, len(d.Accounts), len(d.Paychecks), len(d.CreditCards), len(d.LifeEvents))
		}
		return nil
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	for _, res := range parsed {
		sc, err := source.Import(ctx, st, res, importName)
		if err != nil {
			return fmt.Errorf("importing %s: %w", res.Path, err)
		}
		fmt.Printf("  Imported %q (%s) from %s\n", sc.Name, sc.ID, res.Path)
	}
	return nil
}
