package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the projection as JSON or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

// exportDoc is the JSON export shape.
type exportDoc struct {
	Scenario   string                 `json:"scenario"`
	ScenarioID string                 `json:"scenarioId"`
	Summary    pipeline.Summary       `json:"summary"`
	Projection projection.Result      `json:"projection"`
	Sources    []pipeline.SourceTotal `json:"sources"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportFormat != "json" && exportFormat != "csv" {
		return fmt.Errorf("--format must be json or csv, got %q", exportFormat)
	}

	lr, _, err := loadProjection(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if exportFormat == "csv" {
		err = writeProjectionCSV(w, lr)
	} else {
		err = writeProjectionJSON(w, lr)
	}
	if err != nil {
		return err
	}

	if exportOutput != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d days to %s\n", len(lr.Result.Series), exportOutput)
	}
	return nil
}

func writeProjectionJSON(w io.Writer, lr *pipeline.LoadResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportDoc{
		Scenario:   lr.Data.Scenario.Name,
		ScenarioID: lr.Data.Scenario.ID,
		Summary:    lr.Summary,
		Projection: lr.Result,
		Sources:    pipeline.BreakdownBySource(lr.Input),
	})
}

func writeProjectionCSV(w io.Writer, lr *pipeline.LoadResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "inflow", "outflow", "balance"}); err != nil {
		return err
	}
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, p := range lr.Result.Series {
		if err := cw.Write([]string{p.Date.String(), money(p.Inflow), money(p.Outflow), money(p.Balance)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
