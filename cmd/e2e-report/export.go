package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

var (
	exportFormat string
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the outcome stream as junit XML or an xlsx workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "junit", "export format: junit or xlsx")
	exportCmd.Flags().StringVar(&exportInput, "input", "", "outcome stream to export (default <results>/outcomes.jsonl)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output path (default <results>/report.xml or <results>/report.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	store := artifacts.NewStore(resultsDir)
	input := exportInput
	if input == "" {
		input = store.OutcomesPath()
	}

	records, err := report.ReadStream(input)
	if err != nil {
		return err
	}
	outcomes := report.MergeRecords(records)
	start, end := report.Span(outcomes)
	summary := report.Summarize(outcomes, start, end)

	switch exportFormat {
	case "junit":
		out := exportOutput
		if out == "" {
			out = filepath.Join(resultsDir, "report.xml")
		}
		if err := report.WriteJUnit(out, summary, outcomes); err != nil {
			return err
		}
		cliLog.Printf("wrote %s (%d outcomes)", out, len(outcomes))
		return nil
	case "xlsx":
		out := exportOutput
		if out == "" {
			out = filepath.Join(resultsDir, "report.xlsx")
		}
		if err := writeWorkbook(out, summary, outcomes); err != nil {
			return err
		}
		cliLog.Printf("wrote %s (%d outcomes)", out, len(outcomes))
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want junit or xlsx)", exportFormat)
	}
}

// writeWorkbook builds a two-sheet workbook: run summary and one row
// per outcome.
func writeWorkbook(path string, summary report.Summary, outcomes []report.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Total", summary.Total},
		{"Passed", summary.Passed},
		{"Failed", summary.Failed},
		{"Skipped", summary.Skipped},
		{"Flaky", summary.Flaky},
		{"Pass rate", summary.PassRateString() + "%"},
		{"Started", summary.StartTime.Format("2006-01-02 15:04:05")},
		{"Finished", summary.EndTime.Format("2006-01-02 15:04:05")},
		{"Duration", summary.Duration().String()},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	const outcomeSheet = "Outcomes"
	if _, err := f.NewSheet(outcomeSheet); err != nil {
		return fmt.Errorf("create outcomes sheet: %w", err)
	}
	header := []interface{}{"Test", "File", "Project", "Status", "Duration (ms)", "Retry", "Error"}
	if err := f.SetSheetRow(outcomeSheet, "A1", &header); err != nil {
		return fmt.Errorf("write outcomes header: %w", err)
	}
	for i, o := range outcomes {
		row := []interface{}{o.Title, o.File, o.Project, string(o.Status), o.DurationMs, o.Retry, o.ErrorMessage}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("outcome cell: %w", err)
		}
		if err := f.SetSheetRow(outcomeSheet, cell, &row); err != nil {
			return fmt.Errorf("write outcome row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
