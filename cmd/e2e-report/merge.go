package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/history"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

var (
	mergeInput   string
	mergeJUnit   string
	mergeSummary string
	mergeHistory string
	mergeQuiet   bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the outcome stream into a single HTML report",
	Long: `Merge reads every valid record from the outcome stream, reassembles the
run (or runs) it describes and writes custom-report.html into the results
directory. Invalid lines are skipped with a warning, not fatal.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeInput, "input", "", "outcome stream to merge (default <results>/outcomes.jsonl)")
	mergeCmd.Flags().StringVar(&mergeJUnit, "junit", "", "also write a junit XML report to this path")
	mergeCmd.Flags().StringVar(&mergeSummary, "summary", "", "also write the merged run document as JSON to this path")
	mergeCmd.Flags().StringVar(&mergeHistory, "history", "", "record the merged run(s) into this sqlite history database")
	mergeCmd.Flags().BoolVar(&mergeQuiet, "quiet", false, "suppress the console summary block")
}

func runMerge(cmd *cobra.Command, args []string) error {
	store := artifacts.NewStore(resultsDir)
	input := mergeInput
	if input == "" {
		input = store.OutcomesPath()
	}

	records, err := report.ReadStream(input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cliLog.Printf("no outcome records in %s", input)
	}

	outcomes := report.MergeRecords(records)
	start, end := report.Span(outcomes)
	summary := report.Summarize(outcomes, start, end)
	runIDs := report.RunIDs(records)

	html, err := report.Render(summary, outcomes)
	if err != nil {
		return err
	}
	if err := store.WriteFile(store.ReportPath(), []byte(html)); err != nil {
		return err
	}
	cliLog.Printf("merged %d outcomes from %d run(s) into %s", len(outcomes), len(runIDs), store.ReportPath())

	if mergeJUnit != "" {
		if err := report.WriteJUnit(mergeJUnit, summary, outcomes); err != nil {
			return err
		}
		cliLog.Printf("wrote %s", mergeJUnit)
	}
	if mergeSummary != "" {
		doc := report.RunDocument{
			RunID:    strings.Join(runIDs, "+"),
			PassRate: summary.PassRateString(),
			Summary:  summary,
			Outcomes: outcomes,
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal merged run document: %w", err)
		}
		if err := store.WriteFile(mergeSummary, data); err != nil {
			return err
		}
		cliLog.Printf("wrote %s", mergeSummary)
	}
	if mergeHistory != "" {
		if err := recordHistory(mergeHistory, records); err != nil {
			return err
		}
	}

	if !mergeQuiet {
		report.PrintSummary(summary)
	}
	return nil
}

// recordHistory stores each run present in the stream as its own history
// row, so two workers' runs merged from one file stay distinguishable.
func recordHistory(path string, records []report.StreamRecord) error {
	db, err := history.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, id := range report.RunIDs(records) {
		var outcomes []report.Outcome
		for _, rec := range records {
			if rec.RunID == id {
				outcomes = append(outcomes, rec.Outcome)
			}
		}
		start, end := report.Span(outcomes)
		summary := report.Summarize(outcomes, start, end)
		doc := report.RunDocument{
			RunID:    id,
			PassRate: summary.PassRateString(),
			Summary:  summary,
			Outcomes: outcomes,
		}
		if err := db.InsertRun(doc); err != nil {
			return err
		}
		cliLog.Printf("recorded run %s (%d outcomes) in %s", id, len(outcomes), path)
	}
	return nil
}
