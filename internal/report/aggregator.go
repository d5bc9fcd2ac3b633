package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
)

// Aggregator accumulates test outcomes for one worker process in
// arrival order. It is an explicit per-run object, not package state;
// the harness constructs one and threads it through the run. Recording
// is append-only: nothing reorders, deduplicates, or rewrites an
// already-recorded outcome.
type Aggregator struct {
	mu       sync.Mutex
	runID    string
	started  time.Time
	outcomes []Outcome
	stream   *StreamWriter
	logger   *log.Logger
}

// NewAggregator creates an empty aggregator for one run.
func NewAggregator(runID string) *Aggregator {
	return &Aggregator{
		runID:   runID,
		started: time.Now(),
		logger:  log.New(os.Stdout, "[report] ", log.LstdFlags),
	}
}

// WithStream mirrors every recorded outcome to an append-only stream so
// parallel worker processes can be merged after the run.
func (a *Aggregator) WithStream(w *StreamWriter) *Aggregator {
	a.stream = w
	return a
}

// RunID returns the identifier this aggregator records under.
func (a *Aggregator) RunID() string { return a.runID }

// Record appends one outcome. The append itself is O(1) under a short
// mutex so parallel subtests never stall each other. Stream mirroring
// is best-effort: a failed append is logged and the in-memory record
// stands.
func (a *Aggregator) Record(o Outcome) {
	a.mu.Lock()
	a.outcomes = append(a.outcomes, o)
	stream := a.stream
	a.mu.Unlock()

	if stream != nil {
		rec := StreamRecord{RunID: a.runID, Worker: os.Getpid(), Outcome: o}
		if err := stream.Append(rec); err != nil {
			a.logger.Printf("warning: %v", err)
		}
	}
}

// Outcomes returns a copy of the recorded outcomes in arrival order.
func (a *Aggregator) Outcomes() []Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

// Summarize counts the outcomes recorded so far.
func (a *Aggregator) Summarize() Summary {
	return Summarize(a.Outcomes(), a.started, time.Now())
}

// FinalizeOptions control what Finalize writes besides the HTML report.
type FinalizeOptions struct {
	// JUnitPath, when set, receives a junit XML rendition of the run.
	JUnitPath string
	// SummaryPath, when set, receives the run document as indented JSON.
	SummaryPath string
	// Quiet suppresses the console summary block.
	Quiet bool
}

// Finalize computes the run summary, renders the HTML report into the
// store and prints the console summary. A render or write failure is
// returned because a broken report is itself a run defect, but every
// output that did succeed is kept, and the failure is also printed so
// it cannot pass silently.
func (a *Aggregator) Finalize(store *artifacts.Store, opts FinalizeOptions) (Summary, error) {
	outcomes := a.Outcomes()
	summary := Summarize(outcomes, a.started, time.Now())

	var errs []error
	html, err := Render(summary, outcomes)
	if err != nil {
		a.logger.Printf("report render failed: %v", err)
		errs = append(errs, err)
	} else if err := store.WriteFile(store.ReportPath(), []byte(html)); err != nil {
		a.logger.Printf("report write failed: %v", err)
		errs = append(errs, err)
	}

	if opts.JUnitPath != "" {
		if err := WriteJUnit(opts.JUnitPath, summary, outcomes); err != nil {
			a.logger.Printf("junit write failed: %v", err)
			errs = append(errs, err)
		}
	}
	if opts.SummaryPath != "" {
		if err := writeRunDocument(store, opts.SummaryPath, a.runID, summary, outcomes); err != nil {
			a.logger.Printf("summary write failed: %v", err)
			errs = append(errs, err)
		}
	}

	if !opts.Quiet {
		PrintSummary(summary)
	}
	return summary, errors.Join(errs...)
}

// RunDocument is the JSON shape of a finished run: the derived summary
// plus every outcome, in order.
type RunDocument struct {
	RunID    string    `json:"runId"`
	PassRate string    `json:"passRate"`
	Summary  Summary   `json:"summary"`
	Outcomes []Outcome `json:"outcomes"`
}

func writeRunDocument(store *artifacts.Store, path, runID string, summary Summary, outcomes []Outcome) error {
	doc := RunDocument{
		RunID:    runID,
		PassRate: summary.PassRateString(),
		Summary:  summary,
		Outcomes: outcomes,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run document: %w", err)
	}
	return store.WriteFile(path, data)
}
