// Package harness boots the browser and drives spec bodies with
// automatic retries. Every go test worker process owns one Run; each
// test attempt gets a fresh page, a fresh capture session, and one
// recorded outcome. Outcomes from parallel workers meet again in the
// shared outcome stream.
package harness

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/playwright-community/playwright-go"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/config"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

// Run holds everything a worker process shares across its tests: the
// launched browser, the artifact store and the outcome aggregator.
type Run struct {
	Config *config.Config
	Store  *artifacts.Store
	Agg    *report.Aggregator

	pw      *playwright.Playwright
	browser playwright.Browser
	stream  *report.StreamWriter
	logger  *log.Logger
}

// Start loads configuration, boots the playwright driver, launches the
// configured browser and opens the outcome stream. Set E2E_RUN_ID to
// make parallel worker processes record under one run identifier.
func Start() (*Run, error) {
	cfg := config.Get()
	store := artifacts.NewStore(cfg.OutputDir)

	runID := os.Getenv("E2E_RUN_ID")
	if runID == "" {
		runID = artifacts.Token()
	}

	stream, err := report.OpenStream(store.OutcomesPath())
	if err != nil {
		return nil, err
	}

	r := &Run{
		Config: cfg,
		Store:  store,
		Agg:    report.NewAggregator(runID).WithStream(stream),
		stream: stream,
		logger: log.New(os.Stdout, "[harness] ", log.LstdFlags),
	}

	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(); err != nil {
			stream.Close()
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		// The driver binary may be stale; install once more and retry.
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			stream.Close()
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
	}
	r.pw = pw

	browser, err := launchBrowser(pw, cfg)
	if err != nil {
		_ = pw.Stop()
		stream.Close()
		return nil, err
	}
	r.browser = browser
	r.logger.Printf("run %s: %s %s against %s", runID, cfg.Project, browser.Version(), cfg.BaseURL)
	return r, nil
}

func launchBrowser(pw *playwright.Playwright, cfg *config.Config) (playwright.Browser, error) {
	bt := pw.Chromium
	switch cfg.Project {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	}
	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo)),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Project, err)
	}
	return browser, nil
}

// Finish closes the browser and finalizes this worker's report: the
// HTML report, the run document and the console summary. Failing tests
// are not an error here; a report that could not be produced is.
func (r *Run) Finish() error {
	if r.browser != nil {
		_ = r.browser.Close()
	}
	if r.pw != nil {
		_ = r.pw.Stop()
	}

	_, err := r.Agg.Finalize(r.Store, report.FinalizeOptions{
		SummaryPath: filepath.Join(r.Store.Root(), "summary.json"),
	})
	if r.stream != nil {
		err = errors.Join(err, r.stream.Close())
	}
	return err
}

var (
	currentMu sync.Mutex
	current   *Run
)

// Current returns the process-wide run started by Main, or nil before
// Main has run.
func Current() *Run {
	currentMu.Lock()
	defer currentMu.Unlock()
	return current
}

func setCurrent(r *Run) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = r
}

// Main is the TestMain body for spec packages:
//
//	func TestMain(m *testing.M) { harness.Main(m) }
//
// It starts the run, executes the tests, and always finalizes the
// report. A report that could not be rendered or written turns the exit
// code red even when every test passed.
func Main(m *testing.M) {
	run, err := Start()
	if err != nil {
		color.Red("e2e harness failed to start: %v", err)
		os.Exit(1)
	}
	setCurrent(run)

	code := m.Run()

	if err := run.Finish(); err != nil {
		color.Red("report finalization failed: %v", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}
