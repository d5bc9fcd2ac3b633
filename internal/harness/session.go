package harness

import (
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/capture"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/config"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/wait"
)

// Session is what a spec body receives: the page for one attempt plus
// assertion and navigation helpers that report into the attempt's
// recorder instead of the package testing.T.
type Session struct {
	run     *Run
	context playwright.BrowserContext
	page    playwright.Page
	capture *capture.Session
	rec     *recorder
	title   string
}

// Page exposes the underlying playwright page.
func (s *Session) Page() playwright.Page { return s.page }

// Config exposes the run configuration.
func (s *Session) Config() *config.Config { return s.run.Config }

// Require returns assertions that abort the attempt on failure.
func (s *Session) Require() *require.Assertions { return require.New(s.rec) }

// Assert returns assertions that record failures and keep going.
func (s *Session) Assert() *assert.Assertions { return assert.New(s.rec) }

// Errorf records a failure and lets the attempt continue.
func (s *Session) Errorf(format string, args ...interface{}) {
	s.rec.Errorf(format, args...)
}

// Fatalf records a failure and aborts the attempt.
func (s *Session) Fatalf(format string, args ...interface{}) {
	s.rec.Errorf(format, args...)
	s.rec.FailNow()
}

// Skip marks the attempt skipped and aborts it.
func (s *Session) Skip(reason string) {
	s.rec.skip(reason)
}

// Goto opens path relative to the configured base URL. Transient
// navigation failures are retried with exponential backoff before the
// attempt is failed.
func (s *Session) Goto(path string) {
	url := s.run.Config.BaseURL + path
	err := wait.Times(3).
		Delay(s.run.Config.RetryDelay).
		Backoff(2).
		Try(func(attempt uint) error {
			_, err := s.page.Goto(url, playwright.PageGotoOptions{
				Timeout: playwright.Float(float64(s.run.Config.NavTimeout.Milliseconds())),
			})
			return err
		})
	if err != nil {
		s.Fatalf("could not open %s: %v", url, err)
	}
}

// WaitForIdle blocks until network activity settles.
func (s *Session) WaitForIdle() {
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
	if err != nil {
		s.Fatalf("page never settled: %v", err)
	}
}

// ConsoleErrors returns console and page errors seen so far in this
// attempt.
func (s *Session) ConsoleErrors() []string {
	return s.capture.ConsoleErrors()
}

// Close tears the attempt down: any still-active capture is released,
// then the page and context are closed. Runs are deferred, so teardown
// happens even when the body panicked.
func (s *Session) Close() {
	s.capture.Close()
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.context != nil {
		_ = s.context.Close()
	}
}
