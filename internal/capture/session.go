// Package capture collects per-test artifacts. A Session is created
// before a test attempt runs, observes the page while it runs, and on
// teardown writes whatever the outcome calls for: screenshot, trace,
// activity logs and the failure-report JSON. Capture steps never fail a
// test; anything that goes wrong is logged and skipped.
package capture

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/config"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

// Page is the part of playwright.Page the session touches once a test
// attempt has ended. playwright.Page satisfies it.
type Page interface {
	IsClosed() bool
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Content() (string, error)
}

// Tracer is the part of playwright's tracing API the session drives.
// playwright.Tracing satisfies it.
type Tracer interface {
	Start(options ...playwright.TracingStartOptions) error
	Stop(path ...string) error
}

// Session owns every artifact produced for a single test attempt. One
// session maps to one attempt; retries get a fresh session with a fresh
// filename token so artifacts from earlier attempts survive.
type Session struct {
	cfg    *config.Config
	store  *artifacts.Store
	logger *log.Logger

	title string
	safe  string
	token string

	mu        sync.Mutex
	page      Page
	tracing   Tracer
	tracingOn bool
	browser   string
	console   []ConsoleEntry
	network   []NetworkEntry
	done      bool
}

// NewSession prepares a capture session for one attempt of the named
// test.
func NewSession(cfg *config.Config, store *artifacts.Store, title string) *Session {
	return &Session{
		cfg:    cfg,
		store:  store,
		logger: log.New(os.Stdout, "[capture] ", log.LstdFlags),
		title:  title,
		safe:   artifacts.SafeName(title),
		token:  artifacts.Token(),
	}
}

// Watch wires the session's listeners into page and remembers it for
// failure capture. Call once, before the test body runs.
func (s *Session) Watch(page playwright.Page) {
	if page == nil {
		return
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		s.recordConsole(msg.Type(), msg.Text())
	})
	page.OnPageError(func(err error) {
		s.recordConsole("pageerror", err.Error())
	})
	page.OnRequest(func(req playwright.Request) {
		s.recordRequest(req.Method(), req.URL())
	})
	page.OnResponse(func(res playwright.Response) {
		s.recordResponse(res.Status(), res.URL())
	})
}

// SetBrowser records the browser identity included in failure reports,
// e.g. "chromium 120.0.6099.28".
func (s *Session) SetBrowser(name, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browser = strings.TrimSpace(name + " " + version)
}

// StartTracing begins a playwright trace according to the configured
// trace mode. With tracing off it does nothing.
func (s *Session) StartTracing(tr Tracer) {
	if s.cfg.TraceMode == config.TraceOff || tr == nil {
		return
	}
	err := tr.Start(playwright.TracingStartOptions{
		Screenshots: playwright.Bool(true),
		Snapshots:   playwright.Bool(true),
		Title:       playwright.String(s.title),
	})
	if err != nil {
		s.logger.Printf("%s: could not start tracing: %v", s.title, err)
		return
	}
	s.mu.Lock()
	s.tracing = tr
	s.tracingOn = true
	s.mu.Unlock()
}

// CaptureFailure runs the failure pipeline for a finished attempt:
// screenshot, trace, activity logs, a page snapshot, then the
// failure-report JSON that indexes them. The steps are independent; a
// step that fails is logged and the remaining steps still run. The
// collected attachments are appended to out in capture order, with
// screenshot and trace entries present even when capture produced
// nothing so the report can show them as not captured.
func (s *Session) CaptureFailure(out *report.Outcome) {
	if s.finish() {
		return
	}
	screenshot := s.takeScreenshot()
	trace := s.stopTrace(s.cfg.TraceMode != config.TraceOff)
	consoleLog, networkLog := s.FlushLogs()
	snapshot := s.snapshotPage()
	reportPath := s.writeFailureReport(out, screenshot, trace)

	attach(out, "screenshot", "image/png", screenshot)
	attach(out, "trace", "application/zip", trace)
	if consoleLog != "" {
		attach(out, "console-log", "text/plain", consoleLog)
	}
	if networkLog != "" {
		attach(out, "network-log", "application/json", networkLog)
	}
	if snapshot != "" {
		attach(out, "page-snapshot", "text/html", snapshot)
	}
	if reportPath != "" {
		attach(out, "failure-report", "application/json", reportPath)
	}
}

// Finish ends an attempt that did not fail. The trace is stopped and
// kept only in always-on trace mode; activity logs are flushed when log
// capture is configured to always run.
func (s *Session) Finish(out *report.Outcome) {
	if s.finish() {
		return
	}
	trace := s.stopTrace(s.cfg.TraceMode == config.TraceOn)
	if trace != "" {
		attach(out, "trace", "application/zip", trace)
	}
	if s.cfg.CaptureLogs == config.CaptureAlways {
		consoleLog, networkLog := s.FlushLogs()
		if consoleLog != "" {
			attach(out, "console-log", "text/plain", consoleLog)
		}
		if networkLog != "" {
			attach(out, "network-log", "application/json", networkLog)
		}
	}
}

// Close releases anything the session still holds. It is a no-op after
// CaptureFailure or Finish; a deferred call covers attempts that never
// reach their normal teardown, so a live trace is always stopped.
func (s *Session) Close() {
	if s.finish() {
		return
	}
	s.stopTrace(false)
}

// finish marks the session done and reports whether it already was.
func (s *Session) finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return true
	}
	s.done = true
	return false
}

func (s *Session) takeScreenshot() string {
	if !s.cfg.Screenshots {
		return ""
	}
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil || page.IsClosed() {
		s.logger.Printf("%s: page already closed, skipping screenshot", s.title)
		return ""
	}
	path, err := s.store.ScreenshotPath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	_, err = page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.logger.Printf("%s: could not capture screenshot: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

// stopTrace stops an active trace. With keep it saves the trace to its
// artifact path and returns the root-relative location; otherwise the
// trace data is dropped.
func (s *Session) stopTrace(keep bool) string {
	s.mu.Lock()
	tr, active := s.tracing, s.tracingOn
	s.tracingOn = false
	s.mu.Unlock()
	if !active || tr == nil {
		return ""
	}
	if !keep {
		if err := tr.Stop(); err != nil {
			s.logger.Printf("%s: could not stop tracing: %v", s.title, err)
		}
		return ""
	}
	path, err := s.store.TracePath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		_ = tr.Stop()
		return ""
	}
	if err := tr.Stop(path); err != nil {
		s.logger.Printf("%s: could not save trace: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

func (s *Session) snapshotPage() string {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	if page == nil || page.IsClosed() {
		return ""
	}
	html, err := page.Content()
	if err != nil {
		s.logger.Printf("%s: could not read page content: %v", s.title, err)
		return ""
	}
	path, err := s.store.PageSnapshotPath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	if err := s.store.WriteFile(path, []byte(html)); err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

func attach(out *report.Outcome, name, contentType, relPath string) {
	out.Attachments = append(out.Attachments, report.Attachment{
		Name:        name,
		ContentType: contentType,
		Path:        relPath,
	})
}
