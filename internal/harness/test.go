package harness

import (
	"fmt"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/capture"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

// testReporter is the part of *testing.T the attempt loop reports to.
type testReporter interface {
	Helper()
	Error(args ...interface{})
	Skip(args ...interface{})
}

// Test runs one spec body with automatic retries. Every attempt gets a
// fresh page and capture session and records its own outcome; a test
// that fails and then passes on a retry is recorded as flaky, and the
// artifacts of the failed attempts are kept.
func (r *Run) Test(t *testing.T, fn func(s *Session)) {
	t.Helper()
	r.test(t, t.Name(), callerFile(), fn)
}

func (r *Run) test(rt testReporter, title, file string, fn func(*Session)) {
	rt.Helper()
	attempts := r.Config.MaxAttempts()
	failedBefore := false

	for attempt := 0; attempt < attempts; attempt++ {
		res := r.runAttempt(title, file, attempt, fn)

		if res.skipped {
			r.Agg.Record(*res.outcome)
			rt.Skip(res.skipMessage)
			return
		}
		if !res.failed {
			if failedBefore {
				res.outcome.Status = report.StatusFlaky
			}
			r.Agg.Record(*res.outcome)
			return
		}

		failedBefore = true
		r.Agg.Record(*res.outcome)
		if attempt+1 < attempts {
			r.logger.Printf("%s failed on attempt %d of %d, retrying: %s",
				title, attempt+1, attempts, firstLine(res.message))
			if r.Config.RetryDelay > 0 {
				time.Sleep(r.Config.RetryDelay)
			}
			continue
		}
		rt.Error(fmt.Sprintf("%s failed after %d attempt(s):\n%s", title, attempts, res.message))
	}
}

type attemptResult struct {
	outcome     *report.Outcome
	failed      bool
	skipped     bool
	message     string
	skipMessage string
}

func (r *Run) runAttempt(title, file string, attempt int, fn func(*Session)) attemptResult {
	rec := newRecorder()
	sess := r.startSession(rec, title)
	defer sess.Close()

	start := time.Now()
	// A session whose setup already failed skips the body; the failure
	// is recorded either way.
	if !rec.isFailed() {
		runBody(fn, sess, rec)
	}
	elapsed := time.Since(start)

	out := &report.Outcome{
		Title:      title,
		File:       file,
		Project:    r.Config.Project,
		Status:     report.StatusPassed,
		DurationMs: elapsed.Milliseconds(),
		Retry:      attempt,
		StartedAt:  start,
	}
	switch {
	case rec.isSkipped():
		out.Status = report.StatusSkipped
	case rec.isFailed():
		out.Status = report.StatusFailed
		out.ErrorMessage = rec.message()
		out.ErrorStack = rec.stack()
	}

	if rec.isFailed() {
		sess.capture.CaptureFailure(out)
	} else {
		sess.capture.Finish(out)
	}

	return attemptResult{
		outcome:     out,
		failed:      rec.isFailed(),
		skipped:     rec.isSkipped(),
		message:     rec.message(),
		skipMessage: rec.skipMessage(),
	}
}

// runBody executes fn, turning recorder aborts and stray panics into
// recorded failures instead of process crashes.
func runBody(fn func(*Session), sess *Session, rec *recorder) {
	defer func() {
		if p := recover(); p != nil {
			if _, ok := p.(stopAttempt); ok {
				return
			}
			rec.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	fn(sess)
}

// startSession opens a fresh browser context and page and arms capture
// for one attempt. Without a launched browser the session is page-less,
// which still exercises the result pipeline.
func (r *Run) startSession(rec *recorder, title string) *Session {
	sess := &Session{
		run:     r,
		rec:     rec,
		title:   title,
		capture: capture.NewSession(r.Config, r.Store, title),
	}
	if r.browser == nil {
		return sess
	}

	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	}
	if r.Config.Videos {
		if dir, err := r.Store.VideosDir(); err == nil {
			opts.RecordVideo = &playwright.RecordVideo{Dir: dir}
		} else {
			r.logger.Printf("%s: video recording unavailable: %v", title, err)
		}
	}

	ctx, err := r.browser.NewContext(opts)
	if err != nil {
		rec.Errorf("could not create browser context: %v", err)
		return sess
	}
	sess.context = ctx

	page, err := ctx.NewPage()
	if err != nil {
		rec.Errorf("could not open page: %v", err)
		return sess
	}
	sess.page = page
	page.SetDefaultTimeout(float64(r.Config.Timeout.Milliseconds()))

	sess.capture.Watch(page)
	sess.capture.SetBrowser(r.Config.Project, r.browser.Version())
	sess.capture.StartTracing(ctx.Tracing())
	return sess
}

// callerFile names the test source file two frames up, for outcome and
// report attribution.
func callerFile() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return filepath.Base(file)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
