package capture

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

// writeFailureReport persists the JSON failure record for out and
// returns its root-relative path, or "" when the write failed.
func (s *Session) writeFailureReport(out *report.Outcome, screenshot, trace string) string {
	s.mu.Lock()
	browser := s.browser
	s.mu.Unlock()

	fr := report.FailureReport{
		TestInfo: report.FailureTestInfo{
			Title:    out.Title,
			File:     out.File,
			Status:   string(out.Status),
			Duration: out.DurationMs,
			Retry:    out.Retry,
			Project:  out.Project,
		},
		Artifacts: report.FailureArtifacts{
			Screenshot: screenshot,
			Trace:      trace,
		},
		BrowserInfo: browser,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if out.ErrorMessage != "" || out.ErrorStack != "" {
		fr.Error = &report.FailureError{
			Message: out.ErrorMessage,
			Stack:   out.ErrorStack,
			Name:    errorName(out.ErrorMessage),
		}
	}

	data, err := json.MarshalIndent(fr, "", "  ")
	if err != nil {
		s.logger.Printf("%s: could not encode failure report: %v", s.title, err)
		return ""
	}
	if err := report.ValidateFailureReport(data); err != nil {
		s.logger.Printf("%s: failure report does not match its schema: %v", s.title, err)
	}
	path, err := s.store.FailureReportPath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	if err := s.store.WriteFile(path, data); err != nil {
		s.logger.Printf("%s: could not write failure report: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

func errorName(message string) string {
	if strings.Contains(strings.ToLower(message), "timeout") {
		return "TimeoutError"
	}
	return "Error"
}
