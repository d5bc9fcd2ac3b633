package report

import (
	"fmt"
	"strconv"
	"time"
)

// Status classifies a finished test attempt.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusFlaky marks a test that failed at least once and then passed
	// on an automatic retry within the same run.
	StatusFlaky Status = "flaky"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusFlaky:
		return true
	}
	return false
}

// ParseStatus validates a wire-format status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Attachment is a named reference to a captured artifact file. Path is
// relative to the results root and may be empty when capture failed;
// the report renders such attachments as "not captured".
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Path        string `json:"filePath,omitempty"`
}

// Outcome is the recorded result of one executed test attempt. Outcomes
// are immutable once recorded; a retried test produces one outcome per
// attempt rather than rewriting the earlier entry.
type Outcome struct {
	Title        string       `json:"title"`
	File         string       `json:"file,omitempty"`
	Project      string       `json:"project,omitempty"`
	Status       Status       `json:"status"`
	DurationMs   int64        `json:"durationMs"`
	Retry        int          `json:"retryCount"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	ErrorStack   string       `json:"errorStack,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
}

// Summary is the derived shape of a whole run. It is recomputed from
// the outcome list at render time and never stored as authoritative
// state.
type Summary struct {
	Total     int       `json:"totalCount"`
	Passed    int       `json:"passedCount"`
	Failed    int       `json:"failedCount"`
	Skipped   int       `json:"skippedCount"`
	Flaky     int       `json:"flakyCount"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Summarize counts outcomes by status in a single pass. Total always
// equals the sum of the per-status counts.
func Summarize(outcomes []Outcome, start, end time.Time) Summary {
	s := Summary{StartTime: start, EndTime: end}
	for _, o := range outcomes {
		s.Total++
		switch o.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusFlaky:
			s.Flaky++
		}
	}
	return s
}

// Span derives the run window from recorded outcomes, for merges where
// no live aggregator clock exists. An empty slice yields zero times.
func Span(outcomes []Outcome) (start, end time.Time) {
	for _, o := range outcomes {
		if o.StartedAt.IsZero() {
			continue
		}
		finished := o.StartedAt.Add(time.Duration(o.DurationMs) * time.Millisecond)
		if start.IsZero() || o.StartedAt.Before(start) {
			start = o.StartedAt
		}
		if finished.After(end) {
			end = finished
		}
	}
	return start, end
}

// PassRate returns the passed share of all outcomes as a percentage in
// [0,100]. An empty run is 0, not NaN.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// PassRateString renders the pass rate with one decimal, e.g. "33.3".
func (s Summary) PassRateString() string {
	return strconv.FormatFloat(s.PassRate(), 'f', 1, 64)
}

// Duration is the wall-clock span of the run.
func (s Summary) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// FormatDuration renders a millisecond duration for humans.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}
