package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("total equals the sum of per-status counts", func(t *testing.T) {
		outcomes := []Outcome{
			{Title: "a", Status: StatusPassed},
			{Title: "b", Status: StatusPassed},
			{Title: "c", Status: StatusFailed},
			{Title: "d", Status: StatusSkipped},
			{Title: "e", Status: StatusFlaky},
		}
		s := Summarize(outcomes, time.Time{}, time.Time{})
		assert.Equal(t, 5, s.Total)
		assert.Equal(t, s.Total, s.Passed+s.Failed+s.Skipped+s.Flaky)
		assert.Equal(t, 2, s.Passed)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 1, s.Skipped)
		assert.Equal(t, 1, s.Flaky)
	})

	t.Run("empty run summarizes to zero", func(t *testing.T) {
		s := Summarize(nil, time.Time{}, time.Time{})
		assert.Equal(t, 0, s.Total)
		assert.Equal(t, s.Total, s.Passed+s.Failed+s.Skipped+s.Flaky)
	})
}

func TestPassRate(t *testing.T) {
	t.Run("empty run is zero, not NaN", func(t *testing.T) {
		s := Summary{}
		assert.Equal(t, 0.0, s.PassRate())
		assert.Equal(t, "0.0", s.PassRateString())
	})

	t.Run("one of three renders with one decimal", func(t *testing.T) {
		s := Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}
		assert.Equal(t, "33.3", s.PassRateString())
	})

	t.Run("stays within zero and one hundred", func(t *testing.T) {
		cases := []Summary{
			{Total: 1, Passed: 0},
			{Total: 1, Passed: 1},
			{Total: 7, Passed: 3},
			{Total: 1000, Passed: 999},
		}
		for _, s := range cases {
			rate := s.PassRate()
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
		}
	})

	t.Run("all passed is exactly one hundred", func(t *testing.T) {
		s := Summary{Total: 4, Passed: 4}
		assert.Equal(t, "100.0", s.PassRateString())
	})
}

func TestSpan(t *testing.T) {
	t.Run("window covers earliest start to latest finish", func(t *testing.T) {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		outcomes := []Outcome{
			{Title: "b", StartedAt: base.Add(time.Second), DurationMs: 5000},
			{Title: "a", StartedAt: base, DurationMs: 100},
		}
		start, end := Span(outcomes)
		assert.Equal(t, base, start)
		assert.Equal(t, base.Add(6*time.Second), end)
	})

	t.Run("empty slice yields zero times", func(t *testing.T) {
		start, end := Span(nil)
		assert.True(t, start.IsZero())
		assert.True(t, end.IsZero())
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("accepts the four statuses", func(t *testing.T) {
		for _, raw := range []string{"passed", "failed", "skipped", "flaky"} {
			s, err := ParseStatus(raw)
			require.NoError(t, err)
			assert.True(t, s.Valid())
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, raw := range []string{"", "pass", "PASSED", "errored"} {
			_, err := ParseStatus(raw)
			assert.Error(t, err, "raw=%q", raw)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms       int64
		expected string
	}{
		{0, "0ms"},
		{250, "250ms"},
		{999, "999ms"},
		{1000, "1.0s"},
		{1500, "1.5s"},
		{59999, "60.0s"},
		{90000, "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.ms), "ms=%d", tt.ms)
	}
}
