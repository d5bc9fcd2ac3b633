package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSummary(outcomes []Outcome) Summary {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Summarize(outcomes, start, start.Add(42*time.Second))
}

func TestRenderEscapesMarkup(t *testing.T) {
	outcomes := []Outcome{
		{
			Title:        `<script>x</script>`,
			Status:       StatusFailed,
			DurationMs:   100,
			ErrorMessage: `say "hi" & <b>don't</b>`,
			ErrorStack:   "at <anonymous>:1:1",
		},
	}
	html, err := Render(fixedSummary(outcomes), outcomes)
	require.NoError(t, err)

	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, html, "<script>x</script>")

	assert.Contains(t, html, "&amp;")
	assert.Contains(t, html, "&lt;b&gt;")
	assert.NotContains(t, html, "<b>don")
	// Both quote styles must leave the raw text, whatever entity is used.
	assert.NotContains(t, html, `say "hi"`)
	assert.NotContains(t, html, "don't")

	assert.Contains(t, html, "&lt;anonymous&gt;")
}

func TestRenderDeterminism(t *testing.T) {
	outcomes := []Outcome{
		{Title: "login works", File: "login_test.go", Status: StatusPassed, DurationMs: 1200},
		{Title: "cart badge", File: "cart_test.go", Status: StatusFailed, DurationMs: 800,
			ErrorMessage: "badge count mismatch",
			Attachments: []Attachment{
				{Name: "screenshot", ContentType: "image/png", Path: "screenshots/failure-cart-badge-1.png"},
				{Name: "trace", ContentType: "application/zip"},
			}},
		{Title: "checkout total", Status: StatusFlaky, DurationMs: 3000, Retry: 1},
	}
	summary := fixedSummary(outcomes)

	first, err := Render(summary, outcomes)
	require.NoError(t, err)
	second, err := Render(summary, outcomes)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must render byte-identical documents")
}

func TestRenderMissingArtifacts(t *testing.T) {
	outcomes := []Outcome{
		{
			Title:      "inventory sort",
			Status:     StatusFailed,
			DurationMs: 500,
			Attachments: []Attachment{
				{Name: "screenshot", ContentType: "image/png"},
				{Name: "trace", ContentType: "application/zip", Path: "traces/trace-inventory-sort-1.zip"},
			},
		},
	}
	html, err := Render(fixedSummary(outcomes), outcomes)
	require.NoError(t, err)

	assert.Contains(t, html, "screenshot: not captured")
	assert.Contains(t, html, `href="traces/trace-inventory-sort-1.zip"`)
	assert.NotContains(t, html, `href=""`)
}

func TestRenderEmptyRun(t *testing.T) {
	html, err := Render(fixedSummary(nil), nil)
	require.NoError(t, err)
	assert.Contains(t, html, "No tests were recorded in this run.")
	assert.Contains(t, html, "0.0%")
}

func TestRenderEndToEnd(t *testing.T) {
	outcomes := []Outcome{
		{Title: "A", Status: StatusPassed, DurationMs: 100},
		{Title: "B", Status: StatusFailed, DurationMs: 200, ErrorMessage: "boom"},
		{Title: "C", Status: StatusSkipped, DurationMs: 0},
	}
	summary := fixedSummary(outcomes)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Flaky)
	assert.Equal(t, "33.3", summary.PassRateString())

	html, err := Render(summary, outcomes)
	require.NoError(t, err)
	assert.Contains(t, html, "boom")
	assert.Contains(t, html, "33.3%")
	assert.Contains(t, html, ">B<")
}

func TestRenderChartsStayStable(t *testing.T) {
	outcomes := []Outcome{
		{Title: "slowest", Status: StatusPassed, DurationMs: 9000},
		{Title: "fast", Status: StatusPassed, DurationMs: 10},
	}
	html, err := Render(fixedSummary(outcomes), outcomes)
	require.NoError(t, err)

	// Chart containers carry fixed ids so reruns diff cleanly.
	assert.Contains(t, html, "status-pie")
	assert.Contains(t, html, "slowest-bar")
}
