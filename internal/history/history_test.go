package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	h, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func sampleRun(runID string, started time.Time) report.RunDocument {
	outcomes := []report.Outcome{
		{Title: "login succeeds", File: "login_test.go", Project: "chromium",
			Status: report.StatusPassed, DurationMs: 900, StartedAt: started},
		{Title: "cart survives reload", File: "cart_test.go", Project: "chromium",
			Status: report.StatusFailed, DurationMs: 1500, Retry: 0,
			ErrorMessage: "badge empty", StartedAt: started.Add(time.Second)},
		{Title: "cart survives reload", File: "cart_test.go", Project: "chromium",
			Status: report.StatusFlaky, DurationMs: 1200, Retry: 1,
			StartedAt: started.Add(3 * time.Second)},
	}
	summary := report.Summarize(outcomes, started, started.Add(5*time.Second))
	return report.RunDocument{
		RunID:    runID,
		PassRate: summary.PassRateString(),
		Summary:  summary,
		Outcomes: outcomes,
	}
}

func TestInsertAndLoadRun(t *testing.T) {
	h := openTestDB(t)
	started := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, h.InsertRun(sampleRun("run-1", started)))

	run, err := h.Run("run-1")
	require.NoError(t, err)
	assert.Equal(t, "chromium", run.Project)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 1, run.Passed)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 1, run.Flaky)
	assert.InDelta(t, 33.3, run.PassRate, 0.05)

	outcomes, err := h.RunOutcomes("run-1")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "login succeeds", outcomes[0].Title)
	assert.Equal(t, "flaky", outcomes[2].Status)
	assert.Equal(t, 1, outcomes[2].Retry)
}

func TestInsertRunReplacesPrevious(t *testing.T) {
	h := openTestDB(t)
	started := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	doc := sampleRun("run-1", started)
	require.NoError(t, h.InsertRun(doc))
	require.NoError(t, h.InsertRun(doc))

	runs, err := h.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "same run id should not duplicate")

	outcomes, err := h.RunOutcomes("run-1")
	require.NoError(t, err)
	assert.Len(t, outcomes, 3, "outcomes should be replaced, not appended")
}

func TestInsertRunRejectsEmptyID(t *testing.T) {
	h := openTestDB(t)
	err := h.InsertRun(report.RunDocument{})
	require.Error(t, err)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	h := openTestDB(t)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, h.InsertRun(sampleRun("run-old", base)))
	require.NoError(t, h.InsertRun(sampleRun("run-new", base.AddDate(0, 0, 2))))

	runs, err := h.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)
}

func TestTrendsGroupByDay(t *testing.T) {
	h := openTestDB(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, h.InsertRun(sampleRun("run-a", today.Add(9*time.Hour))))
	require.NoError(t, h.InsertRun(sampleRun("run-b", today.Add(14*time.Hour))))
	require.NoError(t, h.InsertRun(sampleRun("run-c", today.AddDate(0, 0, -1).Add(9*time.Hour))))

	points, err := h.Trends(7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].Runs, "yesterday had one run")
	assert.Equal(t, 2, points[1].Runs, "today had two runs")
	assert.InDelta(t, 33.3, points[1].PassRate, 0.05)
}

func TestFlakyTestsRanking(t *testing.T) {
	h := openTestDB(t)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, h.InsertRun(sampleRun("run-1", base)))
	require.NoError(t, h.InsertRun(sampleRun("run-2", base.AddDate(0, 0, 1))))

	flaky, err := h.FlakyTests(1)
	require.NoError(t, err)
	require.Len(t, flaky, 1)
	assert.Equal(t, "cart survives reload", flaky[0].Title)
	assert.Equal(t, 2, flaky[0].Flakes)
	assert.Equal(t, 2, flaky[0].Failures)
	assert.Equal(t, 4, flaky[0].Attempts)

	none, err := h.FlakyTests(5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
