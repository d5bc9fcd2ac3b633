package history

import (
	"fmt"
	"time"
)

// RunRow is one stored run with its derived counts.
type RunRow struct {
	RunID      string    `db:"run_id" json:"runId"`
	Project    string    `db:"project" json:"project"`
	StartedAt  time.Time `db:"started_at" json:"startedAt"`
	FinishedAt time.Time `db:"finished_at" json:"finishedAt"`
	Total      int       `db:"total" json:"totalCount"`
	Passed     int       `db:"passed" json:"passedCount"`
	Failed     int       `db:"failed" json:"failedCount"`
	Skipped    int       `db:"skipped" json:"skippedCount"`
	Flaky      int       `db:"flaky" json:"flakyCount"`
	PassRate   float64   `db:"pass_rate" json:"passRate"`
}

// OutcomeRow is one stored outcome.
type OutcomeRow struct {
	RunID        string    `db:"run_id" json:"runId"`
	Title        string    `db:"title" json:"title"`
	File         string    `db:"file" json:"file"`
	Project      string    `db:"project" json:"project"`
	Status       string    `db:"status" json:"status"`
	DurationMs   int64     `db:"duration_ms" json:"durationMs"`
	Retry        int       `db:"retry_count" json:"retryCount"`
	ErrorMessage string    `db:"error_message" json:"errorMessage,omitempty"`
	StartedAt    time.Time `db:"started_at" json:"startedAt"`
}

// TrendPoint aggregates the runs of one calendar day.
type TrendPoint struct {
	Day      string  `db:"day" json:"day"`
	Runs     int     `db:"runs" json:"runs"`
	PassRate float64 `db:"pass_rate" json:"passRate"`
}

// FlakyTest counts how often a test flipped between failing and
// passing across the stored runs.
type FlakyTest struct {
	Title    string `db:"title" json:"title"`
	Flakes   int    `db:"flakes" json:"flakes"`
	Failures int    `db:"failures" json:"failures"`
	Attempts int    `db:"attempts" json:"attempts"`
}

// RecentRuns returns up to limit stored runs, newest first.
func (h *DB) RecentRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []RunRow
	err := h.db.Select(&rows, `
		SELECT run_id, project, started_at, finished_at,
		       total, passed, failed, skipped, flaky, pass_rate
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent runs: %w", err)
	}
	return rows, nil
}

// Run returns one stored run by id.
func (h *DB) Run(runID string) (RunRow, error) {
	var row RunRow
	err := h.db.Get(&row, `
		SELECT run_id, project, started_at, finished_at,
		       total, passed, failed, skipped, flaky, pass_rate
		FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return RunRow{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	return row, nil
}

// RunOutcomes returns the stored outcomes of one run in insertion
// order.
func (h *DB) RunOutcomes(runID string) ([]OutcomeRow, error) {
	var rows []OutcomeRow
	err := h.db.Select(&rows, `
		SELECT run_id, title, file, project, status,
		       duration_ms, retry_count, error_message, started_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes for %s: %w", runID, err)
	}
	return rows, nil
}

// Trends returns per-day average pass rates over the last days days,
// oldest day first.
func (h *DB) Trends(days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var points []TrendPoint
	err := h.db.Select(&points, `
		SELECT substr(started_at, 1, 10) AS day,
		       COUNT(*) AS runs,
		       AVG(pass_rate) AS pass_rate
		FROM runs
		WHERE started_at >= ?
		GROUP BY day
		ORDER BY day`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("load trends: %w", err)
	}
	return points, nil
}

// FlakyTests lists tests recorded flaky at least minFlakes times, most
// unstable first.
func (h *DB) FlakyTests(minFlakes int) ([]FlakyTest, error) {
	if minFlakes <= 0 {
		minFlakes = 1
	}
	var rows []FlakyTest
	err := h.db.Select(&rows, `
		SELECT title,
		       SUM(CASE WHEN status = 'flaky' THEN 1 ELSE 0 END) AS flakes,
		       SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failures,
		       COUNT(*) AS attempts
		FROM outcomes
		GROUP BY title
		HAVING flakes >= ?
		ORDER BY flakes DESC, failures DESC, title`, minFlakes)
	if err != nil {
		return nil, fmt.Errorf("load flaky tests: %w", err)
	}
	return rows, nil
}
