// Package history stores finished runs in a local sqlite database so
// pass rates and flaky tests can be tracked across runs, not just
// within one.
package history

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL UNIQUE,
	project     TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	total       INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	flaky       INTEGER NOT NULL,
	pass_rate   REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	title         TEXT NOT NULL,
	file          TEXT NOT NULL DEFAULT '',
	project       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	retry_count   INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	started_at    TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_title ON outcomes(title);
`

// DB is a handle on the run history database.
type DB struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at path, creating the schema if
// needed. Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	// sqlite serializes writers anyway; one connection also keeps
	// :memory: databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (h *DB) Close() error {
	return h.db.Close()
}

// InsertRun stores a finished run and its outcomes in one transaction.
// Inserting the same run id again replaces the stored run.
func (h *DB) InsertRun(doc report.RunDocument) error {
	if doc.RunID == "" {
		return fmt.Errorf("run document has no run id")
	}
	row := RunRow{
		RunID:      doc.RunID,
		Project:    runProject(doc.Outcomes),
		StartedAt:  doc.Summary.StartTime,
		FinishedAt: doc.Summary.EndTime,
		Total:      doc.Summary.Total,
		Passed:     doc.Summary.Passed,
		Failed:     doc.Summary.Failed,
		Skipped:    doc.Summary.Skipped,
		Flaky:      doc.Summary.Flaky,
		PassRate:   doc.Summary.PassRate(),
	}

	tx, err := h.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin history insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM outcomes WHERE run_id = ?`, doc.RunID); err != nil {
		return fmt.Errorf("clear previous outcomes: %w", err)
	}
	_, err = tx.NamedExec(`
		INSERT OR REPLACE INTO runs
			(run_id, project, started_at, finished_at, total, passed, failed, skipped, flaky, pass_rate)
		VALUES
			(:run_id, :project, :started_at, :finished_at, :total, :passed, :failed, :skipped, :flaky, :pass_rate)`,
		row)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", doc.RunID, err)
	}

	for _, o := range doc.Outcomes {
		_, err := tx.Exec(`
			INSERT INTO outcomes
				(run_id, title, file, project, status, duration_ms, retry_count, error_message, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.RunID, o.Title, o.File, o.Project, string(o.Status),
			o.DurationMs, o.Retry, o.ErrorMessage, o.StartedAt)
		if err != nil {
			return fmt.Errorf("insert outcome %q: %w", o.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history insert: %w", err)
	}
	return nil
}

func runProject(outcomes []report.Outcome) string {
	for _, o := range outcomes {
		if o.Project != "" {
			return o.Project
		}
	}
	return ""
}
