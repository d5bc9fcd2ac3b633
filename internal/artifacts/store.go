package artifacts

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Well-known locations under the results root.
const (
	screenshotsDir = "screenshots"
	tracesDir      = "traces"
	logsDir        = "logs"
	pagesDir       = "pages"
	videosDir      = "videos"

	reportFile   = "custom-report.html"
	outcomesFile = "outcomes.jsonl"
)

// Store owns the test-results directory layout. Directories are created
// lazily the first time a path inside them is requested; creation is
// idempotent so parallel workers can share one root.
type Store struct {
	root   string
	logger *log.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		root:   dir,
		logger: log.New(os.Stdout, "[artifacts] ", log.LstdFlags),
	}
}

// Root returns the results root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) ensureDir(sub string) (string, error) {
	dir := filepath.Join(s.root, sub)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// ScreenshotPath returns screenshots/failure-<test>-<token>.png under
// the root, creating the directory if needed.
func (s *Store) ScreenshotPath(test, token string) (string, error) {
	dir, err := s.ensureDir(screenshotsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("failure-%s-%s.png", test, token)), nil
}

// TracePath returns traces/trace-<test>-<token>.zip under the root.
func (s *Store) TracePath(test, token string) (string, error) {
	dir, err := s.ensureDir(tracesDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("trace-%s-%s.zip", test, token)), nil
}

// ConsoleLogPath returns logs/console-<test>-<token>.log under the root.
func (s *Store) ConsoleLogPath(test, token string) (string, error) {
	dir, err := s.ensureDir(logsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("console-%s-%s.log", test, token)), nil
}

// NetworkLogPath returns logs/network-<test>-<token>.json under the root.
func (s *Store) NetworkLogPath(test, token string) (string, error) {
	dir, err := s.ensureDir(logsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("network-%s-%s.json", test, token)), nil
}

// FailureReportPath returns logs/failure-report-<test>-<token>.json
// under the root.
func (s *Store) FailureReportPath(test, token string) (string, error) {
	dir, err := s.ensureDir(logsDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("failure-report-%s-%s.json", test, token)), nil
}

// PageSnapshotPath returns pages/page-<test>-<token>.html under the root.
func (s *Store) PageSnapshotPath(test, token string) (string, error) {
	dir, err := s.ensureDir(pagesDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("page-%s-%s.html", test, token)), nil
}

// VideosDir ensures and returns the video recording directory.
func (s *Store) VideosDir() (string, error) {
	return s.ensureDir(videosDir)
}

// ReportPath returns the rendered HTML report location.
func (s *Store) ReportPath() string {
	return filepath.Join(s.root, reportFile)
}

// OutcomesPath returns the append-only outcome stream location.
func (s *Store) OutcomesPath() string {
	return filepath.Join(s.root, outcomesFile)
}

// WriteFile writes data to path, creating parent directories as needed.
func (s *Store) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Rel converts an artifact path into a link relative to the results
// root, for embedding in reports. Paths outside the root come back
// unchanged.
func (s *Store) Rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// Sweep removes artifact files older than maxAge from the managed
// subdirectories. The rendered report and the outcome stream at the
// root are never swept. Returns the number of files removed.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, sub := range []string{screenshotsDir, tracesDir, logsDir, pagesDir, videosDir} {
		dir := filepath.Join(s.root, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				path := filepath.Join(dir, e.Name())
				if err := os.Remove(path); err != nil {
					s.logger.Printf("sweep: could not remove %s: %v", path, err)
					continue
				}
				removed++
			}
		}
	}
	return removed, nil
}
