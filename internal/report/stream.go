package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// StreamRecord is one line of the outcome stream: an outcome plus the
// run and worker process that produced it. Parallel workers append to
// the same file and a merge reassembles the run afterwards.
type StreamRecord struct {
	RunID   string  `json:"runId"`
	Worker  int     `json:"worker"`
	Outcome Outcome `json:"outcome"`
}

// StreamWriter appends outcome records to a JSON-lines file. Every
// record goes out as a single O_APPEND write so lines from parallel
// worker processes interleave without tearing.
type StreamWriter struct {
	mu   sync.Mutex
	file *os.File
}

// OpenStream opens the stream at path for appending, creating the file
// and its parent directory if needed.
func OpenStream(path string) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open outcome stream: %w", err)
	}
	return &StreamWriter{file: f}, nil
}

// Append writes one record as one line.
func (w *StreamWriter) Append(rec StreamRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal outcome record: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(data); err != nil {
		return fmt.Errorf("append outcome record: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (w *StreamWriter) Close() error {
	return w.file.Close()
}

var streamLogger = log.New(os.Stdout, "[report] ", log.LstdFlags)

// ReadStream loads every valid record from a stream file in file order.
// Lines that fail schema validation are skipped with a warning so one
// torn write cannot sink a whole merge.
func ReadStream(path string) ([]StreamRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outcome stream: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Error stacks can make lines long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []StreamRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := ValidateRecord(line); err != nil {
			streamLogger.Printf("warning: skipping %s:%d: %v", filepath.Base(path), lineNo, err)
			continue
		}
		var rec StreamRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			streamLogger.Printf("warning: skipping %s:%d: %v", filepath.Base(path), lineNo, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read outcome stream: %w", err)
	}
	return records, nil
}

// MergeRecords flattens stream records into outcomes, preserving file
// order. Records from every worker and run in the file are included.
func MergeRecords(records []StreamRecord) []Outcome {
	outcomes := make([]Outcome, 0, len(records))
	for _, rec := range records {
		outcomes = append(outcomes, rec.Outcome)
	}
	return outcomes
}

// RunIDs returns the distinct run identifiers present in records, in
// first-seen order.
func RunIDs(records []StreamRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, rec := range records {
		if _, ok := seen[rec.RunID]; ok {
			continue
		}
		seen[rec.RunID] = struct{}{}
		ids = append(ids, rec.RunID)
	}
	return ids
}
