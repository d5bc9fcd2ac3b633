package capture

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ConsoleEntry is one buffered console message. Page errors are folded
// into the same stream with kind "pageerror".
type ConsoleEntry struct {
	Kind string
	Text string
	When time.Time
}

// NetworkEntry is one buffered request or response, distinguished by
// Phase. Entries keep arrival order.
type NetworkEntry struct {
	Phase  string    `json:"phase"`
	Method string    `json:"method,omitempty"`
	Status int       `json:"status,omitempty"`
	URL    string    `json:"url"`
	When   time.Time `json:"time"`
}

func (s *Session) recordConsole(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = append(s.console, ConsoleEntry{Kind: kind, Text: text, When: time.Now()})
}

func (s *Session) recordRequest(method, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = append(s.network, NetworkEntry{Phase: "request", Method: method, URL: url, When: time.Now()})
}

func (s *Session) recordResponse(status int, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = append(s.network, NetworkEntry{Phase: "response", Status: status, URL: url, When: time.Now()})
}

// ConsoleErrors returns the buffered console messages of type error,
// page errors included. Specs use it to assert a clean console.
func (s *Session) ConsoleErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []string
	for _, e := range s.console {
		if e.Kind == "error" || e.Kind == "pageerror" {
			errs = append(errs, e.Text)
		}
	}
	return errs
}

// FlushLogs writes the buffered console and network activity to their
// log files and returns root-relative paths. A path is empty when there
// was nothing to write or the write failed; write failures are logged.
func (s *Session) FlushLogs() (consolePath, networkPath string) {
	s.mu.Lock()
	console := append([]ConsoleEntry(nil), s.console...)
	network := append([]NetworkEntry(nil), s.network...)
	s.mu.Unlock()

	if len(console) > 0 {
		consolePath = s.flushConsole(console)
	}
	if len(network) > 0 {
		networkPath = s.flushNetwork(network)
	}
	return consolePath, networkPath
}

func (s *Session) flushConsole(entries []ConsoleEntry) string {
	path, err := s.store.ConsoleLogPath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	if err := s.store.WriteFile(path, renderConsoleLog(entries)); err != nil {
		s.logger.Printf("%s: could not flush console log: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

func (s *Session) flushNetwork(entries []NetworkEntry) string {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Printf("%s: could not encode network log: %v", s.title, err)
		return ""
	}
	path, err := s.store.NetworkLogPath(s.safe, s.token)
	if err != nil {
		s.logger.Printf("%s: %v", s.title, err)
		return ""
	}
	if err := s.store.WriteFile(path, data); err != nil {
		s.logger.Printf("%s: could not flush network log: %v", s.title, err)
		return ""
	}
	return s.store.Rel(path)
}

func renderConsoleLog(entries []ConsoleEntry) []byte {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s [%s] %s\n", e.When.UTC().Format("2006-01-02T15:04:05.000Z"), e.Kind, e.Text)
	}
	return []byte(b.String())
}
