package harness

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
)

// stopAttempt is the panic value FailNow and SkipNow unwind with so a
// single attempt can stop without touching the real testing.T.
type stopAttempt struct{ skip bool }

// recorder stands in for *testing.T during one attempt. testify's
// require and assert write into it, which keeps failures private to
// the attempt until the harness has decided between retry and final
// failure.
type recorder struct {
	mu      sync.Mutex
	errs    []string
	stk     string
	skipped bool
	skipMsg string
}

func newRecorder() *recorder { return &recorder{} }

// Errorf records a failure and lets the attempt continue, matching
// testing.T. The goroutine stack at the first failure is kept for the
// failure report.
func (r *recorder) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
	if r.stk == "" {
		r.stk = string(debug.Stack())
	}
}

// FailNow aborts the attempt, matching testing.T. Like its namesake it
// must run on the attempt's goroutine.
func (r *recorder) FailNow() {
	r.mu.Lock()
	if len(r.errs) == 0 {
		r.errs = append(r.errs, "test aborted with FailNow")
		r.stk = string(debug.Stack())
	}
	r.mu.Unlock()
	panic(stopAttempt{})
}

// SkipNow marks the attempt skipped and aborts it.
func (r *recorder) SkipNow() {
	r.skip("")
}

func (r *recorder) skip(msg string) {
	r.mu.Lock()
	r.skipped = true
	r.skipMsg = msg
	r.mu.Unlock()
	panic(stopAttempt{skip: true})
}

// Helper is a no-op; it exists so testify treats recorder methods like
// testing helpers.
func (r *recorder) Helper() {}

func (r *recorder) isFailed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs) > 0 && !r.skipped
}

func (r *recorder) isSkipped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

func (r *recorder) message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.errs, "\n")
}

func (r *recorder) skipMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipMsg
}

func (r *recorder) stack() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stk
}
