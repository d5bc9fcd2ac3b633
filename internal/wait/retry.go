package wait

import (
	"fmt"
	"strings"
	"time"
)

// Retrier re-invokes an operation until it succeeds or the attempt budget
// is spent. Attempts run sequentially with a pause between them; no jitter.
type Retrier struct {
	attempts uint
	delay    time.Duration
	backoff  float64
}

// Times returns a Retrier that invokes the operation at most n times in
// total. Times(1) means a single attempt with no retry.
func Times(n uint) *Retrier {
	if n == 0 {
		n = 1
	}
	return &Retrier{
		attempts: n,
		delay:    time.Second,
		backoff:  1,
	}
}

// Delay sets the pause between attempts. The default is one second.
func (r *Retrier) Delay(d time.Duration) *Retrier {
	r.delay = d
	return r
}

// Backoff multiplies the pause by factor after each failed attempt.
// Factors below 1 are ignored.
func (r *Retrier) Backoff(factor float64) *Retrier {
	if factor >= 1 {
		r.backoff = factor
	}
	return r
}

// Try runs op until it returns nil or attempts are exhausted. The attempt
// index passed to op starts at 0. On exhaustion every attempt's error is
// carried in the returned AttemptsError, with the final attempt's error
// leading the message.
func (r *Retrier) Try(op func(attempt uint) error) error {
	errs := make([]error, 0, r.attempts)
	delay := r.delay
	for attempt := uint(0); attempt < r.attempts; attempt++ {
		err := op(attempt)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if attempt+1 < r.attempts && delay > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * r.backoff)
		}
	}
	return &AttemptsError{Errs: errs}
}

// AttemptsError reports that every attempt of a retried operation failed.
// Errs holds one error per attempt in invocation order.
type AttemptsError struct {
	Errs []error
}

func (e *AttemptsError) Error() string {
	last := e.Errs[len(e.Errs)-1]
	if len(e.Errs) == 1 {
		return last.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "after %d attempts: %v", len(e.Errs), last)
	for i, err := range e.Errs[:len(e.Errs)-1] {
		fmt.Fprintf(&b, "; attempt %d: %v", i+1, err)
	}
	return b.String()
}

// Unwrap exposes all attempt errors to errors.Is and errors.As.
func (e *AttemptsError) Unwrap() []error {
	return e.Errs
}
