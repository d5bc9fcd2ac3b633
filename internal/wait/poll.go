package wait

import (
	"fmt"
	"time"
)

// For polls cond every interval until it reports true. It returns an error
// if cond itself errors or the timeout elapses first. cond is always
// invoked at least once, even with a zero timeout.
func For(cond func() (bool, error), timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("condition not met within %s", timeout)
		}
		time.Sleep(interval)
	}
}
