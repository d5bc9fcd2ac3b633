package wait

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrierTry(t *testing.T) {
	t.Run("always-failing operation runs exactly three times", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := Times(3).Delay(0).Try(func(attempt uint) error {
			calls++
			return boom
		})
		assert.Equal(t, 3, calls)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("final attempt error leads the message", func(t *testing.T) {
		errs := []error{
			errors.New("first"),
			errors.New("second"),
			errors.New("third"),
		}
		err := Times(3).Delay(0).Try(func(attempt uint) error {
			return errs[attempt]
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts: third")
	})

	t.Run("intermediate attempt errors are carried", func(t *testing.T) {
		first := errors.New("connection refused")
		second := errors.New("timeout")
		err := Times(2).Delay(0).Try(func(attempt uint) error {
			if attempt == 0 {
				return first
			}
			return second
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)

		var ae *AttemptsError
		require.ErrorAs(t, err, &ae)
		assert.Len(t, ae.Errs, 2)
		assert.Equal(t, first, ae.Errs[0])
		assert.Equal(t, second, ae.Errs[1])
	})

	t.Run("success on first attempt stops immediately", func(t *testing.T) {
		calls := 0
		err := Times(3).Delay(0).Try(func(attempt uint) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("success after failures returns nil", func(t *testing.T) {
		calls := 0
		err := Times(3).Delay(0).Try(func(attempt uint) error {
			calls++
			if attempt < 2 {
				return fmt.Errorf("attempt %d failed", attempt)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("attempt index starts at zero", func(t *testing.T) {
		var seen []uint
		_ = Times(3).Delay(0).Try(func(attempt uint) error {
			seen = append(seen, attempt)
			return errors.New("nope")
		})
		assert.Equal(t, []uint{0, 1, 2}, seen)
	})

	t.Run("zero attempts is treated as one", func(t *testing.T) {
		calls := 0
		err := Times(0).Delay(0).Try(func(attempt uint) error {
			calls++
			return errors.New("nope")
		})
		assert.Equal(t, 1, calls)
		require.Error(t, err)
	})

	t.Run("single attempt error is returned unadorned in message", func(t *testing.T) {
		err := Times(1).Try(func(attempt uint) error {
			return errors.New("only failure")
		})
		require.Error(t, err)
		assert.Equal(t, "only failure", err.Error())
	})

	t.Run("delay separates attempts", func(t *testing.T) {
		start := time.Now()
		_ = Times(3).Delay(20 * time.Millisecond).Try(func(attempt uint) error {
			return errors.New("nope")
		})
		// Two pauses between three attempts.
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("backoff grows the pause", func(t *testing.T) {
		start := time.Now()
		_ = Times(3).Delay(10 * time.Millisecond).Backoff(2).Try(func(attempt uint) error {
			return errors.New("nope")
		})
		// 10ms then 20ms.
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})
}
