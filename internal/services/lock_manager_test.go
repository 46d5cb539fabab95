package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	apperrors "treasury/internal/errors"
	"treasury/internal/metrics"
	"treasury/internal/testutil"
)

func TestNormalizeKeys(t *testing.T) {
	got := normalizeKeys([]string{"document:expense:1", "account:b", "", "account:a", "account:b"})
	assert.Equal(t, []string{"account:a", "account:b", "document:expense:1"}, got)
}

func TestLockManager(t *testing.T) {
	t.Run("busy_after_timeout", func(t *testing.T) {
		lm := NewLockManager(20*time.Millisecond, metrics.New())
		release, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		defer release()

		_, err = lm.Acquire(context.Background(), "account:a")
		testutil.AssertAppError(t, err, "BUSY")
		assert.True(t, apperrors.IsRetryable(err))
	})

	t.Run("partial_acquisition_is_rolled_back", func(t *testing.T) {
		lm := NewLockManager(20*time.Millisecond, nil)
		releaseB, err := lm.Acquire(context.Background(), "account:b")
		require.NoError(t, err)

		_, err = lm.Acquire(context.Background(), "account:a", "account:b")
		testutil.AssertAppError(t, err, "BUSY")

		// account:a must have been released when account:b timed out.
		releaseA, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		releaseA()
		releaseB()
	})

	t.Run("cancelled_context_is_busy", func(t *testing.T) {
		lm := NewLockManager(time.Second, nil)
		release, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		defer release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = lm.Acquire(ctx, "account:a")
		testutil.AssertAppError(t, err, "BUSY")
	})

	t.Run("release_is_idempotent", func(t *testing.T) {
		lm := NewLockManager(time.Second, nil)
		release, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		release()
		release()

		again, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		again()
	})

	t.Run("opposite_order_does_not_deadlock", func(t *testing.T) {
		lm := NewLockManager(5*time.Second, nil)
		var g errgroup.Group
		var done atomic.Int64
		for i := 0; i < 50; i++ {
			keys := []string{"account:x", "account:y"}
			if i%2 == 1 {
				keys = []string{"account:y", "account:x"}
			}
			g.Go(func() error {
				release, err := lm.Acquire(context.Background(), keys...)
				if err != nil {
					return err
				}
				done.Add(1)
				release()
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int64(50), done.Load())
	})

	t.Run("mutual_exclusion", func(t *testing.T) {
		lm := NewLockManager(5*time.Second, nil)
		var inside, maxInside atomic.Int64
		var g errgroup.Group
		for i := 0; i < 20; i++ {
			g.Go(func() error {
				release, err := lm.Acquire(context.Background(), "account:z")
				if err != nil {
					return err
				}
				n := inside.Add(1)
				if n > maxInside.Load() {
					maxInside.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				release()
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int64(1), maxInside.Load())
	})

	t.Run("idle_keys_are_evicted", func(t *testing.T) {
		lm := NewLockManager(20*time.Millisecond, nil).(*lockManager)

		for i := 0; i < 100; i++ {
			release, err := lm.Acquire(context.Background(), AccountLockKey(fmt.Sprint(i)), "document:expense:1")
			require.NoError(t, err)
			release()
		}
		assert.Equal(t, 0, lm.size())

		held, err := lm.Acquire(context.Background(), "account:a")
		require.NoError(t, err)
		_, err = lm.Acquire(context.Background(), "account:a", "account:b")
		testutil.AssertAppError(t, err, "BUSY")
		assert.Equal(t, 1, lm.size())

		held()
		assert.Equal(t, 0, lm.size())
	})

	t.Run("contended_keys_are_evicted", func(t *testing.T) {
		lm := NewLockManager(5*time.Second, nil).(*lockManager)
		var g errgroup.Group
		for i := 0; i < 30; i++ {
			g.Go(func() error {
				release, err := lm.Acquire(context.Background(), "account:shared", "account:other")
				if err != nil {
					return err
				}
				release()
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, 0, lm.size())
	})
}
