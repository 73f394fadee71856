package contentcal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	require.NotNil(t, runner)
	_, ok := runner.(*errGroupRunner)
	assert.True(t, ok, "DefaultRunner should return *errGroupRunner, got %T", runner)
}

func TestErrGroupRunner_AllTasksRun(t *testing.T) {
	runner := DefaultRunner(context.Background())

	var counter int32
	for i := 0; i < 100; i++ {
		runner.Go(func() error {
			atomic.AddInt32(&counter, 1)
			time.Sleep(time.Millisecond)
			return nil
		})
	}

	require.NoError(t, runner.Wait())
	assert.Equal(t, int32(100), atomic.LoadInt32(&counter))
}

func TestErrGroupRunner_ReturnsTaskError(t *testing.T) {
	runner := DefaultRunner(context.Background())
	expected := errors.New("test error")

	runner.Go(func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	runner.Go(func() error { return expected })

	assert.ErrorIs(t, runner.Wait(), expected)
}

func TestErrGroupRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := DefaultRunner(ctx)

	runner.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	cancel()

	assert.ErrorIs(t, runner.Wait(), context.Canceled)
}

func TestErrGroupRunner_EmptyRunner(t *testing.T) {
	assert.NoError(t, DefaultRunner(context.Background()).Wait())
}

func TestLimitedRunner_RespectsLimit(t *testing.T) {
	runner := NewLimitedRunner(context.Background(), 2)

	var running, peak int32
	for i := 0; i < 10; i++ {
		runner.Go(func() error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	require.NoError(t, runner.Wait())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestLimitedRunner_ZeroMeansOne(t *testing.T) {
	r := newErrGroupRunner(context.Background(), 0)
	assert.Equal(t, 1, cap(r.sem))
}

func TestLimitedRunner_FirstErrorWins(t *testing.T) {
	runner := NewLimitedRunner(context.Background(), 1)
	boom := errors.New("boom")

	runner.Go(func() error { return boom })
	for i := 0; i < 5; i++ {
		runner.Go(func() error { return nil })
	}

	assert.ErrorIs(t, runner.Wait(), boom)
}
