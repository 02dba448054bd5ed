package keygen

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFillsSlots(t *testing.T) {
	out := make([]int, 100)
	err := Run(context.Background(), 8, len(out), func(_ context.Context, i int) error {
		out[i] = i * i
		return nil
	})
	require.NoError(t, err)
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var running, peak int32
	err := Run(context.Background(), 3, 50, func(context.Context, int) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestRunFailFast(t *testing.T) {
	boom := errors.New("boom")
	var calls int32
	err := Run(context.Background(), 1, 1000, func(_ context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		if i == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Less(t, atomic.LoadInt32(&calls), int32(1000))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, 4, 10, func(context.Context, int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
