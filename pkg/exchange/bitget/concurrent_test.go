package bitget

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitgetx/pkg/core"
)

func TestGather_KeepsCallOrder(t *testing.T) {
	calls := make([]Call[int], 5)
	for i := range calls {
		calls[i] = func(context.Context) (int, error) {
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			return i * 10, nil
		}
	}

	results := Gather(context.Background(), 0, calls...)
	require.Len(t, results, 5)
	for i, r := range results {
		v, err := r.Unwrap()
		require.NoError(t, err)
		assert.Equal(t, i*10, v)
	}
}

func TestGather_FailureDoesNotCancelOthers(t *testing.T) {
	boom := errors.New("boom")
	results := Gather[string](context.Background(), 2,
		func(context.Context) (string, error) { return "", boom },
		func(ctx context.Context) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return "ok", ctx.Err()
		},
	)

	assert.False(t, results[0].IsOk())
	assert.ErrorIs(t, results[0].Err(), boom)
	v, err := results[1].Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGather_RespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	calls := make([]Call[struct{}], 8)
	for i := range calls {
		calls[i] = func(context.Context) (struct{}, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		}
	}

	Gather(context.Background(), 3, calls...)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestAsync(t *testing.T) {
	ch := Async[int](context.Background(), func(context.Context) (int, error) { return 7, nil })

	r, ok := <-ch
	require.True(t, ok)
	v, err := r.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestGather_ClientCalls(t *testing.T) {
	f := newFakeBitget(t).on(PathTickers, ethTickerData)
	c := f.client(core.ModeConcurrent)

	calls := make([]Call[apd.Decimal], 6)
	for i := range calls {
		calls[i] = func(ctx context.Context) (apd.Decimal, error) { return c.GetPrice(ctx, "ETH") }
	}

	results := Gather(context.Background(), 0, calls...)
	for _, r := range results {
		price, err := r.Unwrap()
		require.NoError(t, err)
		assert.Equal(t, "3500.00", price.String())
	}
	assert.Len(t, f.requests(), 6)
}
