package parallel

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperpolymath/betlang/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkPoolDrainsOnShutdown(t *testing.T) {
	pool := NewWorkPool(3)
	var done atomic.Int64
	for range 50 {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		}))
	}
	pool.Shutdown()
	assert.Equal(t, int64(50), done.Load())
	assert.Equal(t, 0, pool.Pending())

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, ErrPoolClosed, ErrConcurrency)
	pool.Shutdown()
}

func TestWorkPoolRunsInSubmissionOrder(t *testing.T) {
	pool := NewWorkPool(1)
	var mu sync.Mutex
	var seen []int
	for i := range 20 {
		require.NoError(t, pool.Submit(func() {
			mu.Lock()
			seen = append(seen, i)
			mu.Unlock()
		}))
	}
	pool.Shutdown()
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}

func TestWorkPoolRecoversPanics(t *testing.T) {
	logs, cleanup := core.CaptureLog(t, core.LogLevelError)
	defer cleanup()

	pool := NewWorkPool(2)
	var ran atomic.Int64
	require.NoError(t, pool.Submit(func() { panic("kaboom") }))
	require.NoError(t, pool.Submit(func() { ran.Add(1) }))
	pool.Shutdown()

	assert.Equal(t, int64(1), pool.Panics())
	assert.Equal(t, int64(1), ran.Load())
	core.AssertLogContains(t, logs.String(), "task panicked: kaboom")
}

func TestRateLimiter(t *testing.T) {
	_, err := NewRateLimiter(0, 1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	_, err = NewRateLimiter(1, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	rl, err := NewRateLimiter(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, rl.Capacity())
	assert.True(t, rl.TryAcquire())
	assert.True(t, rl.TryAcquire())
	assert.True(t, rl.TryAcquire())
	assert.False(t, rl.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, rl.Acquire(ctx))
	assert.LessOrEqual(t, rl.Available(), 3)

	slow, err := NewRateLimiter(1, 0.001)
	require.NoError(t, err)
	require.True(t, slow.TryAcquire())
	short, cancel2 := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel2()
	assert.Error(t, slow.Acquire(short))
}

func TestConcurrentCollections(t *testing.T) {
	m := NewConcurrentMap[int]()
	vec := NewConcurrentVector[int]()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update("hits", func(old int, _ bool) int { return old + 1 })
			vec.Push(i)
		}()
	}
	wg.Wait()

	hits, ok := m.Get("hits")
	require.True(t, ok)
	assert.Equal(t, 100, hits)
	assert.Equal(t, 100, vec.Len())

	m.Set("a", 1)
	assert.Equal(t, []string{"a", "hits"}, m.Keys())
	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, map[string]int{"hits": 100}, m.Snapshot())

	require.NoError(t, vec.Update(0, func(v int) int { return v + 1000 }))
	v, err := vec.Get(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 1000)
	assert.ErrorIs(t, vec.Set(100, 1), ErrIndexOutOfRange)
	_, err = vec.Get(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestChannel(t *testing.T) {
	ctx := context.Background()
	ch := NewChannel[int](2)
	require.NoError(t, ch.Send(ctx, 1))
	ok, err := ch.TrySend(2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ch.TrySend(3)
	require.NoError(t, err)
	assert.False(t, ok)

	go func() {
		time.Sleep(5 * time.Millisecond)
		_, _, _ = ch.TryRecv()
	}()
	require.NoError(t, ch.Send(ctx, 3))

	ch.Close()
	assert.ErrorIs(t, ch.Send(ctx, 4), ErrChannelClosed)

	v, err := ch.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	v, err = ch.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	_, err = ch.Recv(ctx)
	assert.ErrorIs(t, err, ErrChannelClosed)

	empty := NewChannel[string](1)
	short, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
	defer cancel()
	_, err = empty.Recv(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorkPoolLogsShutdownOnce(t *testing.T) {
	logs, cleanup := core.CaptureLog(t, core.LogLevelInfo)
	defer cleanup()

	pool := NewWorkPool(2)
	require.NoError(t, pool.Submit(func() { panic("kaboom") }))
	pool.Shutdown()
	pool.Shutdown()

	out := logs.String()
	core.AssertLogContains(t, out, "[pool "+pool.ID[:8]+"] shut down 2 workers, 1 tasks panicked")
	assert.Equal(t, 1, strings.Count(out, "shut down"))
}
