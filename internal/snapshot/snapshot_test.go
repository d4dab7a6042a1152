package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/clock"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func counter(loads *int32, value string) LoadFunc[string] {
	return func(ctx context.Context) (string, error) {
		atomic.AddInt32(loads, 1)
		return value, nil
	}
}

func TestCache_ReusesWithinTTL(t *testing.T) {
	clk := clock.NewFake(epoch)
	c := New[string]("test", time.Hour, clk, nil)
	ctx := context.Background()
	var loads int32

	v, err := c.Get(ctx, counter(&loads, "a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	clk.Advance(59 * time.Minute)
	v, err = c.Get(ctx, counter(&loads, "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
}

func TestCache_RefreshesAfterTTL(t *testing.T) {
	clk := clock.NewFake(epoch)
	c := New[string]("test", time.Hour, clk, nil)
	ctx := context.Background()
	var loads int32

	_, err := c.Get(ctx, counter(&loads, "a"))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	v, err := c.Get(ctx, counter(&loads, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&loads))
}

func TestCache_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	clk := clock.NewFake(epoch)
	c := New[string]("test", time.Hour, clk, nil)
	ctx := context.Background()
	var loads int32

	_, err := c.Get(ctx, counter(&loads, "good"))
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	boom := errors.New("upstream down")
	_, err = c.Get(ctx, func(context.Context) (string, error) { return "", boom })
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	v, fetchedAt, ok := c.Peek()
	require.True(t, ok)
	assert.Equal(t, "good", v)
	assert.Equal(t, epoch, fetchedAt)
}

func TestCache_FailedFirstLoadCachesNothing(t *testing.T) {
	c := New[string]("test", time.Hour, clock.NewFake(epoch), nil)

	_, err := c.Get(context.Background(), func(context.Context) (string, error) {
		return "partial", errors.New("truncated body")
	})
	require.Error(t, err)

	_, _, ok := c.Peek()
	assert.False(t, ok)
}

func TestCache_ConcurrentMissesCollapse(t *testing.T) {
	c := New[string]("test", time.Hour, nil, nil)
	ctx := context.Background()

	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return "v", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(ctx, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the callers pile up on the in-flight load before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
	for _, v := range results {
		assert.Equal(t, "v", v)
	}
}

func TestCache_InvalidateAndSetTTL(t *testing.T) {
	clk := clock.NewFake(epoch)
	c := New[string]("test", time.Hour, clk, nil)
	ctx := context.Background()
	var loads int32

	_, err := c.Get(ctx, counter(&loads, "a"))
	require.NoError(t, err)

	c.Invalidate()
	_, err = c.Get(ctx, counter(&loads, "b"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&loads))

	c.SetTTL(time.Minute)
	assert.Equal(t, time.Minute, c.TTL())
	clk.Advance(2 * time.Minute)
	v, err := c.Get(ctx, counter(&loads, "c"))
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}
