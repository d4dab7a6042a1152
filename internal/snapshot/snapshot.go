// Package snapshot provides a read-mostly TTL cache holding one immutable value.
//
// A refresh builds a complete new value and swaps the pointer, so readers never see a
// partially populated snapshot. Concurrent refreshes collapse into one in-flight load.
// A failed refresh leaves the previous snapshot in place.
package snapshot

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/teranos/qntx-eurostat/internal/clock"
	"github.com/teranos/qntx-eurostat/logger"
	"github.com/teranos/qntx-eurostat/metrics"
)

// LoadFunc produces a fresh value for the cache.
type LoadFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache holds the latest successfully loaded value together with its load time.
type Cache[T any] struct {
	name    string
	ttl     atomic.Int64 // nanoseconds
	clock   clock.Clock
	current atomic.Pointer[entry[T]]
	group   singleflight.Group
	logger  *zap.SugaredLogger
}

// New creates an empty cache. name labels metrics and logs.
func New[T any](name string, ttl time.Duration, clk clock.Clock, log *zap.SugaredLogger) *Cache[T] {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Cache[T]{name: name, clock: clk, logger: log}
	c.ttl.Store(int64(ttl))
	return c
}

// Get returns the cached value if it is younger than the TTL, otherwise loads a new
// one. Load errors are returned to the caller and nothing is cached.
func (c *Cache[T]) Get(ctx context.Context, load LoadFunc[T]) (T, error) {
	if e := c.current.Load(); e != nil && c.fresh(e) {
		metrics.RecordCacheLookup(c.name, metrics.CacheHit)
		return e.value, nil
	}
	metrics.RecordCacheLookup(c.name, metrics.CacheMiss)

	ch := c.group.DoChan(c.name, func() (interface{}, error) {
		// Another caller may have refreshed while we queued on the group.
		if e := c.current.Load(); e != nil && c.fresh(e) {
			return e, nil
		}
		started := c.clock.Now()
		// The load outlives any single waiter; callers that give up stop waiting below.
		value, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		e := &entry[T]{value: value, fetchedAt: c.clock.Now()}
		c.current.Store(e)
		c.logger.Infow("Snapshot refreshed",
			logger.FieldCache, c.name,
			logger.FieldDurationMS, c.clock.Now().Sub(started).Milliseconds())
		return e, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			metrics.RecordCacheLookup(c.name, metrics.CacheRefreshError)
			return zero, res.Err
		}
		return res.Val.(*entry[T]).value, nil
	}
}

// Peek returns the current snapshot regardless of age.
func (c *Cache[T]) Peek() (value T, fetchedAt time.Time, ok bool) {
	e := c.current.Load()
	if e == nil {
		return value, time.Time{}, false
	}
	return e.value, e.fetchedAt, true
}

// Invalidate drops the current snapshot so the next Get reloads.
func (c *Cache[T]) Invalidate() {
	c.current.Store(nil)
}

// SetTTL changes the freshness window for subsequent lookups.
func (c *Cache[T]) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}

// TTL reports the freshness window.
func (c *Cache[T]) TTL() time.Duration {
	return time.Duration(c.ttl.Load())
}

func (c *Cache[T]) fresh(e *entry[T]) bool {
	return c.clock.Now().Sub(e.fetchedAt) < c.TTL()
}
