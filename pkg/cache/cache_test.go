package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	c := New(0, 0)
	c.Put("Hello There", "general kenobi")

	entry, ok := c.Get("hello there")
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, "general kenobi", entry.Answer)
	assert.Equal(t, "hello there", entry.Question)
	assert.False(t, entry.CreatedAt.IsZero())

	_, ok = c.Get("HELLO THERE")
	assert.True(t, ok, "keys are case-insensitive")
}

func TestKeyKeepsWhitespace(t *testing.T) {
	c := New(0, 0)
	c.Put("hello  world", "a")

	_, ok := c.Get("hello world")
	assert.False(t, ok, "internal whitespace is part of the key")
	_, ok = c.Get(" hello  world")
	assert.False(t, ok, "leading whitespace is part of the key")
}

func TestPutOverwrites(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := New(0, 0)
	c.now = func() time.Time { return fixed }

	c.Put("q", "first")
	c.Put("Q", "second")

	entry, ok := c.Get("q")
	require.True(t, ok)
	assert.Equal(t, "second", entry.Answer)
	assert.Equal(t, fixed, entry.CreatedAt)
	assert.Equal(t, 1, c.Len())
}

func TestUnboundedByDefault(t *testing.T) {
	c := New(0, 0)
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("q%d", i), "a")
	}
	assert.Equal(t, 1000, c.Len())
	_, ok := c.Get("q0")
	assert.True(t, ok, "oldest entry must survive without a bound")
}

func TestMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, 0)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Get("a") // a is now most recent
	c.Put("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTLExpiration(t *testing.T) {
	c := New(0, 5*time.Millisecond)
	c.Put("q", "a")

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("q")
	assert.False(t, ok, "expected cache miss after TTL expiration")
}

func TestStats(t *testing.T) {
	c := New(0, 0)
	c.Put("h1", "data")
	c.Get("h1") // hit
	c.Get("h2") // miss

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Entries)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestClear(t *testing.T) {
	c := New(0, 0)
	c.Put("h1", "data")
	c.Put("h2", "data")

	c.Clear()

	assert.EqualValues(t, 0, c.Stats().Entries)
	_, ok := c.Get("h1")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("q%d", j)
				c.Put(key, "a")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, c.Len())
}

func TestPutIfAbsentKeepsFirstWriter(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, "first", c.PutIfAbsent("Q", "first"))
	assert.Equal(t, "first", c.PutIfAbsent("q", "second"))

	e, ok := c.Get("q")
	require.True(t, ok)
	assert.Equal(t, "first", e.Answer)
}

func TestPutIfAbsentConcurrent(t *testing.T) {
	c := New(0, 0)
	results := make([]string, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.PutIfAbsent("same", fmt.Sprintf("answer-%d", i))
		}(i)
	}
	wg.Wait()

	e, ok := c.Get("same")
	require.True(t, ok)
	for _, r := range results {
		assert.Equal(t, e.Answer, r)
	}
}
