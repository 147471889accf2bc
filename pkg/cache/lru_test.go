package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundtrip(t *testing.T) {
	c := New(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	c.Set("k", []byte("v"))

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestEvictionAtCapacity(t *testing.T) {
	c := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte("v"))
		time.Sleep(time.Millisecond) // distinct insertion times
	}
	c.Set("k3", []byte("v"))

	assert.Equal(t, 3, c.Size())
	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestSetExistingKeyDoesNotEvict(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("a", []byte("3"))

	assert.Equal(t, 2, c.Size())
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("3"), got)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestFlush(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Flush()

	assert.Zero(t, c.Size())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
