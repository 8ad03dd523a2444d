package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"))
	v, ok := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(20 * time.Millisecond)
	m.Set(ctx, "k", []byte("v"))
	time.Sleep(40 * time.Millisecond)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestOpenWithoutAddrUsesMemory(t *testing.T) {
	c, closeFn := Open(context.Background(), "", 0, nil)
	_, isMemory := c.(*Memory)
	assert.True(t, isMemory)
	assert.NoError(t, closeFn())
}
