package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "product:1", product{Name: "Hoodie", Price: 899}, 5*time.Minute))

	var got product
	assert.True(t, m.Get(ctx, "product:1", &got))
	assert.Equal(t, "Hoodie", got.Name)

	now = now.Add(6 * time.Minute)
	assert.False(t, m.Get(ctx, "product:1", &got))
}

func TestMemoryDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Del(ctx, "a", "missing"))

	var n int
	assert.False(t, m.Get(ctx, "a", &n))
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	require.NoError(t, s.Set(context.Background(), "k", 1, time.Minute))
	var n int
	assert.False(t, s.Get(context.Background(), "k", &n))
}
