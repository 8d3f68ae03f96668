package cache

import (
	"context"
	"testing"
	"time"

	"bcvrates-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestMemory_FreshnessWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC)
	m := &Memory{TTL: 5 * time.Minute, Now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, domain.RateRecord{Value: 36.42}))

	now = now.Add(4 * time.Minute)
	got, ok := m.Get(ctx)
	require.True(t, ok, "entry within TTL must hit")
	require.InDelta(t, 36.42, got.Value, 1e-9)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx)
	require.False(t, ok, "entry past TTL must miss")

	// The stale slot was evicted, not just hidden.
	now = now.Add(-3 * time.Minute)
	_, ok = m.Get(ctx)
	require.False(t, ok)
}

func TestMemory_SingleSlotOverwrite(t *testing.T) {
	t.Parallel()
	m := &Memory{TTL: time.Minute}
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, domain.RateRecord{Value: 36.0}))
	require.NoError(t, m.Put(ctx, domain.RateRecord{Value: 36.5}))

	got, ok := m.Get(ctx)
	require.True(t, ok)
	require.InDelta(t, 36.5, got.Value, 1e-9)
}

func TestMemory_RejectsInvalid(t *testing.T) {
	t.Parallel()
	m := &Memory{}
	require.Error(t, m.Put(context.Background(), domain.RateRecord{Value: 0}))
}

func TestMemory_Clear(t *testing.T) {
	t.Parallel()
	m := &Memory{TTL: time.Minute}
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, domain.RateRecord{Value: 36.0}))
	require.NoError(t, m.Clear(ctx))
	_, ok := m.Get(ctx)
	require.False(t, ok)
}

func TestNoop_AlwaysMisses(t *testing.T) {
	t.Parallel()
	n := Noop{}
	ctx := context.Background()
	require.NoError(t, n.Put(ctx, domain.RateRecord{Value: 36.0}))
	_, ok := n.Get(ctx)
	require.False(t, ok)
}
