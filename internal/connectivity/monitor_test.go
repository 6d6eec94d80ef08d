package connectivity

import (
	"context"
	"testing"

	"pos-service/internal/cache"
	"pos-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor(cache.NewMemoryStore(), nil, zap.NewNop())
	assert.True(t, m.Online())
}

func TestMonitorSetOnlineTransitions(t *testing.T) {
	m := NewMonitor(cache.NewMemoryStore(), nil, zap.NewNop())

	m.SetOnline(false)
	assert.False(t, m.Online())

	m.SetOnline(false) // repeated signal is harmless
	assert.False(t, m.Online())

	m.SetOnline(true)
	assert.True(t, m.Online())
}

func TestMonitorPendingCountTracksQueue(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	m := NewMonitor(store, nil, zap.NewNop())

	assert.Zero(t, m.PendingCount(ctx))

	require.NoError(t, store.EnqueuePending(ctx, model.SaleRecord{ID: "sale-1"}))
	require.NoError(t, store.EnqueuePending(ctx, model.SaleRecord{ID: "sale-2"}))
	assert.Equal(t, int64(2), m.PendingCount(ctx))

	require.NoError(t, store.DropPending(ctx))
	assert.Equal(t, int64(1), m.PendingCount(ctx))
}
