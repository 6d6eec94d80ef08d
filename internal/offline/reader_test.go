package offline

import (
	"context"
	"errors"
	"testing"

	"pos-service/internal/cache"
	"pos-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReaderOnlineServesRemoteAndRefreshesCache(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{products: []model.Product{
		{ID: 1, Name: "Rice", Category: "staples", SellingPrice: 100},
		{ID: 2, Name: "Soap", Category: "household", SellingPrice: 20},
	}}
	store := cache.NewMemoryStore()
	r := NewReader(remote, store, &stubConn{online: true}, zap.NewNop())

	products, fromRemote, err := r.Products(ctx, nil)
	require.NoError(t, err)
	assert.True(t, fromRemote)
	assert.Len(t, products, 2)

	// The snapshot must now serve an offline read.
	offlineReader := NewReader(remote, store, &stubConn{online: false}, zap.NewNop())
	cached, fromRemote, err := offlineReader.Products(ctx, nil)
	require.NoError(t, err)
	assert.False(t, fromRemote)
	assert.ElementsMatch(t, remote.products, cached)
}

func TestReaderOfflineNeverTouchesRemote(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{listErr: errors.New("network should not be reached")}
	store := cache.NewMemoryStore()
	require.NoError(t, store.Put(ctx, model.CollectionProducts, []model.Product{{ID: 1, Name: "Rice"}}))

	r := NewReader(remote, store, &stubConn{online: false}, zap.NewNop())
	products, fromRemote, err := r.Products(ctx, nil)
	require.NoError(t, err)
	assert.False(t, fromRemote)
	require.Len(t, products, 1)
	assert.Equal(t, "Rice", products[0].Name)
}

func TestReaderOfflineAppliesFiltersLocally(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Put(ctx, model.CollectionProducts, []model.Product{
		{ID: 1, Name: "Rice", Category: "staples"},
		{ID: 2, Name: "Soap", Category: "household"},
	}))

	r := NewReader(&fakeRemote{}, store, &stubConn{online: false}, zap.NewNop())
	products, _, err := r.Products(ctx, cache.Filters{"category": "staples"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Rice", products[0].Name)
}

func TestReaderFallsBackToCacheOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Put(ctx, model.CollectionCustomers, []model.Customer{{ID: 7, Name: "Ama"}}))

	remoteErr := errors.New("connection refused")
	r := NewReader(&fakeRemote{listErr: remoteErr}, store, &stubConn{online: true}, zap.NewNop())

	customers, fromRemote, err := r.Customers(ctx, nil)
	// Stale data and the remote error surface together.
	require.ErrorIs(t, err, remoteErr)
	assert.False(t, fromRemote)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ama", customers[0].Name)
}

func TestReaderEmptyCacheMissIsEmptyResult(t *testing.T) {
	r := NewReader(&fakeRemote{}, cache.NewMemoryStore(), &stubConn{online: false}, zap.NewNop())

	sales, fromRemote, err := r.Sales(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, fromRemote)
	assert.Empty(t, sales)
}
