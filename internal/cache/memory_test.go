package cache

import (
	"context"
	"encoding/json"
	"testing"

	"pos-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProducts(t *testing.T, raws []json.RawMessage) []model.Product {
	t.Helper()
	out := make([]model.Product, 0, len(raws))
	for _, raw := range raws {
		var p model.Product
		require.NoError(t, json.Unmarshal(raw, &p))
		out = append(out, p)
	}
	return out
}

func TestGetMissingCollectionIsEmptyNotError(t *testing.T) {
	s := NewMemoryStore()

	raws, err := s.Get(context.Background(), model.CollectionProducts, nil)
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestPutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	products := []model.Product{
		{ID: 1, Name: "Rice 5kg", Category: "staples", SellingPrice: 100, CostPrice: 60, CurrentStock: 10},
		{ID: 2, Name: "Soap", Category: "household", SellingPrice: 20, CostPrice: 12, CurrentStock: 4},
	}
	require.NoError(t, s.Put(ctx, model.CollectionProducts, products))

	raws, err := s.Get(ctx, model.CollectionProducts, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, products, decodeProducts(t, raws))
}

func TestPutReplacesSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.CollectionProducts, []model.Product{{ID: 1, Name: "Old"}}))
	require.NoError(t, s.Put(ctx, model.CollectionProducts, []model.Product{{ID: 2, Name: "New"}}))

	raws, err := s.Get(ctx, model.CollectionProducts, nil)
	require.NoError(t, err)
	got := decodeProducts(t, raws)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
}

func TestGetAppliesEqualityFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.CollectionProducts, []model.Product{
		{ID: 1, Name: "Rice", Category: "staples"},
		{ID: 2, Name: "Soap", Category: "household"},
		{ID: 3, Name: "Beans", Category: "staples"},
	}))

	tests := []struct {
		name    string
		filters Filters
		wantIDs []uint
	}{
		{"no filters returns all", nil, []uint{1, 2, 3}},
		{"category match", Filters{"category": "staples"}, []uint{1, 3}},
		{"nil filter values ignored", Filters{"category": nil}, []uint{1, 2, 3}},
		{"numeric fields compare across types", Filters{"id": 2}, []uint{2}},
		{"no match is empty", Filters{"category": "electronics"}, nil},
		{"unknown field matches nothing", Filters{"missing_field": "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws, err := s.Get(ctx, model.CollectionProducts, tt.filters)
			require.NoError(t, err)
			var gotIDs []uint
			for _, p := range decodeProducts(t, raws) {
				gotIDs = append(gotIDs, p.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.CollectionCustomers, []model.Customer{{ID: 1, Name: "Ama"}}))
	require.NoError(t, s.Invalidate(ctx, model.CollectionCustomers))

	raws, err := s.Get(ctx, model.CollectionCustomers, nil)
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestPendingQueueIsFIFO(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := model.SaleRecord{ID: "sale-1", ProductName: "Rice", TotalAmount: 200}
	second := model.SaleRecord{ID: "sale-2", ProductName: "Soap", TotalAmount: 20}
	require.NoError(t, s.EnqueuePending(ctx, first))
	require.NoError(t, s.EnqueuePending(ctx, second))

	n, err := s.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	head, err := s.PeekPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "sale-1", head.ID)

	// Peek does not consume.
	head, err = s.PeekPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sale-1", head.ID)

	require.NoError(t, s.DropPending(ctx))
	head, err = s.PeekPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "sale-2", head.ID)

	require.NoError(t, s.DropPending(ctx))
	head, err = s.PeekPending(ctx)
	require.NoError(t, err)
	assert.Nil(t, head)

	// Dropping an empty queue is harmless.
	require.NoError(t, s.DropPending(ctx))
}
