package offline

import (
	"context"
	"encoding/json"

	"pos-service/internal/cache"
	"pos-service/internal/model"

	"go.uber.org/zap"
)

// Reader serves collection reads that keep working without connectivity.
//
// Online: query the remote store, refresh the cached snapshot, return the
// result. If the remote query fails, return the stale cached data together
// with the error so callers can surface both.
// Offline: serve straight from the cache, no network attempt.
//
// The boolean result reports whether the data came from the remote store.
type Reader struct {
	remote RemoteSource
	cache  cache.Store
	conn   Connectivity
	log    *zap.Logger
}

// NewReader wires a Reader from its ports.
func NewReader(remote RemoteSource, cacheStore cache.Store, conn Connectivity, log *zap.Logger) *Reader {
	return &Reader{remote: remote, cache: cacheStore, conn: conn, log: log}
}

// Products reads the products collection.
func (r *Reader) Products(ctx context.Context, filters cache.Filters) ([]model.Product, bool, error) {
	return readCollection(ctx, r, model.CollectionProducts, filters, r.remote.ListProducts)
}

// Customers reads the customers collection.
func (r *Reader) Customers(ctx context.Context, filters cache.Filters) ([]model.Customer, bool, error) {
	return readCollection(ctx, r, model.CollectionCustomers, filters, r.remote.ListCustomers)
}

// Sales reads the sales collection.
func (r *Reader) Sales(ctx context.Context, filters cache.Filters) ([]model.SaleRecord, bool, error) {
	return readCollection(ctx, r, model.CollectionSales, filters, r.remote.ListSales)
}

// readCollection is the shared read path. Each collection keeps its own typed
// record shape; the mapping from collection to fetch function lives in the
// exported methods above.
func readCollection[T any](
	ctx context.Context,
	r *Reader,
	col model.Collection,
	filters cache.Filters,
	fetch func(context.Context, map[string]any) ([]T, error),
) ([]T, bool, error) {
	if !r.conn.Online() {
		return fromCache[T](ctx, r, col, filters), false, nil
	}

	records, err := fetch(ctx, filters)
	if err != nil {
		r.log.Warn("remote read failed, serving cache",
			zap.String("collection", col.String()),
			zap.Error(err))
		return fromCache[T](ctx, r, col, filters), false, err
	}

	// Refresh the snapshot. The unfiltered snapshot is only replaced when the
	// read itself was unfiltered; a filtered result is a subset and would
	// shrink the cache for everyone else.
	if len(filters) == 0 {
		if putErr := r.cache.Put(ctx, col, records); putErr != nil {
			r.log.Warn("cache refresh failed",
				zap.String("collection", col.String()),
				zap.Error(putErr))
		}
	}

	return records, true, nil
}

// fromCache reads the cached snapshot, degrading to an empty slice on any
// cache failure.
func fromCache[T any](ctx context.Context, r *Reader, col model.Collection, filters cache.Filters) []T {
	raws, err := r.cache.Get(ctx, col, filters)
	if err != nil {
		r.log.Warn("cache read failed",
			zap.String("collection", col.String()),
			zap.Error(err))
		return []T{}
	}

	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			r.log.Warn("skipping undecodable cached record",
				zap.String("collection", col.String()),
				zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}
