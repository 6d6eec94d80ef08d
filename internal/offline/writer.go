package offline

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/internal/store"

	"go.uber.org/zap"
)

// Writer records sales through whichever path connectivity allows. The caller
// samples connectivity once per checkout and passes it in, so every line of
// one checkout takes the same path.
type Writer struct {
	remote RemoteSink
	cache  cache.Store
	log    *zap.Logger
}

// NewWriter wires a Writer from its ports.
func NewWriter(remote RemoteSink, cacheStore cache.Store, log *zap.Logger) *Writer {
	return &Writer{remote: remote, cache: cacheStore, log: log}
}

// RecordSale persists one sale record. Online it goes straight to the remote
// store with Synced=true; a rejection fails only this record. Offline it is
// appended to the pending queue with Synced=false, raising the
// pending-operation count by one.
//
// The returned record carries the Synced flag as written.
func (w *Writer) RecordSale(ctx context.Context, rec model.SaleRecord, online bool) (model.SaleRecord, error) {
	rec.Synced = online

	if online {
		err := w.remote.InsertSale(ctx, rec)
		if errors.Is(err, store.ErrDuplicateSale) {
			// Already landed in an earlier attempt; idempotent success.
			w.log.Info("sale already recorded remotely", zap.String("sale_id", rec.ID))
			return rec, nil
		}
		if err != nil {
			return rec, fmt.Errorf("remote sale write: %w", err)
		}
		w.log.Info("sale recorded remotely",
			zap.String("sale_id", rec.ID),
			zap.Float64("total_amount", rec.TotalAmount))
		return rec, nil
	}

	if err := w.cache.EnqueuePending(ctx, rec); err != nil {
		return rec, fmt.Errorf("queue offline sale: %w", err)
	}
	w.log.Info("sale queued for sync",
		zap.String("sale_id", rec.ID),
		zap.Float64("total_amount", rec.TotalAmount))
	return rec, nil
}
