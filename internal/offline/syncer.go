package offline

import (
	"context"
	"errors"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/internal/store"
	"pos-service/pkg/config"

	"go.uber.org/zap"
)

// Syncer drains the pending queue back to the remote store once connectivity
// returns. Records are replayed in FIFO order, peek-then-drop so a crash mid
// delivery never loses a record, and the remote insert is idempotent on the
// client-generated ID so a re-delivery after a lost acknowledgement is safe.
type Syncer struct {
	remote RemoteSink
	cache  cache.Store
	conn   Connectivity
	cfg    config.SyncConfig
	log    *zap.Logger
}

// NewSyncer wires a Syncer from its ports.
func NewSyncer(remote RemoteSink, cacheStore cache.Store, conn Connectivity, cfg config.SyncConfig, log *zap.Logger) *Syncer {
	return &Syncer{remote: remote, cache: cacheStore, conn: conn, cfg: cfg, log: log}
}

// Run drains on an interval until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	interval := s.cfg.DrainInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.conn.Online() {
				continue
			}
			if _, err := s.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Warn("drain pass incomplete", zap.Error(err))
			}
		}
	}
}

// Drain replays queued records until the queue empties, connectivity drops,
// or the head record exhausts its retry budget. It returns how many records
// were delivered.
func (s *Syncer) Drain(ctx context.Context) (int, error) {
	delivered := 0

	for s.conn.Online() {
		rec, err := s.cache.PeekPending(ctx)
		if err != nil {
			return delivered, err
		}
		if rec == nil {
			break
		}

		rec.Synced = true
		if err := s.deliver(ctx, *rec); err != nil {
			// Head stays queued; FIFO order is preserved and the next pass
			// starts over with it.
			s.log.Warn("pending sale not delivered",
				zap.String("sale_id", rec.ID),
				zap.Error(err))
			return delivered, err
		}

		if err := s.cache.DropPending(ctx); err != nil {
			// The record is already remote; the idempotent insert makes the
			// inevitable replay harmless.
			return delivered, err
		}
		delivered++
		s.log.Info("pending sale delivered", zap.String("sale_id", rec.ID))
	}

	return delivered, nil
}

// deliver attempts one record with exponential backoff between attempts.
func (s *Syncer) deliver(ctx context.Context, rec model.SaleRecord) error {
	backoff := s.cfg.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	for attempt := 1; ; attempt++ {
		err := s.remote.InsertSale(ctx, rec)
		if err == nil || errors.Is(err, store.ErrDuplicateSale) {
			return nil
		}

		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			return err
		}
		if !s.conn.Online() {
			return err
		}

		s.log.Warn("sale replay failed, backing off",
			zap.String("sale_id", rec.ID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if limit := s.cfg.MaxBackoff; limit > 0 && backoff > limit {
			backoff = limit
		}
	}
}
