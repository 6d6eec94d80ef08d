// Package connectivity tracks whether the remote store is reachable and how
// many locally queued writes are waiting for it.
package connectivity

import (
	"context"
	"sync/atomic"
	"time"

	"pos-service/internal/cache"

	"go.uber.org/zap"
)

// ProbeFunc checks the remote store, returning nil when it is reachable.
type ProbeFunc func() error

// Monitor holds the current online flag and the pending-operation count. The
// flag only changes on explicit SetOnline calls or probe results; nothing else
// in the system re-evaluates connectivity on its own.
type Monitor struct {
	online atomic.Bool
	store  cache.Store
	probe  ProbeFunc
	log    *zap.Logger
}

// NewMonitor starts optimistic: the service assumes it is online until a probe
// or an explicit signal says otherwise.
func NewMonitor(store cache.Store, probe ProbeFunc, log *zap.Logger) *Monitor {
	m := &Monitor{store: store, probe: probe, log: log}
	m.online.Store(true)
	return m
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// SetOnline is the hook for environment connectivity signals.
func (m *Monitor) SetOnline(online bool) {
	was := m.online.Swap(online)
	if was != online {
		m.log.Info("connectivity changed", zap.Bool("online", online))
	}
}

// PendingCount returns the number of queued writes awaiting transmission.
func (m *Monitor) PendingCount(ctx context.Context) int64 {
	n, err := m.store.PendingCount(ctx)
	if err != nil {
		m.log.Warn("failed to read pending count", zap.Error(err))
		return 0
	}
	return n
}

// Run probes the remote store on an interval until the context is cancelled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if m.probe == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(m.probe() == nil)
		}
	}
}
