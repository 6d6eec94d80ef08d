// Package cache is the local side of the offline-first data layer: it keeps
// the last-known snapshot of each remote collection plus a FIFO queue of
// writes recorded while disconnected.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"pos-service/internal/model"
)

// Filters are equality constraints applied client-side against the cached
// JSON representation of a record. Nil values are ignored.
type Filters map[string]any

// Store persists collection snapshots and the pending write queue. Snapshots
// survive process restarts in the production (Redis) implementation.
//
// A missing snapshot is an empty result, never an error. Implementations only
// return errors for real storage failures; callers are expected to degrade to
// an empty result and log.
type Store interface {
	// Get returns the cached snapshot for the collection with filters applied.
	Get(ctx context.Context, col model.Collection, filters Filters) ([]json.RawMessage, error)
	// Put replaces the cached snapshot for the collection.
	Put(ctx context.Context, col model.Collection, records any) error
	// Invalidate drops the cached snapshot. Hook for realtime change
	// notifications from the remote store.
	Invalidate(ctx context.Context, col model.Collection) error

	// EnqueuePending appends a sale recorded while offline.
	EnqueuePending(ctx context.Context, rec model.SaleRecord) error
	// PeekPending returns the head of the queue without removing it, or nil
	// when the queue is empty.
	PeekPending(ctx context.Context) (*model.SaleRecord, error)
	// DropPending removes the head of the queue.
	DropPending(ctx context.Context) error
	// PendingCount returns the number of queued writes.
	PendingCount(ctx context.Context) (int64, error)
}

// matches reports whether every non-nil filter equals the corresponding field
// of the record. Values are compared by their string form because cached
// records round-trip through JSON and lose native numeric types.
func matches(raw json.RawMessage, filters Filters) bool {
	if len(filters) == 0 {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for key, want := range filters {
		if want == nil {
			continue
		}
		got, ok := fields[key]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// applyFilters returns the subset of records matching the filters.
func applyFilters(records []json.RawMessage, filters Filters) []json.RawMessage {
	if len(filters) == 0 {
		return records
	}
	out := make([]json.RawMessage, 0, len(records))
	for _, raw := range records {
		if matches(raw, filters) {
			out = append(out, raw)
		}
	}
	return out
}

// encodeSnapshot marshals an arbitrary record slice into the raw form stored
// by every Store implementation.
func encodeSnapshot(records any) ([]json.RawMessage, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("snapshot is not a JSON array: %w", err)
	}
	return raws, nil
}
