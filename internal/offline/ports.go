// Package offline implements the offline-first read/write layer: reads fall
// back to the local cache, writes recorded while disconnected queue locally,
// and the syncer drains the queue back to the remote store on reconnect.
package offline

import (
	"context"

	"pos-service/internal/model"
)

// Connectivity is the injected port for the online/offline flag. Production
// wiring uses connectivity.Monitor; tests swap in a fixed or scripted value.
type Connectivity interface {
	Online() bool
}

// RemoteSource lists records from the remote store.
type RemoteSource interface {
	ListProducts(ctx context.Context, filters map[string]any) ([]model.Product, error)
	ListCustomers(ctx context.Context, filters map[string]any) ([]model.Customer, error)
	ListSales(ctx context.Context, filters map[string]any) ([]model.SaleRecord, error)
}

// RemoteSink writes sale records to the remote store. InsertSale must be
// idempotent on the record ID and report store.ErrDuplicateSale on replay.
type RemoteSink interface {
	InsertSale(ctx context.Context, rec model.SaleRecord) error
}
