package offline

import (
	"context"
	"sync"

	"pos-service/internal/model"
)

// stubConn is a fixed-value Connectivity port.
type stubConn struct{ online bool }

func (s *stubConn) Online() bool { return s.online }

// fakeRemote is an in-memory stand-in for the remote store. Errors can be
// scripted per call site.
type fakeRemote struct {
	mu sync.Mutex

	products  []model.Product
	customers []model.Customer
	sales     []model.SaleRecord

	listErr   error
	insertErr error
	// insertErrs scripts errors per sale ID; takes precedence over insertErr.
	insertErrs map[string]error

	inserted []model.SaleRecord
}

func (f *fakeRemote) ListProducts(_ context.Context, _ map[string]any) ([]model.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeRemote) ListCustomers(_ context.Context, _ map[string]any) ([]model.Customer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.customers, nil
}

func (f *fakeRemote) ListSales(_ context.Context, _ map[string]any) ([]model.SaleRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sales, nil
}

func (f *fakeRemote) InsertSale(_ context.Context, rec model.SaleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.insertErrs[rec.ID]; ok {
		return err
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeRemote) insertedRecords() []model.SaleRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.SaleRecord(nil), f.inserted...)
}
