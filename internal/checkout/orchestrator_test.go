package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/internal/offline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubConn struct{ online bool }

func (s *stubConn) Online() bool { return s.online }

// fakeSink implements offline.RemoteSink with scriptable per-record errors.
type fakeSink struct {
	mu         sync.Mutex
	insertErrs map[string]error
	inserted   []model.SaleRecord
	block      chan struct{} // when set, InsertSale waits until closed
	started    chan struct{} // signalled on first InsertSale
	startOnce  sync.Once
}

func (f *fakeSink) InsertSale(_ context.Context, rec model.SaleRecord) error {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.insertErrs[rec.ProductName]; ok {
		return err
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeSink) insertedRecords() []model.SaleRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.SaleRecord(nil), f.inserted...)
}

// fakeEffects records secondary-effect calls.
type fakeEffects struct {
	mu         sync.Mutex
	stockErr   error
	stockCalls map[uint]int // productID -> total quantity decremented
	debtCalls  []struct {
		CustomerID uint
		Amount     float64
	}
}

func newFakeEffects() *fakeEffects {
	return &fakeEffects{stockCalls: map[uint]int{}}
}

func (f *fakeEffects) DecrementStock(_ context.Context, productID uint, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stockErr != nil {
		return f.stockErr
	}
	f.stockCalls[productID] += qty
	return nil
}

func (f *fakeEffects) ApplyDebtSale(_ context.Context, customerID uint, amount float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.debtCalls = append(f.debtCalls, struct {
		CustomerID uint
		Amount     float64
	}{customerID, amount})
	return nil
}

type fixture struct {
	sink    *fakeSink
	effects *fakeEffects
	queue   *cache.MemoryStore
	orch    *Orchestrator
}

func newFixture(online bool) *fixture {
	sink := &fakeSink{}
	effects := newFakeEffects()
	queue := cache.NewMemoryStore()
	writer := offline.NewWriter(sink, queue, zap.NewNop())
	orch := NewOrchestrator(writer, effects, &stubConn{online: online}, zap.NewNop())
	return &fixture{sink: sink, effects: effects, queue: queue, orch: orch}
}

func cashCart() Request {
	return Request{
		SessionID:     "till-1",
		UserID:        9,
		PaymentMethod: model.PaymentCash,
		Items: []model.CartItem{
			{ProductID: 1, ProductName: "Rice 5kg", SellingPrice: 100, CostPrice: 60, Quantity: 2},
		},
	}
}

func TestCheckoutOnlineCashSingleItem(t *testing.T) {
	f := newFixture(true)

	result, err := f.orch.Checkout(context.Background(), cashCart())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.True(t, result.Online)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, 200.0, rec.TotalAmount)
	assert.Equal(t, 80.0, rec.Profit)
	assert.True(t, rec.Synced)
	assert.Equal(t, uint(9), rec.UserID)

	// Stock decremented by the sold quantity.
	assert.Equal(t, 2, f.effects.stockCalls[1])
	// Cash sale never moves debt accumulators.
	assert.Empty(t, f.effects.debtCalls)
}

func TestCheckoutProducesOneRecordPerLine(t *testing.T) {
	f := newFixture(true)
	req := cashCart()
	req.Items = append(req.Items,
		model.CartItem{ProductID: 2, ProductName: "Soap", SellingPrice: 20, CostPrice: 12, Quantity: 3},
		model.CartItem{ProductID: 3, ProductName: "Oil", SellingPrice: 50, CostPrice: 35, Quantity: 1},
	)

	result, err := f.orch.Checkout(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	for i, rec := range result.Records {
		item := req.Items[i]
		assert.Equal(t, item.SellingPrice*float64(item.Quantity), rec.TotalAmount)
		assert.Equal(t, (item.SellingPrice-item.CostPrice)*float64(item.Quantity), rec.Profit)
	}

	// Writes follow cart order.
	inserted := f.sink.insertedRecords()
	require.Len(t, inserted, 3)
	assert.Equal(t, "Rice 5kg", inserted[0].ProductName)
	assert.Equal(t, "Soap", inserted[1].ProductName)
	assert.Equal(t, "Oil", inserted[2].ProductName)
}

func TestCheckoutOfflineQueuesEveryLine(t *testing.T) {
	f := newFixture(false)
	req := cashCart()
	req.Items = append(req.Items,
		model.CartItem{ProductID: 2, ProductName: "Soap", SellingPrice: 20, CostPrice: 12, Quantity: 3})

	result, err := f.orch.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.False(t, result.Online)

	for _, rec := range result.Records {
		assert.False(t, rec.Synced)
	}

	// Remote store untouched; pending count rose by the cart size.
	assert.Empty(t, f.sink.insertedRecords())
	n, err := f.queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// No stock decrement on the offline path.
	assert.Empty(t, f.effects.stockCalls)
}

func TestCheckoutValidation(t *testing.T) {
	customerID := uint(5)
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"empty cart", func(r *Request) { r.Items = nil }, ErrEmptyCart},
		{"unknown payment method", func(r *Request) { r.PaymentMethod = "cheque" }, ErrInvalidPayment},
		{"debt without customer", func(r *Request) { r.PaymentMethod = model.PaymentDebt }, ErrCustomerRequired},
		{"zero quantity", func(r *Request) { r.Items[0].Quantity = 0 }, ErrInvalidQuantity},
		{"debt with customer passes", func(r *Request) {
			r.PaymentMethod = model.PaymentDebt
			r.CustomerID = &customerID
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			req := cashCart()
			tt.mutate(&req)

			result, err := f.orch.Checkout(context.Background(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				// Validation failures never write anything.
				assert.Empty(t, f.sink.insertedRecords())
			} else {
				require.NoError(t, err)
				assert.Equal(t, StatusCompleted, result.Status)
			}
		})
	}
}

func TestCheckoutDebtSaleMovesCustomerAccumulators(t *testing.T) {
	f := newFixture(true)
	customerID := uint(5)
	req := cashCart()
	req.PaymentMethod = model.PaymentDebt
	req.CustomerID = &customerID
	req.CustomerName = "Ama"

	result, err := f.orch.Checkout(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Ama", result.Records[0].CustomerName)

	require.Len(t, f.effects.debtCalls, 1)
	assert.Equal(t, customerID, f.effects.debtCalls[0].CustomerID)
	assert.Equal(t, 200.0, f.effects.debtCalls[0].Amount)
}

func TestCheckoutOfflineDebtSaleSkipsAccumulators(t *testing.T) {
	f := newFixture(false)
	customerID := uint(5)
	req := cashCart()
	req.PaymentMethod = model.PaymentDebt
	req.CustomerID = &customerID

	result, err := f.orch.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	// Debt accounting only runs on the online path.
	assert.Empty(t, f.effects.debtCalls)
}

func TestCheckoutAbortsRemainingLinesOnWriteFailure(t *testing.T) {
	f := newFixture(true)
	f.sink.insertErrs = map[string]error{"Soap": errors.New("rejected")}

	req := cashCart()
	req.Items = append(req.Items,
		model.CartItem{ProductID: 2, ProductName: "Soap", SellingPrice: 20, CostPrice: 12, Quantity: 1},
		model.CartItem{ProductID: 3, ProductName: "Oil", SellingPrice: 50, CostPrice: 35, Quantity: 1},
	)

	result, err := f.orch.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)

	// The line before the failure stands; the line after is never attempted.
	inserted := f.sink.insertedRecords()
	require.Len(t, inserted, 1)
	assert.Equal(t, "Rice 5kg", inserted[0].ProductName)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].Synced)
}

func TestCheckoutStockFailureIsNotFatal(t *testing.T) {
	f := newFixture(true)
	f.effects.stockErr = errors.New("stock row locked")

	result, err := f.orch.Checkout(context.Background(), cashCart())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Records, 1)
}

func TestCheckoutSingleFlightPerSession(t *testing.T) {
	f := newFixture(true)
	f.sink.block = make(chan struct{})
	f.sink.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.orch.Checkout(context.Background(), cashCart())
		done <- err
	}()

	// Wait until the first checkout is mid-write, then try a second one on
	// the same session.
	<-f.sink.started
	_, err := f.orch.Checkout(context.Background(), cashCart())
	require.ErrorIs(t, err, ErrCheckoutInFlight)

	// A different session is not blocked.
	other := cashCart()
	other.SessionID = "till-2"
	otherDone := make(chan error, 1)
	go func() {
		_, err := f.orch.Checkout(context.Background(), other)
		otherDone <- err
	}()

	close(f.sink.block)
	require.NoError(t, <-done)
	require.NoError(t, <-otherDone)

	// The session is reusable once its checkout finished.
	_, err = f.orch.Checkout(context.Background(), cashCart())
	require.NoError(t, err)
}
