// Package checkout turns a cart into sale records, one per line, through the
// offline-aware write path.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pos-service/internal/model"
	"pos-service/internal/offline"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status tracks one checkout attempt through its state machine.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Validation errors. Checkout never starts when any of these apply.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidPayment   = errors.New("unsupported payment method")
	ErrCustomerRequired = errors.New("debt sales require a customer")
	ErrInvalidQuantity  = errors.New("cart quantities must be positive")
	ErrCheckoutInFlight = errors.New("a checkout is already processing for this session")
)

// SaleWriter is the offline-aware write port.
type SaleWriter interface {
	RecordSale(ctx context.Context, rec model.SaleRecord, online bool) (model.SaleRecord, error)
}

// RemoteEffects covers the secondary writes a sale triggers on the remote
// store. Their failures never undo the sale itself.
type RemoteEffects interface {
	DecrementStock(ctx context.Context, productID uint, qty int) error
	ApplyDebtSale(ctx context.Context, customerID uint, amount float64, at time.Time) error
}

// Request is one checkout attempt. The cart is ephemeral: it exists only in
// this request and the caller discards it after a completed checkout.
type Request struct {
	SessionID      string               `json:"session_id"`
	UserID         uint                 `json:"-"`
	Items          []model.CartItem     `json:"items"`
	PaymentMethod  model.PaymentMethod  `json:"payment_method"`
	CustomerID     *uint                `json:"customer_id,omitempty"`
	CustomerName   string               `json:"customer_name,omitempty"`
	PaymentDetails model.PaymentDetails `json:"payment_details,omitempty"`
}

// Result reports the outcome of a checkout attempt. On failure, Records holds
// the lines that were already written; they are deliberately not rolled back.
type Result struct {
	Status  Status             `json:"status"`
	Online  bool               `json:"online"`
	Records []model.SaleRecord `json:"records"`
}

// Orchestrator runs checkout attempts. Lines are written sequentially in cart
// order, one write in flight at a time; connectivity is sampled once per
// attempt so all lines of a checkout share the same sync state.
type Orchestrator struct {
	writer  SaleWriter
	effects RemoteEffects
	conn    offline.Connectivity
	log     *zap.Logger

	// One checkout per session at a time.
	inflight sync.Map

	// Swapped out in tests.
	now   func() time.Time
	newID func() string
}

// NewOrchestrator wires an Orchestrator from its ports.
func NewOrchestrator(writer SaleWriter, effects RemoteEffects, conn offline.Connectivity, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		writer:  writer,
		effects: effects,
		conn:    conn,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func validate(req Request) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if req.PaymentMethod == model.PaymentDebt && req.CustomerID == nil {
		return ErrCustomerRequired
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Checkout processes one attempt: Idle -> Processing -> Completed or Failed.
//
// Each line produces exactly one sale record. The first failing sale write
// aborts the remaining lines and returns a Failed result; lines already
// written stand (no compensating transaction). Stock decrements and debt
// updates are secondary effects: their failures are logged and tolerated.
func (o *Orchestrator) Checkout(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, loaded := o.inflight.LoadOrStore(req.SessionID, struct{}{}); loaded {
		return nil, ErrCheckoutInFlight
	}
	defer o.inflight.Delete(req.SessionID)

	// Sampled once; every line of this checkout takes the same path.
	online := o.conn.Online()

	result := &Result{Status: StatusProcessing, Online: online}
	o.log.Info("checkout started",
		zap.String("session_id", req.SessionID),
		zap.Int("items", len(req.Items)),
		zap.String("payment_method", string(req.PaymentMethod)),
		zap.Bool("online", online))

	for i, item := range req.Items {
		rec := o.buildRecord(req, item)

		written, err := o.writer.RecordSale(ctx, rec, online)
		if err != nil {
			// Remaining lines are never attempted; prior lines stand.
			result.Status = StatusFailed
			o.log.Error("checkout aborted on line item",
				zap.String("session_id", req.SessionID),
				zap.Int("line", i),
				zap.String("product_name", item.ProductName),
				zap.Error(err))
			return result, fmt.Errorf("sale could not be recorded")
		}
		result.Records = append(result.Records, written)

		// Debt accounting only runs on the online path; queued debt sales do
		// not adjust the customer balance.
		if online && req.PaymentMethod == model.PaymentDebt && req.CustomerID != nil {
			if err := o.effects.ApplyDebtSale(ctx, *req.CustomerID, written.TotalAmount, written.Timestamp); err != nil {
				o.log.Error("debt update failed after sale write",
					zap.String("sale_id", written.ID),
					zap.Uint("customer_id", *req.CustomerID),
					zap.Error(err))
			}
		}

		if online {
			if err := o.effects.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				// Stock desync is tolerated, never fatal.
				o.log.Warn("stock decrement failed",
					zap.String("sale_id", written.ID),
					zap.Uint("product_id", item.ProductID),
					zap.Error(err))
			}
		}
	}

	result.Status = StatusCompleted
	o.log.Info("checkout completed",
		zap.String("session_id", req.SessionID),
		zap.Int("records", len(result.Records)),
		zap.Bool("online", online))
	return result, nil
}

func (o *Orchestrator) buildRecord(req Request, item model.CartItem) model.SaleRecord {
	return model.SaleRecord{
		ID:             o.newID(),
		UserID:         req.UserID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		SellingPrice:   item.SellingPrice,
		CostPrice:      item.CostPrice,
		Profit:         (item.SellingPrice - item.CostPrice) * float64(item.Quantity),
		TotalAmount:    item.SellingPrice * float64(item.Quantity),
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		Timestamp:      o.now(),
	}
}
