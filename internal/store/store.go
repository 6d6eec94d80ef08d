// Package store is the gorm-backed access layer for the remote collections.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateSale is returned by InsertSale when a record with the same
// client-generated ID already exists remotely. Callers treat it as success;
// it exists so the syncer can tell a fresh insert from a replay.
var ErrDuplicateSale = errors.New("sale record already exists")

// Store wraps the remote database.
type Store struct {
	db *gorm.DB
}

// New returns a Store over the given gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// stripNil drops nil-valued filters so callers can pass optional constraints
// without checking each one.
func stripNil(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for k, v := range filters {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// ListProducts returns products matching the equality filters.
func (s *Store) ListProducts(ctx context.Context, filters map[string]any) ([]model.Product, error) {
	var products []model.Product
	q := s.db.WithContext(ctx)
	if f := stripNil(filters); len(f) > 0 {
		q = q.Where(f)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListCustomers returns customers matching the equality filters.
func (s *Store) ListCustomers(ctx context.Context, filters map[string]any) ([]model.Customer, error) {
	var customers []model.Customer
	q := s.db.WithContext(ctx)
	if f := stripNil(filters); len(f) > 0 {
		q = q.Where(f)
	}
	if err := q.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// ListSales returns sale records matching the equality filters, newest first.
func (s *Store) ListSales(ctx context.Context, filters map[string]any) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	q := s.db.WithContext(ctx).Order("timestamp DESC")
	if f := stripNil(filters); len(f) > 0 {
		q = q.Where(f)
	}
	if err := q.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// InsertSale writes a sale record. The insert is idempotent on the
// client-generated ID: replaying a queued record that already landed reports
// ErrDuplicateSale instead of failing.
func (s *Store) InsertSale(ctx context.Context, rec model.SaleRecord) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if result.Error != nil {
		return fmt.Errorf("insert sale %s: %w", rec.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateSale
	}
	return nil
}

// DecrementStock lowers a product's stock by qty, flooring at zero. Products
// with unspecified stock (negative) are left untouched.
func (s *Store) DecrementStock(ctx context.Context, productID uint, qty int) error {
	result := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND current_stock >= 0", productID).
		UpdateColumn("current_stock", gorm.Expr("GREATEST(current_stock - ?, 0)", qty))
	if result.Error != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, result.Error)
	}
	return nil
}

// ApplyDebtSale moves a customer's accumulators for a debt-method sale.
func (s *Store) ApplyDebtSale(ctx context.Context, customerID uint, amount float64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"outstanding_debt":   gorm.Expr("outstanding_debt + ?", amount),
			"total_purchases":    gorm.Expr("total_purchases + ?", amount),
			"last_purchase_date": at,
		})
	if result.Error != nil {
		return fmt.Errorf("apply debt sale for customer %d: %w", customerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("apply debt sale: customer %d not found", customerID)
	}
	return nil
}

// RecordDebtPayment inserts the payment row and lowers the customer's balance
// in one transaction, so two concurrent payments cannot lose an update.
func (s *Store) RecordDebtPayment(ctx context.Context, payment *model.DebtPayment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer model.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, payment.CustomerID).Error; err != nil {
			return fmt.Errorf("load customer %d: %w", payment.CustomerID, err)
		}

		payment.CustomerName = customer.Name
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("insert debt payment: %w", err)
		}

		if err := tx.Model(&customer).
			UpdateColumn("outstanding_debt", gorm.Expr("GREATEST(outstanding_debt - ?, 0)", payment.Amount)).
			Error; err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}
		return nil
	})
}
