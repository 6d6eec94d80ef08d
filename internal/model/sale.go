package model

import "time"

// PaymentMethod enumerates how a sale was settled.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentDebt        PaymentMethod = "debt"
)

// Valid reports whether the payment method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentDebt:
		return true
	}
	return false
}

// PaymentDetails is an opaque bag of method-specific fields (momo reference,
// change given, ...). Stored as JSON, never interpreted by this service.
type PaymentDetails map[string]any

// SaleRecord is one cart line of a completed checkout. Records are immutable
// once created; the ID is generated client-side so that replaying a queued
// record against the remote store is idempotent.
//
// Synced reflects connectivity at creation time: true when the record was
// written straight to the remote store, false when it was queued locally. The
// record itself never re-evaluates it; only the reconciliation syncer flips it
// when a queued record finally lands remotely.
type SaleRecord struct {
	ID             string         `json:"id" gorm:"type:uuid;primarykey"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	ProductID      uint           `json:"product_id" gorm:"index;not null"`
	ProductName    string         `json:"product_name" gorm:"type:varchar(255)"`
	Quantity       int            `json:"quantity" gorm:"not null"`
	SellingPrice   float64        `json:"selling_price" gorm:"not null"`
	CostPrice      float64        `json:"cost_price" gorm:"not null"`
	Profit         float64        `json:"profit" gorm:"not null"`
	TotalAmount    float64        `json:"total_amount" gorm:"not null"`
	CustomerID     *uint          `json:"customer_id,omitempty" gorm:"index"`
	CustomerName   string         `json:"customer_name,omitempty" gorm:"type:varchar(255)"`
	PaymentMethod  PaymentMethod  `json:"payment_method" gorm:"type:varchar(20);index;not null"`
	PaymentDetails PaymentDetails `json:"payment_details,omitempty" gorm:"serializer:json"`
	Timestamp      time.Time      `json:"timestamp" gorm:"index;not null"`
	Synced         bool           `json:"synced" gorm:"not null"`
}

// DebtPayment records a customer paying down their outstanding balance. The
// payment row and the balance update are committed in a single remote
// transaction so concurrent payments cannot lose an update.
type DebtPayment struct {
	ID            string        `json:"id" gorm:"type:uuid;primarykey"`
	UserID        uint          `json:"user_id" gorm:"index;not null"`
	CustomerID    uint          `json:"customer_id" gorm:"index;not null"`
	CustomerName  string        `json:"customer_name" gorm:"type:varchar(255)"`
	Amount        float64       `json:"amount" gorm:"not null"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	Reference     string        `json:"reference,omitempty" gorm:"type:varchar(255)"`
	Timestamp     time.Time     `json:"timestamp" gorm:"index;not null"`
	Synced        bool          `json:"synced" gorm:"not null"`
}
