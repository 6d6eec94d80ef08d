package model

import (
	"time"

	"gorm.io/gorm"
)

// StockUnknown marks products whose stock level was never specified. Stock
// tracking is skipped entirely for these products.
const StockUnknown = -1

// Product represents the product master data
type Product struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Category     string         `json:"category" gorm:"type:varchar(100);index"`
	SellingPrice float64        `json:"selling_price" gorm:"not null"`
	CostPrice    float64        `json:"cost_price" gorm:"not null"`
	CurrentStock int            `json:"current_stock" gorm:"default:-1"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// StockTracked reports whether the product carries a known stock level.
func (p *Product) StockTracked() bool {
	return p.CurrentStock >= 0
}

// CartItem is one line of a checkout request. It snapshots the product fields
// the sale needs so the record stays valid even if the product changes later.
type CartItem struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	SellingPrice float64 `json:"selling_price"`
	CostPrice    float64 `json:"cost_price"`
	Quantity     int     `json:"quantity"`
}

// LineTotal returns the amount this cart line contributes to the sale.
func (i CartItem) LineTotal() float64 {
	return i.SellingPrice * float64(i.Quantity)
}
