package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a store customer. OutstandingDebt grows on debt sales
// and shrinks on debt payments; TotalPurchases only ever grows.
type Customer struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	Name             string         `json:"name" gorm:"type:varchar(255);not null"`
	Phone            string         `json:"phone" gorm:"type:varchar(50);index"`
	OutstandingDebt  float64        `json:"outstanding_debt" gorm:"default:0"`
	TotalPurchases   float64        `json:"total_purchases" gorm:"default:0"`
	LastPurchaseDate *time.Time     `json:"last_purchase_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// User is an operator of the point of sale.
type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         string    `json:"role" gorm:"type:varchar(50);default:'cashier'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
