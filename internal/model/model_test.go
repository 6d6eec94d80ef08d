package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentMobileMoney.Valid())
	assert.True(t, PaymentDebt.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestCollectionValid(t *testing.T) {
	for _, col := range Collections {
		assert.True(t, col.Valid(), col)
	}
	assert.False(t, Collection("orders").Valid())
}

func TestProductStockTracked(t *testing.T) {
	assert.True(t, (&Product{CurrentStock: 0}).StockTracked())
	assert.True(t, (&Product{CurrentStock: 7}).StockTracked())
	assert.False(t, (&Product{CurrentStock: StockUnknown}).StockTracked())
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{SellingPrice: 100, Quantity: 2}
	assert.Equal(t, 200.0, item.LineTotal())
}
