package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("  Widget ", " WID-1", 0, decimal.RequireFromString("0.00"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "  Widget ", product.Name)
	assert.Equal(t, " WID-1", product.SKU)
	assert.False(t, product.InStock())
}

func TestNewProduct_Invariants(t *testing.T) {
	price := decimal.NewFromInt(1)
	cases := []struct {
		name  string
		sku   string
		stock int64
		price decimal.Decimal
		want  error
	}{
		{"", "WID-1", 1, price, ErrInvalidName},
		{"Widget", "   ", 1, price, ErrInvalidSKU},
		{"Widget", "WID-1", -1, price, ErrInvalidStock},
		{"Widget", "WID-1", 1, decimal.RequireFromString("-0.01"), ErrInvalidPrice},
	}
	for _, tc := range cases {
		_, err := NewProduct(tc.name, tc.sku, tc.stock, tc.price)
		assert.ErrorIs(t, err, tc.want)
	}
}

func TestNewStockDecreaseLog(t *testing.T) {
	productID := uuid.New()
	entry, err := NewStockDecreaseLog(productID, " order-A ")
	require.NoError(t, err)
	assert.Equal(t, " order-A ", entry.OrderID)
	assert.Equal(t, productID, entry.ProductID)

	_, err = NewStockDecreaseLog(productID, "\t")
	assert.ErrorIs(t, err, ErrInvalidOrderID)
}

func TestStockLevel_InStock(t *testing.T) {
	assert.True(t, StockLevel{Stock: 1}.InStock())
	assert.False(t, StockLevel{Stock: 0}.InStock())
}
