package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductIdentifier selects a single product.
type ProductIdentifier struct {
	ID uuid.UUID
}

// CreateProductInput carries the fields of a new product. Callers validate it first.
type CreateProductInput struct {
	Name  string
	SKU   string
	Stock int64
	Price decimal.Decimal
}

// DecreaseStockInput asks for one unit of ProductID on behalf of OrderID.
// OrderID is the idempotency key: only the first successful call per order mutates stock.
type DecreaseStockInput struct {
	ProductID uuid.UUID
	OrderID   string
}
