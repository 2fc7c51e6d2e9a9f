package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName  = errors.New("product name must not be empty")
	ErrInvalidSKU   = errors.New("product sku must not be empty")
	ErrInvalidStock = errors.New("product stock must not be negative")
	ErrInvalidPrice = errors.New("product price must not be negative")
)

// Product models an inventory item. Stock never drops below zero.
type Product struct {
	ID    uuid.UUID
	Name  string
	SKU   string
	Stock int64
	Price decimal.Decimal
}

// NewProduct constructs a product with a freshly allocated identity.
func NewProduct(name, sku string, stock int64, price decimal.Decimal) (*Product, error) {
	product := &Product{
		ID:    uuid.New(),
		Name:  name,
		SKU:   sku,
		Stock: stock,
		Price: price,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate. Name and SKU are stored as given.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidSKU
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// InStock reports whether at least one unit can be taken.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// StockLevel is the minimal projection read before a decrement.
type StockLevel struct {
	ProductID uuid.UUID
	Stock     int64
}

// InStock reports whether at least one unit can be taken.
func (s StockLevel) InStock() bool {
	return s.Stock > 0
}
