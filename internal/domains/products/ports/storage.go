package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

var (
	// ErrNotFound is returned when the referenced product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrStockExhausted is returned by DecrementStock when stock is already zero.
	ErrStockExhausted = errors.New("stock exhausted")
	// ErrDuplicateOrder is returned when a decrease log already exists for the order.
	ErrDuplicateOrder = errors.New("stock already decreased for order")
)

// Storage scopes units of work over the products and stock_decrease_logs collections.
// Returning an error from fn rolls back every write made through tx.
type Storage interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the record operations available inside a unit of work.
type Tx interface {
	// FindProduct loads the full product record.
	FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// FindStockForUpdate loads only id and stock and holds the product row until the unit of work ends.
	FindStockForUpdate(ctx context.Context, id uuid.UUID) (*domain.StockLevel, error)
	InsertProduct(ctx context.Context, product *domain.Product) error
	// DecrementStock takes one unit; it never lets stock go below zero.
	DecrementStock(ctx context.Context, id uuid.UUID) error
	// InsertDecreaseLog fails with ErrDuplicateOrder when the order already has an entry.
	InsertDecreaseLog(ctx context.Context, entry *domain.StockDecreaseLog) error
	CountDecreaseLogs(ctx context.Context, orderID string) (int64, error)
}
