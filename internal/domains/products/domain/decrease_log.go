package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidOrderID = errors.New("order id must not be empty")

// StockDecreaseLog records that the decrement for an order has been committed.
// At most one entry exists per OrderID; entries are never mutated.
type StockDecreaseLog struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	OrderID   string
	CreatedAt time.Time
}

// NewStockDecreaseLog builds the ledger entry binding orderID to productID.
// orderID is kept byte for byte; only blank ids are rejected.
func NewStockDecreaseLog(productID uuid.UUID, orderID string) (*StockDecreaseLog, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidOrderID
	}
	return &StockDecreaseLog{
		ID:        uuid.New(),
		ProductID: productID,
		OrderID:   orderID,
	}, nil
}
