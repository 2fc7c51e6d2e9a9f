package ports

import (
	"context"

	"github.com/google/uuid"
)

// LedgerCache remembers orders whose decrement has committed. It only ever holds
// positive entries, so a hit is authoritative while a miss falls back to storage.
type LedgerCache interface {
	// Committed returns the product the order was applied to, or ok=false when unknown.
	Committed(ctx context.Context, orderID string) (productID uuid.UUID, ok bool, err error)
	MarkCommitted(ctx context.Context, orderID string, productID uuid.UUID) error
}
