package ports

import (
	"context"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
)

// WorkflowOrchestrator runs stock decrements through durable execution when available.
type WorkflowOrchestrator interface {
	DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error)
}
