package products

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

const (
	// DecreaseStockActivityName takes one unit of stock for an order.
	DecreaseStockActivityName = "products.activities.DecreaseStock"
	// InvalidInputErrorType marks failures that no retry can fix.
	InvalidInputErrorType = "InvalidInput"
)

// Activities groups activities that operate on the inventory.
type Activities struct {
	service productports.Service
}

// NewActivities wires the inventory service into the Temporal activities bundle.
func NewActivities(service productports.Service) *Activities {
	return &Activities{service: service}
}

// DecreaseStock runs the idempotent stock decrease. Business outcomes (not found,
// already decreased, stock too low) are results, not errors, so Temporal only
// retries storage failures.
func (a *Activities) DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("stock decrease activity not initialized", "productId", input.ProductID, "orderId", input.OrderID)
		return nil, errors.New("stock decrease activity not initialized")
	}
	logger.Info("DecreaseStock activity started", "productId", input.ProductID, "orderId", input.OrderID)
	result, err := a.service.DecreaseStock(ctx, input)
	if err != nil {
		logger.Error("DecreaseStock activity failed", "productId", input.ProductID, "orderId", input.OrderID, "error", err)
		if errors.Is(err, productapp.ErrInvalidInput) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidInputErrorType, err)
		}
		return nil, err
	}
	logger.Info("DecreaseStock activity completed", "productId", input.ProductID, "orderId", input.OrderID, "outcome", result.Outcome())
	return result, nil
}
