package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
)

// RunStockDecreaseSequence executes the activity that takes one unit of stock for an order.
func RunStockDecreaseSequence(ctx workflow.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("stock decrease sequence started", "productId", input.ProductID, "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{productactivities.InvalidInputErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result producttypes.DecreaseStockResult
	err := workflow.ExecuteActivity(ctx, productactivities.DecreaseStockActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("stock decrease sequence failed", "productId", input.ProductID, "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("stock decrease sequence completed", "productId", input.ProductID, "orderId", input.OrderID, "outcome", result.Outcome())
	return &result, nil
}
