package products

import (
	"go.temporal.io/sdk/workflow"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	"github.com/Apurer/go-inventory-service/internal/durable/temporal/sequences"
)

const (
	// StockDecreaseWorkflowName is the public identifier for registering the workflow.
	StockDecreaseWorkflowName = "products.workflows.StockDecrease"
	// StockDecreaseTaskQueue is the queue consumed by the worker processing stock workflows.
	StockDecreaseTaskQueue = "INVENTORY_STOCK"
)

// StockDecreaseWorkflowInput captures the payload of one decrease request.
type StockDecreaseWorkflowInput struct {
	Command producttypes.DecreaseStockInput
	TraceID string
}

// StockDecreaseWorkflow takes one unit of stock for an order.
func StockDecreaseWorkflow(ctx workflow.Context, input StockDecreaseWorkflowInput) (*producttypes.DecreaseStockResult, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("StockDecreaseWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	result, err := sequences.RunStockDecreaseSequence(ctx, input.Command)
	if err != nil {
		logger.Error("StockDecreaseWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("StockDecreaseWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "status", int(result.Status))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
