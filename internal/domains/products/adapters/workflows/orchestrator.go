package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
	productworkflows "github.com/Apurer/go-inventory-service/internal/durable/temporal/workflows/products"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalStockWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineStockWorkflows)(nil)
)

// TemporalStockWorkflows runs stock decreases as Temporal workflows keyed by order id.
type TemporalStockWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalStockWorkflows wires a Temporal client into the orchestrator.
func NewTemporalStockWorkflows(c client.Client) *TemporalStockWorkflows {
	return &TemporalStockWorkflows{client: c, taskQueue: productworkflows.StockDecreaseTaskQueue}
}

// DecreaseStock starts the stock decrease workflow and waits for its result.
//
// The workflow id is derived from the order id, so two requests for the same order
// can never run side by side. A request that finds a run already in flight waits for
// it and reports a duplicate when that run took the stock.
func (o *TemporalStockWorkflows) DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal stock workflows not configured")
	}
	entry, err := domain.NewStockDecreaseLog(input.ProductID, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", productapp.ErrInvalidInput, err)
	}
	workflowID := buildStockDecreaseWorkflowID(entry.OrderID)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		productworkflows.StockDecreaseWorkflow,
		productworkflows.StockDecreaseWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		existing, err := awaitResult(ctx, o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId))
		if err != nil {
			return nil, err
		}
		if existing.Status.OK() {
			return producttypes.DecreaseAlreadyApplied(), nil
		}
		return existing, nil
	}
	return awaitResult(ctx, run)
}

func awaitResult(ctx context.Context, run client.WorkflowRun) (*producttypes.DecreaseStockResult, error) {
	var result producttypes.DecreaseStockResult
	if err := run.Get(ctx, &result); err != nil {
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.Type() == productactivities.InvalidInputErrorType {
			return nil, fmt.Errorf("%w: %s", productapp.ErrInvalidInput, appErr.Message())
		}
		return nil, err
	}
	return &result, nil
}

// InlineStockWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineStockWorkflows struct {
	service ports.Service
}

// NewInlineStockWorkflows wraps the inventory service for synchronous execution.
func NewInlineStockWorkflows(service ports.Service) *InlineStockWorkflows {
	return &InlineStockWorkflows{service: service}
}

// DecreaseStock delegates to the application service without durable orchestration.
func (o *InlineStockWorkflows) DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline stock workflows not configured")
	}
	return o.service.DecreaseStock(ctx, input)
}

func buildStockDecreaseWorkflowID(orderID string) string {
	sum := sha256.Sum256([]byte(orderID))
	// order ids are caller supplied; hashing keeps workflow ids bounded and printable
	return fmt.Sprintf("stock-decrease-%s", hex.EncodeToString(sum[:16]))
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
