package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productworkflows "github.com/Apurer/go-inventory-service/internal/durable/temporal/workflows/products"
)

func resultRun(result *producttypes.DecreaseStockResult) *mocks.WorkflowRun {
	run := &mocks.WorkflowRun{}
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*producttypes.DecreaseStockResult) = *result
	}).Return(nil)
	return run
}

func TestTemporalStockWorkflows_StartsWorkflowKeyedByOrder(t *testing.T) {
	temporalClient := &mocks.Client{}
	input := producttypes.DecreaseStockInput{ProductID: uuid.New(), OrderID: " order-A "}
	var started client.StartWorkflowOptions
	var payload productworkflows.StockDecreaseWorkflowInput
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			started = args.Get(1).(client.StartWorkflowOptions)
			payload = args.Get(3).(productworkflows.StockDecreaseWorkflowInput)
		}).
		Return(resultRun(producttypes.DecreasedStock()), nil)

	result, err := NewTemporalStockWorkflows(temporalClient).DecreaseStock(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, producttypes.StatusOK, result.Status)

	assert.Equal(t, buildStockDecreaseWorkflowID(" order-A "), started.ID)
	assert.NotEqual(t, buildStockDecreaseWorkflowID("order-A"), started.ID)
	assert.True(t, strings.HasPrefix(started.ID, "stock-decrease-"))
	assert.Equal(t, productworkflows.StockDecreaseTaskQueue, started.TaskQueue)
	assert.True(t, started.WorkflowExecutionErrorWhenAlreadyStarted)
	assert.Equal(t, " order-A ", payload.Command.OrderID)
	temporalClient.AssertExpectations(t)
}

func TestTemporalStockWorkflows_InFlightDuplicateReportsAlreadyDecreased(t *testing.T) {
	temporalClient := &mocks.Client{}
	input := producttypes.DecreaseStockInput{ProductID: uuid.New(), OrderID: "order-A"}
	workflowID := buildStockDecreaseWorkflowID("order-A")
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-1"))
	temporalClient.On("GetWorkflow", mock.Anything, workflowID, "run-1").
		Return(resultRun(producttypes.DecreasedStock()))

	result, err := NewTemporalStockWorkflows(temporalClient).DecreaseStock(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, result.AlreadyDecreased())
}

func TestTemporalStockWorkflows_InFlightFailureIsShared(t *testing.T) {
	temporalClient := &mocks.Client{}
	input := producttypes.DecreaseStockInput{ProductID: uuid.New(), OrderID: "order-B"}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-2"))
	temporalClient.On("GetWorkflow", mock.Anything, mock.Anything, "run-2").
		Return(resultRun(producttypes.DecreaseStockTooLow()))

	result, err := NewTemporalStockWorkflows(temporalClient).DecreaseStock(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, *producttypes.DecreaseStockTooLow(), *result)
}

func TestTemporalStockWorkflows_RejectsEmptyOrderID(t *testing.T) {
	temporalClient := &mocks.Client{}

	_, err := NewTemporalStockWorkflows(temporalClient).DecreaseStock(context.Background(), producttypes.DecreaseStockInput{ProductID: uuid.New()})
	require.ErrorIs(t, err, productapp.ErrInvalidInput)
	temporalClient.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInlineStockWorkflows_RequiresService(t *testing.T) {
	var inline *InlineStockWorkflows
	_, err := inline.DecreaseStock(context.Background(), producttypes.DecreaseStockInput{})
	require.Error(t, err)
}
