package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	productmemory "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/memory"
	"github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
)

func newEnv(t *testing.T, service productports.Service) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	activities := productactivities.NewActivities(service)
	env.RegisterActivityWithOptions(activities.DecreaseStock, activity.RegisterOptions{Name: productactivities.DecreaseStockActivityName})
	return env
}

func TestStockDecreaseWorkflow_DecreasesOnce(t *testing.T) {
	service := application.NewService(productmemory.NewStorage())
	created, err := service.CreateProduct(context.Background(), producttypes.CreateProductInput{
		Name: "Widget", SKU: "WID-1", Stock: 2, Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	command := producttypes.DecreaseStockInput{ProductID: created.ID, OrderID: "order-A"}

	for _, want := range []*producttypes.DecreaseStockResult{
		producttypes.DecreasedStock(),
		producttypes.DecreaseAlreadyApplied(),
	} {
		env := newEnv(t, service)
		env.ExecuteWorkflow(StockDecreaseWorkflow, StockDecreaseWorkflowInput{Command: command, TraceID: "trace-1"})
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var got producttypes.DecreaseStockResult
		require.NoError(t, env.GetWorkflowResult(&got))
		assert.Equal(t, *want, got)
	}

	found, err := service.FindProduct(context.Background(), producttypes.ProductIdentifier{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Data.Stock)
}

type flakyService struct {
	productports.Service
	failures int
	calls    int
}

func (f *flakyService) DecreaseStock(context.Context, producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("could not serialize access")
	}
	return producttypes.DecreasedStock(), nil
}

func TestStockDecreaseWorkflow_RetriesStorageFailures(t *testing.T) {
	service := &flakyService{failures: 2}
	env := newEnv(t, service)

	env.ExecuteWorkflow(StockDecreaseWorkflow, StockDecreaseWorkflowInput{
		Command: producttypes.DecreaseStockInput{ProductID: uuid.New(), OrderID: "order-A"},
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, 3, service.calls)
}

func TestStockDecreaseWorkflow_InvalidInputIsNotRetried(t *testing.T) {
	storage := productmemory.NewStorage()
	env := newEnv(t, application.NewService(storage))

	env.ExecuteWorkflow(StockDecreaseWorkflow, StockDecreaseWorkflowInput{
		Command: producttypes.DecreaseStockInput{ProductID: uuid.New(), OrderID: "   "},
	})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, productactivities.InvalidInputErrorType, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}
