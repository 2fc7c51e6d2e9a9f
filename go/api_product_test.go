package inventoryserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productmemory "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/memory"
	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

func newTestRouter(service productports.Service, workflows productports.WorkflowOrchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		ProductAPI: NewProductAPI(service, workflows),
	})
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createProduct(t *testing.T, router *gin.Engine, stock int64) uuid.UUID {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/v1/products", map[string]any{
		"name":  "Widget",
		"sku":   "WID-1",
		"stock": stock,
		"price": "9.99",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp CreateProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Id)
	return *resp.Id
}

func TestProductAPI_CreateAndFind(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)
	id := createProduct(t, router, 3)

	rec := do(t, router, http.MethodGet, "/v1/products/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FindProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.Data)
	assert.Equal(t, id, resp.Data.Id)
	assert.Equal(t, "WID-1", resp.Data.Sku)
	assert.Equal(t, int64(3), resp.Data.Stock)
	assert.True(t, decimal.RequireFromString("9.99").Equal(resp.Data.Price))
}

func TestProductAPI_FindMissingProduct(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)

	rec := do(t, router, http.MethodGet, "/v1/products/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp FindProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, []string{producttypes.MsgProductNotFound}, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestProductAPI_InvalidProductID(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)

	rec := do(t, router, http.MethodGet, "/v1/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestProductAPI_CreateRejectsMalformedPayload(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)

	cases := map[string]map[string]any{
		"missing stock":  {"name": "Widget", "sku": "WID-1", "price": "1.00"},
		"negative stock": {"name": "Widget", "sku": "WID-1", "stock": -1, "price": "1.00"},
		"missing name":   {"sku": "WID-1", "stock": 1, "price": "1.00"},
		"blank name":     {"name": "   ", "sku": "WID-1", "stock": 1, "price": "1.00"},
		"negative price": {"name": "Widget", "sku": "WID-1", "stock": 1, "price": "-1.00"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/v1/products", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestProductAPI_DecreaseStockOutcomes(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)
	id := createProduct(t, router, 1)
	path := "/v1/products/" + id.String() + "/decrease-stock"

	steps := []struct {
		orderID string
		status  int
		errors  []string
	}{
		{"order-A", http.StatusOK, nil},
		{"order-A", http.StatusConflict, []string{producttypes.MsgAlreadyDecreased}},
		{"order-B", http.StatusConflict, []string{producttypes.MsgStockTooLow}},
	}
	for _, step := range steps {
		rec := do(t, router, http.MethodPost, path, DecreaseStockRequest{OrderId: step.orderID})
		require.Equal(t, step.status, rec.Code, step.orderID)
		var resp DecreaseStockResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, step.status, resp.Status)
		assert.Equal(t, step.errors, resp.Error)
	}

	rec := do(t, router, http.MethodPost, "/v1/products/"+uuid.NewString()+"/decrease-stock", DecreaseStockRequest{OrderId: "order-C"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAPI_UnknownRouteIsProblem(t *testing.T) {
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), nil)

	rec := do(t, router, http.MethodGet, "/v1/orders", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/problems/not-found", problem["type"])
	assert.Equal(t, "/v1/orders", problem["instance"])
}

type recordingWorkflows struct {
	calls []producttypes.DecreaseStockInput
}

func (r *recordingWorkflows) DecreaseStock(_ context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	r.calls = append(r.calls, input)
	return producttypes.DecreasedStock(), nil
}

func TestProductAPI_DecreaseStockUsesWorkflows(t *testing.T) {
	workflows := &recordingWorkflows{}
	router := newTestRouter(productapp.NewService(productmemory.NewStorage()), workflows)
	id := uuid.New()

	rec := do(t, router, http.MethodPost, "/v1/products/"+id.String()+"/decrease-stock", DecreaseStockRequest{OrderId: "order-A"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, workflows.calls, 1)
	assert.Equal(t, id, workflows.calls[0].ProductID)
	assert.Equal(t, "order-A", workflows.calls[0].OrderID)
}

type brokenService struct {
	productports.Service
}

func (brokenService) FindProduct(context.Context, producttypes.ProductIdentifier) (*producttypes.FindProductResult, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestProductAPI_StorageFailureIsProblem(t *testing.T) {
	router := newTestRouter(brokenService{}, nil)

	rec := do(t, router, http.MethodGet, "/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
