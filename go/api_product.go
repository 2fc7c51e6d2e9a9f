package inventoryserver

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	producthttpmapper "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/http/mapper"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	apierrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

// ProductAPI wires HTTP transport with the inventory service and workflows.
type ProductAPI struct {
	service   productports.Service
	workflows productports.WorkflowOrchestrator
}

// NewProductAPI creates a ProductAPI backed by the provided service. workflows may be nil.
func NewProductAPI(service productports.Service, workflows productports.WorkflowOrchestrator) ProductAPI {
	return ProductAPI{service: service, workflows: workflows}
}

// Get /v1/products/:productId
// Find product by ID
func (api *ProductAPI) FindProduct(c *gin.Context) {
	id, ok := bindProductID(c)
	if !ok {
		return
	}
	result, err := api.service.FindProduct(c.Request.Context(), producttypes.ProductIdentifier{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(int(result.Status), FindProductResponse{
		Status: int(result.Status),
		Error:  producthttpmapper.Errors(result.Errors),
		Data:   toProductModel(producthttpmapper.FromDomainProduct(result.Data)),
	})
}

// Post /v1/products
// Create a product
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload ProductCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := producthttpmapper.ToCreateInput(payload.Name, payload.Sku, *payload.Stock, *payload.Price)
	result, err := api.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	id := openapi_types.UUID(result.ID)
	c.JSON(int(result.Status), CreateProductResponse{
		Status: int(result.Status),
		Error:  producthttpmapper.Errors(result.Errors),
		Id:     &id,
	})
}

// Post /v1/products/:productId/decrease-stock
// Take one unit of stock for an order; repeated calls for the same order are no-ops
func (api *ProductAPI) DecreaseStock(c *gin.Context) {
	id, ok := bindProductID(c)
	if !ok {
		return
	}
	var payload DecreaseStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.decreaseStock(c.Request.Context(), producthttpmapper.ToDecreaseInput(id, payload.OrderId))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(int(result.Status), DecreaseStockResponse{
		Status: int(result.Status),
		Error:  producthttpmapper.Errors(result.Errors),
	})
}

func (api *ProductAPI) decreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	if api.workflows != nil {
		return api.workflows.DecreaseStock(ctx, input)
	}
	return api.service.DecreaseStock(ctx, input)
}

func bindProductID(c *gin.Context) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithLocation("simple", false, "productId", runtime.ParamLocationPath, c.Param("productId"), &id)
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("invalid format for parameter productId: %s", err)))
		return id, false
	}
	return id, true
}

func toProductModel(product *producthttpmapper.Product) *Product {
	if product == nil {
		return nil
	}
	return &Product{
		Id:    product.ID,
		Name:  product.Name,
		Sku:   product.SKU,
		Stock: product.Stock,
		Price: product.Price,
	}
}
