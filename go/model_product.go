package inventoryserver

import (
	"github.com/shopspring/decimal"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Product - an inventory item
type Product struct {
	Id openapi_types.UUID `json:"id"`

	Name string `json:"name"`

	Sku string `json:"sku"`

	Stock int64 `json:"stock"`

	Price decimal.Decimal `json:"price"`
}

// ProductCreate - payload of POST /v1/products
type ProductCreate struct {
	Name string `json:"name" binding:"required"`

	Sku string `json:"sku" binding:"required"`

	Stock *int64 `json:"stock" binding:"required,gte=0"`

	Price *decimal.Decimal `json:"price" binding:"required"`
}

// DecreaseStockRequest - payload of POST /v1/products/:productId/decrease-stock
type DecreaseStockRequest struct {
	OrderId string `json:"orderId" binding:"required"`
}

// FindProductResponse - result of a product lookup
type FindProductResponse struct {
	Status int `json:"status"`

	Error []string `json:"error"`

	Data *Product `json:"data"`
}

// CreateProductResponse - result of a product creation
type CreateProductResponse struct {
	Status int `json:"status"`

	Error []string `json:"error"`

	Id *openapi_types.UUID `json:"id,omitempty"`
}

// DecreaseStockResponse - result of a stock decrease
type DecreaseStockResponse struct {
	Status int `json:"status"`

	Error []string `json:"error"`
}
