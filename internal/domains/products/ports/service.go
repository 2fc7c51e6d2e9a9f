package ports

import (
	"context"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
)

// Service defines the inventory use cases exposed to adapters (inbound/driving port).
// Business outcomes are carried in the result Status; a non-nil error means storage failed.
type Service interface {
	FindProduct(ctx context.Context, input producttypes.ProductIdentifier) (*producttypes.FindProductResult, error)
	CreateProduct(ctx context.Context, input producttypes.CreateProductInput) (*producttypes.CreateProductResult, error)
	DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error)
}
