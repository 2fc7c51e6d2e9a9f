package mapper

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

// Product represents the transport-layer shape used by the HTTP handlers.
type Product struct {
	ID    uuid.UUID
	Name  string
	SKU   string
	Stock int64
	Price decimal.Decimal
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *domain.Product) *Product {
	if product == nil {
		return nil
	}
	return &Product{
		ID:    product.ID,
		Name:  product.Name,
		SKU:   product.SKU,
		Stock: product.Stock,
		Price: product.Price,
	}
}

// ToCreateInput converts transport fields into the create use case input.
func ToCreateInput(name, sku string, stock int64, price decimal.Decimal) producttypes.CreateProductInput {
	return producttypes.CreateProductInput{Name: name, SKU: sku, Stock: stock, Price: price}
}

// ToDecreaseInput converts transport fields into the decrease use case input.
func ToDecreaseInput(productID uuid.UUID, orderID string) producttypes.DecreaseStockInput {
	return producttypes.DecreaseStockInput{ProductID: productID, OrderID: orderID}
}

// Errors normalises the result error list for transport: nil when empty.
func Errors(errs []string) []string {
	if len(errs) == 0 {
		return nil
	}
	return append([]string(nil), errs...)
}
