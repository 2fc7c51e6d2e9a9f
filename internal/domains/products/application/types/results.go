package types

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

// Status is the outcome code of an inventory operation. Values follow HTTP semantics
// so transport adapters can forward them unchanged.
type Status int

const (
	StatusOK       Status = http.StatusOK
	StatusNotFound Status = http.StatusNotFound
	StatusConflict Status = http.StatusConflict
)

// Business outcome messages.
const (
	MsgProductNotFound  = "product not found"
	MsgStockTooLow      = "stock too low"
	MsgAlreadyDecreased = "stock already decreased"
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	default:
		return http.StatusText(int(s))
	}
}

// OK reports whether the operation succeeded.
func (s Status) OK() bool { return s == StatusOK }

// FindProductResult is returned by FindProduct. Data is nil unless Status is OK.
type FindProductResult struct {
	Status Status
	Errors []string
	Data   *domain.Product
}

// CreateProductResult is returned by CreateProduct.
type CreateProductResult struct {
	Status Status
	Errors []string
	ID     uuid.UUID
}

// DecreaseStockResult is returned by DecreaseStock.
type DecreaseStockResult struct {
	Status Status
	Errors []string
}

// AlreadyDecreased reports the benign duplicate-order outcome. Upstream callers treat it as success.
func (r DecreaseStockResult) AlreadyDecreased() bool {
	return r.Status == StatusConflict && len(r.Errors) == 1 && r.Errors[0] == MsgAlreadyDecreased
}

// Outcome is a low-cardinality label for logs and metrics.
func (r DecreaseStockResult) Outcome() string {
	switch {
	case r.Status == StatusOK:
		return "decreased"
	case r.Status == StatusNotFound:
		return "not_found"
	case r.AlreadyDecreased():
		return "already_decreased"
	case r.Status == StatusConflict:
		return "stock_too_low"
	default:
		return r.Status.String()
	}
}

func NotFoundProduct() *FindProductResult {
	return &FindProductResult{Status: StatusNotFound, Errors: []string{MsgProductNotFound}}
}

func FoundProduct(product *domain.Product) *FindProductResult {
	return &FindProductResult{Status: StatusOK, Data: product}
}

func CreatedProduct(id uuid.UUID) *CreateProductResult {
	return &CreateProductResult{Status: StatusOK, ID: id}
}

func DecreasedStock() *DecreaseStockResult {
	return &DecreaseStockResult{Status: StatusOK}
}

func DecreaseNotFound() *DecreaseStockResult {
	return &DecreaseStockResult{Status: StatusNotFound, Errors: []string{MsgProductNotFound}}
}

func DecreaseStockTooLow() *DecreaseStockResult {
	return &DecreaseStockResult{Status: StatusConflict, Errors: []string{MsgStockTooLow}}
}

func DecreaseAlreadyApplied() *DecreaseStockResult {
	return &DecreaseStockResult{Status: StatusConflict, Errors: []string{MsgAlreadyDecreased}}
}
