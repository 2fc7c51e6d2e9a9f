//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
)

const (
	ProviderName = "inventory-api"
	ConsumerName = "order-service"

	StateProductsBaseline = "no products"
	StateProductInStock   = "product 6f1c0c3e exists with one unit in stock"
	StateProductDecreased = "product 6f1c0c3e stock already decreased for order-A"
	StateProductMissing   = "product 00000000 does not exist"
)

const (
	ExampleOrderID      = "order-A"
	ExampleProductName  = "Pact Widget"
	ExampleProductSKU   = "PACT-WID-1"
	ExampleProductPrice = "19.99"
	ExampleProductStock = int64(1)

	MsgProductNotFound  = "product not found"
	MsgAlreadyDecreased = "stock already decreased"

	uuidPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
)

var (
	ExistingProductID = uuid.MustParse("6f1c0c3e-8a4e-4f7b-9b55-3c2d1e0f4a11")
	MissingProductID  = uuid.MustParse("00000000-0000-4000-8000-000000000404")
)

// UUIDPattern matches the canonical textual form of product ids.
func UUIDPattern() string {
	return uuidPattern
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order service consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable data for product creation interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"name":  ExampleProductName,
		"sku":   ExampleProductSKU,
		"stock": ExampleProductStock,
		"price": ExampleProductPrice,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
