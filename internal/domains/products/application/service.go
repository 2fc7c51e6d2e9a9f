package application

import (
	"context"
	"errors"
	"log/slog"

	types "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

// Service orchestrates the inventory use cases. It keeps no state between calls;
// everything lives behind the storage port.
type Service struct {
	storage ports.Storage
	ledger  ports.LedgerCache
	logger  *slog.Logger
}

// Option customises the service.
type Option func(*Service)

// WithLedgerCache enables the committed-order fast path in front of the storage ledger.
func WithLedgerCache(cache ports.LedgerCache) Option {
	return func(s *Service) {
		s.ledger = cache
	}
}

// WithLogger sets the logger used for cache fallbacks. Nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the inventory service with its dependencies.
func NewService(storage ports.Storage, opts ...Option) *Service {
	s := &Service{storage: storage, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FindProduct loads a product without side effects.
func (s *Service) FindProduct(ctx context.Context, input types.ProductIdentifier) (*types.FindProductResult, error) {
	var product *domain.Product
	err := s.storage.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		product, err = tx.FindProduct(ctx, input.ID)
		return err
	})
	if errors.Is(err, ports.ErrNotFound) {
		return types.NotFoundProduct(), nil
	}
	if err != nil {
		return nil, err
	}
	return types.FoundProduct(product), nil
}

// CreateProduct persists a new product under a freshly allocated identity.
func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*types.CreateProductResult, error) {
	product, err := domain.NewProduct(input.Name, input.SKU, input.Stock, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	err = s.storage.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		return tx.InsertProduct(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return types.CreatedProduct(product.ID), nil
}

// DecreaseStock takes one unit of stock for an order, at most once per order id.
//
// The read, the ledger check and the write run in one unit of work with the product
// row held, so concurrent calls for the same product serialise. The unique order id
// on the ledger is the final arbiter when the same order races across products: the
// losing insert fails, the unit of work rolls back and the call reports a duplicate.
func (s *Service) DecreaseStock(ctx context.Context, input types.DecreaseStockInput) (*types.DecreaseStockResult, error) {
	entry, err := domain.NewStockDecreaseLog(input.ProductID, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	if s.committedBefore(ctx, entry) {
		return types.DecreaseAlreadyApplied(), nil
	}

	var result *types.DecreaseStockResult
	err = s.storage.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		level, err := tx.FindStockForUpdate(ctx, entry.ProductID)
		if errors.Is(err, ports.ErrNotFound) {
			result = types.DecreaseNotFound()
			return nil
		}
		if err != nil {
			return err
		}
		applied, err := tx.CountDecreaseLogs(ctx, entry.OrderID)
		if err != nil {
			return err
		}
		if applied > 0 {
			result = types.DecreaseAlreadyApplied()
			return nil
		}
		if !level.InStock() {
			result = types.DecreaseStockTooLow()
			return nil
		}
		if err := tx.InsertDecreaseLog(ctx, entry); err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, level.ProductID); err != nil {
			return err
		}
		result = types.DecreasedStock()
		return nil
	})
	switch {
	case errors.Is(err, ports.ErrDuplicateOrder):
		return types.DecreaseAlreadyApplied(), nil
	case errors.Is(err, ports.ErrStockExhausted):
		return types.DecreaseStockTooLow(), nil
	case errors.Is(err, ports.ErrNotFound):
		return types.DecreaseNotFound(), nil
	case err != nil:
		return nil, err
	}
	if result.Status.OK() {
		s.markCommitted(ctx, entry)
	}
	return result, nil
}

// committedBefore consults the ledger cache. Cache failures fall through to storage.
func (s *Service) committedBefore(ctx context.Context, entry *domain.StockDecreaseLog) bool {
	if s.ledger == nil {
		return false
	}
	productID, ok, err := s.ledger.Committed(ctx, entry.OrderID)
	if err != nil {
		s.logger.WarnContext(ctx, "committed-order cache read failed, using storage",
			slog.String("orderId", entry.OrderID),
			slog.String("error", err.Error()),
		)
		return false
	}
	if !ok {
		return false
	}
	// products are never deleted, so a hit for the same product also proves it exists
	return productID == entry.ProductID
}

func (s *Service) markCommitted(ctx context.Context, entry *domain.StockDecreaseLog) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.MarkCommitted(ctx, entry.OrderID, entry.ProductID); err != nil {
		s.logger.WarnContext(ctx, "committed-order cache write failed",
			slog.String("orderId", entry.OrderID),
			slog.String("productId", entry.ProductID.String()),
			slog.String("error", err.Error()),
		)
	}
}

var _ ports.Service = (*Service)(nil)
