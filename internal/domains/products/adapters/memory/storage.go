package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var (
	_ ports.Storage = (*Storage)(nil)
	_ ports.Tx      = (*tx)(nil)
)

// Storage is an in-memory inventory store. Units of work are fully serialised and
// stage their writes until fn returns nil, so a failed or cancelled unit leaves no trace.
type Storage struct {
	mu       sync.Mutex
	products map[uuid.UUID]productRow
	logs     map[string]domain.StockDecreaseLog
	now      func() time.Time
}

type productRow struct {
	product   domain.Product
	createdAt time.Time
	updatedAt time.Time
}

// NewStorage constructs an empty store.
func NewStorage() *Storage {
	return &Storage{
		products: map[uuid.UUID]productRow{},
		logs:     map[string]domain.StockDecreaseLog{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Storage) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithinTx runs fn against a private write set and applies it on success.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if fn == nil {
		return errors.New("unit of work is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unit := &tx{
		storage:  s,
		products: map[uuid.UUID]productRow{},
		logs:     map[string]domain.StockDecreaseLog{},
	}
	if err := fn(ctx, unit); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	unit.commit()
	return nil
}

// DecreaseLogs returns every committed ledger entry ordered by creation time.
func (s *Storage) DecreaseLogs(_ context.Context) ([]*domain.StockDecreaseLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*domain.StockDecreaseLog, 0, len(s.logs))
	for _, entry := range s.logs {
		clone := entry
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// Reset drops all products and ledger entries.
func (s *Storage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = map[uuid.UUID]productRow{}
	s.logs = map[string]domain.StockDecreaseLog{}
}

type tx struct {
	storage  *Storage
	products map[uuid.UUID]productRow
	logs     map[string]domain.StockDecreaseLog
}

func (t *tx) lookup(id uuid.UUID) (productRow, bool) {
	if row, ok := t.products[id]; ok {
		return row, true
	}
	row, ok := t.storage.products[id]
	return row, ok
}

func (t *tx) FindProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	row, ok := t.lookup(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := row.product
	return &clone, nil
}

func (t *tx) FindStockForUpdate(_ context.Context, id uuid.UUID) (*domain.StockLevel, error) {
	row, ok := t.lookup(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &domain.StockLevel{ProductID: row.product.ID, Stock: row.product.Stock}, nil
}

func (t *tx) InsertProduct(_ context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if _, exists := t.lookup(product.ID); exists {
		return errors.New("product id already exists")
	}
	now := t.storage.now()
	t.products[product.ID] = productRow{product: *product, createdAt: now, updatedAt: now}
	return nil
}

func (t *tx) DecrementStock(_ context.Context, id uuid.UUID) error {
	row, ok := t.lookup(id)
	if !ok {
		return ports.ErrNotFound
	}
	if row.product.Stock <= 0 {
		return ports.ErrStockExhausted
	}
	row.product.Stock--
	row.updatedAt = t.storage.now()
	t.products[id] = row
	return nil
}

func (t *tx) InsertDecreaseLog(_ context.Context, entry *domain.StockDecreaseLog) error {
	if entry == nil {
		return errors.New("decrease log is nil")
	}
	if _, ok := t.lookup(entry.ProductID); !ok {
		return ports.ErrNotFound
	}
	if _, ok := t.logs[entry.OrderID]; ok {
		return ports.ErrDuplicateOrder
	}
	if _, ok := t.storage.logs[entry.OrderID]; ok {
		return ports.ErrDuplicateOrder
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = t.storage.now()
	t.logs[entry.OrderID] = *entry
	return nil
}

func (t *tx) CountDecreaseLogs(_ context.Context, orderID string) (int64, error) {
	if _, ok := t.logs[orderID]; ok {
		return 1, nil
	}
	if _, ok := t.storage.logs[orderID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (t *tx) commit() {
	for id, row := range t.products {
		t.storage.products[id] = row
	}
	for orderID, entry := range t.logs {
		t.storage.logs[orderID] = entry
	}
}
