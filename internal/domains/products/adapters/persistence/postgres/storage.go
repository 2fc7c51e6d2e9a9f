package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var (
	_ ports.Storage = (*Storage)(nil)
	_ ports.Tx      = (*tx)(nil)
)

// Storage persists products and the stock decrease ledger in PostgreSQL using GORM.
// The connection must be opened with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type Storage struct {
	db *gorm.DB
}

// NewStorage wires a PostgreSQL-backed storage. Caller manages DB lifecycle and migrations.
func NewStorage(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID        uuid.UUID       `gorm:"primaryKey;type:uuid;column:id"`
	Name      string          `gorm:"column:name;not null"`
	SKU       string          `gorm:"column:sku;index;not null"`
	Stock     int64           `gorm:"column:stock;not null;check:chk_products_stock_non_negative,stock >= 0"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// decreaseLogRecord is the idempotency ledger; order_id is unique.
type decreaseLogRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	ProductID uuid.UUID `gorm:"type:uuid;column:product_id;index;not null"`
	OrderID   string    `gorm:"column:order_id;type:text;uniqueIndex:idx_stock_decrease_logs_order_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (decreaseLogRecord) TableName() string { return "stock_decrease_logs" }

// WithinTx runs fn inside a database transaction; an error from fn rolls it back.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("unit of work is nil")
	}
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &tx{db: db})
	})
}

func (s *Storage) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres inventory storage not configured")
	}
	return nil
}

type tx struct {
	db *gorm.DB
}

func (t *tx) FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var record productRecord
	if err := t.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *tx) FindStockForUpdate(ctx context.Context, id uuid.UUID) (*domain.StockLevel, error) {
	var record productRecord
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &domain.StockLevel{ProductID: record.ID, Stock: record.Stock}, nil
}

func (t *tx) InsertProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	record := toProductRecord(product)
	return t.db.WithContext(ctx).Create(&record).Error
}

func (t *tx) DecrementStock(ctx context.Context, id uuid.UUID) error {
	result := t.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND stock > 0", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrStockExhausted
	}
	return nil
}

func (t *tx) InsertDecreaseLog(ctx context.Context, entry *domain.StockDecreaseLog) error {
	if entry == nil {
		return errors.New("decrease log is nil")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	record := decreaseLogRecord{
		ID:        entry.ID,
		ProductID: entry.ProductID,
		OrderID:   entry.OrderID,
	}
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateOrder
		}
		return err
	}
	entry.CreatedAt = record.CreatedAt
	return nil
}

func (t *tx) CountDecreaseLogs(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&decreaseLogRecord{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:    product.ID,
		Name:  product.Name,
		SKU:   product.SKU,
		Stock: product.Stock,
		Price: product.Price,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:    r.ID,
		Name:  r.Name,
		SKU:   r.SKU,
		Stock: r.Stock,
		Price: r.Price,
	}
}
