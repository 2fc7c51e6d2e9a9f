package migrations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the inventory schema. Storage adapters do not migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&productRecord{}, &decreaseLogRecord{}); err != nil {
		return err
	}
	return ensureForeignKey(db, foreignKey{
		Name:      "fk_stock_decrease_logs_product",
		Table:     "stock_decrease_logs",
		Column:    "product_id",
		RefTable:  "products",
		RefColumn: "id",
	})
}

// Product schema mirrors the products Postgres adapter.
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

// Decrease log schema mirrors the ledger written by the products Postgres adapter.
type decreaseLogRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	ProductID uuid.UUID `gorm:"type:uuid;column:product_id;index;not null"`
	OrderID   string    `gorm:"column:order_id;type:text;uniqueIndex:idx_stock_decrease_logs_order_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (decreaseLogRecord) TableName() string { return "stock_decrease_logs" }

type foreignKey struct {
	Name      string
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// ensureForeignKey adds the constraint once; AutoMigrate only creates it for association fields.
func ensureForeignKey(db *gorm.DB, fk foreignKey) error {
	stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = %s) THEN
		ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);
	END IF;
END $$;`,
		pq.QuoteLiteral(fk.Name),
		pq.QuoteIdentifier(fk.Table),
		pq.QuoteIdentifier(fk.Name),
		pq.QuoteIdentifier(fk.Column),
		pq.QuoteIdentifier(fk.RefTable),
		pq.QuoteIdentifier(fk.RefColumn),
	)
	return db.Exec(stmt).Error
}
