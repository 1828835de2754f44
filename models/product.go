package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductUnit type for inventory units. Stock is always counted per head,
// kg-unit products only price by weight.
type ProductUnit string

const (
	UnitHead ProductUnit = "head"
	UnitKg   ProductUnit = "kg"
)

// Product represents products table
type Product struct {
	ProductID         uint            `gorm:"primaryKey;column:product_id" json:"product_id"`
	ProductName       string          `gorm:"type:varchar(200);not null;unique" json:"product_name"`
	Category          string          `gorm:"type:varchar(50);not null" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Stock             int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Unit              ProductUnit     `gorm:"type:varchar(10);not null;default:'head'" json:"unit"`
	MinStockThreshold int             `gorm:"default:10" json:"min_stock_threshold"`
	Description       *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	PriceHistory []PriceHistoryEntry `gorm:"foreignKey:ProductID" json:"price_history,omitempty"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock has fallen to the warning threshold.
func (p *Product) IsLowStock() bool {
	threshold := p.MinStockThreshold
	if threshold <= 0 {
		threshold = 10
	}
	return p.Stock <= threshold
}

// PriceHistoryEntry represents product_price_history table.
// Entries hold the price a product had BEFORE a change; the newest entry
// comes first when ordered by recorded_at descending.
type PriceHistoryEntry struct {
	EntryID    uint            `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	Price      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	RecordedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for PriceHistoryEntry
func (PriceHistoryEntry) TableName() string {
	return "product_price_history"
}
