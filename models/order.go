package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType type for order kinds
type SaleType string

const (
	SaleRetail   SaleType = "retail"
	SaleAgency   SaleType = "agency"
	SaleInternal SaleType = "internal" // gift / canteen orders, always zero total
)

// Order represents orders table.
//
// PaidAmount is the cumulative amount applied to THIS order, not the cash the
// customer handed over at checkout; Debt = Total - PaidAmount and never goes
// negative. Later checkouts for the same customer may pay an older order down,
// appending to its Payments list.
type Order struct {
	OrderID   uint      `gorm:"primaryKey;column:order_id" json:"order_id"`
	OrderNo   string    `gorm:"type:varchar(30);not null;unique" json:"order_no"`
	OrderDate time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"order_date"`

	// CustomerID is resolved at checkout time. CustomerName is kept as a
	// denormalized legacy match key for rows created before the foreign key
	// existed; matching on it is case-insensitive.
	CustomerID   *uint  `gorm:"index" json:"customer_id,omitempty"`
	CustomerName string `gorm:"type:varchar(100);not null;index" json:"customer_name"`

	SaleType        SaleType        `gorm:"type:varchar(10);not null" json:"sale_type"`
	Total           decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"paid_amount"`
	Debt            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0;index" json:"debt"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_applied"`
	Note            *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []PaymentRecord `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// Outstanding reports whether the order still carries unpaid debt.
func (o *Order) Outstanding() bool {
	return o.Debt.IsPositive()
}

// Balanced reports the core ledger invariant: paid_amount + debt == total.
func (o *Order) Balanced() bool {
	return o.PaidAmount.Add(o.Debt).Equal(o.Total) && !o.Debt.IsNegative() && !o.PaidAmount.IsNegative()
}

// OrderItem represents order_items table. Product name, unit and price are
// snapshotted at sale time so later catalog edits never rewrite old orders.
type OrderItem struct {
	ItemID      uint             `gorm:"primaryKey;column:item_id" json:"item_id"`
	OrderID     uint             `gorm:"index" json:"order_id"`
	ProductID   uint             `gorm:"not null" json:"product_id"`
	ProductName string           `gorm:"type:varchar(200);not null" json:"product_name"`
	Unit        ProductUnit      `gorm:"type:varchar(10);not null;default:'head'" json:"unit"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	Quantity    int              `gorm:"not null;check:quantity > 0" json:"quantity"`
	Weight      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"weight,omitempty"`
	Subtotal    decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}
