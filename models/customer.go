package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerType type for customer classifications
type CustomerType string

const (
	CustomerAgency CustomerType = "agency"
	CustomerRetail CustomerType = "retail"
)

// Customer represents customers table
type Customer struct {
	CustomerID   uint            `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	Name         string          `gorm:"type:varchar(100);not null;unique" json:"name"`
	Phone        *string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address      *string         `gorm:"type:text" json:"address,omitempty"`
	Type         CustomerType    `gorm:"type:varchar(10);not null;default:'retail'" json:"type"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;check:discount_rate >= 0 AND discount_rate <= 100" json:"discount_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// MatchesName reports whether name refers to this customer. Legacy orders
// carry only a free-text customer name, matched case-insensitively.
func (c *Customer) MatchesName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
}
