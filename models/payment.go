package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord represents payment_records table. Records are immutable once
// created and only ever appended to an order: one per manual debt collection,
// and one per old order that absorbs surplus cash from a newer checkout.
//
// The id is a UUID minted by the settlement engine before any database round
// trip, so a full settlement batch can be assembled in memory and persisted
// atomically.
type PaymentRecord struct {
	PaymentID string          `gorm:"type:uuid;primaryKey;column:payment_id" json:"payment_id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	PaidAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"paid_at"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null;check:amount > 0" json:"amount"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for PaymentRecord
func (PaymentRecord) TableName() string {
	return "payment_records"
}
