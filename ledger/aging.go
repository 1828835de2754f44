package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/modelitalytran/Ban-Ga/models"
)

// AgingBuckets groups outstanding debt by how long it has been unpaid.
type AgingBuckets struct {
	Current   decimal.Decimal `json:"current"`    // 0-30 days
	Overdue30 decimal.Decimal `json:"overdue_30"` // 31-60 days
	Overdue60 decimal.Decimal `json:"overdue_60"` // over 60 days
}

// ClassifyDebtAge buckets every order with debt > 0 by the whole days elapsed
// since its creation date. Pure aggregation: the report is re-derivable from
// the order list at any time and no aging state is ever persisted.
func ClassifyDebtAge(orders []models.Order, now time.Time) AgingBuckets {
	b := AgingBuckets{
		Current:   decimal.Zero,
		Overdue30: decimal.Zero,
		Overdue60: decimal.Zero,
	}
	for _, o := range orders {
		if !o.Outstanding() {
			continue
		}
		ageDays := int(now.Sub(o.OrderDate).Hours() / 24)
		switch {
		case ageDays <= 30:
			b.Current = b.Current.Add(o.Debt)
		case ageDays <= 60:
			b.Overdue30 = b.Overdue30.Add(o.Debt)
		default:
			b.Overdue60 = b.Overdue60.Add(o.Debt)
		}
	}
	return b
}

// TotalOutstanding is the sum across all buckets.
func (b AgingBuckets) TotalOutstanding() decimal.Decimal {
	return b.Current.Add(b.Overdue30).Add(b.Overdue60)
}
