package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modelitalytran/Ban-Ga/models"
)

func debtAgedDays(days int, debt int64, now time.Time) models.Order {
	return models.Order{
		OrderDate: now.AddDate(0, 0, -days),
		Total:     vnd(debt),
		Debt:      vnd(debt),
	}
}

func TestClassifyDebtAgeBuckets(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		debtAgedDays(0, 1_000, now),
		debtAgedDays(30, 2_000, now),   // boundary: still current
		debtAgedDays(31, 4_000, now),   // first overdue bucket
		debtAgedDays(60, 8_000, now),   // boundary: still 31-60
		debtAgedDays(61, 16_000, now),  // bad debt
		debtAgedDays(365, 32_000, now), // bad debt
		{OrderDate: now.AddDate(0, 0, -90), Total: vnd(500), Debt: vnd(0)}, // paid, ignored
	}

	b := ClassifyDebtAge(orders, now)

	assert.True(t, b.Current.Equal(vnd(3_000)), "current = %s", b.Current)
	assert.True(t, b.Overdue30.Equal(vnd(12_000)), "overdue30 = %s", b.Overdue30)
	assert.True(t, b.Overdue60.Equal(vnd(48_000)), "overdue60 = %s", b.Overdue60)
	assert.True(t, b.TotalOutstanding().Equal(vnd(63_000)))
}

func TestClassifyDebtAgeEmpty(t *testing.T) {
	b := ClassifyDebtAge(nil, time.Now())
	assert.True(t, b.TotalOutstanding().IsZero())
}

func TestClassifyDebtAgeFlooring(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	// 30 days and 23 hours old floors to 30 days: still current.
	almost := models.Order{
		OrderDate: now.Add(-(30*24 + 23) * time.Hour),
		Debt:      vnd(5_000),
	}
	b := ClassifyDebtAge([]models.Order{almost}, now)
	assert.True(t, b.Current.Equal(vnd(5_000)))
	assert.True(t, b.Overdue30.IsZero())
}
