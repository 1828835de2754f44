package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modelitalytran/Ban-Ga/models"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			OrderDate:  now,
			Total:      vnd(9_500_000),
			PaidAmount: vnd(5_000_000),
			Debt:       vnd(4_500_000),
			Items:      []models.OrderItem{{ProductName: "Gà CP Lai Chọi", Quantity: 100}},
		},
		{
			OrderDate:  now.AddDate(0, 0, -35),
			Total:      vnd(500_000),
			PaidAmount: vnd(500_000),
			Debt:       vnd(0),
			Items:      []models.OrderItem{{ProductName: "Bồ Câu Pháp Titan", Quantity: 2}},
		},
		{
			OrderDate:  now,
			Total:      vnd(0), // internal gift
			PaidAmount: vnd(0),
			Debt:       vnd(0),
			Items:      []models.OrderItem{{ProductName: "Vịt Đồng (Vịt cỏ)", Quantity: 2}},
		},
	}

	s := Summarize(orders, now)

	assert.Equal(t, 3, s.TotalOrders)
	assert.True(t, s.TotalRevenue.Equal(vnd(10_000_000)))
	assert.True(t, s.TotalCashIn.Equal(vnd(5_500_000)))
	assert.True(t, s.TotalDebt.Equal(vnd(4_500_000)))
	assert.True(t, s.TodayRevenue.Equal(vnd(9_500_000)))
	assert.Equal(t, "Gà CP Lai Chọi", s.TopSellingProduct)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Zero(t, s.TotalOrders)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Empty(t, s.TopSellingProduct)
}
