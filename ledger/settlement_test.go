package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelitalytran/Ban-Ga/models"
)

func vnd(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func draftOrder(total, tendered int64) models.Order {
	return models.Order{
		OrderNo:      "DH20260831000001",
		OrderDate:    day(10),
		CustomerName: "Đại lý Anh Ba",
		SaleType:     models.SaleRetail,
		Total:        vnd(total),
		PaidAmount:   vnd(tendered),
	}
}

func oldDebt(id uint, date time.Time, total, paid int64) models.Order {
	return models.Order{
		OrderID:      id,
		OrderNo:      "DH-OLD",
		OrderDate:    date,
		CustomerName: "Đại lý Anh Ba",
		SaleType:     models.SaleAgency,
		Total:        vnd(total),
		PaidAmount:   vnd(paid),
		Debt:         vnd(total - paid),
	}
}

func TestSettleExactTender(t *testing.T) {
	res, err := Settle(draftOrder(100_000, 100_000), nil, day(10))
	require.NoError(t, err)

	assert.True(t, res.FinalOrder.Debt.IsZero())
	assert.True(t, res.FinalOrder.PaidAmount.Equal(vnd(100_000)))
	assert.True(t, res.Change.IsZero())
	assert.Empty(t, res.ModifiedOldOrders)
	assert.True(t, res.FinalOrder.Balanced())
}

func TestSettleShortfallBecomesDebt(t *testing.T) {
	res, err := Settle(draftOrder(100_000, 60_000), nil, day(10))
	require.NoError(t, err)

	assert.True(t, res.FinalOrder.PaidAmount.Equal(vnd(60_000)))
	assert.True(t, res.FinalOrder.Debt.Equal(vnd(40_000)))
	assert.True(t, res.Change.IsZero())
	assert.True(t, res.AppliedToDebt.IsZero())
	assert.True(t, res.FinalOrder.Balanced())
}

func TestSettleZeroTenderFullDebt(t *testing.T) {
	old := oldDebt(1, day(0), 50_000, 10_000)

	res, err := Settle(draftOrder(100_000, 0), []models.Order{old}, day(10))
	require.NoError(t, err)

	assert.True(t, res.FinalOrder.Debt.Equal(vnd(100_000)))
	assert.Empty(t, res.ModifiedOldOrders, "no surplus, old orders untouched")
}

func TestSettleSurplusClearsOldDebtsFIFO(t *testing.T) {
	// Order total 50k, tendered 200k, two prior unpaid orders:
	// A (day1, debt 30k) and B (day2, debt 90k). Surplus 150k clears A,
	// then B, leaving 30k change.
	orderA := oldDebt(1, day(1), 30_000, 0)
	orderB := oldDebt(2, day(2), 100_000, 10_000)

	res, err := Settle(draftOrder(50_000, 200_000), []models.Order{orderB, orderA}, day(10))
	require.NoError(t, err)

	assert.True(t, res.FinalOrder.Debt.IsZero())
	require.Len(t, res.ModifiedOldOrders, 2)

	first := res.ModifiedOldOrders[0]
	assert.Equal(t, uint(1), first.OrderID, "oldest order paid first")
	assert.True(t, first.Debt.IsZero())
	require.Len(t, first.Payments, 1)
	assert.True(t, first.Payments[0].Amount.Equal(vnd(30_000)))
	assert.Contains(t, first.Payments[0].Note, res.FinalOrder.OrderNo)

	second := res.ModifiedOldOrders[1]
	assert.Equal(t, uint(2), second.OrderID)
	assert.True(t, second.Debt.IsZero())
	require.Len(t, second.Payments, 1)
	assert.True(t, second.Payments[0].Amount.Equal(vnd(90_000)))

	assert.True(t, res.AppliedToDebt.Equal(vnd(120_000)))
	assert.True(t, res.Change.Equal(vnd(30_000)))
}

func TestSettlePartialPayoffStopsAtSurplus(t *testing.T) {
	// Surplus 40k over three debts of 30k each: oldest cleared, second
	// partially paid, third untouched.
	debts := []models.Order{
		oldDebt(1, day(1), 30_000, 0),
		oldDebt(2, day(2), 30_000, 0),
		oldDebt(3, day(3), 30_000, 0),
	}

	res, err := Settle(draftOrder(10_000, 50_000), debts, day(10))
	require.NoError(t, err)

	require.Len(t, res.ModifiedOldOrders, 2, "third debt must stay untouched")
	assert.True(t, res.ModifiedOldOrders[0].Debt.IsZero())
	assert.True(t, res.ModifiedOldOrders[1].Debt.Equal(vnd(20_000)))
	assert.True(t, res.Change.IsZero())

	for _, o := range res.ModifiedOldOrders {
		assert.True(t, o.Balanced())
	}
}

func TestSettleTotalPreservation(t *testing.T) {
	// sum(debt reduction) + change == max(0, tendered - total)
	debts := []models.Order{
		oldDebt(1, day(1), 70_000, 25_000),
		oldDebt(2, day(4), 40_000, 0),
	}
	res, err := Settle(draftOrder(80_000, 250_000), debts, day(10))
	require.NoError(t, err)

	surplus := vnd(250_000 - 80_000)
	assert.True(t, res.AppliedToDebt.Add(res.Change).Equal(surplus))
}

func TestSettleEqualDatesKeepInsertionOrder(t *testing.T) {
	same := day(3)
	debts := []models.Order{
		oldDebt(7, same, 20_000, 0),
		oldDebt(8, same, 20_000, 0),
	}
	res, err := Settle(draftOrder(0, 25_000), debts, day(10))
	require.NoError(t, err)

	require.Len(t, res.ModifiedOldOrders, 2)
	assert.Equal(t, uint(7), res.ModifiedOldOrders[0].OrderID)
	assert.True(t, res.ModifiedOldOrders[0].Debt.IsZero())
	assert.Equal(t, uint(8), res.ModifiedOldOrders[1].OrderID)
	assert.True(t, res.ModifiedOldOrders[1].Debt.Equal(vnd(15_000)))
}

func TestSettleNoZeroAmountPaymentRecords(t *testing.T) {
	// Surplus exactly cancels the single old debt; the next debt must not
	// receive a zero-amount payment record.
	debts := []models.Order{
		oldDebt(1, day(1), 30_000, 0),
		oldDebt(2, day(2), 30_000, 0),
	}
	res, err := Settle(draftOrder(20_000, 50_000), debts, day(10))
	require.NoError(t, err)

	require.Len(t, res.ModifiedOldOrders, 1)
	for _, o := range res.ModifiedOldOrders {
		for _, p := range o.Payments {
			assert.True(t, p.Amount.IsPositive())
		}
	}
}

func TestSettleSkipsNonOutstandingDefensively(t *testing.T) {
	settled := oldDebt(1, day(1), 30_000, 30_000) // debt 0, should never be passed in
	open := oldDebt(2, day(2), 30_000, 0)

	res, err := Settle(draftOrder(0, 10_000), []models.Order{settled, open}, day(10))
	require.NoError(t, err)

	require.Len(t, res.ModifiedOldOrders, 1)
	assert.Equal(t, uint(2), res.ModifiedOldOrders[0].OrderID)
}

func TestSettleKeepsDraftNote(t *testing.T) {
	draft := draftOrder(0, 0)
	draft.SaleType = models.SaleInternal
	note := "Xuất nội bộ/Tặng"
	draft.Note = &note

	res, err := Settle(draft, nil, day(10))
	require.NoError(t, err)
	require.NotNil(t, res.FinalOrder.Note)
	assert.Equal(t, note, *res.FinalOrder.Note)
}

func TestSettleValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.Order
		want  error
	}{
		{
			name:  "missing customer name",
			draft: models.Order{Total: vnd(1000), PaidAmount: vnd(1000)},
			want:  ErrCustomerNameRequired,
		},
		{
			name: "negative tender",
			draft: models.Order{
				CustomerName: "Chị Bảy",
				Total:        vnd(1000),
				PaidAmount:   vnd(-1),
			},
			want: ErrNegativeTender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Settle(tt.draft, nil, day(10))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestComputeTotal(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 1, UnitPrice: vnd(100_000), Quantity: 2},
		{ProductID: 2, UnitPrice: vnd(50_000), Quantity: 0}, // skipped
	}

	tests := []struct {
		name     string
		saleType models.SaleType
		discount decimal.Decimal
		want     decimal.Decimal
	}{
		{"retail ignores discount", models.SaleRetail, vnd(10), vnd(200_000)},
		{"agency applies discount", models.SaleAgency, vnd(10), vnd(180_000)},
		{"agency zero discount", models.SaleAgency, vnd(0), vnd(200_000)},
		{"internal is always free", models.SaleInternal, vnd(10), vnd(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(items, tt.saleType, tt.discount)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeTotalAgencyDiscountScenario(t *testing.T) {
	// Subtotal 200,000 at 10% dealer discount comes to 180,000.
	items := []models.OrderItem{{ProductID: 1, UnitPrice: vnd(200_000), Quantity: 1}}
	got := ComputeTotal(items, models.SaleAgency, vnd(10))
	assert.True(t, got.Equal(vnd(180_000)))
}
