package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelitalytran/Ban-Ga/models"
)

func TestRecordPayment(t *testing.T) {
	order := oldDebt(5, day(1), 100_000, 40_000) // debt 60k

	updated, err := RecordPayment(order, vnd(25_000), "Chuyển khoản", day(10))
	require.NoError(t, err)

	assert.True(t, updated.PaidAmount.Equal(vnd(65_000)))
	assert.True(t, updated.Debt.Equal(vnd(35_000)))
	assert.True(t, updated.Balanced())
	require.Len(t, updated.Payments, 1)
	assert.True(t, updated.Payments[0].Amount.Equal(vnd(25_000)))
	assert.Equal(t, "Chuyển khoản", updated.Payments[0].Note)
	assert.NotEmpty(t, updated.Payments[0].PaymentID)

	// input untouched
	assert.True(t, order.Debt.Equal(vnd(60_000)))
	assert.Empty(t, order.Payments)
}

func TestRecordPaymentClearsDebt(t *testing.T) {
	order := oldDebt(5, day(1), 100_000, 40_000)

	updated, err := RecordPayment(order, vnd(60_000), "", day(10))
	require.NoError(t, err)
	assert.True(t, updated.Debt.IsZero())
	assert.False(t, updated.Outstanding())
}

func TestRecordPaymentValidation(t *testing.T) {
	tests := []struct {
		name   string
		order  models.Order
		amount int64
		want   error
	}{
		{"zero amount", oldDebt(1, day(1), 50_000, 0), 0, ErrNonPositiveAmount},
		{"negative amount", oldDebt(1, day(1), 50_000, 0), -100, ErrNonPositiveAmount},
		{"exceeds debt", oldDebt(1, day(1), 50_000, 20_000), 30_001, ErrPaymentExceedsDebt},
		{"already settled", oldDebt(1, day(1), 50_000, 50_000), 1_000, ErrOrderSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecordPayment(tt.order, vnd(tt.amount), "", day(10))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}
