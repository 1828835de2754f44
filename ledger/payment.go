package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modelitalytran/Ban-Ga/models"
)

// RecordPayment applies a manual debt collection to a single order. The
// amount must be positive and must not exceed the order's remaining debt.
// Returns the updated order with the payment appended; the input is not
// mutated.
func RecordPayment(order models.Order, amount decimal.Decimal, note string, now time.Time) (models.Order, error) {
	if !amount.IsPositive() {
		return order, invalid(ErrNonPositiveAmount, "got %s", amount)
	}
	if !order.Outstanding() {
		return order, invalid(ErrOrderSettled, "order %s", order.OrderNo)
	}
	if amount.GreaterThan(order.Debt) {
		return order, invalid(ErrPaymentExceedsDebt, "debt %s, got %s", order.Debt, amount)
	}

	order.PaidAmount = order.PaidAmount.Add(amount)
	order.Debt = order.Debt.Sub(amount)
	payments := make([]models.PaymentRecord, len(order.Payments), len(order.Payments)+1)
	copy(payments, order.Payments)
	order.Payments = append(payments, models.PaymentRecord{
		PaymentID: uuid.NewString(),
		OrderID:   order.OrderID,
		PaidAt:    now,
		Amount:    amount,
		Note:      note,
	})
	return order, nil
}
