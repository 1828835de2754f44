// Package ledger holds the pure core of the poultry POS: checkout settlement,
// stock adjustment, debt aging and sales aggregation. Everything here is a
// synchronous function over in-memory snapshots; persistence belongs to the
// transaction coordinator in the database package.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modelitalytran/Ban-Ga/models"
)

var hundred = decimal.NewFromInt(100)

// SettlementResult is the full outcome of one checkout: the finalized new
// order, any older orders whose debt absorbed surplus cash, and the split of
// the tendered amount. Change is cash handed back to the customer; it is never
// revenue and never persisted.
type SettlementResult struct {
	FinalOrder        models.Order
	ModifiedOldOrders []models.Order
	AppliedToOrder    decimal.Decimal
	AppliedToDebt     decimal.Decimal
	Change            decimal.Decimal
}

// Subtotal sums unit price times quantity over the cart, skipping
// non-positive quantities.
func Subtotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ComputeTotal applies the sale-type pricing rules: internal orders (gifts,
// canteen) are always zero, agency orders get the customer's discount rate,
// retail pays the plain subtotal.
func ComputeTotal(items []models.OrderItem, saleType models.SaleType, discountRate decimal.Decimal) decimal.Decimal {
	if saleType == models.SaleInternal {
		return decimal.Zero
	}
	sub := Subtotal(items)
	if saleType == models.SaleAgency && discountRate.IsPositive() {
		// Round to the column scale so total always equals paid + debt
		// exactly, even for discounts that don't divide evenly.
		return sub.Mul(hundred.Sub(discountRate)).Div(hundred).Round(2)
	}
	return sub
}

// Settle splits the cash tendered for draft between the new order itself, the
// customer's oldest outstanding debts, and change.
//
// draft.PaidAmount must hold the raw tendered amount and draft.Total the
// post-discount order total. outstanding is the customer's previously
// persisted orders with debt > 0; entries are re-checked defensively and
// paid strictly oldest-first. Equal dates keep their input order, so the
// result is deterministic.
func Settle(draft models.Order, outstanding []models.Order, now time.Time) (SettlementResult, error) {
	var res SettlementResult

	if strings.TrimSpace(draft.CustomerName) == "" {
		return res, invalid(ErrCustomerNameRequired, "order %s", draft.OrderNo)
	}
	if draft.PaidAmount.IsNegative() {
		return res, invalid(ErrNegativeTender, "got %s", draft.PaidAmount)
	}

	tendered := draft.PaidAmount
	orderTotal := draft.Total

	surplus := decimal.Zero
	if tendered.GreaterThanOrEqual(orderTotal) {
		res.AppliedToOrder = orderTotal
		surplus = tendered.Sub(orderTotal)
	} else {
		res.AppliedToOrder = tendered
	}
	res.AppliedToDebt = decimal.Zero

	if surplus.IsPositive() {
		debts := make([]models.Order, 0, len(outstanding))
		for _, o := range outstanding {
			if o.Outstanding() {
				debts = append(debts, o)
			}
		}
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].OrderDate.Before(debts[j].OrderDate)
		})

		for _, old := range debts {
			if !surplus.IsPositive() {
				break
			}
			pay := decimal.Min(surplus, old.Debt)
			old.PaidAmount = old.PaidAmount.Add(pay)
			old.Debt = old.Debt.Sub(pay)
			old.Payments = append(old.Payments, models.PaymentRecord{
				PaymentID: uuid.NewString(),
				OrderID:   old.OrderID,
				PaidAt:    now,
				Amount:    pay,
				Note:      fmt.Sprintf("Thanh toán cấn trừ từ đơn mới #%s", draft.OrderNo),
			})
			res.ModifiedOldOrders = append(res.ModifiedOldOrders, old)
			res.AppliedToDebt = res.AppliedToDebt.Add(pay)
			surplus = surplus.Sub(pay)
		}
	}
	res.Change = surplus

	final := draft
	final.PaidAmount = res.AppliedToOrder
	final.Debt = orderTotal.Sub(res.AppliedToOrder)
	final.Payments = nil
	if final.Note == nil || *final.Note == "" {
		note := settlementNote(tendered, res)
		final.Note = &note
	}
	res.FinalOrder = final

	return res, nil
}

func settlementNote(tendered decimal.Decimal, res SettlementResult) string {
	parts := []string{
		fmt.Sprintf("Khách đưa %s", tendered.StringFixed(0)),
		fmt.Sprintf("trừ đơn này %s", res.AppliedToOrder.StringFixed(0)),
	}
	if res.AppliedToDebt.IsPositive() {
		parts = append(parts, fmt.Sprintf("gạch nợ cũ %s", res.AppliedToDebt.StringFixed(0)))
	}
	if res.Change.IsPositive() {
		parts = append(parts, fmt.Sprintf("thối lại %s", res.Change.StringFixed(0)))
	}
	return strings.Join(parts, ", ")
}
