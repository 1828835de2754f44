package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/modelitalytran/Ban-Ga/models"
)

// SalesSummary holds the dashboard aggregates.
type SalesSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCashIn       decimal.Decimal `json:"total_cash_in"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
	TotalOrders       int             `json:"total_orders"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	TopSellingProduct string          `json:"top_selling_product"`
}

// Summarize aggregates the whole order list: revenue is the sum of totals,
// cash-in the sum of paid amounts, debt the sum of open balances. The top
// seller is the product with the highest head count sold; ties break on the
// alphabetically smaller name so the result is stable.
func Summarize(orders []models.Order, now time.Time) SalesSummary {
	s := SalesSummary{
		TotalRevenue: decimal.Zero,
		TotalCashIn:  decimal.Zero,
		TotalDebt:    decimal.Zero,
		TodayRevenue: decimal.Zero,
		TotalOrders:  len(orders),
	}

	qtyByProduct := make(map[string]int)
	y, m, d := now.Date()

	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)
		s.TotalCashIn = s.TotalCashIn.Add(o.PaidAmount)
		s.TotalDebt = s.TotalDebt.Add(o.Debt)

		oy, om, od := o.OrderDate.Date()
		if oy == y && om == m && od == d {
			s.TodayRevenue = s.TodayRevenue.Add(o.Total)
		}
		for _, it := range o.Items {
			qtyByProduct[it.ProductName] += it.Quantity
		}
	}

	best := 0
	for name, qty := range qtyByProduct {
		if qty > best || (qty == best && (s.TopSellingProduct == "" || name < s.TopSellingProduct)) {
			best = qty
			s.TopSellingProduct = name
		}
	}
	return s
}
