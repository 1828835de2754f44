package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/modelitalytran/Ban-Ga/database"
	"github.com/modelitalytran/Ban-Ga/ledger"
	"github.com/modelitalytran/Ban-Ga/models"
)

// Dashboard returns the storefront overview: sales totals, debt aging and
// low-stock warnings in one response.
func Dashboard(c *fiber.Ctx) error {
	snap, err := database.GetCoordinator().ReadSnapshot()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải dữ liệu tổng quan: "+err.Error())
	}

	now := time.Now()
	summary := ledger.Summarize(snap.Orders, now)
	aging := ledger.ClassifyDebtAge(snap.Orders, now)

	lowStock := []models.Product{}
	for i := range snap.Products {
		if snap.Products[i].IsLowStock() {
			lowStock = append(lowStock, snap.Products[i])
		}
	}

	return c.JSON(fiber.Map{
		"summary": summary,
		"debt_aging": fiber.Map{
			"buckets":           aging,
			"total_outstanding": aging.TotalOutstanding(),
		},
		"low_stock_products": lowStock,
		"product_count":      len(snap.Products),
		"customer_count":     len(snap.Customers),
	})
}
