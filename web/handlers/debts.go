package handlers

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modelitalytran/Ban-Ga/database"
	"github.com/modelitalytran/Ban-Ga/ledger"
	"github.com/modelitalytran/Ban-Ga/models"
)

type customerDebt struct {
	CustomerID   *uint           `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
	OrderCount   int             `json:"order_count"`
	OldestDate   time.Time       `json:"oldest_date"`
}

// DebtOverview groups every outstanding order by customer, biggest debt
// first. Legacy orders with only a free-text name group under that name.
func DebtOverview(c *fiber.Ctx) error {
	db := database.GetDB()

	var orders []models.Order
	if err := db.Where("debt > 0").Order("order_date ASC").Find(&orders).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải công nợ: "+err.Error())
	}

	grouped := make(map[string]*customerDebt)
	var keys []string
	for i := range orders {
		o := &orders[i]
		key := strings.ToLower(strings.TrimSpace(o.CustomerName))
		entry, ok := grouped[key]
		if !ok {
			entry = &customerDebt{
				CustomerID:   o.CustomerID,
				CustomerName: o.CustomerName,
				TotalDebt:    decimal.Zero,
				OldestDate:   o.OrderDate,
			}
			grouped[key] = entry
			keys = append(keys, key)
		}
		entry.TotalDebt = entry.TotalDebt.Add(o.Debt)
		entry.OrderCount++
		if entry.CustomerID == nil {
			entry.CustomerID = o.CustomerID
		}
	}

	debts := make([]customerDebt, 0, len(keys))
	totalDebt := decimal.Zero
	for _, key := range keys {
		debts = append(debts, *grouped[key])
		totalDebt = totalDebt.Add(grouped[key].TotalDebt)
	}
	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].TotalDebt.GreaterThan(debts[j].TotalDebt)
	})

	return c.JSON(fiber.Map{
		"customers":  debts,
		"total_debt": totalDebt,
	})
}

// DebtAging buckets all outstanding debt by order age: current (up to 30
// days), overdue 31-60 days, and over 60 days.
func DebtAging(c *fiber.Ctx) error {
	db := database.GetDB()

	var orders []models.Order
	if err := db.Where("debt > 0").Find(&orders).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải công nợ: "+err.Error())
	}

	buckets := ledger.ClassifyDebtAge(orders, time.Now())
	return c.JSON(fiber.Map{
		"buckets":           buckets,
		"total_outstanding": buckets.TotalOutstanding(),
	})
}

// DebtByCustomer returns one customer's unpaid orders oldest first, the
// order the settlement engine would pay them down in.
func DebtByCustomer(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("customer"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Tên khách hàng không được để trống")
	}
	// Route params arrive percent-encoded.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	db := database.GetDB()
	coord := database.GetCoordinator()

	var customerID *uint
	var customer models.Customer
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&customer).Error
	if err == nil {
		customerID = &customer.CustomerID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tra cứu khách hàng: "+err.Error())
	}

	outstanding, err := coord.OutstandingOrders(customerID, name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải công nợ: "+err.Error())
	}

	totalDebt := decimal.Zero
	for i := range outstanding {
		totalDebt = totalDebt.Add(outstanding[i].Debt)
	}

	return c.JSON(fiber.Map{
		"customer_name":      name,
		"outstanding_orders": outstanding,
		"total_debt":         totalDebt,
	})
}

type debtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// DebtCollect records a manual debt payment against one order. Runs under
// the customer's settlement lock so it cannot race a checkout paying the
// same order down.
func DebtCollect(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã đơn hàng không hợp lệ")
	}

	var req debtPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}

	db := database.GetDB()
	coord := database.GetCoordinator()

	var order models.Order
	if err := db.Preload("Payments").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy đơn hàng")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải đơn hàng: "+err.Error())
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "Thu nợ"
	}

	var updated models.Order
	err = coord.WithCustomerLock(order.CustomerName, func() error {
		// Reload under the lock; a concurrent checkout may have already
		// paid this order down.
		if err := db.Preload("Payments").First(&order, id).Error; err != nil {
			return err
		}

		var payErr error
		updated, payErr = ledger.RecordPayment(order, req.Amount, note, time.Now())
		if payErr != nil {
			return payErr
		}
		return coord.WriteAtomic([]models.Order{updated}, nil, nil)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Đã ghi nhận thanh toán",
		"order":   updated,
	})
}
