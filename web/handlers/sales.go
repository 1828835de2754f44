package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelitalytran/Ban-Ga/database"
	"github.com/modelitalytran/Ban-Ga/ledger"
	"github.com/modelitalytran/Ban-Ga/models"
)

type checkoutItem struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Weight    *decimal.Decimal `json:"weight"`
}

type checkoutRequest struct {
	CustomerName string          `json:"customer_name"`
	SaleType     models.SaleType `json:"sale_type"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Items        []checkoutItem  `json:"items"`
	Note         *string         `json:"note"`
}

// validateCheckout rejects malformed checkout requests before any database
// work happens.
func validateCheckout(req *checkoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return &ledger.ValidationError{Err: ledger.ErrCustomerNameRequired}
	}
	switch req.SaleType {
	case models.SaleRetail, models.SaleAgency, models.SaleInternal:
	default:
		return &ledger.ValidationError{
			Err:     ledger.ErrInvalidSaleType,
			Details: fmt.Sprintf("got %q", req.SaleType),
		}
	}
	if len(req.Items) == 0 {
		return &ledger.ValidationError{Err: ledger.ErrEmptyCart}
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return &ledger.ValidationError{
				Err:     ledger.ErrNonPositiveQuantity,
				Details: fmt.Sprintf("sản phẩm %d có số lượng %d", it.ProductID, it.Quantity),
			}
		}
	}
	if req.PaidAmount.IsNegative() {
		return &ledger.ValidationError{
			Err:     ledger.ErrNegativeTender,
			Details: fmt.Sprintf("got %s", req.PaidAmount),
		}
	}
	return nil
}

// generateOrderNo builds a DH<date><suffix> order number and retries on the
// rare collision.
func generateOrderNo(db *gorm.DB) (string, error) {
	const maxRetries = 10
	for i := 0; i < maxRetries; i++ {
		now := time.Now()
		orderNo := fmt.Sprintf("DH%s%06d", now.Format("20060102"), now.Nanosecond()/1000+i)

		var count int64
		if err := db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return orderNo, nil
		}
	}
	return "", errors.New("không thể tạo số đơn hàng duy nhất")
}

// SalesCreate is the checkout endpoint. It resolves the customer, prices and
// snapshots the cart, settles the tendered cash against the new order and the
// customer's oldest debts, deducts stock, and persists the whole batch in one
// transaction. All of that happens under the customer's settlement lock so
// two concurrent checkouts cannot allocate the same surplus twice.
func SalesCreate(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if err := validateCheckout(&req); err != nil {
		return err
	}

	db := database.GetDB()
	coord := database.GetCoordinator()
	customerName := strings.TrimSpace(req.CustomerName)

	var response fiber.Map
	err := coord.WithCustomerLock(customerName, func() error {
		now := time.Now()

		// Resolve customer by name. Agency checkouts for a name we have
		// never seen register the customer on the fly, with no discount
		// until someone sets one.
		var customer models.Customer
		customerFound := true
		err := db.Where("LOWER(name) = LOWER(?)", customerName).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			customerFound = false
		} else if err != nil {
			return fmt.Errorf("không thể tra cứu khách hàng: %w", err)
		}

		discount := decimal.Zero
		var newCustomers []models.Customer
		if req.SaleType == models.SaleAgency {
			if customerFound {
				discount = customer.DiscountRate
			} else {
				newCustomers = append(newCustomers, models.Customer{
					Name: customerName,
					Type: models.CustomerAgency,
				})
			}
		}

		// Snapshot cart items from the catalog.
		ids := make([]uint, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductID)
		}
		var products []models.Product
		if err := db.Find(&products, "product_id IN ?", ids).Error; err != nil {
			return fmt.Errorf("không thể tải sản phẩm: %w", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ProductID] = p
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				return &ledger.ValidationError{
					Err:     ledger.ErrUnknownProduct,
					Details: fmt.Sprintf("sản phẩm %d không tồn tại", it.ProductID),
				}
			}
			items = append(items, models.OrderItem{
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Unit:        p.Unit,
				UnitPrice:   p.Price,
				Quantity:    it.Quantity,
				Weight:      it.Weight,
				Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			})
		}

		orderNo, err := generateOrderNo(db)
		if err != nil {
			return err
		}

		note := req.Note
		if req.SaleType == models.SaleInternal && (note == nil || *note == "") {
			n := "Xuất nội bộ/Tặng"
			note = &n
		}

		draft := models.Order{
			OrderNo:         orderNo,
			OrderDate:       now,
			CustomerName:    customerName,
			SaleType:        req.SaleType,
			Total:           ledger.ComputeTotal(items, req.SaleType, discount),
			PaidAmount:      req.PaidAmount,
			DiscountApplied: discount,
			Note:            note,
			Items:           items,
		}
		var customerID *uint
		if customerFound {
			customerID = &customer.CustomerID
			draft.CustomerID = customerID
		}

		outstanding, err := coord.OutstandingOrders(customerID, customerName)
		if err != nil {
			return fmt.Errorf("không thể tải công nợ: %w", err)
		}

		result, err := ledger.Settle(draft, outstanding, now)
		if err != nil {
			return err
		}

		adj := ledger.AdjustStock(products, nil, items)
		if len(adj.MissingProducts) > 0 {
			log.Printf("WARN: checkout %s skipped stock for deleted products %v", orderNo, adj.MissingProducts)
		}

		orders := append([]models.Order{result.FinalOrder}, result.ModifiedOldOrders...)
		if err := coord.WriteAtomic(orders, adj.UpdatedProducts, newCustomers); err != nil {
			return fmt.Errorf("không thể lưu giao dịch: %w", err)
		}

		response = fiber.Map{
			"message":             "Tạo đơn hàng thành công",
			"order":               orders[0],
			"modified_old_orders": orders[1:],
			"applied_to_order":    result.AppliedToOrder,
			"applied_to_debt":     result.AppliedToDebt,
			"change":              result.Change,
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// SalesList returns orders newest first, filterable by customer and date
// range, paginated.
func SalesList(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 200 {
		limit = 20
	}
	customerID := c.QueryInt("customer_id", 0)
	dateFrom := c.Query("date_from", "")
	dateTo := c.Query("date_to", "")

	query := db.Model(&models.Order{})
	if customerID > 0 {
		query = query.Where("customer_id = ?", customerID)
	}
	if dateFrom != "" {
		query = query.Where("DATE(order_date) >= ?", dateFrom)
	}
	if dateTo != "" {
		query = query.Where("DATE(order_date) <= ?", dateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể đếm đơn hàng: "+err.Error())
	}

	var orders []models.Order
	err := query.Preload("Items").Preload("Payments").
		Order("order_date DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải danh sách đơn hàng: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"current_page": page,
			"total_pages":  (total + int64(limit) - 1) / int64(limit),
			"total_count":  total,
			"limit":        limit,
		},
	})
}

// SalesView returns one order with its items and payment history.
func SalesView(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã đơn hàng không hợp lệ")
	}

	db := database.GetDB()
	var order models.Order
	err = db.Preload("Customer").Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		}).
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy đơn hàng")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải đơn hàng: "+err.Error())
	}

	return c.JSON(order)
}

type editOrderRequest struct {
	Items []checkoutItem `json:"items"`
}

// SalesEdit replaces an order's items. Stock is adjusted by the difference
// (old quantities returned, new quantities deducted), the total recomputed
// under the order's original sale type and discount, and the debt rebalanced.
// The order date and payment history never change.
func SalesEdit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã đơn hàng không hợp lệ")
	}

	var req editOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if len(req.Items) == 0 {
		return &ledger.ValidationError{Err: ledger.ErrEmptyCart}
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return &ledger.ValidationError{
				Err:     ledger.ErrNonPositiveQuantity,
				Details: fmt.Sprintf("sản phẩm %d có số lượng %d", it.ProductID, it.Quantity),
			}
		}
	}

	db := database.GetDB()
	coord := database.GetCoordinator()

	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy đơn hàng")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải đơn hàng: "+err.Error())
	}

	var response fiber.Map
	err = coord.WithCustomerLock(order.CustomerName, func() error {
		// Load every product the edit touches, old lines included, so
		// returned stock lands back on the shelf.
		idSet := make(map[uint]bool)
		for _, it := range order.Items {
			idSet[it.ProductID] = true
		}
		for _, it := range req.Items {
			idSet[it.ProductID] = true
		}
		ids := make([]uint, 0, len(idSet))
		for pid := range idSet {
			ids = append(ids, pid)
		}

		var products []models.Product
		if err := db.Find(&products, "product_id IN ?", ids).Error; err != nil {
			return fmt.Errorf("không thể tải sản phẩm: %w", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ProductID] = p
		}
		oldByProduct := make(map[uint]models.OrderItem, len(order.Items))
		for _, it := range order.Items {
			oldByProduct[it.ProductID] = it
		}

		// New lines keep the price the order was sold at when the product
		// was already on it; fresh lines snapshot the current catalog.
		newItems := make([]models.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			var snap models.OrderItem
			if old, ok := oldByProduct[it.ProductID]; ok {
				snap = models.OrderItem{
					ProductName: old.ProductName,
					Unit:        old.Unit,
					UnitPrice:   old.UnitPrice,
				}
			} else if p, ok := byID[it.ProductID]; ok {
				snap = models.OrderItem{
					ProductName: p.ProductName,
					Unit:        p.Unit,
					UnitPrice:   p.Price,
				}
			} else {
				return &ledger.ValidationError{
					Err:     ledger.ErrUnknownProduct,
					Details: fmt.Sprintf("sản phẩm %d không tồn tại", it.ProductID),
				}
			}
			newItems = append(newItems, models.OrderItem{
				OrderID:     order.OrderID,
				ProductID:   it.ProductID,
				ProductName: snap.ProductName,
				Unit:        snap.Unit,
				UnitPrice:   snap.UnitPrice,
				Quantity:    it.Quantity,
				Weight:      it.Weight,
				Subtotal:    snap.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			})
		}

		adj := ledger.AdjustStock(products, order.Items, newItems)
		if len(adj.MissingProducts) > 0 {
			log.Printf("WARN: order %s edit skipped stock for deleted products %v", order.OrderNo, adj.MissingProducts)
		}

		newTotal := ledger.ComputeTotal(newItems, order.SaleType, order.DiscountApplied)

		// Keep paid + debt == total. If the customer already paid more
		// than the shrunken total, the order is simply settled; cash
		// already applied is never clawed back.
		paid := order.PaidAmount
		if paid.GreaterThan(newTotal) {
			paid = newTotal
		}
		order.Total = newTotal
		order.PaidAmount = paid
		order.Debt = newTotal.Sub(paid)

		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.OrderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			order.Items = newItems
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
				Save(&order).Error; err != nil {
				return err
			}
			for i := range adj.UpdatedProducts {
				if err := tx.Omit(clause.Associations).
					Save(&adj.UpdatedProducts[i]).Error; err != nil {
					return err
				}
			}

			response = fiber.Map{
				"message": "Đã cập nhật đơn hàng",
				"order":   order,
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	return c.JSON(response)
}
