package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modelitalytran/Ban-Ga/database"
	"github.com/modelitalytran/Ban-Ga/models"
)

type customerRequest struct {
	Name         string              `json:"name"`
	Phone        *string             `json:"phone"`
	Address      *string             `json:"address"`
	Type         models.CustomerType `json:"type"`
	DiscountRate decimal.Decimal     `json:"discount_rate"`
}

func (r *customerRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "Tên khách hàng không được để trống"
	}
	if r.Type != models.CustomerAgency && r.Type != models.CustomerRetail {
		return "Loại khách hàng phải là 'agency' hoặc 'retail'"
	}
	if r.DiscountRate.IsNegative() || r.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
		return "Chiết khấu phải nằm trong khoảng 0 đến 100"
	}
	return ""
}

// CustomerList returns all customers ordered by name.
func CustomerList(c *fiber.Ctx) error {
	db := database.GetDB()

	var customers []models.Customer
	if err := db.Order("name").Find(&customers).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải danh sách khách hàng: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"customers": customers,
		"count":     len(customers),
	})
}

// CustomerCreate registers a customer. Names are the settlement match key,
// so they are unique without regard to case.
func CustomerCreate(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if msg := req.validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	db := database.GetDB()
	name := strings.TrimSpace(req.Name)

	var existing models.Customer
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Khách hàng '"+existing.Name+"' đã tồn tại")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể kiểm tra khách hàng: "+err.Error())
	}

	customer := models.Customer{
		Name:         name,
		Phone:        req.Phone,
		Address:      req.Address,
		Type:         req.Type,
		DiscountRate: req.DiscountRate,
	}
	if err := db.Create(&customer).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tạo khách hàng: "+err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

// CustomerView returns one customer together with their outstanding balance.
func CustomerView(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã khách hàng không hợp lệ")
	}

	db := database.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy khách hàng")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải khách hàng: "+err.Error())
	}

	uid := customer.CustomerID
	outstanding, err := database.GetCoordinator().OutstandingOrders(&uid, customer.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải công nợ: "+err.Error())
	}

	totalDebt := decimal.Zero
	for i := range outstanding {
		totalDebt = totalDebt.Add(outstanding[i].Debt)
	}

	return c.JSON(fiber.Map{
		"customer":           customer,
		"outstanding_orders": outstanding,
		"total_debt":         totalDebt,
	})
}

// CustomerUpdate edits a customer's contact info, type and discount rate.
func CustomerUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã khách hàng không hợp lệ")
	}

	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if msg := req.validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	db := database.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy khách hàng")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải khách hàng: "+err.Error())
	}

	name := strings.TrimSpace(req.Name)
	var dup models.Customer
	err = db.Where("LOWER(name) = LOWER(?) AND customer_id <> ?", name, customer.CustomerID).
		First(&dup).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Khách hàng '"+dup.Name+"' đã tồn tại")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể kiểm tra khách hàng: "+err.Error())
	}

	customer.Name = name
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Type = req.Type
	customer.DiscountRate = req.DiscountRate
	if err := db.Save(&customer).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể cập nhật khách hàng: "+err.Error())
	}

	return c.JSON(customer)
}

// CustomerDelete removes a customer. Refused while the customer still has
// orders on file, paid or not, so the ledger keeps its audit trail.
func CustomerDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã khách hàng không hợp lệ")
	}

	db := database.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy khách hàng")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải khách hàng: "+err.Error())
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).
		Where("customer_id = ?", customer.CustomerID).
		Count(&orderCount).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể kiểm tra đơn hàng: "+err.Error())
	}
	if orderCount > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Không thể xóa khách hàng đang có đơn hàng")
	}

	if err := db.Delete(&customer).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể xóa khách hàng: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"message": "Đã xóa khách hàng '" + customer.Name + "'",
	})
}
