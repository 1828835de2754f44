package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modelitalytran/Ban-Ga/database"
	"github.com/modelitalytran/Ban-Ga/models"
)

type productRequest struct {
	ProductName       string             `json:"product_name"`
	Category          string             `json:"category"`
	Price             decimal.Decimal    `json:"price"`
	Stock             int                `json:"stock"`
	Unit              models.ProductUnit `json:"unit"`
	MinStockThreshold int                `json:"min_stock_threshold"`
	Description       *string            `json:"description"`
}

func (r *productRequest) validate() string {
	if strings.TrimSpace(r.ProductName) == "" {
		return "Tên sản phẩm không được để trống"
	}
	if strings.TrimSpace(r.Category) == "" {
		return "Danh mục không được để trống"
	}
	if r.Price.IsNegative() {
		return "Giá bán không được âm"
	}
	if r.Stock < 0 {
		return "Tồn kho không được âm"
	}
	if r.Unit != models.UnitHead && r.Unit != models.UnitKg {
		return "Đơn vị tính phải là 'head' hoặc 'kg'"
	}
	return ""
}

// ProductList returns the catalog, optionally filtered by a name/category
// search or down to low-stock products only.
func ProductList(c *fiber.Ctx) error {
	db := database.GetDB()

	search := strings.TrimSpace(c.Query("search", ""))
	lowStockOnly := c.QueryBool("low_stock", false)

	query := db.Order("product_name")
	if search != "" {
		query = query.Where("product_name ILIKE ? OR category ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải danh sách sản phẩm: "+err.Error())
	}

	if lowStockOnly {
		filtered := products[:0]
		for i := range products {
			if products[i].IsLowStock() {
				filtered = append(filtered, products[i])
			}
		}
		products = filtered
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// ProductCreate adds a product to the catalog. Names are unique without
// regard to case.
func ProductCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if msg := req.validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	db := database.GetDB()
	name := strings.TrimSpace(req.ProductName)

	var existing models.Product
	err := db.Where("LOWER(product_name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Sản phẩm '"+existing.ProductName+"' đã tồn tại")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể kiểm tra sản phẩm: "+err.Error())
	}

	product := models.Product{
		ProductName:       name,
		Category:          strings.TrimSpace(req.Category),
		Price:             req.Price,
		Stock:             req.Stock,
		Unit:              req.Unit,
		MinStockThreshold: req.MinStockThreshold,
		Description:       req.Description,
	}
	if err := db.Create(&product).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tạo sản phẩm: "+err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// ProductView returns one product with its price history, newest change
// first.
func ProductView(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã sản phẩm không hợp lệ")
	}

	db := database.GetDB()
	var product models.Product
	err = db.Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("recorded_at DESC")
	}).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy sản phẩm")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải sản phẩm: "+err.Error())
	}

	return c.JSON(product)
}

// ProductUpdate edits a product. When the price changes, the old price is
// appended to the product's price history before the new one takes effect.
func ProductUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã sản phẩm không hợp lệ")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if msg := req.validate(); msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	db := database.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy sản phẩm")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải sản phẩm: "+err.Error())
	}

	name := strings.TrimSpace(req.ProductName)
	var dup models.Product
	err = db.Where("LOWER(product_name) = LOWER(?) AND product_id <> ?", name, product.ProductID).
		First(&dup).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Sản phẩm '"+dup.ProductName+"' đã tồn tại")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể kiểm tra sản phẩm: "+err.Error())
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if !req.Price.Equal(product.Price) {
			entry := models.PriceHistoryEntry{
				ProductID:  product.ProductID,
				Price:      product.Price,
				RecordedAt: time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		product.ProductName = name
		product.Category = strings.TrimSpace(req.Category)
		product.Price = req.Price
		product.Stock = req.Stock
		product.Unit = req.Unit
		product.MinStockThreshold = req.MinStockThreshold
		product.Description = req.Description
		return tx.Save(&product).Error
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể cập nhật sản phẩm: "+err.Error())
	}

	return c.JSON(product)
}

// ProductDelete removes a product from the catalog. Past orders keep their
// item snapshots, so sale history survives the deletion.
func ProductDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã sản phẩm không hợp lệ")
	}

	db := database.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy sản phẩm")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải sản phẩm: "+err.Error())
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ProductID).
			Delete(&models.PriceHistoryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể xóa sản phẩm: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"message": "Đã xóa sản phẩm '" + product.ProductName + "'",
	})
}

// ProductImport records a stock intake, adding quantity head to the current
// stock level.
func ProductImport(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mã sản phẩm không hợp lệ")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ: "+err.Error())
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Số lượng nhập phải lớn hơn 0")
	}

	db := database.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy sản phẩm")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể tải sản phẩm: "+err.Error())
	}

	product.Stock += req.Quantity
	if err := db.Save(&product).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Không thể cập nhật tồn kho: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"message": "Đã nhập kho",
		"product": product,
	})
}
