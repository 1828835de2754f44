package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modelitalytran/Ban-Ga/models"
)

func strPtr(s string) *string { return &s }

// SeedData seeds initial data into empty tables
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data. Skipping seed.")
		return nil
	}

	log.Println("Database is empty. Starting seed process...")

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET search_path TO banga").Error; err != nil {
			return fmt.Errorf("failed to set search path: %w", err)
		}

		products, err := seedProducts(tx)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		customers, err := seedCustomers(tx)
		if err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}

		if err := seedOrders(tx, products, customers); err != nil {
			return fmt.Errorf("failed to seed orders: %w", err)
		}

		log.Println("Seed completed")
		return nil
	})
}

func seedProducts(tx *gorm.DB) (map[string]models.Product, error) {
	products := []models.Product{
		{
			ProductName:       "Gà Minh Dư Bình Định",
			Category:          "Gà",
			Price:             decimal.NewFromInt(120_000),
			Stock:             200,
			Unit:              models.UnitHead,
			MinStockThreshold: 50,
			Description:       strPtr("Giống gà Minh Dư chính gốc, thịt chắc, lông đẹp."),
		},
		{
			ProductName:       "Gà CP Lai Chọi",
			Category:          "Gà",
			Price:             decimal.NewFromInt(95_000),
			Stock:             500,
			Unit:              models.UnitHead,
			MinStockThreshold: 100,
			Description:       strPtr("Gà CP lớn nhanh, thích hợp nuôi thịt công nghiệp."),
		},
		{
			ProductName:       "Vịt Xiêm (Ngan)",
			Category:          "Vịt",
			Price:             decimal.NewFromInt(150_000),
			Stock:             80,
			Unit:              models.UnitKg,
			MinStockThreshold: 20,
			Description:       strPtr("Vịt Xiêm đen, thịt nạc, ít mỡ, nuôi thả vườn."),
		},
		{
			ProductName:       "Vịt Đồng (Vịt cỏ)",
			Category:          "Vịt",
			Price:             decimal.NewFromInt(80_000),
			Stock:             150,
			Unit:              models.UnitKg,
			MinStockThreshold: 30,
			Description:       strPtr("Vịt chạy đồng, thịt thơm ngọt tự nhiên."),
		},
		{
			ProductName:       "Bồ Câu Pháp Titan",
			Category:          "Bồ câu",
			Price:             decimal.NewFromInt(250_000),
			Stock:             40,
			Unit:              models.UnitHead,
			MinStockThreshold: 10,
			Description:       strPtr("Cặp bồ câu Pháp giống, to con, sinh sản tốt."),
		},
		{
			ProductName:       "Bồ Câu Mĩ (King)",
			Category:          "Bồ câu",
			Price:             decimal.NewFromInt(400_000),
			Stock:             10,
			Unit:              models.UnitHead,
			MinStockThreshold: 5,
			Description:       strPtr("Bồ câu vua, kích thước lớn, làm cảnh hoặc thịt cao cấp."),
		},
	}

	byName := make(map[string]models.Product, len(products))
	for i := range products {
		if err := tx.Create(&products[i]).Error; err != nil {
			return nil, err
		}
		byName[products[i].ProductName] = products[i]
	}
	log.Printf("  ✓ Seeded %d products", len(products))
	return byName, nil
}

func seedCustomers(tx *gorm.DB) (map[string]models.Customer, error) {
	customers := []models.Customer{
		{Name: "Đại lý Anh Ba", Type: models.CustomerAgency, DiscountRate: decimal.NewFromInt(10), Phone: strPtr("0901234567"), Address: strPtr("Chợ Huyện")},
		{Name: "Trại gà Chú Tư", Type: models.CustomerAgency, DiscountRate: decimal.NewFromInt(15), Phone: strPtr("0909888777"), Address: strPtr("Xã Vĩnh Lộc")},
		{Name: "Nhà hàng Hạnh Phúc", Type: models.CustomerAgency, DiscountRate: decimal.NewFromInt(5), Phone: strPtr("0283888888"), Address: strPtr("Trung tâm Thị trấn")},
		{Name: "Chị Bảy (Chợ Lớn)", Type: models.CustomerAgency, DiscountRate: decimal.NewFromInt(8), Phone: strPtr("0912341234"), Address: strPtr("Chợ Đầu mối")},
	}

	byName := make(map[string]models.Customer, len(customers))
	for i := range customers {
		if err := tx.Create(&customers[i]).Error; err != nil {
			return nil, err
		}
		byName[customers[i].Name] = customers[i]
	}
	log.Printf("  ✓ Seeded %d customers", len(customers))
	return byName, nil
}

// seedOrders creates representative orders across the three debt-aging
// buckets: one bad debt (65 days), one settled retail sale (35 days), one
// fresh partial payment, and one internal gift.
func seedOrders(tx *gorm.DB, products map[string]models.Product, customers map[string]models.Customer) error {
	now := time.Now()

	item := func(name string, qty int) models.OrderItem {
		p := products[name]
		return models.OrderItem{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Unit:        p.Unit,
			UnitPrice:   p.Price,
			Quantity:    qty,
			Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
	}

	anhBa := customers["Đại lý Anh Ba"]
	chuTu := customers["Trại gà Chú Tư"]

	orders := []models.Order{
		{
			OrderNo:         "DH-SEED-0001",
			OrderDate:       now.AddDate(0, 0, -65),
			CustomerID:      &anhBa.CustomerID,
			CustomerName:    anhBa.Name,
			SaleType:        models.SaleAgency,
			Total:           decimal.NewFromInt(1_950_000),
			PaidAmount:      decimal.NewFromInt(1_000_000),
			Debt:            decimal.NewFromInt(950_000),
			DiscountApplied: decimal.NewFromInt(10),
			Items:           []models.OrderItem{item("Gà Minh Dư Bình Định", 10), item("Vịt Xiêm (Ngan)", 5)},
			Payments: []models.PaymentRecord{
				{PaymentID: uuid.NewString(), PaidAt: now.AddDate(0, 0, -65), Amount: decimal.NewFromInt(1_000_000), Note: "Đặt cọc"},
			},
		},
		{
			OrderNo:      "DH-SEED-0002",
			OrderDate:    now.AddDate(0, 0, -35),
			CustomerName: "Khách lẻ vãng lai",
			SaleType:     models.SaleRetail,
			Total:        decimal.NewFromInt(500_000),
			PaidAmount:   decimal.NewFromInt(500_000),
			Debt:         decimal.Zero,
			Items:        []models.OrderItem{item("Bồ Câu Pháp Titan", 2)},
		},
		{
			OrderNo:         "DH-SEED-0003",
			OrderDate:       now,
			CustomerID:      &chuTu.CustomerID,
			CustomerName:    chuTu.Name,
			SaleType:        models.SaleAgency,
			Total:           decimal.NewFromInt(9_500_000),
			PaidAmount:      decimal.NewFromInt(5_000_000),
			Debt:            decimal.NewFromInt(4_500_000),
			DiscountApplied: decimal.NewFromInt(15),
			Items:           []models.OrderItem{item("Gà CP Lai Chọi", 100)},
			Payments: []models.PaymentRecord{
				{PaymentID: uuid.NewString(), PaidAt: now, Amount: decimal.NewFromInt(5_000_000), Note: "Thanh toán đợt 1"},
			},
		},
		{
			OrderNo:      "DH-SEED-0004",
			OrderDate:    now,
			CustomerName: "Biếu nhà ăn",
			SaleType:     models.SaleInternal,
			Total:        decimal.Zero,
			PaidAmount:   decimal.Zero,
			Debt:         decimal.Zero,
			Note:         strPtr("Lấy làm cơm trưa"),
			Items:        []models.OrderItem{item("Vịt Đồng (Vịt cỏ)", 2)},
		},
	}

	for i := range orders {
		if err := tx.Create(&orders[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("  ✓ Seeded %d orders", len(orders))
	return nil
}
