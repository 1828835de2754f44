package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/modelitalytran/Ban-Ga/models"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS banga").Error; err != nil {
		log.Printf("Warning: Could not create schema: %v", err)
	}
	if err := db.Exec("SET search_path TO banga").Error; err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	for _, model := range models.AllModels() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("Adding custom constraints...")
	if err := addCustomConstraints(db); err != nil {
		log.Printf("Warning: Some custom constraints could not be added: %v", err)
	}

	log.Println("Migration completed")
	return nil
}

// addCustomConstraints adds ledger invariants GORM's tags don't express.
// The balance check makes paid_amount + debt == total a hard database rule,
// so a bug anywhere above the settlement engine cannot corrupt the ledger.
func addCustomConstraints(db *gorm.DB) error {
	constraints := []struct {
		table string
		name  string
		expr  string
	}{
		{"orders", "chk_orders_balance", "paid_amount + debt = total"},
		{"orders", "chk_orders_debt_nonnegative", "debt >= 0"},
		{"orders", "chk_orders_paid_nonnegative", "paid_amount >= 0"},
	}

	for _, c := range constraints {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
		log.Printf("  ✓ Added constraint: %s", c.name)
	}
	return nil
}
