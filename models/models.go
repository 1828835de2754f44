package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Customer{},
		&Product{},

		// 2. Tables with single dependencies
		&PriceHistoryEntry{}, // depends on: Product
		&Order{},             // depends on: Customer

		// 3. Detail tables
		&OrderItem{},     // depends on: Order, Product
		&PaymentRecord{}, // depends on: Order
	}
}
