package database

import (
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelitalytran/Ban-Ga/models"
)

// Snapshot is a point-in-time read of the whole ledger.
type Snapshot struct {
	Products  []models.Product
	Orders    []models.Order
	Customers []models.Customer
}

// Coordinator is the persistence boundary the settlement engine relies on.
// It supplies read snapshots and guarantees that a settlement batch (new
// order, modified old orders, changed products, maybe a new customer) lands
// entirely or not at all. It also serializes settlements per customer: two
// terminals checking out the same customer concurrently would otherwise read
// the same stale debt list and double-allocate surplus.
type Coordinator struct {
	db            *gorm.DB
	customerLocks sync.Map // lowercased customer name -> *sync.Mutex
}

// NewCoordinator wraps db. Use database.GetCoordinator for the shared
// instance; a fresh coordinator has its own lock table.
func NewCoordinator(db *gorm.DB) *Coordinator {
	return &Coordinator{db: db}
}

// ReadSnapshot loads products, orders (with items and payments) and
// customers in one pass.
func (c *Coordinator) ReadSnapshot() (*Snapshot, error) {
	var snap Snapshot

	if err := c.db.Order("product_name").Find(&snap.Products).Error; err != nil {
		return nil, err
	}
	if err := c.db.Preload("Items").Preload("Payments").
		Order("order_date DESC").Find(&snap.Orders).Error; err != nil {
		return nil, err
	}
	if err := c.db.Order("name").Find(&snap.Customers).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// OutstandingOrders returns a customer's unpaid orders oldest first, with
// payment history attached. Matching prefers the customer id foreign key and
// falls back to the legacy case-insensitive name key for rows that predate
// it.
func (c *Coordinator) OutstandingOrders(customerID *uint, customerName string) ([]models.Order, error) {
	q := c.db.Preload("Items").Preload("Payments").Where("debt > 0")
	if customerID != nil {
		q = q.Where("customer_id = ? OR (customer_id IS NULL AND LOWER(customer_name) = LOWER(?))",
			*customerID, strings.TrimSpace(customerName))
	} else {
		q = q.Where("LOWER(customer_name) = LOWER(?)", strings.TrimSpace(customerName))
	}

	var orders []models.Order
	if err := q.Order("order_date ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// WithCustomerLock runs fn while holding this customer's settlement lock.
// The key is the customer name, normalized; every checkout and debt payment
// for one customer goes through here.
func (c *Coordinator) WithCustomerLock(customerName string, fn func() error) error {
	key := strings.ToLower(strings.TrimSpace(customerName))
	v, _ := c.customerLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// WriteAtomic persists a settlement batch in a single transaction. Orders
// are saved with their associations so new payment records and items land
// with them; products are saved without associations since only stock
// changes. On any error the whole batch rolls back and the snapshot the
// caller read from stands untouched.
func (c *Coordinator) WriteAtomic(orders []models.Order, products []models.Product, customers []models.Customer) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		for i := range customers {
			if err := tx.Save(&customers[i]).Error; err != nil {
				return err
			}
		}
		for i := range orders {
			// A brand-new order may reference a customer saved above.
			if orders[i].CustomerID == nil && len(customers) > 0 {
				for j := range customers {
					if customers[j].MatchesName(orders[i].CustomerName) {
						orders[i].CustomerID = &customers[j].CustomerID
						break
					}
				}
			}
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
				Save(&orders[i]).Error; err != nil {
				return err
			}
		}
		for i := range products {
			if err := tx.Omit(clause.Associations).Save(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
