package ledger

import "github.com/modelitalytran/Ban-Ga/models"

// StockAdjustment is the outcome of applying an item change to the catalog.
// UpdatedProducts contains only products whose stock actually moved, so the
// coordinator can persist a minimal batch. MissingProducts lists item product
// ids that no longer exist in the catalog; they are skipped rather than
// failing the whole transaction, and callers should log a warning.
type StockAdjustment struct {
	UpdatedProducts []models.Product
	MissingProducts []uint
}

// AdjustStock computes new stock levels after an order change. Quantities in
// removed are returned to stock, quantities in added are deducted. Used with
// removed=nil for a fresh checkout, and with removed=original items for an
// order edit. Stock never goes below zero.
func AdjustStock(products []models.Product, removed, added []models.OrderItem) StockAdjustment {
	known := make(map[uint]bool, len(products))
	for _, p := range products {
		known[p.ProductID] = true
	}

	deltas := make(map[uint]int)
	var adj StockAdjustment
	seenMissing := make(map[uint]bool)

	collect := func(items []models.OrderItem, sign int) {
		for _, it := range items {
			if !known[it.ProductID] {
				if !seenMissing[it.ProductID] {
					seenMissing[it.ProductID] = true
					adj.MissingProducts = append(adj.MissingProducts, it.ProductID)
				}
				continue
			}
			deltas[it.ProductID] += sign * it.Quantity
		}
	}
	collect(removed, +1)
	collect(added, -1)

	for _, p := range products {
		delta, ok := deltas[p.ProductID]
		if !ok || delta == 0 {
			continue
		}
		p.Stock += delta
		if p.Stock < 0 {
			p.Stock = 0
		}
		adj.UpdatedProducts = append(adj.UpdatedProducts, p)
	}
	return adj
}
