package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelitalytran/Ban-Ga/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ProductID: 1, ProductName: "Gà Minh Dư Bình Định", Stock: 20},
		{ProductID: 2, ProductName: "Vịt Xiêm (Ngan)", Stock: 5},
		{ProductID: 3, ProductName: "Bồ Câu Pháp Titan", Stock: 40},
	}
}

func item(productID uint, qty int) models.OrderItem {
	return models.OrderItem{ProductID: productID, Quantity: qty}
}

func TestAdjustStockCheckoutDeducts(t *testing.T) {
	adj := AdjustStock(catalog(), nil, []models.OrderItem{item(1, 3), item(2, 2)})

	require.Len(t, adj.UpdatedProducts, 2)
	assert.Equal(t, 17, adj.UpdatedProducts[0].Stock)
	assert.Equal(t, 3, adj.UpdatedProducts[1].Stock)
	assert.Empty(t, adj.MissingProducts)
}

func TestAdjustStockOrderEdit(t *testing.T) {
	// Editing an order from qty 5 to qty 8 of product 1: 20 + 5 - 8 = 17.
	adj := AdjustStock(catalog(), []models.OrderItem{item(1, 5)}, []models.OrderItem{item(1, 8)})

	require.Len(t, adj.UpdatedProducts, 1)
	assert.Equal(t, uint(1), adj.UpdatedProducts[0].ProductID)
	assert.Equal(t, 17, adj.UpdatedProducts[0].Stock)
}

func TestAdjustStockNetZeroEditTouchesNothing(t *testing.T) {
	same := []models.OrderItem{item(1, 5), item(3, 2)}
	adj := AdjustStock(catalog(), same, same)

	assert.Empty(t, adj.UpdatedProducts)
	assert.Empty(t, adj.MissingProducts)
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	adj := AdjustStock(catalog(), nil, []models.OrderItem{item(2, 99)})

	require.Len(t, adj.UpdatedProducts, 1)
	assert.Equal(t, 0, adj.UpdatedProducts[0].Stock)
}

func TestAdjustStockSkipsMissingProducts(t *testing.T) {
	adj := AdjustStock(catalog(), []models.OrderItem{item(77, 4)}, []models.OrderItem{item(77, 1), item(1, 2)})

	assert.Equal(t, []uint{77}, adj.MissingProducts)
	require.Len(t, adj.UpdatedProducts, 1)
	assert.Equal(t, 18, adj.UpdatedProducts[0].Stock)
}

func TestAdjustStockUntouchedProductsStayOut(t *testing.T) {
	adj := AdjustStock(catalog(), nil, []models.OrderItem{item(3, 1)})

	require.Len(t, adj.UpdatedProducts, 1)
	assert.Equal(t, uint(3), adj.UpdatedProducts[0].ProductID)
}
