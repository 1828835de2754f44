package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelitalytran/Ban-Ga/ledger"
	"github.com/modelitalytran/Ban-Ga/models"
)

func validRequest() checkoutRequest {
	return checkoutRequest{
		CustomerName: "Đại lý Anh Ba",
		SaleType:     models.SaleAgency,
		PaidAmount:   decimal.NewFromInt(500_000),
		Items: []checkoutItem{
			{ProductID: 1, Quantity: 3},
		},
	}
}

func TestValidateCheckout(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*checkoutRequest)
		wantErr error
	}{
		{
			name:   "valid agency checkout",
			mutate: func(r *checkoutRequest) {},
		},
		{
			name: "valid zero tender",
			mutate: func(r *checkoutRequest) {
				r.PaidAmount = decimal.Zero
			},
		},
		{
			name: "blank customer name",
			mutate: func(r *checkoutRequest) {
				r.CustomerName = "   "
			},
			wantErr: ledger.ErrCustomerNameRequired,
		},
		{
			name: "unknown sale type",
			mutate: func(r *checkoutRequest) {
				r.SaleType = "wholesale"
			},
			wantErr: ledger.ErrInvalidSaleType,
		},
		{
			name: "empty cart",
			mutate: func(r *checkoutRequest) {
				r.Items = nil
			},
			wantErr: ledger.ErrEmptyCart,
		},
		{
			name: "zero quantity item",
			mutate: func(r *checkoutRequest) {
				r.Items = append(r.Items, checkoutItem{ProductID: 2, Quantity: 0})
			},
			wantErr: ledger.ErrNonPositiveQuantity,
		},
		{
			name: "negative tender",
			mutate: func(r *checkoutRequest) {
				r.PaidAmount = decimal.NewFromInt(-1)
			},
			wantErr: ledger.ErrNegativeTender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validateCheckout(&req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, ledger.IsValidation(err))
		})
	}
}
