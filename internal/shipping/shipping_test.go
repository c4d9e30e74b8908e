package shipping_test

import (
	"testing"

	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	params := shipping.Params{
		FlatRate:      decimal.RequireFromString("4.99"),
		UnitWeight:    decimal.RequireFromString("0.5"),
		RatePerWeight: decimal.RequireFromString("2"),
	}

	items := []domain.CartItem{
		{Product: domain.ProductRef{Kind: "book", ID: "1"}, Quantity: 3},
		{Product: domain.ProductRef{Kind: "book", ID: "2"}, Quantity: 1},
	}

	tests := []struct {
		name       string
		function   string
		weightCost string
		items      []domain.CartItem
		want       string
	}{
		{name: "free", function: "free", weightCost: "zero", items: items, want: "0"},
		{name: "flat", function: "flat", weightCost: "zero", items: items, want: "4.99"},
		{name: "flat on empty cart", function: "flat", weightCost: "zero", want: "0"},
		{name: "per unit linear", function: "per_unit", weightCost: "linear", items: items, want: "4"},
		{name: "per unit zero cost", function: "per_unit", weightCost: "zero", items: items, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := shipping.Lookup(tt.function, params)
			require.NoError(t, err)

			weightCost, err := shipping.LookupWeightCost(tt.weightCost, params)
			require.NoError(t, err)

			got, err := fn(tt.items, weightCost)
			require.NoError(t, err)

			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := shipping.Lookup("express", shipping.Params{})
	require.EqualError(t, err, `unknown shipping function "express", want one of [flat free per_unit]`)

	_, err = shipping.LookupWeightCost("cubic", shipping.Params{})
	require.EqualError(t, err, `unknown weight cost function "cubic", want one of [linear zero]`)
}

func TestPerUnitWithoutWeightCost(t *testing.T) {
	_, err := shipping.PerUnit(decimal.NewFromInt(1))(nil, nil)
	require.EqualError(t, err, "weight cost function is nil")
}
