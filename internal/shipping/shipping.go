// Package shipping holds the shipping cost functions a cart can be priced with.
// Functions are chosen by name from configuration.
package shipping

import (
	"fmt"
	"sort"

	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/shopspring/decimal"
)

// WeightCostFunc converts a shipment weight into a cost.
type WeightCostFunc func(weight decimal.Decimal) decimal.Decimal

// Func computes the shipping cost of the given items.
type Func func(items []domain.CartItem, weightCost WeightCostFunc) (decimal.Decimal, error)

type Params struct {
	// FlatRate is charged once per non-empty cart by the "flat" function.
	FlatRate decimal.Decimal
	// UnitWeight is the weight of one unit for "per_unit".
	UnitWeight decimal.Decimal
	// RatePerWeight is the multiplier used by the "linear" weight cost.
	RatePerWeight decimal.Decimal
}

type funcFactory func(p Params) Func

type weightCostFactory func(p Params) WeightCostFunc

var funcs = map[string]funcFactory{
	"free": func(Params) Func { return Free },
	"flat": func(p Params) Func { return Flat(p.FlatRate) },
	"per_unit": func(p Params) Func {
		return PerUnit(p.UnitWeight)
	},
}

var weightCosts = map[string]weightCostFactory{
	"zero":   func(Params) WeightCostFunc { return ZeroCost },
	"linear": func(p Params) WeightCostFunc { return Linear(p.RatePerWeight) },
}

func Lookup(name string, p Params) (Func, error) {
	factory, ok := funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown shipping function %q, want one of %v", name, names(funcs))
	}
	return factory(p), nil
}

func LookupWeightCost(name string, p Params) (WeightCostFunc, error) {
	factory, ok := weightCosts[name]
	if !ok {
		return nil, fmt.Errorf("unknown weight cost function %q, want one of %v", name, names(weightCosts))
	}
	return factory(p), nil
}

func Free([]domain.CartItem, WeightCostFunc) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func Flat(rate decimal.Decimal) Func {
	return func(items []domain.CartItem, _ WeightCostFunc) (decimal.Decimal, error) {
		if len(items) == 0 {
			return decimal.Zero, nil
		}
		return rate, nil
	}
}

// PerUnit weighs every unit in the cart at unitWeight and prices the total weight.
func PerUnit(unitWeight decimal.Decimal) Func {
	return func(items []domain.CartItem, weightCost WeightCostFunc) (decimal.Decimal, error) {
		if weightCost == nil {
			return decimal.Zero, fmt.Errorf("weight cost function is nil")
		}

		var units int64
		for _, item := range items {
			units += int64(item.Quantity)
		}

		return weightCost(unitWeight.Mul(decimal.NewFromInt(units))), nil
	}
}

func ZeroCost(decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

func Linear(rate decimal.Decimal) WeightCostFunc {
	return func(weight decimal.Decimal) decimal.Decimal {
		return weight.Mul(rate)
	}
}

func names[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
