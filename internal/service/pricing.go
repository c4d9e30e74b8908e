package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/sqlcart/internal/domain"
)

// Summary is a read-only projection of a cart with its derived totals.
type Summary struct {
	Cart           domain.Cart
	Total          domain.Money
	Shipping       domain.Money
	TotalInclusive domain.Money
	Counts         domain.CartCounts
}

func (s *CartService) Total(ctx context.Context, cart domain.Cart) (domain.Money, error) {
	loaded, err := s.load(ctx, cart)
	if err != nil {
		return domain.Money{}, err
	}

	total, err := loaded.Total()
	if err != nil {
		return domain.Money{}, fmt.Errorf("cart.Total: %w", err)
	}

	return total, nil
}

// ShippingTotal prices the cart items with the configured shipping function.
func (s *CartService) ShippingTotal(ctx context.Context, cart domain.Cart) (domain.Money, error) {
	loaded, err := s.load(ctx, cart)
	if err != nil {
		return domain.Money{}, err
	}

	return s.shippingOf(loaded)
}

func (s *CartService) TotalInclusive(ctx context.Context, cart domain.Cart) (domain.Money, error) {
	summary, err := s.Summarize(ctx, cart)
	if err != nil {
		return domain.Money{}, err
	}

	return summary.TotalInclusive, nil
}

// Summarize loads the cart once and derives every total and count from it.
func (s *CartService) Summarize(ctx context.Context, cart domain.Cart) (Summary, error) {
	loaded, err := s.load(ctx, cart)
	if err != nil {
		return Summary{}, err
	}

	total, err := loaded.Total()
	if err != nil {
		return Summary{}, fmt.Errorf("cart.Total: %w", err)
	}

	shippingCost, err := s.shippingOf(loaded)
	if err != nil {
		return Summary{}, err
	}

	inclusive, err := total.Add(shippingCost)
	if err != nil {
		return Summary{}, fmt.Errorf("total.Add: %w", err)
	}

	return Summary{
		Cart:           loaded,
		Total:          total,
		Shipping:       shippingCost,
		TotalInclusive: inclusive,
		Counts:         loaded.Counts(),
	}, nil
}

func (s *CartService) shippingOf(cart domain.Cart) (domain.Money, error) {
	amount, err := s.cfg.Shipping(cart.Items, s.cfg.WeightCost)
	if err != nil {
		return domain.Money{}, fmt.Errorf("shipping: %w", err)
	}

	return domain.Money{Amount: amount, Currency: cart.Currency}, nil
}

// Count is the sum of item quantities.
func (s *CartService) Count(ctx context.Context, cart domain.Cart) (int64, error) {
	counts, err := s.counts(ctx, cart)
	return counts.Quantity, err
}

// UniqueCount is the number of distinct items regardless of their quantities.
func (s *CartService) UniqueCount(ctx context.Context, cart domain.Cart) (int64, error) {
	counts, err := s.counts(ctx, cart)
	return counts.Unique, err
}

func (s *CartService) IsEmpty(ctx context.Context, cart domain.Cart) (bool, error) {
	counts, err := s.counts(ctx, cart)
	if err != nil {
		return false, err
	}
	return counts.IsEmpty(), nil
}

func (s *CartService) counts(ctx context.Context, cart domain.Cart) (domain.CartCounts, error) {
	counts, err := s.repo.CountItems(ctx, cart.ID)
	if err != nil {
		return domain.CartCounts{}, fmt.Errorf("repo.CountItems: %w", err)
	}
	return counts, nil
}
