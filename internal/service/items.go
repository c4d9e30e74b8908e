package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
)

// Add increments the quantity of the cart item for product, creating it at
// unitPrice when the cart has none. The price of an existing item is kept.
func (s *CartService) Add(ctx context.Context, cart domain.Cart, product domain.ProductRef, unitPrice domain.Money, quantity int) (domain.CartItem, error) {
	if err := s.checkCurrency(cart, unitPrice); err != nil {
		return domain.CartItem{}, err
	}

	item, err := s.repo.AddItem(ctx, cart.ID, product, unitPrice, quantity)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("repo.AddItem: %w", err)
	}

	return item, nil
}

// Update sets the quantity of the item for product, and its unit price when given.
func (s *CartService) Update(ctx context.Context, cart domain.Cart, product domain.ProductRef, quantity int, unitPrice *domain.Money) (domain.CartItem, error) {
	if unitPrice != nil {
		if err := s.checkCurrency(cart, *unitPrice); err != nil {
			return domain.CartItem{}, err
		}
	}

	item, err := s.repo.UpdateItem(ctx, cart.ID, product, quantity, unitPrice)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("repo.UpdateItem: %w", err)
	}

	return item, nil
}

// UpdateItem sets the quantity of an item by id. Items of other carts are not found.
func (s *CartService) UpdateItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID, quantity int) (domain.CartItem, error) {
	item, err := s.repo.UpdateItemByID(ctx, cart.ID, itemID, quantity)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("repo.UpdateItemByID: %w", err)
	}

	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID) error {
	deleted, err := s.repo.DeleteItem(ctx, cart.ID, itemID)
	if err != nil {
		return fmt.Errorf("repo.DeleteItem: %w", err)
	}
	if !deleted {
		return domain.ErrItemNotFound
	}

	return nil
}

func (s *CartService) Clear(ctx context.Context, cart domain.Cart) error {
	deleted, err := s.repo.ClearItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("repo.ClearItems: %w", err)
	}

	s.log.Debug("cart cleared", "cart_id", cart.ID, "deleted", deleted)

	return nil
}

func (s *CartService) GetItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID) (domain.CartItem, error) {
	item, err := s.repo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("repo.GetItem: %w", err)
	}

	return item, nil
}

// Items returns the committed items of the cart in insertion order.
func (s *CartService) Items(ctx context.Context, cart domain.Cart) ([]domain.CartItem, error) {
	loaded, err := s.load(ctx, cart)
	if err != nil {
		return nil, err
	}

	return loaded.Items, nil
}

func (s *CartService) load(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	loaded, err := s.repo.GetCart(ctx, cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.GetCart: %w", err)
	}

	return loaded, nil
}

func (s *CartService) checkCurrency(cart domain.Cart, price domain.Money) error {
	if price.Currency != cart.Currency {
		return fmt.Errorf("%w: cart is in %s, price in %s", domain.ErrCurrencyMismatch, cart.Currency, price.Currency)
	}
	return nil
}
