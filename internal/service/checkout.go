package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/sqlcart/internal/domain"
)

// Checkout moves the cart to its terminal checked-out state. A cart that no
// longer exists is returned unchanged. Empty carts are not rejected.
func (s *CartService) Checkout(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	checkedOut, err := s.repo.Checkout(ctx, cart.ID)
	if errors.Is(err, domain.ErrCartNotFound) {
		s.log.Debug("checkout of missing cart ignored", "cart_id", cart.ID)
		return cart, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.Checkout: %w", err)
	}

	s.log.Info("cart checked out", "cart_id", cart.ID, "owner_id", checkedOut.OwnerID)

	return checkedOut, nil
}
