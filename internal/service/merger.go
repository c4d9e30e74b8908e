package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
)

// DeleteOldCart deletes the open cart of ownerID with all its items. Having no
// open cart is not an error.
func (s *CartService) DeleteOldCart(ctx context.Context, ownerID string) error {
	deleted, err := s.repo.DeleteOpenCartByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		return fmt.Errorf("repo.DeleteOpenCartByOwner: %w", err)
	}

	if deleted {
		s.log.Info("old cart deleted", "owner_id", ownerID)
	}

	return nil
}

// Replace makes cartID the open cart of newOwner. Any other open cart of
// newOwner is deleted with its items: the replacing cart wins.
func (s *CartService) Replace(ctx context.Context, cartID uuid.UUID, newOwner string) (domain.Cart, error) {
	cart, err := s.repo.ReplaceOwner(ctx, cartID, newOwner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.ReplaceOwner: %w", err)
	}

	s.log.Info("cart replaced", "cart_id", cartID, "owner_id", newOwner)

	return cart, nil
}

// LastCart returns the open cart of ownerID, binding current to it when it has none.
// Unlike Replace nothing is deleted. A current cart owned by someone else, or no
// longer open, is never claimed: ownerID gets a cart of its own instead.
func (s *CartService) LastCart(ctx context.Context, current domain.Cart, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, domain.ErrUserNotFound
	}

	if current.IsAnonymous() || current.OwnerID == ownerID {
		cart, err := s.repo.ClaimCart(ctx, current.ID, ownerID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domain.ErrCartNotFound) {
			return domain.Cart{}, fmt.Errorf("repo.ClaimCart: %w", err)
		}
	} else {
		s.log.Warn("refusing to claim a cart owned by another user", "cart_id", current.ID, "owner_id", ownerID)
	}

	cart, err := s.repo.CreateCart(ctx, ownerID, s.cfg.Currency)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.CreateCart: %w", err)
	}

	return cart, nil
}

// MergeOnLogin reconciles the session cart with userID when the session
// authenticates. A non-empty anonymous session cart replaces the user's open
// cart; otherwise the user's cart is resolved and bound to the session.
func (s *CartService) MergeOnLogin(ctx context.Context, sessionToken, userID string) (Resolution, error) {
	if userID == "" {
		return Resolution{}, domain.ErrUserNotFound
	}

	if anon, ok := s.sessionCart(ctx, sessionToken); ok && (anon.IsAnonymous() || anon.OwnerID == userID) {
		counts, err := s.repo.CountItems(ctx, anon.ID)
		if err != nil {
			return Resolution{}, fmt.Errorf("repo.CountItems: %w", err)
		}

		if !counts.IsEmpty() {
			cart, err := s.Replace(ctx, anon.ID, userID)
			if err == nil {
				return Resolution{Cart: cart, SessionToken: sessionToken}, nil
			}
			if !errors.Is(err, domain.ErrCartNotFound) {
				return Resolution{}, err
			}
		}
	}

	res, err := s.Resolve(ctx, domain.AuthenticatedUser(userID, sessionToken))
	if err != nil {
		return Resolution{}, err
	}

	if res.SessionToken == "" {
		res.SessionToken = s.sessions.NewToken()
	}
	if err := s.sessions.Bind(ctx, res.SessionToken, res.Cart.ID); err != nil {
		return Resolution{}, fmt.Errorf("sessions.Bind: %w", err)
	}

	return res, nil
}

func (s *CartService) sessionCart(ctx context.Context, token string) (domain.Cart, bool) {
	if token == "" {
		return domain.Cart{}, false
	}

	cartID, err := s.sessions.Lookup(ctx, token)
	if err == nil {
		var cart domain.Cart
		cart, err = s.repo.GetOpenCart(ctx, cartID)
		if err == nil {
			return cart, true
		}
	}

	if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrCartNotFound) {
		s.log.Warn("session cart lookup failed", "session_token", token, "error", err)
	}

	return domain.Cart{}, false
}
