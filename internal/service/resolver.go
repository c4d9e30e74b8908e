package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
)

var errNoIdentity = errors.New("no identity to look up")

// Resolution is a resolved cart together with the session token now bound to it.
// The caller persists SessionToken back into its session transport.
type Resolution struct {
	Cart         domain.Cart
	SessionToken string
}

// Resolve returns the open cart of the identity, creating one when none is found.
// Lookup failures never reach the caller; only a failed creation does.
func (s *CartService) Resolve(ctx context.Context, id domain.Identity) (Resolution, error) {
	return s.resolve(ctx, id, uuid.Nil)
}

// ResolveWithCart behaves like Resolve but falls back to the committed state of
// the supplied cart instead of creating a new one.
func (s *CartService) ResolveWithCart(ctx context.Context, id domain.Identity, cartID uuid.UUID) (Resolution, error) {
	return s.resolve(ctx, id, cartID)
}

func (s *CartService) resolve(ctx context.Context, id domain.Identity, supplied uuid.UUID) (Resolution, error) {
	log := s.log.With("identity", id.Kind.String(), "user_id", id.UserID, "session_token", id.SessionToken)

	cart, err := s.lookup(ctx, id)
	switch {
	case err == nil:
		return Resolution{Cart: cart, SessionToken: id.SessionToken}, nil
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, errNoIdentity):
		log.Debug("no open cart found")
	default:
		log.Warn("cart lookup failed, falling back", "error", err)
	}

	if supplied != uuid.Nil {
		cart, err := s.repo.GetCart(ctx, supplied)
		if err == nil {
			return Resolution{Cart: cart, SessionToken: id.SessionToken}, nil
		}
		log.Warn("supplied cart is gone, creating a new one", "cart_id", supplied, "error", err)
	}

	return s.create(ctx, id)
}

func (s *CartService) lookup(ctx context.Context, id domain.Identity) (domain.Cart, error) {
	switch id.Kind {
	case domain.IdentityUser:
		return s.repo.GetOpenCartByOwner(ctx, id.UserID)
	case domain.IdentitySession:
		cartID, err := s.sessions.Lookup(ctx, id.SessionToken)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("sessions.Lookup: %w", err)
		}
		return s.repo.GetOpenCart(ctx, cartID)
	default:
		return domain.Cart{}, errNoIdentity
	}
}

func (s *CartService) create(ctx context.Context, id domain.Identity) (Resolution, error) {
	var ownerID string
	if id.Kind == domain.IdentityUser {
		ownerID = id.UserID
	}

	cart, err := s.repo.CreateCart(ctx, ownerID, s.cfg.Currency)
	if err != nil {
		return Resolution{}, fmt.Errorf("repo.CreateCart: %w", err)
	}

	token := id.SessionToken
	if token == "" {
		token = s.sessions.NewToken()
	}

	if err := s.sessions.Bind(ctx, token, cart.ID); err != nil {
		// an anonymous cart is unreachable without its token
		if cart.IsAnonymous() {
			return Resolution{}, fmt.Errorf("sessions.Bind: %w", err)
		}
		s.log.Warn("binding session to owned cart failed", "cart_id", cart.ID, "error", err)
	}

	s.log.Info("cart created", "cart_id", cart.ID, "owner_id", cart.OwnerID, "session_token", token)

	return Resolution{Cart: cart, SessionToken: token}, nil
}
