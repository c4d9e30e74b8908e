package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"golang.org/x/text/currency"
)

type CartRepository interface {
	GetOpenCartByOwner(ctx context.Context, ownerID string) (domain.Cart, error)
	GetOpenCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error)
	// GetCart returns the cart with its items regardless of checkout state.
	GetCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error)
	// CreateCart returns the existing open cart instead when ownerID already owns one.
	CreateCart(ctx context.Context, ownerID string, cur currency.Unit) (domain.Cart, error)

	AddItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, price domain.Money, quantity int) (domain.CartItem, error)
	UpdateItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, quantity int, price *domain.Money) (domain.CartItem, error)
	UpdateItemByID(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (domain.CartItem, error)
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
	CountItems(ctx context.Context, cartID uuid.UUID) (domain.CartCounts, error)

	DeleteOpenCartByOwner(ctx context.Context, ownerID string) (bool, error)
	ReplaceOwner(ctx context.Context, cartID uuid.UUID, ownerID string) (domain.Cart, error)
	ClaimCart(ctx context.Context, cartID uuid.UUID, ownerID string) (domain.Cart, error)
	Checkout(ctx context.Context, cartID uuid.UUID) (domain.Cart, error)
}

type SessionStore interface {
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Bind(ctx context.Context, token string, cartID uuid.UUID) error
	NewToken() string
}
