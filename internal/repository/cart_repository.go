package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sqlcart/internal/db"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// price_amount is numeric(12, 2)
const priceScale = 2

var maxPrice = decimal.New(1, 10)

type cartRepository struct {
	txScope
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		txScope{q: db.New(pool), pool: pool},
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		txScope{q: db.New(tx), pool: nil}, // use provided transaction instead
	}
}

func (r *cartRepository) GetOpenCartByOwner(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	row, err := r.q.GetOpenCartByOwner(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetOpenCartByOwner: %w", cartErr(err))
	}

	return mapCartToDomain(row)
}

func (r *cartRepository) GetOpenCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error) {
	row, err := r.q.GetOpenCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetOpenCart: %w", cartErr(err))
	}

	return mapCartToDomain(row)
}

func (r *cartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error) {
	row, err := r.q.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", cartErr(err))
	}

	cart, err := mapCartToDomain(row)
	if err != nil {
		return domain.Cart{}, err
	}

	dbItems, err := r.q.ListItems(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.ListItems: %w", err)
	}

	cart.Items, err = mapItemsToDomain(dbItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapItemsToDomain: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, ownerID string, cur currency.Unit) (domain.Cart, error) {
	if ownerID == "" {
		row, err := r.q.CreateCart(ctx, db.CreateCartParams{Currency: cur.String()})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.CreateCart: %w", err)
		}

		return mapCartToDomain(row)
	}

	row, err := inTx(ctx, r.txScope, func(q *db.Queries) (db.Cart, error) {
		created, err := q.CreateOwnedCartIfAbsent(ctx, db.CreateOwnedCartIfAbsentParams{
			OwnerID:  ownerID,
			Currency: cur.String(),
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return db.Cart{}, fmt.Errorf("q.CreateOwnedCartIfAbsent: %w", err)
		}

		// lost the race to a concurrent request, read its cart
		existing, err := q.GetOpenCartByOwner(ctx, ownerID)
		if err != nil {
			return db.Cart{}, fmt.Errorf("q.GetOpenCartByOwner: %w", cartErr(err))
		}

		return existing, nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return mapCartToDomain(row)
}

func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, price domain.Money, quantity int) (domain.CartItem, error) {
	if err := validateItem(product, quantity); err != nil {
		return domain.CartItem{}, err
	}
	if err := validatePrice(price); err != nil {
		return domain.CartItem{}, err
	}

	row, err := r.q.UpsertItem(ctx, db.UpsertItemParams{
		CartID:        cartID,
		ProductKind:   product.Kind,
		ProductID:     product.ID,
		PriceAmount:   price.Amount,
		PriceCurrency: price.Currency.String(),
		Quantity:      int32(quantity),
	})
	if isOutOfRange(err) {
		// the aggregated quantity no longer fits the quantity column
		return domain.CartItem{}, fmt.Errorf("q.UpsertItem: %w", domain.ErrInvalidQuantity)
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.UpsertItem: %w", err)
	}

	return mapItemToDomain(row)
}

func (r *cartRepository) UpdateItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, quantity int, price *domain.Money) (domain.CartItem, error) {
	if err := validateItem(product, quantity); err != nil {
		return domain.CartItem{}, err
	}

	params := db.SetItemQuantityByProductParams{
		Quantity:    int32(quantity),
		CartID:      cartID,
		ProductKind: product.Kind,
		ProductID:   product.ID,
	}
	if price != nil {
		if err := validatePrice(*price); err != nil {
			return domain.CartItem{}, err
		}
		params.PriceAmount = &price.Amount
	}

	row, err := r.q.SetItemQuantityByProduct(ctx, params)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.SetItemQuantityByProduct: %w", itemErr(err))
	}

	return mapItemToDomain(row)
}

func (r *cartRepository) UpdateItemByID(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (domain.CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}

	row, err := r.q.SetItemQuantity(ctx, db.SetItemQuantityParams{
		Quantity: int32(quantity),
		CartID:   cartID,
		ID:       itemID,
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.SetItemQuantity: %w", itemErr(err))
	}

	return mapItemToDomain(row)
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (domain.CartItem, error) {
	row, err := r.q.GetItem(ctx, db.GetItemParams{CartID: cartID, ID: itemID})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.GetItem: %w", itemErr(err))
	}

	return mapItemToDomain(row)
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{CartID: cartID, ID: itemID})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	rowsAffected, err := r.q.DeleteItems(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("q.DeleteItems: %w", err)
	}

	return rowsAffected, nil
}

func (r *cartRepository) CountItems(ctx context.Context, cartID uuid.UUID) (domain.CartCounts, error) {
	row, err := r.q.CountItems(ctx, cartID)
	if err != nil {
		return domain.CartCounts{}, fmt.Errorf("q.CountItems: %w", err)
	}

	return domain.CartCounts{Quantity: row.TotalQuantity, Unique: row.UniqueCount}, nil
}

func (r *cartRepository) DeleteOpenCartByOwner(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteOpenCartByOwner(ctx, db.DeleteOpenCartByOwnerParams{
		OwnerID: ownerID,
		KeepID:  uuid.Nil,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteOpenCartByOwner: %w", err)
	}

	return rowsAffected > 0, nil
}

// ReplaceOwner deletes every other open cart of ownerID and assigns cartID to it.
// Nothing is deleted when cartID does not exist.
func (r *cartRepository) ReplaceOwner(ctx context.Context, cartID uuid.UUID, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	row, err := inTx(ctx, r.txScope, func(q *db.Queries) (db.Cart, error) {
		_, err := q.DeleteOpenCartByOwner(ctx, db.DeleteOpenCartByOwnerParams{
			OwnerID: ownerID,
			KeepID:  cartID,
		})
		if err != nil {
			return db.Cart{}, fmt.Errorf("q.DeleteOpenCartByOwner: %w", err)
		}

		updated, err := q.SetCartOwner(ctx, db.SetCartOwnerParams{OwnerID: ownerID, ID: cartID})
		if err != nil {
			return db.Cart{}, fmt.Errorf("q.SetCartOwner: %w", cartErr(err))
		}

		return updated, nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return mapCartToDomain(row)
}

// ClaimCart returns the open cart of ownerID, assigning cartID to it when it has none.
// Only an open cart that is anonymous or already owned by ownerID can be claimed;
// any other cartID is reported as ErrCartNotFound.
func (r *cartRepository) ClaimCart(ctx context.Context, cartID uuid.UUID, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	row, err := inTx(ctx, r.txScope, func(q *db.Queries) (db.Cart, error) {
		existing, err := q.GetOpenCartByOwner(ctx, ownerID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return db.Cart{}, fmt.Errorf("q.GetOpenCartByOwner: %w", err)
		}

		claimed, err := q.ClaimCart(ctx, db.ClaimCartParams{OwnerID: ownerID, ID: cartID})
		if err != nil {
			return db.Cart{}, fmt.Errorf("q.ClaimCart: %w", cartErr(err))
		}

		return claimed, nil
	})
	if isUniqueViolation(err) {
		// a concurrent request bound another open cart to ownerID first
		return r.GetOpenCartByOwner(ctx, ownerID)
	}
	if err != nil {
		return domain.Cart{}, err
	}

	return mapCartToDomain(row)
}

// Checkout marks the cart checked out and records a checkout event in the outbox
// within the same transaction. Checking out a checked-out cart changes nothing.
func (r *cartRepository) Checkout(ctx context.Context, cartID uuid.UUID) (domain.Cart, error) {
	return inTx(ctx, r.txScope, func(q *db.Queries) (domain.Cart, error) {
		row, err := q.CheckoutCart(ctx, cartID)
		if errors.Is(err, pgx.ErrNoRows) {
			current, getErr := q.GetCart(ctx, cartID)
			if getErr != nil {
				return domain.Cart{}, fmt.Errorf("q.GetCart: %w", cartErr(getErr))
			}
			return mapCartToDomain(current)
		}
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.CheckoutCart: %w", err)
		}

		cart, err := mapCartToDomain(row)
		if err != nil {
			return domain.Cart{}, err
		}

		dbItems, err := q.ListItems(ctx, cartID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.ListItems: %w", err)
		}

		cart.Items, err = mapItemsToDomain(dbItems)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapItemsToDomain: %w", err)
		}

		payload, err := checkedOutPayload(cart, row.UpdatedAt)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("checkedOutPayload: %w", err)
		}

		err = q.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
			EventID: uuid.New(),
			Topic:   domain.TopicCartCheckedOut,
			Key:     cartID.String(),
			Payload: payload,
		})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.InsertOutboxEvent: %w", err)
		}

		return cart, nil
	})
}

func checkedOutPayload(cart domain.Cart, at time.Time) ([]byte, error) {
	total, err := cart.Total()
	if err != nil {
		return nil, fmt.Errorf("cart.Total: %w", err)
	}

	counts := cart.Counts()

	return json.Marshal(domain.CartCheckedOut{
		CartID:       cart.ID,
		OwnerID:      cart.OwnerID,
		Currency:     cart.Currency.String(),
		Total:        total.Amount,
		Count:        counts.Quantity,
		UniqueCount:  counts.Unique,
		CheckedOutAt: at,
	})
}

func validateItem(product domain.ProductRef, quantity int) error {
	if !product.Valid() {
		return domain.ErrInvalidProduct
	}
	return validateQuantity(quantity)
}

// validateQuantity keeps quantities within the int32 quantity column.
func validateQuantity(quantity int) error {
	if quantity < 1 || int64(quantity) > math.MaxInt32 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// validatePrice rejects amounts the numeric(12, 2) column would round or refuse.
func validatePrice(price domain.Money) error {
	if price.Amount.IsNegative() {
		return fmt.Errorf("%w: %s is negative", domain.ErrInvalidPrice, price.Amount)
	}
	if !price.Amount.Equal(price.Amount.Round(priceScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", domain.ErrInvalidPrice, price.Amount, priceScale)
	}
	if price.Amount.Abs().GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: %s is too large", domain.ErrInvalidPrice, price.Amount)
	}
	return nil
}

func cartErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCartNotFound
	}
	return err
}

func itemErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrItemNotFound
	}
	return err
}

func mapCartToDomain(row db.Cart) (domain.Cart, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	cart := domain.Cart{
		ID:         row.ID,
		Currency:   parsedCurrency,
		CheckedOut: row.CheckedOut,
		CreatedAt:  row.CreatedAt,
	}
	if row.OwnerID != nil {
		cart.OwnerID = *row.OwnerID
	}

	return cart, nil
}

func mapItemToDomain(row db.CartItem) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ID:        row.ID,
		Product:   domain.ProductRef{Kind: row.ProductKind, ID: row.ProductID},
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapItemsToDomain(rows []db.CartItem) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapItemToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
