package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/service"
)

// Amounts are rendered as decimal strings so no precision is lost in JSON.

type ItemView struct {
	ID          uuid.UUID `json:"id"`
	ProductKind string    `json:"product_kind"`
	ProductID   string    `json:"product_id"`
	UnitPrice   string    `json:"unit_price"`
	Currency    string    `json:"currency"`
	Quantity    int       `json:"quantity"`
	TotalPrice  string    `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}

type CartView struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        string     `json:"owner_id,omitempty"`
	Currency       string     `json:"currency"`
	CheckedOut     bool       `json:"checked_out"`
	Items          []ItemView `json:"items"`
	Total          string     `json:"total"`
	Shipping       string     `json:"shipping"`
	TotalInclusive string     `json:"total_inclusive"`
	Count          int64      `json:"count"`
	UniqueCount    int64      `json:"unique_count"`
	IsEmpty        bool       `json:"is_empty"`
}

func toItemView(item domain.CartItem) ItemView {
	return ItemView{
		ID:          item.ID,
		ProductKind: item.Product.Kind,
		ProductID:   item.Product.ID,
		UnitPrice:   item.Price.Amount.StringFixed(2),
		Currency:    item.Price.Currency.String(),
		Quantity:    item.Quantity,
		TotalPrice:  item.TotalPrice().Amount.StringFixed(2),
		CreatedAt:   item.CreatedAt,
	}
}

func toCartView(s service.Summary) CartView {
	items := make([]ItemView, 0, len(s.Cart.Items))
	for _, item := range s.Cart.Items {
		items = append(items, toItemView(item))
	}

	return CartView{
		ID:             s.Cart.ID,
		OwnerID:        s.Cart.OwnerID,
		Currency:       s.Cart.Currency.String(),
		CheckedOut:     s.Cart.CheckedOut,
		Items:          items,
		Total:          s.Total.Amount.StringFixed(2),
		Shipping:       s.Shipping.Amount.StringFixed(2),
		TotalInclusive: s.TotalInclusive.Amount.StringFixed(2),
		Count:          s.Counts.Quantity,
		UniqueCount:    s.Counts.Unique,
		IsEmpty:        s.Counts.IsEmpty(),
	}
}
