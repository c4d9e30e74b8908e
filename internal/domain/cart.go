package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Cart struct {
	ID         uuid.UUID
	OwnerID    string // empty while the cart is anonymous
	Currency   currency.Unit
	CheckedOut bool
	Items      []CartItem

	CreatedAt time.Time
}

type CartItem struct {
	ID       uuid.UUID
	Product  ProductRef
	Price    Money // unit price, fixed when the item is first added
	Quantity int

	CreatedAt time.Time
}

// ProductRef identifies a catalog entity by kind and id without depending on its concrete type.
type ProductRef struct {
	Kind string
	ID   string
}

func (p ProductRef) Valid() bool {
	return p.Kind != "" && p.ID != ""
}

func (p ProductRef) String() string {
	return p.Kind + "/" + p.ID
}

type CartCounts struct {
	Quantity int64
	Unique   int64
}

func (c Cart) IsAnonymous() bool {
	return c.OwnerID == ""
}

func (i CartItem) TotalPrice() Money {
	return i.Price.Mul(i.Quantity)
}

// Total sums the total price of every item. An empty cart totals to zero in the cart currency.
func (c Cart) Total() (Money, error) {
	total := ZeroMoney(c.Currency)

	for _, item := range c.Items {
		var err error

		total, err = total.Add(item.TotalPrice())
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

func (c Cart) Counts() CartCounts {
	var counts CartCounts

	for _, item := range c.Items {
		counts.Quantity += int64(item.Quantity)
		counts.Unique++
	}

	return counts
}

func (c CartCounts) IsEmpty() bool {
	return c.Unique == 0
}
