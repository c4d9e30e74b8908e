package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TopicCartCheckedOut = "cart.checked_out"

type OutboxEvent struct {
	ID      int64
	EventID uuid.UUID
	Topic   string
	Key     string
	Payload []byte

	CreatedAt time.Time
}

// CartCheckedOut is the payload of TopicCartCheckedOut events.
type CartCheckedOut struct {
	CartID       uuid.UUID       `json:"cart_id"`
	OwnerID      string          `json:"owner_id,omitempty"`
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	UniqueCount  int64           `json:"unique_count"`
	CheckedOutAt time.Time       `json:"checked_out_at"`
}
